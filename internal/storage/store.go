// Package storage persists run metadata and sampled metrics to disk, for
// the headless / scripted CLI mode. Live simulation state itself is never
// persisted — only a run's configuration and a derived time series of the
// snapshots it produced.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/harddisk-md/internal/collision"
	"github.com/san-kum/harddisk-md/internal/config"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the run-level record: the effective configuration plus
// whatever aggregate metrics the caller chooses to attach (final average
// kinetic energy, total collisions, packing factor, ...).
type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Radius    float64            `json:"radius"`
	Spacing   float64            `json:"spacing"`
	Friction  float64            `json:"friction"`
	BoxSide   float64            `json:"box_side"`
	WallSpeed float64            `json:"wall_speed"`
	Hz        float64            `json:"hz"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and snapshots.csv (one row per recorded
// snapshot) for one run, timestamped by wall-clock now.
func (s *Store) Save(cfg *config.Config, samples []collision.Snapshot, metrics map[string]float64, now time.Time) (string, error) {
	runID := fmt.Sprintf("run_%d", now.Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Seed:      cfg.Seed,
		Radius:    cfg.Radius,
		Spacing:   cfg.Spacing,
		Friction:  cfg.Friction,
		BoxSide:   cfg.BoxSide,
		WallSpeed: cfg.WallSpeed,
		Hz:        cfg.Hz,
		Metrics:   metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, "config.yaml"), cfg); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "snapshots.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "side", "wall_speed", "particles", "collisions_total", "avg_kinetic_energy", "queue_size"}); err != nil {
		return "", err
	}

	for _, snap := range samples {
		row := []string{
			strconv.FormatFloat(snap.Time, 'f', 6, 64),
			strconv.FormatFloat(snap.Side, 'f', 6, 64),
			strconv.FormatFloat(snap.WallSpeed, 'f', 6, 64),
			strconv.Itoa(len(snap.Particles)),
			strconv.Itoa(snap.CollisionsTotal),
			strconv.FormatFloat(snap.AvgKineticEnergy, 'f', 6, 64),
			strconv.Itoa(snap.QueueSize),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

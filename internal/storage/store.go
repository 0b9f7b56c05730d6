package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/render"
)

const (
	metadataFile = "metadata.json"
	profileFile  = "profile.csv"
	configFile   = "config.yaml"
	frameFile    = "final.png"
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Solver    string             `json:"solver"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	ScreenRow int                `json:"screen_row"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Diverged  bool               `json:"diverged"`
	Metrics   map[string]float64 `json:"metrics"`
	Analysis  analysis.Summary   `json:"analysis"`
}

// Run is everything written for one headless run. Frame may be nil.
type Run struct {
	Meta    RunMetadata
	Config  *config.Config
	Profile []float64
	Frame   image.Image
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func (s *Store) FramePath(runID string) string {
	return filepath.Join(s.Dir(runID), frameFile)
}

// Save writes a run directory and returns its ID.
func (s *Store) Save(run *Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Meta.Solver, now.UnixMilli())
	for n := 1; ; n++ {
		if _, err := os.Stat(s.Dir(runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", run.Meta.Solver, now.UnixMilli(), n)
	}
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := run.Meta
	meta.ID = runID
	meta.Timestamp = now

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if run.Config != nil {
		if err := config.Save(filepath.Join(runDir, configFile), run.Config); err != nil {
			return "", err
		}
	}
	if err := writeProfile(filepath.Join(runDir, profileFile), run.Profile); err != nil {
		return "", err
	}
	if run.Frame != nil {
		if err := render.SavePNG(filepath.Join(runDir, frameFile), run.Frame); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeProfile(path string, profile []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"column", "intensity"}); err != nil {
		return err
	}
	for i, v := range profile {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(v, 'g', 10, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.Dir(runID), configFile))
}

func (s *Store) LoadProfile(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), profileFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []float64{}, nil
	}

	profile := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", profileFile, err)
		}
		profile = append(profile, v)
	}
	return profile, nil
}

package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Meta    RunMetadata `json:"meta"`
	Profile []float64   `json:"profile"`
}

// ExportJSON writes a run's metadata and profile as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	profile, err := s.LoadProfile(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Meta: *meta, Profile: profile})
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.ExportJSON(file, runID); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

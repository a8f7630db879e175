package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/rewired-gh/tradeoracle/internal/models"
)

// WriteJSON writes v as indented JSON to path, atomically.
func WriteJSON(path string, v any, filePermissions, dirPermissions os.FileMode) error {
	return writeJSONAtomic(path, v, filePermissions, dirPermissions)
}

func writeJSONAtomic(path string, v any, filePermissions, dirPermissions os.FileMode) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return writeAtomic(path, jsonData, filePermissions, dirPermissions)
}

// writeAtomic writes to a temporary file first and renames it over path.
func writeAtomic(path string, data []byte, filePermissions, dirPermissions os.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath) // Clean up temp file on rename failure
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// MomentumCSV renders momentum rows as CSV with a header line.
func MomentumCSV(rows []models.MomentumRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return nil, fmt.Errorf("failed to encode momentum rows: %w", err)
	}
	return buf.Bytes(), nil
}

// ModerateCSV renders moderate screening rows as CSV with a header line.
func ModerateCSV(rows []models.ModerateRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return nil, fmt.Errorf("failed to encode moderate rows: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadModerateCSV parses rows written by ModerateCSV.
func ReadModerateCSV(data []byte) ([]models.ModerateRow, error) {
	var rows []models.ModerateRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode moderate rows: %w", err)
	}
	return rows, nil
}

// ExportScreening writes a report's screening rows to dir as <kind>_<id>.csv and
// returns the path. Reports without rows write nothing and return "".
func ExportScreening(dir string, r *models.AnalysisReport, filePermissions, dirPermissions os.FileMode) (string, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case len(r.TopStocks) > 0:
		data, err = MomentumCSV(r.TopStocks)
	case len(r.ModerateStocks) > 0:
		data, err = ModerateCSV(r.ModerateStocks)
	default:
		return "", nil
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", r.Kind, r.ID))
	if err := writeAtomic(path, data, filePermissions, dirPermissions); err != nil {
		return "", err
	}
	return path, nil
}

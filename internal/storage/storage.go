// Package storage provides thread-safe in-memory storage of analysis reports with
// file-based persistence. Reports are rotated oldest-first once the configured
// limit is exceeded so the store never grows without bound.
//
// All writes are atomic: data goes to a temporary file that is then renamed over
// the target, so a crash never leaves a half-written snapshot behind.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rewired-gh/tradeoracle/internal/models"
)

// FormatVersion is written into every persistence file.
const FormatVersion = "1.0"

// Storage provides thread-safe in-memory storage with file-based persistence
type Storage struct {
	reports map[string]*models.AnalysisReport
	mu      sync.RWMutex

	// Configuration
	maxReports      int
	filePath        string
	filePermissions os.FileMode
	dirPermissions  os.FileMode

	// Stamp of the file as last loaded or saved, for Refresh.
	fileModTime time.Time
	fileSize    int64
}

// PersistenceFile represents the file structure for JSON persistence
type PersistenceFile struct {
	Version string                            `json:"version"`
	SavedAt time.Time                         `json:"saved_at"`
	Reports map[string]*models.AnalysisReport `json:"reports"`
}

// New creates a new Storage instance.
// If filePath is empty, uses OS-appropriate tmp directory
func New(maxReports int, filePath string, filePermissions, dirPermissions os.FileMode) *Storage {
	if filePath == "" {
		filePath = filepath.Join(os.TempDir(), "tradeoracle", "data.json")
	}

	return &Storage{
		reports:         make(map[string]*models.AnalysisReport),
		maxReports:      maxReports,
		filePath:        filePath,
		filePermissions: filePermissions,
		dirPermissions:  dirPermissions,
	}
}

// FilePath returns where Save writes.
func (s *Storage) FilePath() string { return s.filePath }

// AddReport stores a report, replacing any report with the same ID.
func (s *Storage) AddReport(report *models.AnalysisReport) error {
	if err := report.Validate(); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.ID] = report
	return nil
}

// GetReport retrieves a report by ID
func (s *Storage) GetReport(id string) (*models.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, exists := s.reports[id]
	if !exists {
		return nil, fmt.Errorf("report not found: %s", id)
	}
	return report, nil
}

// Latest returns the newest report of kind, or false when there is none.
func (s *Storage) Latest(kind models.ReportKind) (*models.AnalysisReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.AnalysisReport
	for _, r := range s.reports {
		if r.Kind != kind {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest, latest != nil
}

// List returns all reports, newest first.
func (s *Storage) List() []*models.AnalysisReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AnalysisReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Count returns how many reports are stored.
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// Save persists storage state to file
func (s *Storage) Save() error {
	s.mu.RLock()
	data := PersistenceFile{
		Version: FormatVersion,
		SavedAt: time.Now().UTC(),
		Reports: s.reports,
	}
	err := writeJSONAtomic(s.filePath, data, s.filePermissions, s.dirPermissions)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(s.filePath); statErr == nil {
		s.mu.Lock()
		s.fileModTime, s.fileSize = info.ModTime(), info.Size()
		s.mu.Unlock()
	}
	return nil
}

// Load restores storage state from file. A missing file leaves the store empty.
func (s *Storage) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clean up any stale temp files from previous crashes
	tempPath := s.filePath + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	info, err := os.Stat(s.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	return s.loadLocked(info)
}

// Refresh reloads the file when another process has rewritten it since the last
// Load or Save, replacing the in-memory reports. It reports whether a reload
// happened. A missing file leaves the store untouched.
func (s *Storage) Refresh() (bool, error) {
	info, err := os.Stat(s.filePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if info.ModTime().Equal(s.fileModTime) && info.Size() == s.fileSize {
		return false, nil
	}
	if err := s.loadLocked(info); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Storage) loadLocked(info os.FileInfo) error {
	jsonData, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data PersistenceFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if data.Version != "" && data.Version != FormatVersion {
		return fmt.Errorf("unsupported storage version %q", data.Version)
	}

	s.reports = data.Reports
	if s.reports == nil {
		s.reports = make(map[string]*models.AnalysisReport)
	}
	s.fileModTime, s.fileSize = info.ModTime(), info.Size()
	return nil
}

// RotateReports removes the oldest reports once the store exceeds its limit.
// It returns how many were removed.
func (s *Storage) RotateReports() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.reports) <= s.maxReports {
		return 0
	}

	type reportWithTime struct {
		id        string
		createdAt time.Time
	}

	list := make([]reportWithTime, 0, len(s.reports))
	for id, r := range s.reports {
		list = append(list, reportWithTime{id: id, createdAt: r.CreatedAt})
	}

	// Sort by creation time (oldest first)
	sort.Slice(list, func(i, j int) bool {
		return list[i].createdAt.Before(list[j].createdAt)
	})

	toRemove := len(s.reports) - s.maxReports
	for i := 0; i < toRemove; i++ {
		delete(s.reports, list[i].id)
	}
	return toRemove
}

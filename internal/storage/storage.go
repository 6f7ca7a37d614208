package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"wedding-attendees/internal/models"
)

// Snapshot is the last record list successfully loaded for a page
type Snapshot struct {
	PageID    string                  `json:"page_id"`
	FetchedAt time.Time               `json:"fetched_at"`
	Records   []models.AttendeeRecord `json:"records"`
}

type Storage struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
	file      string
}

// NewStorage creates a new storage instance
func NewStorage(filePath string) (*Storage, error) {
	s := &Storage{
		snapshots: make(map[string]Snapshot),
		file:      filePath,
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("failed to load storage: %w", err)
		}
	}

	return s, nil
}

// SaveSnapshot replaces the stored record list for a page
func (s *Storage) SaveSnapshot(pageID string, records []models.AttendeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.AttendeeRecord, len(records))
	copy(copied, records)
	s.snapshots[pageID] = Snapshot{
		PageID:    pageID,
		FetchedAt: time.Now().UTC(),
		Records:   copied,
	}
	return s.save()
}

// GetSnapshot retrieves the stored snapshot for a page
func (s *Storage) GetSnapshot(pageID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[pageID]
	if !ok {
		return nil, fmt.Errorf("no snapshot for page %q", pageID)
	}
	snap.Records = append([]models.AttendeeRecord(nil), snap.Records...)
	return &snap, nil
}

// PageIDs returns every page with a stored snapshot, sorted
func (s *Storage) PageIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// save writes the snapshots to file; callers hold the lock
func (s *Storage) save() error {
	list := make([]Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		list = append(list, snap)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PageID < list[j].PageID })

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// personal data: owner only
	return os.WriteFile(s.file, data, 0600)
}

// Load loads snapshots from file
func (s *Storage) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	s.snapshots = make(map[string]Snapshot)
	if len(data) == 0 {
		return nil
	}

	var list []Snapshot
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	for _, snap := range list {
		s.snapshots[snap.PageID] = snap
	}

	return nil
}

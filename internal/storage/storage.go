package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const snapshotFile = "snapshot.json"

// Storage handles persistence of tournament snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating dataDir when needed
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshot loads the snapshot from disk. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot() (*Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Tournaments == nil {
		snapshot.Tournaments = make(map[string]*tournament.Tournament)
	}

	return &snapshot, nil
}

// SaveSnapshot writes the snapshot to disk, stamping UpdatedAt
func (s *Storage) SaveSnapshot(snapshot *Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// Write then rename; readers never see a partial file
	tmp := s.snapshotPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.snapshotPath()); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// SaveTournaments creates and saves a snapshot from a list of tournaments
func (s *Storage) SaveTournaments(tournaments []*tournament.Tournament) error {
	return s.SaveSnapshot(CreateSnapshot(tournaments, time.Now().UTC().Format(time.RFC3339)))
}

// GetTournament retrieves a tournament by URL from the snapshot
func (s *Storage) GetTournament(url string) (*tournament.Tournament, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if t, exists := snapshot.Tournaments[url]; exists {
		return t, nil
	}

	return nil, fmt.Errorf("tournament not found: %s", url)
}

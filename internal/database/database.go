package database

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when no tournament is archived under a URL
var ErrNotFound = errors.New("tournament not found")

// Store reads and writes archived tournaments
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL using a DSN or postgres:// URL
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return New(db), nil
}

// New wraps an existing gorm connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the tables
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&TournamentRecord{}, &MatchRecord{}); err != nil {
		return fmt.Errorf("migrating tables: %w", err)
	}
	return nil
}

// SaveTournament inserts or replaces a tournament and its matches
func (s *Store) SaveTournament(t *tournament.Tournament) error {
	rec, err := toRecord(t)
	if err != nil {
		return err
	}
	matches := rec.Matches
	rec.Matches = nil

	err = s.db.Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			UpdateAll: true,
		})
		if err := upsert.Create(rec).Error; err != nil {
			return fmt.Errorf("saving tournament: %w", err)
		}

		// RETURNING is not guaranteed on the update path; read the id back
		if err := tx.Model(&TournamentRecord{}).Select("id").Where("url = ?", rec.URL).Scan(&rec.ID).Error; err != nil {
			return fmt.Errorf("reading tournament id: %w", err)
		}

		if err := tx.Where("tournament_id = ?", rec.ID).Delete(&MatchRecord{}).Error; err != nil {
			return fmt.Errorf("clearing matches: %w", err)
		}
		if len(matches) == 0 {
			return nil
		}
		for i := range matches {
			matches[i].TournamentID = rec.ID
		}
		if err := tx.CreateInBatches(matches, 100).Error; err != nil {
			return fmt.Errorf("saving matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archiving %s: %w", t.URL, err)
	}

	logger.Debug("archived tournament", logger.Fields{"url": t.URL, "matches": len(matches)})
	return nil
}

// SaveTournaments archives every tournament, stopping at the first failure
func (s *Store) SaveTournaments(tournaments []*tournament.Tournament) error {
	for _, t := range tournaments {
		if err := s.SaveTournament(t); err != nil {
			return err
		}
	}
	return nil
}

// GetTournament loads the archived tournament for a page URL
func (s *Store) GetTournament(url string) (*tournament.Tournament, error) {
	var rec TournamentRecord
	err := s.db.Where("url = ?", url).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return nil, fmt.Errorf("loading tournament %s: %w", url, err)
	}
	return rec.toTournament()
}

// ListByGame returns the archived tournaments of a game, most recent first.
// An empty game lists every tournament.
func (s *Store) ListByGame(game string) ([]*tournament.Tournament, error) {
	query := s.db.Model(&TournamentRecord{})
	if game != "" {
		query = query.Where("game = ?", game)
	}

	var records []TournamentRecord
	if err := query.Order("end_date DESC").Order("url").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing tournaments: %w", err)
	}

	result := make([]*tournament.Tournament, 0, len(records))
	for i := range records {
		t, err := records[i].toTournament()
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

// MatchesOf returns every archived match a participant key played in
func (s *Store) MatchesOf(key string) ([]MatchRecord, error) {
	var matches []MatchRecord
	err := s.db.Where("winner = ? OR loser = ?", key, key).
		Order("date DESC NULLS LAST").Order("tournament_id").Order("position").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("listing matches of %s: %w", key, err)
	}
	return matches, nil
}

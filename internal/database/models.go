package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

// TournamentRecord is one archived tournament
type TournamentRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	URL         string    `gorm:"size:512;uniqueIndex;not null"`
	Name        string    `gorm:"size:255;not null"`
	Game        string    `gorm:"size:100;index"`
	Tier        string    `gorm:"size:50"`
	StartDate   time.Time `gorm:"type:date"`
	EndDate     time.Time `gorm:"type:date;index"`
	Prize       string    `gorm:"size:100"`
	FirstPlace  string    `gorm:"size:255"`
	SecondPlace string    `gorm:"size:255"`
	Cancelled   bool      `gorm:"not null;default:false"`
	Team        bool      `gorm:"not null;default:false"`
	Payload     []byte    `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Matches []MatchRecord `gorm:"foreignKey:TournamentID;constraint:OnDelete:CASCADE"`
}

func (TournamentRecord) TableName() string {
	return "tournaments"
}

// MatchRecord is one decided match of an archived tournament
type MatchRecord struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	TournamentID uint       `gorm:"not null;index"`
	Position     int        `gorm:"not null"` // order within the tournament's match list
	Winner       string     `gorm:"size:255;index"`
	Loser        string     `gorm:"size:255;index"`
	Played       bool       `gorm:"not null"`
	Score        string     `gorm:"size:20"`
	Date         *time.Time `gorm:"type:date"`
}

func (MatchRecord) TableName() string {
	return "matches"
}

// Match converts the row back to a parsed match
func (m *MatchRecord) Match() *tournament.Match {
	return &tournament.Match{
		Winner: m.Winner,
		Loser:  m.Loser,
		Played: m.Played,
		Score:  m.Score,
		Date:   m.Date,
	}
}

// toRecord maps a tournament to its row and match rows
func toRecord(t *tournament.Tournament) (*TournamentRecord, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding tournament %s: %w", t.URL, err)
	}

	rec := &TournamentRecord{
		URL:         t.URL,
		Name:        t.Name,
		Game:        t.Game,
		Tier:        t.Tier,
		StartDate:   t.Start,
		EndDate:     t.End,
		Prize:       t.Prize,
		FirstPlace:  t.FirstPlace,
		SecondPlace: t.SecondPlace,
		Cancelled:   t.Cancelled,
		Team:        t.Team,
		Payload:     payload,
		Matches:     make([]MatchRecord, 0, len(t.Matches)),
	}

	for i, m := range t.Matches {
		rec.Matches = append(rec.Matches, MatchRecord{
			Position: i,
			Winner:   m.Winner,
			Loser:    m.Loser,
			Played:   m.Played,
			Score:    m.Score,
			Date:     m.Date,
		})
	}

	return rec, nil
}

// toTournament restores the parsed tournament from the payload
func (r *TournamentRecord) toTournament() (*tournament.Tournament, error) {
	t := tournament.New(r.URL)
	if err := json.Unmarshal(r.Payload, t); err != nil {
		return nil, fmt.Errorf("decoding tournament %s: %w", r.URL, err)
	}
	return t, nil
}

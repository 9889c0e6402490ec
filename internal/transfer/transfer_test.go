package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/provider"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func loadFixture(t *testing.T) List {
	t.Helper()
	transfers, err := Transfers(context.Background(), provider.NewFile("testdata"), DefaultPath)
	if err != nil {
		t.Fatalf("Transfers() error = %v", err)
	}
	return transfers
}

func TestTransfers(t *testing.T) {
	transfers := loadFixture(t)
	if len(transfers) != 5 {
		t.Fatalf("got %d transfers, want 5", len(transfers))
	}

	tests := []struct {
		name    string
		index   int
		date    time.Time
		players []Player
		old     string
		new     string
		ref     string
	}{
		{
			name:    "leaving a team",
			index:   0,
			date:    date(2023, time.May, 26),
			players: []Player{{Name: "Tcherno", Key: "Tcherno"}},
			old:     "Fox",
		},
		{
			name:  "several players joining",
			index: 1,
			date:  date(2023, time.May, 12),
			players: []Player{
				{Name: "Cyclops", Key: "Cyclops", Link: "/ageofempires/Cyclops"},
				{Name: "Hoang", Key: "Hoang", Link: "/ageofempires/Hoang"},
				{Name: "BadBoy", Key: "BadBoy", Link: "/ageofempires/BadBoy"},
				{Name: "Joe", Key: "Joe_(Vietnamese_player)"},
			},
			new: "Vitamin Coolmate",
		},
		{
			name:    "team to team with reference",
			index:   2,
			date:    date(2023, time.April, 28),
			players: []Player{{Name: "U98", Key: "U98", Link: "/ageofempires/U98"}},
			old:     "Team EGO",
			new:     "Vitamin Coolmate",
			ref:     "https://chimsedinang.com/don-vi-dung-sau-clan-moi-cua-aoe-viet-la-ai/",
		},
		{
			name:    "joining a team without page",
			index:   3,
			date:    date(2023, time.April, 21),
			players: []Player{{Name: "Kondor", Key: "Kondor"}},
			new:     "HOWL Esports",
		},
		{
			name:    "team without icon",
			index:   4,
			date:    date(2023, time.April, 2),
			players: []Player{{Name: "BL4CK", Key: "BL4CK", Link: "/ageofempires/BL4CK"}},
			old:     "Tempo Storm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transfers[tt.index]
			if !got.Date.Equal(tt.date) {
				t.Errorf("Date = %v, want %v", got.Date, tt.date)
			}
			if len(got.Players) != len(tt.players) {
				t.Fatalf("Players = %+v, want %+v", got.Players, tt.players)
			}
			for i, p := range tt.players {
				if got.Players[i] != p {
					t.Errorf("Players[%d] = %+v, want %+v", i, got.Players[i], p)
				}
			}
			if got.Old != tt.old {
				t.Errorf("Old = %q, want %q", got.Old, tt.old)
			}
			if got.New != tt.new {
				t.Errorf("New = %q, want %q", got.New, tt.new)
			}
			if got.Ref != tt.ref {
				t.Errorf("Ref = %q, want %q", got.Ref, tt.ref)
			}
		})
	}
}

func TestRecent(t *testing.T) {
	transfers := loadFixture(t)

	tests := []struct {
		name  string
		since time.Time
		want  []string
	}{
		{"cutoff day included", date(2023, time.April, 21), []string{"Tcherno", "Cyclops", "U98", "Kondor"}},
		{"one month", date(2023, time.May, 1), []string{"Tcherno", "Cyclops"}},
		{"everything", date(2020, time.January, 1), []string{"Tcherno", "Cyclops", "U98", "Kondor", "BL4CK"}},
		{"future", date(2024, time.January, 1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recent := transfers.Recent(tt.since)
			if len(recent) != len(tt.want) {
				t.Fatalf("got %d transfers, want %d", len(recent), len(tt.want))
			}
			for i, name := range tt.want {
				if recent[i].Players[0].Name != name {
					t.Errorf("recent[%d] = %s, want %s", i, recent[i].Players[0].Name, name)
				}
			}
		})
	}
}

func TestRecentSkipsUndated(t *testing.T) {
	transfers := List{
		{Players: []Player{{Name: "Nobody"}}},
		{Date: date(2023, time.June, 1), Players: []Player{{Name: "Hera"}}},
	}
	recent := transfers.Recent(time.Time{})
	if len(recent) != 1 || recent[0].Players[0].Name != "Hera" {
		t.Errorf("Recent() = %+v, want only Hera", recent)
	}
}

func TestTransfersErrors(t *testing.T) {
	_, err := Transfers(context.Background(), provider.NewFile("testdata"), "/ageofempires/Portal:Missing")
	if !provider.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}

	failing := failingFetcher{err: errors.New("connection refused")}
	if _, err := Transfers(context.Background(), failing, DefaultPath); err == nil {
		t.Error("expected transport error")
	}
}

type failingFetcher struct{ err error }

func (f failingFetcher) Fetch(context.Context, string) (*goquery.Document, error) {
	return nil, f.err
}

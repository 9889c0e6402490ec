package portal

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

// pageFetcher serves pages from memory and counts requests per path
type pageFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls map[string]int
}

func newPageFetcher(pages map[string]string) *pageFetcher {
	return &pageFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *pageFetcher) Fetch(_ context.Context, path string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls[path]++
	page, ok := f.pages[path]
	f.mu.Unlock()
	if !ok {
		return nil, errors.New("no such page: " + path)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func loadFixturePortal(t *testing.T) *Portal {
	t.Helper()
	data, err := os.ReadFile("testdata/portal.html")
	if err != nil {
		t.Fatal(err)
	}
	p := New(newPageFetcher(map[string]string{DefaultPath: string(data)}))
	if err := p.Load(context.Background(), DefaultPath); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return p
}

func TestLoad(t *testing.T) {
	p := loadFixturePortal(t)

	all := p.All()
	if len(all) != 3 {
		t.Fatalf("got %d tournaments, want 3 (unparsable row skipped)", len(all))
	}

	wololo := all[0]
	if wololo.Name != "Red Bull Wololo: Legacy" || wololo.URL != "/ageofempires/Red_Bull_Wololo/5" {
		t.Errorf("first tournament = %q (%q)", wololo.Name, wololo.URL)
	}
	if wololo.Tier != "S-Tier" || wololo.Game != "Age of Empires II" {
		t.Errorf("tier/game = %q/%q", wololo.Tier, wololo.Game)
	}
	if !wololo.Start.Equal(date(2022, time.October, 1)) || !wololo.End.Equal(date(2022, time.October, 15)) {
		t.Errorf("dates = %v - %v", wololo.Start, wololo.End)
	}
	if wololo.ParticipantCount != 24 || wololo.Prize != "$100,000" {
		t.Errorf("count/prize = %d/%q", wololo.ParticipantCount, wololo.Prize)
	}
	if wololo.FirstPlace != "Hera" || wololo.FirstPlaceLink != "/ageofempires/Hera" || wololo.SecondPlace != "Liereyy" {
		t.Errorf("podium = %q (%q), %q", wololo.FirstPlace, wololo.FirstPlaceLink, wololo.SecondPlace)
	}

	if !all[1].Cancelled {
		t.Error("Winter Series 2 should be cancelled")
	}
}

func TestLoadFetchError(t *testing.T) {
	p := New(newPageFetcher(nil))
	if err := p.Load(context.Background(), DefaultPath); err == nil {
		t.Error("expected error for a missing portal page")
	}
}

func titles(groups map[string][]*tournament.Tournament) []string {
	var out []string
	for _, list := range groups {
		for _, t := range list {
			out = append(out, t.Game+": "+t.Name)
		}
	}
	sort.Strings(out)
	return out
}

func TestWindows(t *testing.T) {
	p := loadFixturePortal(t)

	tests := []struct {
		name  string
		query func(from, to time.Time) map[string][]*tournament.Tournament
		from  time.Time
		to    time.Time
		want  []string
	}{
		{
			name:  "completed",
			query: p.Completed,
			from:  date(2022, time.February, 1),
			to:    date(2022, time.February, 7),
			want:  []string{"Age of Empires II: Wandering Cup"},
		},
		{
			name:  "starting",
			query: p.Starting,
			from:  date(2022, time.September, 26),
			to:    date(2022, time.October, 2),
			want:  []string{"Age of Empires II: Red Bull Wololo: Legacy"},
		},
		{
			name:  "ending",
			query: p.Ending,
			from:  date(2022, time.October, 10),
			to:    date(2022, time.October, 16),
			want:  []string{"Age of Empires II: Red Bull Wololo: Legacy"},
		},
		{
			name:  "ending excludes tournaments starting inside the window",
			query: p.Ending,
			from:  date(2022, time.September, 30),
			to:    date(2022, time.October, 16),
			want:  nil,
		},
		{
			name:  "ongoing",
			query: p.Ongoing,
			from:  date(2022, time.January, 10),
			to:    date(2022, time.January, 17),
			want:  []string{"Age of Empires II: Wandering Cup"},
		},
		{
			name:  "cancelled tournaments are never reported",
			query: p.Completed,
			from:  date(2022, time.January, 1),
			to:    date(2022, time.January, 5),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(tt.query(tt.from, tt.to))
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

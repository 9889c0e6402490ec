package cli

import (
	"testing"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

func sortFixture(url, name, tier string, end time.Time) *tournament.Tournament {
	t := tournament.New(url)
	t.Name = name
	t.Tier = tier
	t.End = end
	return t
}

func urls(list []*tournament.Tournament) []string {
	result := make([]string, len(list))
	for i, t := range list {
		result[i] = t.URL
	}
	return result
}

func TestSortTournaments(t *testing.T) {
	jan := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	build := func() []*tournament.Tournament {
		return []*tournament.Tournament{
			sortFixture("/a", "beta cup", "A-Tier", jan),
			sortFixture("/b", "Alpha Cup", "S-Tier", time.Time{}),
			sortFixture("/c", "Gamma Cup", "Qualifier", mar),
			sortFixture("/d", "Delta Cup", "S-Tier", mar),
		}
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByDate, []string{"/c", "/d", "/a", "/b"}},
		{SortByName, []string{"/b", "/a", "/d", "/c"}},
		{SortByTier, []string{"/d", "/b", "/a", "/c"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			list := build()
			sortTournaments(list, tt.order)

			got := urls(list)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sortTournaments(%s) = %v, want %v", tt.order, got, tt.want)
					break
				}
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	if order, err := parseSortOrder("Name"); err != nil || order != SortByName {
		t.Errorf("parseSortOrder(Name) = %q, %v", order, err)
	}
	if _, err := parseSortOrder("prize"); err == nil {
		t.Error("expected an error for an unknown order")
	}
}

func TestWindowResolve(t *testing.T) {
	now := time.Date(2022, 6, 15, 13, 45, 0, 0, time.UTC)

	from, to, err := (&window{}).resolve(now, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(time.Date(2022, 6, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if to.Format(time.RFC3339Nano) != "2022-06-15T23:59:59.999999999Z" {
		t.Errorf("to = %v", to)
	}

	from, to, err = (&window{from: "2022-01-01", to: "2022-01-31"}).resolve(now, 7)
	if err != nil {
		t.Fatal(err)
	}
	if from.Format(dateLayout) != "2022-01-01" || to.Format(dateLayout) != "2022-01-31" {
		t.Errorf("window = %v - %v", from, to)
	}
}

func TestOverlapping(t *testing.T) {
	day := func(m time.Month, d int) time.Time { return time.Date(2022, m, d, 0, 0, 0, 0, time.UTC) }

	inside := tournament.New("/inside")
	inside.Start, inside.End = day(1, 10), day(1, 12)
	spanning := tournament.New("/spanning")
	spanning.Start, spanning.End = day(1, 1), day(3, 1)
	oneDay := tournament.New("/one-day")
	oneDay.Start = day(1, 20)
	before := tournament.New("/before")
	before.Start, before.End = day(1, 1), day(1, 4)
	cancelled := tournament.New("/cancelled")
	cancelled.Start, cancelled.End, cancelled.Cancelled = day(1, 10), day(1, 12), true
	undated := tournament.New("/undated")

	got := urls(overlapping([]*tournament.Tournament{inside, spanning, oneDay, before, cancelled, undated}, day(1, 5), day(1, 31)))
	want := []string{"/inside", "/spanning", "/one-day"}
	if len(got) != len(want) {
		t.Fatalf("overlapping() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("overlapping() = %v, want %v", got, want)
		}
	}
}

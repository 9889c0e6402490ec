package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/storage"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const fixtures = "testdata/fixtures"

// execute runs the CLI against the fixture pages with a private data directory
func execute(t *testing.T, dataDir string, args ...string) (string, string, int) {
	t.Helper()

	previous := logger.Default()
	t.Cleanup(func() { logger.SetDefault(previous) })

	args = append(args,
		"--fixtures", fixtures,
		"--data-dir", dataDir,
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
	)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestTournamentCommand(t *testing.T) {
	stdout, stderr, code := execute(t, t.TempDir(), "tournament", "/ageofempires/Wandering_Cup", "--verbose")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}

	for _, want := range []string{
		"Wandering Cup\n",
		"Winner: Alice",
		"Runner-up: Bob",
		"Participants (4):",
		"Alice (1st)",
		"Matches: 3",
		"Alice def. Dave 2-0 on 2022-01-08",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if !strings.Contains(stderr, `"level":"DEBUG"`) {
		t.Error("--verbose should enable debug logging")
	}
}

func TestTournamentCommandJSON(t *testing.T) {
	stdout, stderr, code := execute(t, t.TempDir(), "tournament", "/ageofempires/Wandering_Cup", "--format", "json")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}

	var got tournament.Tournament
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.FirstPlace != "Alice" || len(got.Matches) != 3 || got.ParticipantCount != 4 {
		t.Errorf("FirstPlace = %q, matches = %d, count = %d", got.FirstPlace, len(got.Matches), got.ParticipantCount)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing page", []string{"tournament", "/ageofempires/Missing"}, "unexpected status code: 404"},
		{"invalid format", []string{"portal", "--format", "xml"}, "invalid format: xml"},
		{"invalid sort", []string{"portal", "--sort", "prize"}, "invalid sort order"},
		{"two filters", []string{"portal", "--completed", "--ongoing"}, "at most one"},
		{"bad date", []string{"portal", "--completed", "--from", "yesterday"}, "invalid --from date"},
		{"inverted window", []string{"portal", "--completed", "--from", "2022-02-01", "--to", "2022-01-01"}, "--from must not be after --to"},
		{"missing argument", []string{"tournament"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := execute(t, t.TempDir(), tt.args...)
			if code != ExitError {
				t.Errorf("exit code = %d, want %d", code, ExitError)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, stderr)
			}
		})
	}
}

func TestPortalCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name: "all tournaments",
			args: []string{"portal"},
			contains: []string{
				"Age of Empires II (2 tournaments):",
				"2022-10-15  Red Bull Wololo: Legacy [S-Tier]  Winner: Hera",
				"Age of Empires IV (1 tournaments):",
				"Winter Series 2 [A-Tier]  (cancelled)",
				"Total: 3 tournaments across 2 games",
			},
		},
		{
			name:     "completed in window",
			args:     []string{"portal", "--completed", "--from", "2022-02-01", "--to", "2022-02-28"},
			contains: []string{"Wandering Cup", "Total: 1 tournaments across 1 games"},
			excludes: []string{"Red Bull Wololo"},
		},
		{
			name:     "nothing starting",
			args:     []string{"portal", "--starting", "--from", "2023-01-01", "--to", "2023-01-31"},
			contains: []string{"No tournaments found."},
		},
		{
			name:     "sorted by name",
			args:     []string{"portal", "--sort", "name", "--verbose"},
			contains: []string{"Red Bull Wololo: Legacy [S-Tier]  Winner: Hera\n       URL: /ageofempires/Red_Bull_Wololo/5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := execute(t, t.TempDir(), tt.args...)
			if code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(stdout, want) {
					t.Errorf("output missing %q:\n%s", want, stdout)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(stdout, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, stdout)
				}
			}
		})
	}
}

func TestPortalCommandExtra(t *testing.T) {
	extra := filepath.Join(t.TempDir(), "extra.yaml")
	content := `tournaments:
  - url: /ageofempires/Garden_Cup
    name: Garden Cup
    game: Age of Empires II
    start: "2022-03-01"
`
	if err := os.WriteFile(extra, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := execute(t, t.TempDir(), "portal", "--extra", extra, "--format", "json")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}

	var groups map[string][]*tournament.Tournament
	if err := json.Unmarshal([]byte(stdout), &groups); err != nil {
		t.Fatal(err)
	}
	aoe2 := groups["Age of Empires II"]
	if len(aoe2) != 3 {
		t.Fatalf("got %d Age of Empires II tournaments, want 3", len(aoe2))
	}
	if aoe2[0].URL != "/ageofempires/Red_Bull_Wololo/5" || aoe2[1].URL != "/ageofempires/Garden_Cup" || !aoe2[1].Extra {
		t.Errorf("unexpected order or flags: %s, %s (extra=%v)", aoe2[0].URL, aoe2[1].URL, aoe2[1].Extra)
	}
}

func TestPlayerCommand(t *testing.T) {
	stdout, stderr, code := execute(t, t.TempDir(), "player", "/ageofempires/Alice")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}

	lines := strings.Split(stdout, "\n")
	if !strings.HasPrefix(lines[0], "2022-02-06  1st") || !strings.Contains(lines[0], "Wandering Cup  $500") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2021-11-20  2nd") {
		t.Errorf("second line = %q", lines[1])
	}
	if !strings.Contains(stdout, "Total: 2 results") {
		t.Errorf("output:\n%s", stdout)
	}
}

func TestPlayerCommandArchivedMatchesNeedsDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, stderr, code := execute(t, t.TempDir(), "player", "/ageofempires/Alice", "--matches")
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, "--matches needs --database or DATABASE_URL") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestMatchesCommand(t *testing.T) {
	stdout, stderr, code := execute(t, t.TempDir(), "matches")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	want := "Alice def. Bob 2-1 on 2022-02-06 [/ageofempires/Wandering_Cup]"
	if !strings.Contains(stdout, want) {
		t.Errorf("output missing %q:\n%s", want, stdout)
	}
}

func TestTransfersCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		missing []string
	}{
		{
			name: "all transfers",
			args: []string{"transfers"},
			want: []string{
				"2023-05-26  Tcherno: Fox -> None",
				"2023-05-12  Cyclops, Hoang, BadBoy, Joe: None -> Vitamin Coolmate",
				"2023-04-28  U98: Team EGO -> Vitamin Coolmate  https://chimsedinang.com/",
				"Total: 5 transfers",
			},
		},
		{
			name:    "since a day",
			args:    []string{"transfers", "--since", "2023-04-21"},
			want:    []string{"Kondor: None -> HOWL Esports", "Total: 4 transfers"},
			missing: []string{"BL4CK"},
		},
		{
			name: "nothing recent",
			args: []string{"transfers", "--since", "2030-01-01"},
			want: []string{"No transfers found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := execute(t, t.TempDir(), tt.args...)
			if code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output missing %q:\n%s", want, stdout)
				}
			}
			for _, missing := range tt.missing {
				if strings.Contains(stdout, missing) {
					t.Errorf("output should not contain %q:\n%s", missing, stdout)
				}
			}
		})
	}
}

func TestTransfersCommandErrors(t *testing.T) {
	_, stderr, code := execute(t, t.TempDir(), "transfers", "--since", "yesterday")
	if code != ExitError || !strings.Contains(stderr, "invalid --since date") {
		t.Errorf("exit code = %d, stderr = %q", code, stderr)
	}

	stdout, stderr, code := execute(t, t.TempDir(), "transfers", "--format", "json", "--since", "2023-05-01")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	var transfers []map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &transfers); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(transfers) != 2 {
		t.Errorf("got %d transfers, want 2", len(transfers))
	}
}

func TestSyncCommand(t *testing.T) {
	dataDir := t.TempDir()
	window := []string{"--from", "2022-01-01", "--to", "2022-12-31"}

	stdout, stderr, code := execute(t, dataDir, append([]string{"sync", "--format", "json", "--exit-code"}, window...)...)
	if code != ExitNewResults {
		t.Fatalf("exit code = %d, want %d, stderr:\n%s", code, ExitNewResults, stderr)
	}

	var result SyncResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Tournaments != 3 || result.Loaded != 1 {
		t.Errorf("tournaments = %d, loaded = %d", result.Tournaments, result.Loaded)
	}
	if result.ResultCount != 2 || len(result.ByGame["Age of Empires II"]) != 2 {
		t.Errorf("result count = %d, by game = %v", result.ResultCount, result.ByGame)
	}
	if _, failed := result.Failures["/ageofempires/Red_Bull_Wololo/5"]; !failed || len(result.Failures) != 1 {
		t.Errorf("failures = %v", result.Failures)
	}

	store, err := storage.New(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	cup, err := store.GetTournament("/ageofempires/Wandering_Cup")
	if err != nil {
		t.Fatal(err)
	}
	if len(cup.Matches) != 3 || len(cup.Participants) != 4 {
		t.Errorf("stored Wandering Cup has %d matches, %d participants", len(cup.Matches), len(cup.Participants))
	}

	// A second run finds nothing new and keeps the loaded details
	stdout, stderr, code = execute(t, dataDir, append([]string{"sync", "--exit-code", "--to", "2021-01-31"}, "--from", "2021-01-01")...)
	if code != ExitSuccess {
		t.Fatalf("second run exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "No new results found.") {
		t.Errorf("second run output:\n%s", stdout)
	}
	cup, err = store.GetTournament("/ageofempires/Wandering_Cup")
	if err != nil {
		t.Fatal(err)
	}
	if len(cup.Matches) != 3 {
		t.Errorf("page details lost on a narrower sync: %d matches", len(cup.Matches))
	}
}

func TestSyncCommandText(t *testing.T) {
	stdout, stderr, code := execute(t, t.TempDir(), "sync", "--from", "2022-01-01", "--to", "2022-12-31")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	for _, want := range []string{
		"Synced 3 tournaments (1 pages loaded)",
		"1 pages failed to load:",
		"Age of Empires II (2 new):",
		"NEW: Wandering Cup - winner Alice",
		"Total: 2 new results across 1 games",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestSyncCommandRefresh(t *testing.T) {
	stdout, stderr, code := execute(t, t.TempDir(), "sync", "--refresh", "--exit-code", "--from", "2022-01-01", "--to", "2022-12-31")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "No new results found.") {
		t.Errorf("refresh should not report results:\n%s", stdout)
	}
}

func TestCalendarAndAnnounce(t *testing.T) {
	dataDir := t.TempDir()
	window := []string{"--from", "2022-01-01", "--to", "2022-12-31"}

	syncOut, stderr, code := execute(t, dataDir, append([]string{"sync", "--format", "json"}, window...)...)
	if code != ExitSuccess {
		t.Fatalf("sync exit code = %d, stderr:\n%s", code, stderr)
	}

	t.Run("calendar to stdout", func(t *testing.T) {
		stdout, stderr, code := execute(t, dataDir, "calendar", "--game", "Age of Empires II")
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
		}
		if got := strings.Count(stdout, "BEGIN:VEVENT"); got != 2 {
			t.Errorf("got %d events, want 2", got)
		}
		if !strings.Contains(stdout, "X-WR-CALNAME:Liquipedia tournaments") {
			t.Error("calendar name missing")
		}
	})

	t.Run("calendar to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.ics")
		if _, stderr, code := execute(t, dataDir, "calendar", "-o", path); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Count(string(data), "BEGIN:VEVENT"); got != 3 {
			t.Errorf("got %d events, want 3", got)
		}
	})

	t.Run("announce from snapshot", func(t *testing.T) {
		stdout, stderr, code := execute(t, dataDir, append([]string{"announce"}, window...)...)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
		}
		if !strings.Contains(stdout, "--- Announcement 2/2 ---") || strings.Contains(stdout, "Winter Series") {
			t.Errorf("output:\n%s", stdout)
		}
	})

	t.Run("announce from sync output", func(t *testing.T) {
		input := filepath.Join(t.TempDir(), "sync.json")
		if err := os.WriteFile(input, []byte(syncOut), 0644); err != nil {
			t.Fatal(err)
		}
		stdout, stderr, code := execute(t, dataDir, "announce", "--input", input, "--max", "1")
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
		}
		if !strings.Contains(stdout, "--- Announcement 1/1 ---") {
			t.Errorf("output:\n%s", stdout)
		}
	})

	t.Run("announce outside the window", func(t *testing.T) {
		stdout, _, code := execute(t, dataDir, "announce", "--from", "2020-01-01", "--to", "2020-01-02")
		if code != ExitSuccess || !strings.Contains(stdout, "No results to announce") {
			t.Errorf("exit code = %d, output:\n%s", code, stdout)
		}
	})

	t.Run("announce via unknown backend", func(t *testing.T) {
		_, stderr, code := execute(t, dataDir, append([]string{"announce", "--via", "carrier-pigeon"}, window...)...)
		if code != ExitError || !strings.Contains(stderr, "unknown notifier: carrier-pigeon") {
			t.Errorf("exit code = %d, stderr:\n%s", code, stderr)
		}
	})

	t.Run("announce via unconfigured backend", func(t *testing.T) {
		for _, key := range []string{"DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_ID"} {
			t.Setenv(key, "")
		}
		_, stderr, code := execute(t, dataDir, append([]string{"announce", "--via", "discord"}, window...)...)
		if code != ExitError || !strings.Contains(stderr, "discord bot token is required") {
			t.Errorf("exit code = %d, stderr:\n%s", code, stderr)
		}
	})
}

package tournament

import (
	"sort"
	"time"
)

// ForfeitScore is the score recorded for walkovers and forfeits
const ForfeitScore = "Forfeit"

// Tournament is one esports event
type Tournament struct {
	URL              string    `json:"url"`
	Name             string    `json:"name"`
	Game             string    `json:"game"`
	Tier             string    `json:"tier"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Prize            string    `json:"prize"`
	ParticipantCount int       `json:"participant_count"` // -1 when unknown
	Cancelled        bool      `json:"cancelled"`
	Team             bool      `json:"team"`
	Series           string    `json:"series,omitempty"`
	Organizers       []string  `json:"organizers"`
	Sponsors         []string  `json:"sponsors"`
	GameMode         string    `json:"game_mode,omitempty"`
	Format           string    `json:"format,omitempty"`
	Description      string    `json:"description,omitempty"`

	FirstPlace     string   `json:"first_place,omitempty"`
	FirstPlaceLink string   `json:"first_place_link,omitempty"`
	SecondPlace    string   `json:"second_place,omitempty"`
	RunnersUp      []string `json:"runners_up"`

	Placements   map[string]Placement `json:"placements"`
	Participants []Participant        `json:"participants"`
	Teams        map[string]*Team     `json:"teams"`
	Rounds       [][]*Match           `json:"rounds"`
	Matches      []*Match             `json:"matches"`

	// Extra marks stubs injected from a manual list rather than a portal page
	Extra bool `json:"extra,omitempty"`

	// Set on rows parsed from a player's results page
	PlayerPlace string `json:"player_place,omitempty"`
	PlayerPrize string `json:"player_prize,omitempty"`

	loaded bool
}

// Placement is a place label and the prize that came with it. The zero value
// means "not placed".
type Placement struct {
	Place string `json:"place"`
	Prize string `json:"prize"`
}

// Placed reports whether the placement carries a place label
func (p Placement) Placed() bool {
	return p.Place != ""
}

// Participant is an individual entrant
type Participant struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Link string `json:"link,omitempty"`
	Placement
}

// Member is one player on a team roster
type Member struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

// Team is a team card: its identity and roster
type Team struct {
	Name    string   `json:"name"`
	Key     string   `json:"key"`
	Link    string   `json:"link,omitempty"`
	Members []Member `json:"members"`
}

// Match is one game between two sides
type Match struct {
	Winner     string     `json:"winner"`
	Loser      string     `json:"loser"`
	WinnerLink string     `json:"winner_link,omitempty"`
	LoserLink  string     `json:"loser_link,omitempty"`
	Played     bool       `json:"played"`
	Score      string     `json:"score,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Tournament string     `json:"tournament,omitempty"` // only for standalone match listings
}

// Decided reports whether both sides are known, i.e. the game was not a bye
func (m *Match) Decided() bool {
	return m.Winner != "" && m.Loser != ""
}

// New creates an empty tournament for a page URL
func New(url string) *Tournament {
	return &Tournament{
		URL:              url,
		ParticipantCount: -1,
		Organizers:       []string{},
		Sponsors:         []string{},
		RunnersUp:        []string{},
		Placements:       make(map[string]Placement),
		Participants:     []Participant{},
		Teams:            make(map[string]*Team),
		Rounds:           [][]*Match{},
		Matches:          []*Match{},
	}
}

// Loaded reports whether LoadAdvanced has completed for this tournament
func (t *Tournament) Loaded() bool {
	return t.loaded
}

func (t *Tournament) String() string {
	return t.Name
}

// Completed reports whether the tournament ended within [from, to]
func (t *Tournament) Completed(from, to time.Time) bool {
	return within(t.End, from, to)
}

// Starting reports whether the tournament starts within [from, to]
func (t *Tournament) Starting(from, to time.Time) bool {
	return within(t.Start, from, to)
}

// Ending reports whether a tournament that started before from ends within [from, to]
func (t *Tournament) Ending(from, to time.Time) bool {
	return t.Start.Before(from) && within(t.End, from, to)
}

// Ongoing reports whether the tournament spans the whole window
func (t *Tournament) Ongoing(from, to time.Time) bool {
	return !t.Start.After(from) && !t.End.Before(to)
}

func within(d, from, to time.Time) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(from) && !d.After(to)
}

// sortParticipants orders participants by display name
func sortParticipants(participants []Participant) {
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Name < participants[j].Name
	})
}

package tournament

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liquipedia-results/internal/dom"
	"golang.org/x/net/html"
)

// loadInfoBox reads the labelled rows of the info box. A row is a div whose
// first child div holds a label such as "Format:" and whose remaining child
// divs hold the value. Rows with unknown labels or empty values are ignored.
func (t *Tournament) loadInfoBox(box *goquery.Selection) {
	box.Find("div").Each(func(_ int, row *goquery.Selection) {
		children := row.ChildrenFiltered("div")
		if children.Length() < 2 {
			return
		}
		label := dom.Text(children.First())
		if !strings.HasSuffix(label, ":") {
			return
		}
		values := children.Slice(1, children.Length())
		t.applyInfoBoxField(label, values)
	})
}

func (t *Tournament) applyInfoBoxField(label string, values *goquery.Selection) {
	last := dom.Text(values.Last())

	switch label {
	case "Series:":
		if last != "" {
			t.Series = last
		}
	case "Organizer:", "Organizers:":
		if list := strippedStrings(values); len(list) > 0 {
			t.Organizers = list
		}
	case "Sponsor:", "Sponsors:", "Sponsor(s):":
		if list := strippedStrings(values); len(list) > 0 {
			t.Sponsors = list
		}
	case "Game Mode:":
		if last != "" {
			t.GameMode = last
		}
	case "Format:":
		if last != "" {
			t.Format = last
			t.Team = IsTeamFormat(last)
		}
	case "Date:":
		if d := ParseDate(last); !d.IsZero() {
			t.Start, t.End = d, d
		}
	case "Start Date:":
		if d := ParseDate(last); !d.IsZero() {
			t.Start = d
		}
	case "End Date:":
		if d := ParseDate(last); !d.IsZero() {
			t.End = d
		}
	case "Prize Pool:", "Prizepool:":
		if t.Prize == "" {
			t.Prize = last
		}
	case "Game:":
		if t.Game == "" {
			t.Game = last
		}
	case "Liquipedia Tier:", "Tier:":
		if t.Tier == "" {
			t.Tier = last
		}
	case "Number of Players:", "Number of Teams:", "Participants:":
		if t.ParticipantCount < 0 {
			if n, ok := ParticipantCount(last); ok {
				t.ParticipantCount = n
			}
		}
	}
}

// strippedStrings returns every non-blank text node below sel, trimmed, in
// document order. Separators such as commas and line breaks are dropped.
func strippedStrings(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				text := strings.Trim(strings.Join(strings.Fields(c.Data), " "), ", ")
				if text != "" {
					out = append(out, text)
				}
			case html.ElementNode:
				walk(c)
			}
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

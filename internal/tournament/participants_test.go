package tournament

import "testing"

const participantsFixture = `<div class="mw-parser-output">
<h2><span class="mw-headline" id="Participants">Participants</span></h2>
<p>Seeded by rating.</p>
<div class="participants"><table>
<tr class="player-row">
	<td><a href="/aoe/Category:Finland"></a> <a href="/aoe/Zed">Zed</a></td>
	<td><a href="/aoe/Alice">Alice</a></td>
</tr>
<tr class="player-row">
	<td><a href="/aoe/index.php?title=Mia&amp;action=edit&amp;redlink=1">Mia</a></td>
	<td>TBD</td>
	<td><a href="/aoe/Alice">Alice</a></td>
</tr>
</table></div>
<h2><span class="mw-headline" id="Results">Results</span></h2>
</div>`

func TestLoadParticipants(t *testing.T) {
	main := selection(t, participantsFixture).Find(".mw-parser-output")
	section, ok := findParticipantsSection(main)
	if !ok {
		t.Fatal("expected a participants section")
	}

	tour := New("/aoe/Test")
	tour.Placements["Alice"] = Placement{Place: "1st", Prize: "$500"}
	tour.loadParticipants(section)

	want := []Participant{
		{Name: "Alice", Key: "Alice", Link: "/aoe/Alice", Placement: Placement{Place: "1st", Prize: "$500"}},
		{Name: "Mia", Key: "Mia"},
		{Name: "Zed", Key: "Zed", Link: "/aoe/Zed"},
	}
	if len(tour.Participants) != len(want) {
		t.Fatalf("got %d participants, want %d: %+v", len(tour.Participants), len(want), tour.Participants)
	}
	for i, p := range tour.Participants {
		if p != want[i] {
			t.Errorf("participant %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestFindParticipantsSectionMissing(t *testing.T) {
	main := selection(t, `<div class="mw-parser-output"><h2>Results</h2><table><tr class="player-row"><td>x</td></tr></table></div>`).Find(".mw-parser-output")
	if _, ok := findParticipantsSection(main); ok {
		t.Error("no Participants heading should yield no section")
	}
}

func TestFindParticipantsSectionStopsAtNextHeading(t *testing.T) {
	main := selection(t, `<div class="mw-parser-output">
<h2>Participants</h2><p>To be announced.</p>
<h2>Bracket</h2><div><table><tr class="player-row"><td><a href="/aoe/X">X</a></td></tr></table></div>
</div>`).Find(".mw-parser-output")
	if _, ok := findParticipantsSection(main); ok {
		t.Error("rows under a later section must not be used as participants")
	}
}

func TestFindParticipantsSectionWrappedHeading(t *testing.T) {
	main := selection(t, `<div class="mw-parser-output">
<div class="mw-heading mw-heading2"><h2 id="Participants">Participants</h2></div>
<div><table><tr class="player-row"><td><a href="/aoe/X">X</a></td></tr></table></div>
</div>`).Find(".mw-parser-output")
	section, ok := findParticipantsSection(main)
	if !ok {
		t.Fatal("expected a participants section")
	}

	tour := New("/aoe/Test")
	tour.loadParticipants(section)
	if len(tour.Participants) != 1 || tour.Participants[0].Name != "X" {
		t.Errorf("Participants = %+v", tour.Participants)
	}
}

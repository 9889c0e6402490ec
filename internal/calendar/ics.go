package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const (
	prodID  = "-//Liquipedia Results//liquipedia-results//EN"
	uidHost = "liquipedia.net"
	siteURL = "https://liquipedia.net"
)

// GenerateICS generates an iCalendar (.ics) file for one tournament
func GenerateICS(t *tournament.Tournament) string {
	var ics strings.Builder
	writeHeader(&ics, "")
	writeEvent(&ics, t, time.Now().UTC())
	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// GenerateCalendar generates one calendar holding every dated tournament.
// name becomes X-WR-CALNAME when not empty.
func GenerateCalendar(tournaments []*tournament.Tournament, name string) string {
	var ics strings.Builder
	writeHeader(&ics, name)

	now := time.Now().UTC()
	for _, t := range tournaments {
		if t.Start.IsZero() && t.End.IsZero() {
			continue
		}
		writeEvent(&ics, t, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeHeader(ics *strings.Builder, name string) {
	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", prodID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if name != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(name)))
	}
}

func writeEvent(ics *strings.Builder, t *tournament.Tournament, stamp time.Time) {
	start, end := t.Start, t.End
	if start.IsZero() {
		start = end
	}
	if end.IsZero() || end.Before(start) {
		end = start
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", uid(t.URL), uidHost))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))

	// All-day event; DTEND is exclusive
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(start)))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(end.AddDate(0, 0, 1))))

	summary := t.Name
	if t.Game != "" {
		summary = fmt.Sprintf("%s - %s", t.Game, t.Name)
	}
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description(t))))
	ics.WriteString(fmt.Sprintf("URL:%s%s\r\n", siteURL, t.URL))

	if t.Cancelled {
		ics.WriteString("STATUS:CANCELLED\r\n")
	} else {
		ics.WriteString("STATUS:CONFIRMED\r\n")
	}
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func description(t *tournament.Tournament) string {
	var lines []string
	if t.Tier != "" {
		lines = append(lines, "Tier: "+t.Tier)
	}
	if t.Prize != "" {
		lines = append(lines, "Prize pool: "+t.Prize)
	}
	if t.ParticipantCount >= 0 {
		lines = append(lines, fmt.Sprintf("Participants: %d", t.ParticipantCount))
	}
	if t.FirstPlace != "" {
		lines = append(lines, "Winner: "+t.FirstPlace)
	}
	if t.SecondPlace != "" {
		lines = append(lines, "Runner-up: "+t.SecondPlace)
	}
	return strings.Join(lines, "\n")
}

// uid turns a page path into a stable identifier
func uid(url string) string {
	id := strings.Trim(url, "/")
	id = strings.NewReplacer("/", "-", " ", "_").Replace(id)
	if id == "" {
		return "tournament"
	}
	return id
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

package tournament

import (
	"strings"
	"time"
)

// ParseDate attempts to parse wiki date text into a calendar date (UTC midnight).
// Returns time.Time{} (zero value) if parsing fails.
// Supports formats: "2022-01-08", "January 8, 2022", "Jan 8, 2022", "8 January 2022"
func ParseDate(text string) time.Time {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return time.Time{}
	}

	layouts := []string{
		"2006-01-02",
		"January 2, 2006",
		"Jan 2, 2006",
		"January 2 2006",
		"Jan 2 2006",
		"2 January 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseMatchDate parses the date of a match timer such as
// "January 8, 2022 - 18:00 CET". Only the text before the first hyphen is
// used; nil means the date could not be read.
func ParseMatchDate(text string) *time.Time {
	if i := strings.Index(text, "-"); i >= 0 {
		text = text[:i]
	}
	d := ParseDate(text)
	if d.IsZero() {
		return nil
	}
	return &d
}

// parseDateRange parses the listing date column:
//
//	"Jul 22, 2023"                 single day
//	"May 26 - Aug 07, 2023"        year only on the end date
//	"Jan 20 - 25, 2023"            month only on the start date
//	"Dec 13, 2021 - Feb 20, 2022"  both dates complete
func parseDateRange(text string) (start, end time.Time) {
	text = strings.Join(strings.Fields(text), " ")
	before, after, found := strings.Cut(text, " - ")
	if !found {
		d := ParseDate(text)
		return d, d
	}

	before = strings.TrimSpace(before)
	after = strings.TrimSpace(after)

	if !strings.Contains(before, ",") && len(after) >= 6 {
		before += after[len(after)-6:]
	}
	if len(after) < 9 && len(before) >= 3 {
		after = before[:3] + " " + after
	}

	return ParseDate(before), ParseDate(after)
}

package tournament

import (
	"regexp"
	"strconv"
)

var (
	// participantCountPattern reads the leading count of "18 players"
	participantCountPattern = regexp.MustCompile(`^\s*([0-9]+)`)

	// teamSizePattern matches explicit team formats such as 2v2, 3v3 or 4v4
	teamSizePattern = regexp.MustCompile(`(?i)\b([2-9])v([2-9])\b`)
)

// ParticipantCount extracts the declared participant count from text
func ParticipantCount(text string) (int, bool) {
	m := participantCountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsTeamFormat reports whether a format description names a team size on
// both sides ("2v2, Single Elimination"). 1v1 and FFA formats are individual.
func IsTeamFormat(format string) bool {
	for _, m := range teamSizePattern.FindAllStringSubmatch(format, -1) {
		if m[1] == m[2] {
			return true
		}
	}
	return false
}

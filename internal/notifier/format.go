package notifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const (
	siteURL      = "https://liquipedia.net"
	tweetLimit   = 280
	discordLimit = 2000
)

// FormatAnnouncement renders the result of a tournament as plain text
func FormatAnnouncement(t *tournament.Tournament) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🏆 %s\n", t.Name))
	if t.Game != "" {
		b.WriteString(fmt.Sprintf("🎮 %s\n", t.Game))
	}

	b.WriteString(fmt.Sprintf("\n🥇 %s\n", t.FirstPlace))
	if t.SecondPlace != "" {
		b.WriteString(fmt.Sprintf("🥈 %s\n", t.SecondPlace))
	}
	if len(t.RunnersUp) > 0 {
		b.WriteString(fmt.Sprintf("🥉 %s\n", strings.Join(t.RunnersUp, ", ")))
	}

	if t.Prize != "" {
		b.WriteString(fmt.Sprintf("\n💰 %s\n", t.Prize))
	}

	b.WriteString(fmt.Sprintf("\n🔗 %s%s", siteURL, t.URL))
	return b.String()
}

// formatTweet formats a tournament as a tweet
func formatTweet(t *tournament.Tournament) string {
	tweet := FormatAnnouncement(t)
	if tag := hashtag(t.Game); tag != "" {
		tweet += "\n\n" + tag
	}
	return truncate(tweet, tweetLimit)
}

// hashtag turns "Age of Empires II" into "#AgeOfEmpiresII"
func hashtag(game string) string {
	var b strings.Builder
	for _, word := range strings.Fields(game) {
		r, size := utf8.DecodeRuneInString(word)
		b.WriteString(strings.ToUpper(string(r)))
		b.WriteString(word[size:])
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}

// truncate shortens s to at most limit runes, ending with an ellipsis
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

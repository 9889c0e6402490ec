// Package portal reads the tournament portal: the wiki page listing recent,
// running and upcoming tournaments of a game family.
//
// A Portal holds the lightweight tournaments parsed from the listing rows,
// optionally extended with manually curated stubs (LoadExtra), and answers
// window queries grouped by game. LoadAdvancedAll promotes a set of
// tournaments to their full state concurrently.
package portal

// Package storage provides JSON persistence for tournament snapshots.
//
// A snapshot is the set of fully parsed tournaments from the last sync, keyed
// by tournament URL, stored as snapshot.json in the data directory (by
// default ~/.local/share/liquipedia-results/). Comparing the previous
// snapshot with a fresh sync yields the newly decided tournaments that are
// worth announcing.
package storage

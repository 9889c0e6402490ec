// Package cli implements the liquipedia-results command line.
//
// The root command carries the shared settings (data directory, output format,
// fixture directory, verbosity) and builds the document provider once for
// every subcommand. Subcommands cover single lookups (tournament, player,
// matches), portal listings, the sync job that keeps the local snapshot and
// optional database current, and the consumers of that snapshot: calendar
// export, result announcements and the HTTP API.
package cli

// Package database archives parsed tournaments in PostgreSQL.
//
// Each tournament is stored as one row keyed by its page URL. The searchable
// fields are columns and the full parsed record is kept as a JSONB payload.
// Decided matches are copied into their own table so they can be queried
// across tournaments. Saving a tournament replaces its previous row and
// matches in a single transaction.
package database

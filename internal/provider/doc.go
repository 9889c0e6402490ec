// Package provider fetches wiki pages and parses them into documents.
//
// HTTPProvider talks to the live wiki. It identifies itself with a user agent,
// spaces requests by a minimum interval and retries rate limiting and server
// errors with exponential backoff. FileProvider serves saved pages from a
// directory and is used for fixtures and offline runs.
//
// Both report HTTP-level failures as *TransportError so callers can tell a
// missing page (IsNotFound) from other failures.
package provider

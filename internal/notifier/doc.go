// Package notifier announces tournament results.
//
// A Notifier posts one message per decided tournament. Backends exist for
// Twitter, Discord, Telegram, and a dry-run writer used for previews. All of
// them share the message layout in format.go and differ only in transport
// and length limits.
package notifier

// Package dom provides read-only navigation helpers over parsed wiki documents.
//
// Documents are goquery selections backed by golang.org/x/net/html nodes, so
// elements, text and comments stay distinguishable. Lookups that can miss
// return a *NotFoundError which matches ErrNotFound through errors.Is; callers
// treat that as "section absent" rather than a failure.
package dom

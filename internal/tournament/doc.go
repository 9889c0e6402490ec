// Package tournament models esports tournaments and parses their wiki pages.
//
// A Tournament starts life as a lightweight listing row (name, dates, tier,
// prize, podium) and is promoted once to its advanced state by LoadAdvanced,
// which fetches the event page and reconstructs placements, participants,
// team rosters, match lists and elimination brackets.
//
// The page parser is tolerant: every optional section (info box, prize pool,
// participants, team cards, match lists, brackets) that cannot be found is
// left at its zero value. Only a page without a main content region is an
// error, reported as ErrMainContentMissing.
package tournament

// Package match provides the data model for match-history extraction and the first-objective
// resolver.
//
// The match package defines objective types, team sides, timeline markers, rosters and game dates,
// along with the sentinel errors shared by the scraper, session and results packages. Resolve picks
// the earliest timeline marker for an objective and reports which team secured it.
package match

package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/lec-results/internal/match"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone   SortOrder = ""
	SortByDate SortOrder = "date"
	SortByTeam SortOrder = "team"
	SortByURL  SortOrder = "url"
)

// Valid reports whether the sort order is supported
func (o SortOrder) Valid() bool {
	switch o {
	case SortNone, SortByDate, SortByTeam, SortByURL:
		return true
	}
	return false
}

// sortSummaries sorts summaries in place. SortNone keeps input order.
func sortSummaries(summaries []*match.Summary, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(summaries, func(i, j int) bool {
			return compareByDate(summaries[i], summaries[j])
		})
	case SortByTeam:
		sort.SliceStable(summaries, func(i, j int) bool {
			a, b := summaries[i].Teams, summaries[j].Teams
			if !strings.EqualFold(a.BlueTeam, b.BlueTeam) {
				return strings.ToLower(a.BlueTeam) < strings.ToLower(b.BlueTeam)
			}
			if !strings.EqualFold(a.RedTeam, b.RedTeam) {
				return strings.ToLower(a.RedTeam) < strings.ToLower(b.RedTeam)
			}
			// If teams are equal, sort by date
			return compareByDate(summaries[i], summaries[j])
		})
	case SortByURL:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].URL < summaries[j].URL
		})
	}
}

// compareByDate returns true if summary i should come before summary j.
// Matches without a date sort last.
func compareByDate(i, j *match.Summary) bool {
	if i.Date != nil && j.Date != nil {
		if *i.Date != *j.Date {
			return i.Date.Before(*j.Date)
		}
		return i.URL < j.URL
	}

	// If only one date is known, put it first
	if i.Date != nil {
		return true
	}
	if j.Date != nil {
		return false
	}

	return i.URL < j.URL
}

package scraper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/lec-results/internal/match"
)

const (
	// ReadySelector appears once the scoreboard has rendered, which happens after the timeline
	// and nameplates are in place.
	ReadySelector      = ".team-100-kills-bg"
	MarkersSelector    = "image"
	NameplatesSelector = ".champion-nameplate-name"
	DateSelector       = ".map-header-date"

	// RosterSize is the number of nameplates on a match page, blue players first
	RosterSize = 10
)

// Selectors locates the page elements the extractors read
type Selectors struct {
	Ready      string `yaml:"ready"`
	Markers    string `yaml:"markers"`
	Nameplates string `yaml:"nameplates"`
	Date       string `yaml:"date"`
}

// DefaultSelectors returns the selectors for the current match-history markup
func DefaultSelectors() Selectors {
	return Selectors{
		Ready:      ReadySelector,
		Markers:    MarkersSelector,
		Nameplates: NameplatesSelector,
		Date:       DateSelector,
	}
}

// ExtractMarkers reads timeline markers from a selection of icon elements.
// Elements without an identifier or a finite numeric x position are not timeline markers and are
// skipped.
func ExtractMarkers(sel *goquery.Selection) ([]match.Marker, error) {
	markers := make([]match.Marker, 0, sel.Length())

	sel.Each(func(i int, el *goquery.Selection) {
		// Attr matches both href and xlink:href, the parser strips the namespace prefix
		id, ok := el.Attr("href")
		if !ok || id == "" {
			return
		}

		rawX, ok := el.Attr("x")
		if !ok {
			return
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rawX), 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return
		}

		markers = append(markers, match.NewMarker(id, x))
	})

	return markers, nil
}

// ExtractRoster reads the team tags from the ten player nameplates.
// Nameplates are formatted "SK Sacre", so the tag is the first word. Indices 0-4 are blue and
// 5-9 are red.
func ExtractRoster(sel *goquery.Selection) (match.TeamRoster, error) {
	if n := sel.Length(); n < RosterSize {
		return match.TeamRoster{}, fmt.Errorf("%w: found %d nameplates, want %d", match.ErrMarkupMismatch, n, RosterSize)
	}

	return match.TeamRoster{
		BlueTeam: firstToken(sel.Eq(0).Text()),
		RedTeam:  firstToken(sel.Eq(RosterSize - 1).Text()),
	}, nil
}

// ExtractDateText returns the trimmed text of the first date header element
func ExtractDateText(sel *goquery.Selection) (string, error) {
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: date header not found", match.ErrMarkupMismatch)
	}
	return strings.TrimSpace(sel.First().Text()), nil
}

// DateExtractor returns an extractor that parses the date header with the given pattern.
// Parse failures wrap match.ErrInvalidDate.
func DateExtractor(pattern string) func(*goquery.Selection) (match.GameDate, error) {
	return func(sel *goquery.Selection) (match.GameDate, error) {
		text, err := ExtractDateText(sel)
		if err != nil {
			return match.GameDate{}, err
		}
		return match.ParseDate(text, pattern)
	}
}

// firstToken returns the first whitespace-delimited word of s
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

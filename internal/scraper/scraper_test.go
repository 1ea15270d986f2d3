package scraper

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/lec-results/internal/match"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func loadFixture(t *testing.T) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/match_history.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return parse(t, string(data))
}

func TestExtractMarkers(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		wantIDs []string
		wantX   []float64
	}{
		{
			name: "svg images with xlink href",
			html: `<svg>
				<image xlink:href="herald_100" x="120"></image>
				<image xlink:href="herald_200" x="80"></image>
			</svg>`,
			wantIDs: []string{"herald_100", "herald_200"},
			wantX:   []float64{120, 80},
		},
		{
			name:    "plain href attribute",
			html:    `<svg><image href="dragon_100" x="40.25"></image></svg>`,
			wantIDs: []string{"dragon_100"},
			wantX:   []float64{40.25},
		},
		{
			name: "elements without identifier or position skipped",
			html: `<svg>
				<image x="10"></image>
				<image href="baron_100"></image>
				<image href="" x="5"></image>
				<image href="baron_200" x="wide"></image>
				<image href="baron_100" x="NaN"></image>
				<image href="baron_100" x="Inf"></image>
				<image href="baron_100" x="-Inf"></image>
				<image href="baron_200" x=" 300 "></image>
			</svg>`,
			wantIDs: []string{"baron_200"},
			wantX:   []float64{300},
		},
		{
			name:    "no images",
			html:    `<div>nothing rendered</div>`,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.html)
			markers, err := ExtractMarkers(doc.Find(MarkersSelector))
			if err != nil {
				t.Fatalf("ExtractMarkers() error: %v", err)
			}

			if len(markers) != len(tt.wantIDs) {
				t.Fatalf("ExtractMarkers() returned %d markers, want %d: %+v", len(markers), len(tt.wantIDs), markers)
			}
			for i, m := range markers {
				if m.ID != tt.wantIDs[i] {
					t.Errorf("marker %d ID = %q, want %q", i, m.ID, tt.wantIDs[i])
				}
				if m.X != tt.wantX[i] {
					t.Errorf("marker %d X = %v, want %v", i, m.X, tt.wantX[i])
				}
			}
		})
	}
}

func TestExtractRoster(t *testing.T) {
	names := []string{
		"SK Sacre", "SK Selfmade", "SK Pirean", "SK Crownshot", "SK Dreams",
		"C9 Fudge", "C9 Jojopyun", "C9 Berserker", "C9 Vulcan", "C9 Blaber",
	}

	build := func(n int) string {
		var b strings.Builder
		for _, name := range names[:n] {
			b.WriteString(`<div class="champion-nameplate-name">` + name + `</div>`)
		}
		return b.String()
	}

	t.Run("ten nameplates", func(t *testing.T) {
		doc := parse(t, build(10))
		roster, err := ExtractRoster(doc.Find(NameplatesSelector))
		if err != nil {
			t.Fatalf("ExtractRoster() error: %v", err)
		}
		if roster.BlueTeam != "SK" {
			t.Errorf("BlueTeam = %q, want SK", roster.BlueTeam)
		}
		if roster.RedTeam != "C9" {
			t.Errorf("RedTeam = %q, want C9", roster.RedTeam)
		}
	})

	t.Run("fewer than ten nameplates", func(t *testing.T) {
		doc := parse(t, build(9))
		_, err := ExtractRoster(doc.Find(NameplatesSelector))
		if !errors.Is(err, match.ErrMarkupMismatch) {
			t.Errorf("ExtractRoster() error = %v, want ErrMarkupMismatch", err)
		}
	})

	t.Run("padded nameplate text", func(t *testing.T) {
		html := strings.Replace(build(10), "SK Sacre", "\n   FNC  Upset \n", 1)
		doc := parse(t, html)
		roster, err := ExtractRoster(doc.Find(NameplatesSelector))
		if err != nil {
			t.Fatalf("ExtractRoster() error: %v", err)
		}
		if roster.BlueTeam != "FNC" {
			t.Errorf("BlueTeam = %q, want FNC", roster.BlueTeam)
		}
	})
}

func TestDateExtractor(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    match.GameDate
		wantErr error
	}{
		{
			name: "valid header",
			html: `<div class="map-header-date"> 6/14/2023 </div>`,
			want: match.NewGameDate(2023, time.June, 14),
		},
		{
			name: "first header wins",
			html: `<div class="map-header-date">1/2/2020</div><div class="map-header-date">3/4/2021</div>`,
			want: match.NewGameDate(2020, time.January, 2),
		},
		{
			name:    "unparseable header",
			html:    `<div class="map-header-date">not-a-date</div>`,
			wantErr: match.ErrInvalidDate,
		},
		{
			name:    "missing header",
			html:    `<div class="map-header">no date</div>`,
			wantErr: match.ErrMarkupMismatch,
		},
	}

	extract := DateExtractor(match.DefaultDateFormat)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.html)
			got, err := extract(doc.Find(DateSelector))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("extract() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixture(t *testing.T) {
	doc := loadFixture(t)
	sel := DefaultSelectors()

	if doc.Find(sel.Ready).Length() == 0 {
		t.Error("fixture should contain the ready selector")
	}

	markers, err := ExtractMarkers(doc.Find(sel.Markers))
	if err != nil {
		t.Fatalf("ExtractMarkers() error: %v", err)
	}
	if len(markers) != 7 {
		t.Errorf("ExtractMarkers() returned %d markers, want 7", len(markers))
	}

	tests := []struct {
		objective match.ObjectiveType
		want      match.TeamSide
	}{
		{match.ObjectiveHerald, match.TeamRed},
		{match.ObjectiveDragon, match.TeamBlue},
		{match.ObjectiveFirstBlood, match.TeamRed},
		{match.ObjectiveTurret, match.TeamBlue},
		{match.ObjectiveBaron, match.TeamNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.objective), func(t *testing.T) {
			got := match.Resolve(markers, tt.objective)
			if got.Team != tt.want {
				t.Errorf("Resolve(%s).Team = %q, want %q", tt.objective, got.Team, tt.want)
			}
		})
	}

	roster, err := ExtractRoster(doc.Find(sel.Nameplates))
	if err != nil {
		t.Fatalf("ExtractRoster() error: %v", err)
	}
	if roster != (match.TeamRoster{BlueTeam: "SK", RedTeam: "C9"}) {
		t.Errorf("ExtractRoster() = %+v", roster)
	}

	date, err := DateExtractor(match.DefaultDateFormat)(doc.Find(sel.Date))
	if err != nil {
		t.Fatalf("date extraction error: %v", err)
	}
	if date.String() != "2023-06-14" {
		t.Errorf("date = %v, want 2023-06-14", date)
	}
}

func TestFirstToken(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"SK Sacre", "SK"},
		{"C9 Blaber", "C9"},
		{"  G2\tCaps ", "G2"},
		{"Solo", "Solo"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := firstToken(tt.input); got != tt.expected {
				t.Errorf("firstToken(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractMarkers_NonFiniteDoesNotWin(t *testing.T) {
	nan := `<image href="herald_100" x="NaN"></image>`
	finite := `<image href="herald_200" x="10"></image>`

	for _, html := range []string{"<svg>" + nan + finite + "</svg>", "<svg>" + finite + nan + "</svg>"} {
		markers, err := ExtractMarkers(parse(t, html).Find(MarkersSelector))
		if err != nil {
			t.Fatalf("ExtractMarkers() error: %v", err)
		}
		if len(markers) != 1 {
			t.Fatalf("ExtractMarkers() returned %d markers, want 1: %+v", len(markers), markers)
		}
		if got := match.Resolve(markers, match.ObjectiveHerald).Team; got != match.TeamRed {
			t.Errorf("Resolve() team = %q, want red for %s", got, html)
		}
	}
}

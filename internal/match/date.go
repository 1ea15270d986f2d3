package match

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateFormat is the format match-history pages use for the game date header
const DefaultDateFormat = "M/D/YYYY"

// GameDate is a calendar date with no time component
type GameDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewGameDate creates a GameDate, normalizing out-of-range values the way time.Date does
func NewGameDate(year int, month time.Month, day int) GameDate {
	return dateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func dateOf(t time.Time) GameDate {
	y, m, d := t.Date()
	return GameDate{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC on the date
func (d GameDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is earlier than other
func (d GameDate) Before(other GameDate) bool {
	return d.Time().Before(other.Time())
}

// Format formats the date using a Go time layout
func (d GameDate) Format(layout string) string {
	return d.Time().Format(layout)
}

func (d GameDate) String() string {
	return d.Format(time.DateOnly)
}

// MarshalText encodes the date as YYYY-MM-DD
func (d GameDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date
func (d *GameDate) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	*d = dateOf(t)
	return nil
}

// dateTokens maps pattern tokens to Go layout elements, longest first
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MM", "01"},
	{"M", "1"},
	{"DD", "02"},
	{"D", "2"},
}

// Layout converts a date pattern such as "M/D/YYYY" into a Go time layout.
// Supported tokens: YYYY, YY, MM, M, DD, D. Anything else must be a separator other than '_',
// which Go layouts reserve for space-padded days.
func Layout(pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("empty date pattern")
	}

	var b strings.Builder
	rest := pattern
	for rest != "" {
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(rest, tok.token) {
				b.WriteString(tok.layout)
				rest = rest[len(tok.token):]
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		c := rest[0]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c == '_' {
			return "", fmt.Errorf("unsupported date pattern %q: unexpected %q", pattern, c)
		}
		b.WriteByte(c)
		rest = rest[1:]
	}

	return b.String(), nil
}

// ParseDate parses text according to a date pattern such as "M/D/YYYY".
// Returns an error wrapping ErrInvalidDate if the text does not match.
func ParseDate(text, pattern string) (GameDate, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return GameDate{}, err
	}

	t, err := time.Parse(layout, strings.TrimSpace(text))
	if err != nil {
		return GameDate{}, fmt.Errorf("%w: %q does not match %s", ErrInvalidDate, text, pattern)
	}

	return dateOf(t), nil
}

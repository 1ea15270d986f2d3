package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/pfrederiksen/lec-results/internal/match"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// displayDateLayout is the day-first layout used in text output
const displayDateLayout = "02-01-2006"

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time           `json:"checked_at"`
	Objective  match.ObjectiveType `json:"objective"`
	Matches    []*match.Summary    `json:"matches"`
	MatchCount int                 `json:"match_count"`
	Failures   []Failure           `json:"failures,omitempty"`
}

// Failure records a match that could not be extracted
type Failure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Matches == nil {
		result.Matches = []*match.Summary{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as an aligned table
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if len(result.Matches) == 0 {
		fmt.Fprintln(w, "No matches extracted.")
	} else {
		header := []string{"DATE", "BLUE", "RED", "FIRST " + strings.ToUpper(string(result.Objective))}
		if verbose {
			header = append(header, "URL")
		}

		rows := [][]string{header}
		for _, s := range result.Matches {
			row := []string{formatDate(s.Date), s.Teams.BlueTeam, s.Teams.RedTeam, formatFirst(s)}
			if verbose {
				row = append(row, s.URL)
			}
			rows = append(rows, row)
		}

		writeTable(w, rows)
	}

	for _, f := range result.Failures {
		fmt.Fprintf(w, "FAILED: %s: %s\n", f.URL, f.Error)
	}

	fmt.Fprintf(w, "\nTotal: %d matches", result.MatchCount)
	if len(result.Failures) > 0 {
		fmt.Fprintf(w, ", %d failed", len(result.Failures))
	}
	fmt.Fprintln(w)

	return nil
}

// writeTable pads every column to its widest cell. Widths are display widths so team tags with
// wide characters still line up.
func writeTable(w io.Writer, rows [][]string) {
	widths := make([]int, 0)
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}

func formatDate(d *match.GameDate) string {
	if d == nil {
		return "-"
	}
	return d.Format(displayDateLayout)
}

func formatFirst(s *match.Summary) string {
	if !s.FirstObjective.Occurred() {
		return "none"
	}
	return fmt.Sprintf("%s (%s)", s.Winner(), s.FirstObjective.Team)
}

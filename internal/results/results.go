package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/lec-results/internal/logger"
	"github.com/pfrederiksen/lec-results/internal/match"
	"github.com/pfrederiksen/lec-results/internal/scraper"
	"github.com/pfrederiksen/lec-results/internal/session"
)

// Getter produces match summaries from match-history pages
type Getter struct {
	opener      session.Opener
	selectors   scraper.Selectors
	dateFormat  string
	lenientDate bool
	log         *logger.Logger
}

// Option configures a Getter
type Option func(*Getter)

// WithSelectors overrides the page selectors
func WithSelectors(sel scraper.Selectors) Option {
	return func(g *Getter) {
		g.selectors = sel
	}
}

// WithDateFormat overrides the date header pattern
func WithDateFormat(pattern string) Option {
	return func(g *Getter) {
		g.dateFormat = pattern
	}
}

// WithLenientDate reports summaries without a date instead of failing when the date header
// cannot be parsed. A missing header is still an error.
func WithLenientDate() Option {
	return func(g *Getter) {
		g.lenientDate = true
	}
}

// WithLogger sets the logger used for phase and outcome logging
func WithLogger(l *logger.Logger) Option {
	return func(g *Getter) {
		g.log = l
	}
}

// New creates a Getter that acquires page sessions from opener
func New(opener session.Opener, opts ...Option) *Getter {
	g := &Getter{
		opener:     opener,
		selectors:  scraper.DefaultSelectors(),
		dateFormat: match.DefaultDateFormat,
		log:        logger.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Get extracts the summary of one match, resolving first-objective ownership for objective.
// The first failure aborts the query; the page session is always released before returning.
func (g *Getter) Get(ctx context.Context, url string, objective match.ObjectiveType) (summary *match.Summary, err error) {
	log := g.log.With(logger.Fields{"url": url, "objective": string(objective)})

	defer func() {
		if r := recover(); r != nil {
			logger.IncrCounter("matches.failed")
			log.Error("Match extraction panicked", logger.Fields{"panic": fmt.Sprint(r)}, nil)
			panic(r)
		}
		if err != nil {
			logger.IncrCounter("matches.failed")
			log.Error("Match extraction failed", nil, err)
			return
		}
		logger.IncrCounter("matches.ok")
	}()

	start := time.Now()
	sess, err := g.opener.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}
	logger.RecordTiming("session.open", time.Since(start))
	log.Debug("Page session opened", logger.Fields{"state": "session-open"})

	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			log.Warn("Closing page session failed", logger.Fields{"error": closeErr.Error()})
		}
		log.Debug("Page session closed", logger.Fields{"state": "closed"})
	}()

	start = time.Now()
	if err := sess.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("navigating: %w", err)
	}
	logger.RecordTiming("session.navigate", time.Since(start))
	log.Debug("Page loaded", logger.Fields{"state": "navigated"})

	start = time.Now()
	if err := sess.WaitFor(ctx, g.selectors.Ready); err != nil {
		return nil, fmt.Errorf("waiting for content: %w", err)
	}
	logger.RecordTiming("session.wait", time.Since(start))
	log.Debug("Page content ready", logger.Fields{"state": "content-ready"})

	start = time.Now()
	doc, err := sess.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}

	summary, err = g.extract(doc, url, objective, log)
	if err != nil {
		return nil, err
	}
	logger.RecordTiming("session.extract", time.Since(start))

	log.Debug("Match extracted", logger.Fields{
		"state":     "extracted",
		"blue_team": summary.Teams.BlueTeam,
		"red_team":  summary.Teams.RedTeam,
		"team":      string(summary.FirstObjective.Team),
	})

	return summary, nil
}

// extract runs every extractor against the same snapshot
func (g *Getter) extract(doc *goquery.Document, url string, objective match.ObjectiveType, log *logger.Logger) (*match.Summary, error) {
	teams, err := session.QueryAll(doc, g.selectors.Nameplates, scraper.ExtractRoster)
	if err != nil {
		return nil, fmt.Errorf("extracting teams: %w", err)
	}

	markers, err := session.QueryAll(doc, g.selectors.Markers, scraper.ExtractMarkers)
	if err != nil {
		return nil, fmt.Errorf("extracting markers: %w", err)
	}
	first := match.Resolve(markers, objective)

	summary := &match.Summary{
		URL:            url,
		Teams:          teams,
		FirstObjective: first,
	}

	date, err := session.Query(doc, g.selectors.Date, scraper.DateExtractor(g.dateFormat))
	switch {
	case err == nil:
		summary.Date = &date
	case g.lenientDate && errors.Is(err, match.ErrInvalidDate):
		log.Warn("Reporting match without a date", logger.Fields{"error": err.Error()})
	default:
		return nil, fmt.Errorf("extracting date: %w", err)
	}

	return summary, nil
}

// Outcome is the result of one query in a batch
type Outcome struct {
	URL     string
	Summary *match.Summary
	Err     error
}

// GetAll queries each URL in turn, each with its own page session. A failed query does not stop
// the batch; once ctx is done the remaining URLs fail with the context error.
func (g *Getter) GetAll(ctx context.Context, urls []string, objective match.ObjectiveType) []Outcome {
	outcomes := make([]Outcome, 0, len(urls))

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{URL: url, Err: err})
			continue
		}

		summary, err := g.Get(ctx, url, objective)
		outcomes = append(outcomes, Outcome{URL: url, Summary: summary, Err: err})
	}

	return outcomes
}

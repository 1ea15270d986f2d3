package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/lec-results/internal/logger"
	"github.com/pfrederiksen/lec-results/internal/match"
)

const (
	EngineChrome = "chrome"
	EngineHTTP   = "http"

	// DefaultUserAgent is a desktop Chrome user agent; the match-history site serves a reduced page
	// to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Session is one isolated page session. Close is idempotent and safe to call on every exit path.
type Session interface {
	// Navigate loads url and returns once the page load event fired
	Navigate(ctx context.Context, url string) error
	// WaitFor blocks until an element matching selector exists
	WaitFor(ctx context.Context, selector string) error
	// Snapshot returns the current DOM
	Snapshot(ctx context.Context) (*goquery.Document, error)
	Close() error
}

// Opener acquires new page sessions
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

// Options configures page sessions
type Options struct {
	Engine       string `yaml:"engine"`
	RemoteURL    string `yaml:"remote_url"`
	ExecPath     string `yaml:"exec_path"`
	Headless     bool   `yaml:"headless"`
	NoSandbox    bool   `yaml:"no_sandbox"`
	UserAgent    string `yaml:"user_agent"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	// TimeoutSec bounds each session operation. Zero leaves it to the engine default: no deadline
	// for chrome, HTTPTimeout for http.
	TimeoutSec int `yaml:"timeout_sec"`
}

// DefaultOptions returns options for a local headless Chrome
func DefaultOptions() Options {
	return Options{
		Engine:       EngineChrome,
		Headless:     true,
		UserAgent:    DefaultUserAgent,
		WindowWidth:  1920,
		WindowHeight: 1080,
	}
}

// Timeout returns the per-operation timeout, zero when unset
func (o Options) Timeout() time.Duration {
	return time.Duration(o.TimeoutSec) * time.Second
}

// NewOpener returns the Opener for the configured engine
func NewOpener(opts Options, log *logger.Logger) (Opener, error) {
	if log == nil {
		log = logger.Default()
	}

	switch strings.ToLower(opts.Engine) {
	case EngineChrome, "":
		return NewChromeOpener(opts, log), nil
	case EngineHTTP:
		return NewHTTPOpener(opts), nil
	default:
		return nil, fmt.Errorf("unknown session engine: %q", opts.Engine)
	}
}

// Query runs fn against the elements of doc matching selector.
// It fails with match.ErrMarkupMismatch when nothing matches.
func Query[T any](doc *goquery.Document, selector string, fn func(*goquery.Selection) (T, error)) (T, error) {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		var zero T
		return zero, fmt.Errorf("%w: no elements match %q", match.ErrMarkupMismatch, selector)
	}
	return fn(sel)
}

// QueryAll runs fn against the elements of doc matching selector, which may be none
func QueryAll[T any](doc *goquery.Document, selector string, fn func(*goquery.Selection) (T, error)) (T, error) {
	return fn(doc.Find(selector))
}

// Evaluate snapshots the session and runs fn against the elements matching selector.
// It fails with match.ErrMarkupMismatch when nothing matches.
func Evaluate[T any](ctx context.Context, s Session, selector string, fn func(*goquery.Selection) (T, error)) (T, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return Query(doc, selector, fn)
}

// EvaluateAll snapshots the session and runs fn against the elements matching selector, which
// may be none.
func EvaluateAll[T any](ctx context.Context, s Session, selector string, fn func(*goquery.Selection) (T, error)) (T, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return QueryAll(doc, selector, fn)
}

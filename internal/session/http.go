package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/lec-results/internal/match"
)

// HTTPTimeout bounds a fetch when no timeout is configured
const HTTPTimeout = 30 * time.Second

// HTTPOpener opens sessions that fetch pages without rendering them. It suits server-rendered
// pages and pages saved from a browser; nothing is executed, so the document never changes after
// Navigate.
type HTTPOpener struct {
	client    *http.Client
	userAgent string
}

// NewHTTPOpener creates an HTTPOpener
func NewHTTPOpener(opts Options) *HTTPOpener {
	timeout := opts.Timeout()
	if timeout <= 0 {
		timeout = HTTPTimeout
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPOpener{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Open returns a new session with no page loaded
func (o *HTTPOpener) Open(ctx context.Context) (Session, error) {
	return &httpSession{client: o.client, userAgent: o.userAgent}, nil
}

type httpSession struct {
	client    *http.Client
	userAgent string

	mu     sync.Mutex
	doc    *goquery.Document
	closed bool
}

// Navigate fetches http(s) URLs and reads file:// URLs or bare paths from disk
func (s *httpSession) Navigate(ctx context.Context, target string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return fmt.Errorf("%w: session closed", match.ErrNavigation)
	}

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: parsing url: %w", match.ErrNavigation, err)
	}

	var doc *goquery.Document
	switch u.Scheme {
	case "http", "https":
		doc, err = s.fetch(ctx, target)
	case "file":
		doc, err = readFile(u.Path)
	case "":
		doc, err = readFile(target)
	default:
		err = fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", match.ErrNavigation, target, err)
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()

	return nil
}

func (s *httpSession) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

func readFile(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// WaitFor succeeds when the loaded document contains selector. A static document cannot change,
// so a missing element is reported as a timeout straight away.
func (s *httpSession) WaitFor(ctx context.Context, selector string) error {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()

	if doc == nil {
		return fmt.Errorf("%w: %s: no page loaded", match.ErrTimeout, selector)
	}
	if doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s: not present in static document", match.ErrTimeout, strings.TrimSpace(selector))
	}
	return nil
}

func (s *httpSession) Snapshot(ctx context.Context) (*goquery.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, fmt.Errorf("%w: no page loaded", match.ErrMarkupMismatch)
	}
	return s.doc, nil
}

func (s *httpSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.doc = nil
	return nil
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/pfrederiksen/lec-results/internal/logger"
	"github.com/pfrederiksen/lec-results/internal/match"
)

// ChromeOpener starts a browser tab per session, either in a locally launched Chrome or in a
// remote one reached through its DevTools websocket.
type ChromeOpener struct {
	opts Options
	log  *logger.Logger
}

// NewChromeOpener creates a ChromeOpener. A nil log uses the package default logger.
func NewChromeOpener(opts Options, log *logger.Logger) *ChromeOpener {
	if log == nil {
		log = logger.Default()
	}
	return &ChromeOpener{opts: opts, log: log}
}

// allocatorOptions builds the launch flags for a local Chrome
func (o *ChromeOpener) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", o.opts.Headless))

	if o.opts.WindowWidth > 0 && o.opts.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(o.opts.WindowWidth, o.opts.WindowHeight))
	}
	if o.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(o.opts.UserAgent))
	}
	if o.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.opts.ExecPath))
	}
	if o.opts.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	return opts
}

// Open launches (or attaches to) a browser and opens a fresh tab
func (o *ChromeOpener) Open(ctx context.Context) (Session, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if o.opts.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, o.opts.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, o.allocatorOptions()...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(o.logf(logger.LevelDebug)),
		chromedp.WithErrorf(o.logf(logger.LevelWarn)),
	)

	s := &chromeSession{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		opts:        o.opts,
	}

	// the first Run starts the browser and creates the tab
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			args := make([]string, len(ev.Args))
			for i, arg := range ev.Args {
				args[i] = string(arg.Value)
			}
			o.log.Debug("Browser console", logger.Fields{
				"type":    string(ev.Type),
				"message": strings.Join(args, " "),
			})
		case *runtime.EventExceptionThrown:
			if ev.ExceptionDetails != nil {
				o.log.Debug("Browser exception", logger.Fields{"text": ev.ExceptionDetails.Text})
			}
		}
	})

	var setup []chromedp.Action
	if o.opts.UserAgent != "" {
		setup = append(setup, emulation.SetUserAgentOverride(o.opts.UserAgent))
	}
	if o.opts.WindowWidth > 0 && o.opts.WindowHeight > 0 {
		setup = append(setup, chromedp.EmulateViewport(int64(o.opts.WindowWidth), int64(o.opts.WindowHeight)))
	}
	if len(setup) > 0 {
		if err := s.run(ctx, setup...); err != nil {
			s.Close()
			return nil, fmt.Errorf("configuring tab: %w", err)
		}
	}

	return s, nil
}

func (o *ChromeOpener) logf(level logger.Level) func(string, ...interface{}) {
	return func(format string, args ...interface{}) {
		fields := logger.Fields{"source": "chromedp"}
		msg := fmt.Sprintf(format, args...)
		if level == logger.LevelWarn {
			o.log.Warn(msg, fields)
			return
		}
		o.log.Debug(msg, fields)
	}
}

type chromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options

	closeOnce sync.Once
	closeErr  error
}

// run executes actions on the tab, bounded by the configured timeout and by ctx.
// Contexts derived from the tab context only stop the actions, the tab stays open.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	if timeout := s.opts.Timeout(); timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	// chromedp.Navigate returns after the load event
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("%w: %s: %w", match.ErrNavigation, url, err)
	}
	return nil
}

func (s *chromeSession) WaitFor(ctx context.Context, selector string) error {
	if err := s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("%w: %s: %w", match.ErrTimeout, selector, err)
	}
	return nil
}

func (s *chromeSession) Snapshot(ctx context.Context) (*goquery.Document, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("%w: reading document: %w", match.ErrMarkupMismatch, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing document: %w", match.ErrMarkupMismatch, err)
	}
	return doc, nil
}

// Close closes the tab and, for a locally launched browser, the browser process
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = fmt.Errorf("closing browser: %w", err)
		}
		s.cancel()
		s.allocCancel()
	})
	return s.closeErr
}

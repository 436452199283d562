// internal/browser/session.go
// Description: Owns the Chrome process and the single tab the engine drives.
// A Session wraps a chromedp context with lifecycle management, navigation,
// DOM snapshotting and bounded element waits.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrElementNotFound is returned when a ref no longer resolves to a live
// element, typically because the page re-rendered since classification.
var ErrElementNotFound = errors.New("browser: element not found")

// Options controls the Chrome launch and per-call timeouts.
type Options struct {
	Headless    bool
	ExecPath    string
	UserDataDir string
	Args        []string
	// Headers are sent with every request, e.g. for sites behind an
	// authenticating proxy.
	Headers map[string]string

	// NavigationTimeout bounds Navigate; WaitElementTimeout bounds the
	// polling loop in WaitElement.
	NavigationTimeout  time.Duration
	WaitElementTimeout time.Duration
}

// DefaultOptions returns launch options suitable for unattended runs.
func DefaultOptions() Options {
	return Options{
		Headless:           true,
		NavigationTimeout:  30 * time.Second,
		WaitElementTimeout: 4 * time.Second,
	}
}

// Session is a live browser tab. It implements executor.Page (see page.go)
// and provides the DOM snapshot the classifier parses.
type Session struct {
	id     string
	opts   Options
	logger *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	mu       sync.Mutex
	isClosed bool
}

// NewSession launches Chrome and opens a tab. The caller must Close the
// session to shut the process down.
func NewSession(ctx context.Context, opts Options, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	s := &Session{
		id:     id,
		opts:   opts,
		logger: logger.Named("browser").With(zap.String("session_id", id)),
	}

	allocOpts := execAllocatorOptions(opts)
	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(ctx, allocOpts...)
	s.tabCtx, s.tabCancel = chromedp.NewContext(s.allocCtx)

	// Force the target to actually start so launch failures surface here
	// instead of on the first navigation.
	if err := chromedp.Run(s.tabCtx); err != nil {
		s.allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		if err := chromedp.Run(s.tabCtx, network.Enable(), network.SetExtraHTTPHeaders(headers)); err != nil {
			s.Close()
			return nil, fmt.Errorf("apply extra headers: %w", err)
		}
	}

	s.logger.Debug("browser session started")
	return s, nil
}

// execAllocatorOptions builds the Chrome launch flags. Defaults are chosen
// for stability in containers; config args are layered on top.
func execAllocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if opts.Headless {
		out = append(out, chromedp.Headless)
	}
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserDataDir != "" {
		out = append(out, chromedp.UserDataDir(opts.UserDataDir))
	}
	for _, arg := range opts.Args {
		key, value, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if found {
			out = append(out, chromedp.Flag(key, value))
		} else {
			out = append(out, chromedp.Flag(key, true))
		}
	}
	return out
}

// ID returns the session identifier used in logs and fill results.
func (s *Session) ID() string { return s.id }

// Navigate loads the URL and waits for the document body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := s.combined(ctx, s.opts.NavigationTimeout)
	defer cancel()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	s.logger.Debug("navigation complete", zap.String("url", url))
	return nil
}

// CurrentURL reports the tab's current location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	runCtx, cancel := s.combined(ctx, 0)
	defer cancel()

	var url string
	if err := chromedp.Run(runCtx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}

// Snapshot captures the full rendered document for offline classification.
// Classifying a static snapshot keeps the heavy DOM walk out of the page and
// makes the classifier testable without a browser.
func (s *Session) Snapshot(ctx context.Context) (io.Reader, error) {
	runCtx, cancel := s.combined(ctx, 0)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("capture dom: %w", err)
	}
	return strings.NewReader(html), nil
}

// WaitElement polls until the ref resolves to a live element, bounded by
// WaitElementTimeout. A ref that never appears means the snapshot is stale.
func (s *Session) WaitElement(ctx context.Context, ref string) error {
	timeout := s.opts.WaitElementTimeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	waitCtx, cancel := s.combined(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		found, err := s.elementExists(waitCtx, ref)
		if err == nil && found {
			return nil
		}
		select {
		case <-waitCtx.Done():
			return fmt.Errorf("%w: %s", ErrElementNotFound, ref)
		case <-ticker.C:
		}
	}
}

// Close shuts the tab and the browser process down. Safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("closing browser session")
	if s.tabCancel != nil {
		s.tabCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}

// combined derives a context bound to both the session lifetime and the
// caller's deadline, optionally adding a timeout.
func (s *Session) combined(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	stop := context.AfterFunc(ctx, cancel)

	if timeout > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(runCtx, timeout)
		return runCtx, func() {
			stop()
			timeoutCancel()
			cancel()
		}
	}
	return runCtx, func() {
		stop()
		cancel()
	}
}

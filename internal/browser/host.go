// internal/browser/host.go
package browser

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/dom"
)

// Renderer produces rendered documents. The CLI depends on this rather than
// on Host so it can run without a browser in tests.
type Renderer interface {
	Render(ctx context.Context, html string, width, height int) (*dom.Document, error)
	RenderURL(ctx context.Context, url string, width, height int) (*dom.Document, error)
	Close()
}

// Host renders pages in a headless browser and captures them as documents.
// The browser process is started on first use and shared by all renders;
// each render runs in its own tab.
type Host struct {
	logger *zap.Logger
	cfg    config.BrowserConfig
	parent context.Context
	tabs   *semaphore.Weighted

	startOnce     sync.Once
	startErr      error
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

var _ Renderer = (*Host)(nil)

// NewHost creates a Host. ctx bounds the lifetime of the browser process.
func NewHost(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	h := &Host{
		logger: logger.Named("browser_host"),
		cfg:    cfg,
		parent: ctx,
		tabs:   semaphore.NewWeighted(int64(concurrency)),
	}
	h.logger.Debug("Browser host created (launch deferred).", zap.Int("concurrency", concurrency))
	return h
}

func (h *Host) start() error {
	h.startOnce.Do(func() {
		allocCtx, allocCancel := chromedp.NewExecAllocator(h.parent, DefaultAllocatorOptions(h.cfg)...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx,
			chromedp.WithLogf(h.logger.Sugar().Debugf),
			chromedp.WithErrorf(h.logger.Sugar().Debugf),
		)
		// Running with no actions launches the browser and its first tab.
		if err := chromedp.Run(browserCtx); err != nil {
			browserCancel()
			allocCancel()
			h.startErr = fmt.Errorf("failed to launch browser: %w", err)
			return
		}
		h.allocCancel = allocCancel
		h.browserCtx = browserCtx
		h.browserCancel = browserCancel
		h.logger.Info("Browser launched.", zap.Bool("headless", h.cfg.Headless))
	})
	return h.startErr
}

// Close shuts the browser down. It is safe to call more than once.
func (h *Host) Close() {
	if h.browserCancel != nil {
		h.browserCancel()
	}
	if h.allocCancel != nil {
		h.allocCancel()
	}
}

// Render loads an HTML document into a fresh tab with a width x height
// viewport and captures it. An input whose body has no content yields a
// document without a root and never reaches the browser.
func (h *Host) Render(ctx context.Context, html string, width, height int) (*dom.Document, error) {
	prepared, err := PrepareHTML(html)
	if err != nil {
		return nil, err
	}
	if err := checkViewport(width, height); err != nil {
		return nil, err
	}
	if !prepared.HasBody {
		h.logger.Warn("HTML input has an empty body; skipping render.", zap.String("title", prepared.Title))
		return &dom.Document{Title: prepared.Title, Width: float64(width), Height: float64(height)}, nil
	}

	load := func(arm chromedp.Action) chromedp.Action {
		return chromedp.Tasks{
			chromedp.Navigate("about:blank"),
			// The blank page has loaded by now; only the document's own
			// load event counts.
			arm,
			chromedp.ActionFunc(func(ctx context.Context) error {
				tree, err := page.GetFrameTree().Do(ctx)
				if err != nil {
					return fmt.Errorf("failed to read frame tree: %w", err)
				}
				return page.SetDocumentContent(tree.Frame.ID, prepared.HTML).Do(ctx)
			}),
		}
	}
	doc, err := h.capture(ctx, load, width, height)
	if err != nil {
		return nil, err
	}
	if doc.Title == "" {
		doc.Title = prepared.Title
	}
	// about:blank says nothing about where the page came from.
	doc.URL = ""
	return doc, nil
}

// RenderURL navigates a fresh tab to url and captures it.
func (h *Host) RenderURL(ctx context.Context, url string, width, height int) (*dom.Document, error) {
	load := func(arm chromedp.Action) chromedp.Action {
		return chromedp.Tasks{arm, chromedp.Navigate(url)}
	}
	return h.capture(ctx, load, width, height)
}

func checkViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", width, height)
	}
	return nil
}

// loadWaiter closes Loaded on the first load event seen after Arm has run.
type loadWaiter struct {
	armed  atomic.Bool
	once   sync.Once
	loaded chan struct{}
}

func newLoadWaiter() *loadWaiter {
	return &loadWaiter{loaded: make(chan struct{})}
}

// Arm is the action that starts accepting load events.
func (w *loadWaiter) Arm() chromedp.Action {
	return chromedp.ActionFunc(func(context.Context) error {
		w.armed.Store(true)
		return nil
	})
}

// Observe is a target listener.
func (w *loadWaiter) Observe(ev interface{}) {
	if _, ok := ev.(*page.EventLoadEventFired); ok && w.armed.Load() {
		w.once.Do(func() { close(w.loaded) })
	}
}

func (w *loadWaiter) Loaded() <-chan struct{} { return w.loaded }

// capture opens a tab, runs the actions built by load and serializes the
// result. load places the waiter's arm action just before the step whose
// load event should be awaited.
func (h *Host) capture(ctx context.Context, load func(arm chromedp.Action) chromedp.Action, width, height int) (*dom.Document, error) {
	if err := checkViewport(width, height); err != nil {
		return nil, err
	}
	if err := h.start(); err != nil {
		return nil, err
	}
	if err := h.tabs.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a free tab: %w", err)
	}
	defer h.tabs.Release(1)

	tabCtx, cancelTab := chromedp.NewContext(h.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	// Create the target before listening so no load event is missed.
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, h.abort(ctx, "failed to open tab", err)
	}
	waiter := newLoadWaiter()
	chromedp.ListenTarget(tabCtx, waiter.Observe)

	if err := chromedp.Run(tabCtx,
		emulation.SetDeviceMetricsOverride(int64(width), int64(height), 1, false),
		load(waiter.Arm()),
	); err != nil {
		return nil, h.abort(ctx, "failed to load page", err)
	}

	if err := h.settle(ctx, waiter.Loaded()); err != nil {
		return nil, err
	}

	var contentHeight float64
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(contentHeightExpression, &contentHeight)); err != nil {
		return nil, h.abort(ctx, "failed to measure content height", err)
	}
	// Grow the viewport so viewport-relative units and lazy content resolve
	// against the whole page.
	if full := int64(math.Ceil(contentHeight)); full > int64(height) {
		if err := chromedp.Run(tabCtx, emulation.SetDeviceMetricsOverride(int64(width), full, 1, false)); err != nil {
			return nil, h.abort(ctx, "failed to resize viewport", err)
		}
	}

	expr, err := collectorExpression()
	if err != nil {
		return nil, err
	}
	var snapshot string
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(expr, &snapshot)); err != nil {
		return nil, h.abort(ctx, "failed to collect document", err)
	}
	doc, err := dom.Decode(strings.NewReader(snapshot))
	if err != nil {
		return nil, err
	}

	doc.Width = float64(width)
	doc.Height = float64(height)
	if doc.ContentHeight == 0 {
		doc.ContentHeight = contentHeight
	}
	h.logger.Debug("Captured document.",
		zap.String("title", doc.Title),
		zap.Int("elements", doc.Count()),
		zap.Float64("content_height", doc.ContentHeight))
	return doc, nil
}

// settle waits for the load event, bounded by the navigation timeout, and
// then for the settle delay. A missing load event is not fatal.
func (h *Host) settle(ctx context.Context, loaded <-chan struct{}) error {
	timeout := h.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-loaded:
	case <-timer.C:
		h.logger.Warn("Load event did not fire before the navigation timeout; capturing anyway.",
			zap.Duration("timeout", timeout))
	case <-ctx.Done():
		return ctx.Err()
	}

	if h.cfg.SettleDelay <= 0 {
		return nil
	}
	delay := time.NewTimer(h.cfg.SettleDelay)
	defer delay.Stop()
	select {
	case <-delay.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// abort prefers the caller's cancellation over the browser error it caused.
func (h *Host) abort(ctx context.Context, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// internal/browser/host_test.go
package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/style"
)

// hasOption checks for an option by inspecting its string representation,
// which lets the options be tested without a browser.
func hasOption(opts []chromedp.ExecAllocatorOption, substring string) bool {
	for _, opt := range opts {
		if strings.Contains(fmt.Sprintf("%#v", opt), substring) {
			return true
		}
	}
	return false
}

// -- Allocator Options --

func TestDefaultAllocatorOptions(t *testing.T) {
	base := len(chromedp.DefaultExecAllocatorOptions)

	t.Run("Headless", func(t *testing.T) {
		opts := DefaultAllocatorOptions(config.BrowserConfig{Headless: true})
		assert.Greater(t, len(opts), base, "sandbox and shm flags are always added")
	})

	t.Run("HeadfulAddsFlag", func(t *testing.T) {
		headless := DefaultAllocatorOptions(config.BrowserConfig{Headless: true})
		headful := DefaultAllocatorOptions(config.BrowserConfig{Headless: false})
		assert.Len(t, headful, len(headless)+1)
	})

	t.Run("GPUAndExecPath", func(t *testing.T) {
		plain := DefaultAllocatorOptions(config.BrowserConfig{Headless: true})
		opts := DefaultAllocatorOptions(config.BrowserConfig{
			Headless:   true,
			DisableGPU: true,
			ExecPath:   "/opt/chrome/chrome",
		})
		assert.Len(t, opts, len(plain)+2)
	})

	t.Run("CustomArgs", func(t *testing.T) {
		plain := DefaultAllocatorOptions(config.BrowserConfig{Headless: true})
		opts := DefaultAllocatorOptions(config.BrowserConfig{
			Headless: true,
			Args:     []string{"--custom-arg1", "lang=en-US", "--", ""},
		})
		assert.Len(t, opts, len(plain)+2, "empty flags are skipped")
	})
}

// -- HTML Preparation --

func TestPrepareHTML(t *testing.T) {
	t.Run("ExtractsTitle", func(t *testing.T) {
		p, err := PrepareHTML("<!doctype html><html><head><title>\n  Acme   Pricing \n</title></head><body><h1>Hi</h1></body></html>")
		require.NoError(t, err)
		assert.Equal(t, "Acme Pricing", p.Title)
		assert.True(t, p.HasBody)
		assert.Contains(t, p.HTML, "<h1>Hi</h1>", "input is passed through unchanged")
	})

	t.Run("Fragment", func(t *testing.T) {
		p, err := PrepareHTML(`<div class="card">Loose fragment</div>`)
		require.NoError(t, err)
		assert.Empty(t, p.Title)
		assert.True(t, p.HasBody)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		p, err := PrepareHTML("<html><head><title>Blank</title></head><body></body></html>")
		require.NoError(t, err)
		assert.Equal(t, "Blank", p.Title)
		assert.False(t, p.HasBody)
	})

	t.Run("WhitespaceBody", func(t *testing.T) {
		p, err := PrepareHTML("<html><body>\n   \n</body></html>")
		require.NoError(t, err)
		assert.False(t, p.HasBody)
	})

	t.Run("RejectsEmptyInput", func(t *testing.T) {
		_, err := PrepareHTML("  \n\t")
		require.Error(t, err)
	})
}

// -- Collector --

func TestCollectorExpression(t *testing.T) {
	expr, err := collectorExpression()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(expr, "(function (props)"), "header comments are stripped")
	for _, p := range style.PropertyNames() {
		assert.Contains(t, expr, `"`+p+`"`)
	}
	assert.True(t, strings.HasSuffix(expr, "])"))
}

func TestStripLeadingComments(t *testing.T) {
	assert.Equal(t, "(x)", stripLeadingComments("// a\n  // b\n(x)"))
	assert.Equal(t, "", stripLeadingComments("// only a comment"))
	assert.Equal(t, "code // trailing", stripLeadingComments("code // trailing"))
}

// -- Rendering (requires Chrome) --

func chromeAvailable() bool {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func newTestHost(t *testing.T) *Host {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if !chromeAvailable() {
		t.Skip("no Chrome binary on PATH")
	}
	cfg := config.NewDefaultConfig().Browser()
	cfg.SettleDelay = 50 * time.Millisecond
	cfg.NavigationTimeout = 20 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	h := NewHost(ctx, cfg, zaptest.NewLogger(t))
	t.Cleanup(func() {
		h.Close()
		cancel()
	})
	return h
}

func TestHostRender(t *testing.T) {
	h := newTestHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	doc, err := h.Render(ctx, `<!doctype html>
<html><head><title>Fixture</title></head>
<body style="margin:0">
  <div id="row" style="display:flex;gap:16px;height:120px">
    <div class="card" style="width:200px;background:#fff">One</div>
    <div class="card" style="width:200px;background:#fff">Two</div>
  </div>
  <div style="height:1600px"></div>
</body></html>`, 800, 600)
	require.NoError(t, err)
	require.NotNil(t, doc.Root)

	assert.Equal(t, "Fixture", doc.Title)
	assert.Equal(t, 800.0, doc.Width)
	assert.Equal(t, 600.0, doc.Height)
	assert.GreaterOrEqual(t, doc.ContentHeight, 1720.0)
	assert.Equal(t, "body", doc.Root.Tag)

	require.NotEmpty(t, doc.Root.Children)
	row := doc.Root.Children[0]
	assert.Equal(t, "row", row.ID)
	assert.Equal(t, "flex", row.Style["display"])
	assert.Equal(t, "16px", row.Style["column-gap"])
	require.Len(t, row.Children, 2)
	assert.Equal(t, []string{"card"}, row.Children[0].Classes)
	assert.Equal(t, 200.0, row.Children[0].Rect.Width)
	assert.Equal(t, "One", row.Children[0].DirectText())
}

func TestHostRenderCancelled(t *testing.T) {
	h := newTestHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Render(ctx, "<p>never</p>", 800, 600)
	require.Error(t, err)
}

func TestHostEmptyBodySkipsBrowser(t *testing.T) {
	h := NewHost(context.Background(), config.BrowserConfig{Concurrency: 1}, zaptest.NewLogger(t))
	defer h.Close()

	doc, err := h.Render(context.Background(), "<html><head><title>Blank</title></head><body> </body></html>", 800, 600)
	require.NoError(t, err)
	assert.Nil(t, doc.Root)
	assert.Equal(t, "Blank", doc.Title)
	assert.Equal(t, 800.0, doc.Width)
	assert.Nil(t, h.browserCtx, "no browser is launched")
}

func TestLoadWaiterIgnoresEventsBeforeArm(t *testing.T) {
	w := newLoadWaiter()

	w.Observe(&page.EventLoadEventFired{})
	select {
	case <-w.Loaded():
		t.Fatal("load event before arming must be ignored")
	default:
	}

	require.NoError(t, w.Arm().Do(context.Background()))
	w.Observe(&page.EventDomContentEventFired{})
	select {
	case <-w.Loaded():
		t.Fatal("only the load event counts")
	default:
	}

	w.Observe(&page.EventLoadEventFired{})
	w.Observe(&page.EventLoadEventFired{})
	select {
	case <-w.Loaded():
	case <-time.After(time.Second):
		t.Fatal("armed waiter did not observe the load event")
	}
}

func TestHostRenderWaitsForSlowStylesheet(t *testing.T) {
	h := newTestHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/css")
		fmt.Fprint(w, "#box { width: 321px; height: 40px; }")
	}))
	defer srv.Close()

	doc, err := h.Render(ctx, `<!doctype html>
<html><head><link rel="stylesheet" href="`+srv.URL+`/slow.css"></head>
<body style="margin:0"><div id="box" style="background:#000"></div></body></html>`, 800, 600)
	require.NoError(t, err)
	require.NotNil(t, doc.Root)
	require.NotEmpty(t, doc.Root.Children)

	box := doc.Root.Children[0]
	assert.Equal(t, "box", box.ID)
	assert.Equal(t, 321.0, box.Rect.Width, "the capture ran after the stylesheet loaded")
}

func TestHostRejectsBadViewport(t *testing.T) {
	h := NewHost(context.Background(), config.BrowserConfig{Concurrency: 1}, zaptest.NewLogger(t))
	defer h.Close()

	_, err := h.Render(context.Background(), "<p>x</p>", 0, 600)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewport must be positive")
}

// File: cmd/inputs.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/browser"
	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/convert"
	"github.com/xkilldash9x/figport/internal/dom"
)

// inputKind says how an input argument becomes a document.
type inputKind int

const (
	inputHTML inputKind = iota
	inputSnapshot
	inputURL
)

func classifyInput(arg string) inputKind {
	lower := strings.ToLower(arg)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "file://"):
		return inputURL
	case strings.HasSuffix(lower, ".json"):
		return inputSnapshot
	}
	return inputHTML
}

func expandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %q: %w", path, err)
	}
	return expanded, nil
}

// pageLoader turns input arguments into documents. The browser is only
// started when an input actually needs rendering, and is shared by all
// inputs of one command.
type pageLoader struct {
	ctx    context.Context
	deps   dependencies
	cfg    config.BrowserConfig
	logger *zap.Logger
	stdin  io.Reader

	once     sync.Once
	renderer browser.Renderer
}

// newPageLoader creates a loader. ctx bounds the lifetime of the browser.
func newPageLoader(ctx context.Context, deps dependencies, cfg config.BrowserConfig, logger *zap.Logger, stdin io.Reader) *pageLoader {
	return &pageLoader{ctx: ctx, deps: deps, cfg: cfg, logger: logger, stdin: stdin}
}

func (l *pageLoader) browser() browser.Renderer {
	l.once.Do(func() {
		l.renderer = l.deps.newRenderer(l.ctx, l.cfg, l.logger)
	})
	return l.renderer
}

// Close releases the browser if one was started.
func (l *pageLoader) Close() {
	if l.renderer != nil {
		l.renderer.Close()
	}
}

// Load produces the document for arg. "-" reads HTML from stdin.
func (l *pageLoader) Load(ctx context.Context, arg string, width, height int) (*dom.Document, error) {
	switch classifyInput(arg) {
	case inputURL:
		return l.browser().RenderURL(ctx, arg, width, height)
	case inputSnapshot:
		path, err := expandPath(arg)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		return dom.Decode(f)
	}

	raw, err := l.readHTML(arg)
	if err != nil {
		return nil, err
	}
	return l.browser().Render(ctx, raw, width, height)
}

func (l *pageLoader) readHTML(arg string) (string, error) {
	if arg == "-" {
		b, err := io.ReadAll(l.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read html from stdin: %w", err)
		}
		return string(b), nil
	}
	path, err := expandPath(arg)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read html input: %w", err)
	}
	return string(b), nil
}

// Job adapts an input argument to a batch conversion job.
func (l *pageLoader) Job(arg string, width, height int) convert.Job {
	return convert.Job{
		Name:   arg,
		Width:  width,
		Height: height,
		Load: func(ctx context.Context) (*dom.Document, error) {
			return l.Load(ctx, arg, width, height)
		},
	}
}

// writeOutput writes data to path, or to fallback when path is empty.
func writeOutput(path string, fallback io.Writer, data []byte) error {
	if path == "" {
		_, err := fallback.Write(data)
		return err
	}
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(expanded); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(expanded, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", expanded, err)
	}
	return nil
}

// derivedName replaces the extension of an input's base name. URLs and
// stdin get a generic name.
func derivedName(arg, ext string, index int) string {
	if arg == "-" || classifyInput(arg) == inputURL {
		return fmt.Sprintf("page-%d%s", index+1, ext)
	}
	base := filepath.Base(arg)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

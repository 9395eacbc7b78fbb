// File: cmd/options_test.go
package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/browser"
	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/generate"
	"github.com/xkilldash9x/figport/internal/mocks"
)

func TestApplyOverrides(t *testing.T) {
	t.Run("no flags leave the config alone", func(t *testing.T) {
		cfg := new(mocks.MockConfig)
		(&convertOptions{}).applyOverrides(cfg)
		cfg.AssertExpectations(t)
		cfg.AssertNotCalled(t, "SetConvertPageSize", mock.Anything, mock.Anything)
	})

	t.Run("width only keeps the configured height", func(t *testing.T) {
		cfg := new(mocks.MockConfig)
		cfg.On("Convert").Return(config.ConvertConfig{PageWidth: 1440, PageHeight: 900})
		cfg.On("SetConvertPageSize", 390, 900).Return()

		(&convertOptions{width: 390}).applyOverrides(cfg)
		cfg.AssertExpectations(t)
	})

	t.Run("browser flags", func(t *testing.T) {
		cfg := new(mocks.MockConfig)
		cfg.On("SetBrowserHeadless", false).Return()
		cfg.On("SetBrowserConcurrency", 6).Return()

		(&convertOptions{headful: true, concurrency: 6}).applyOverrides(cfg)
		cfg.AssertExpectations(t)
	})
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		out   string
		arg   string
		index int
		total int
		want  string
	}{
		{"single to stdout", "", "page.html", 0, 1, ""},
		{"single to file", "out.js", "page.html", 0, 1, "out.js"},
		{"batch into directory", "dist", "site/page.html", 0, 2, "dist/page.figma.js"},
		{"batch next to input", "", "site/page.html", 0, 2, "site/page.figma.js"},
		{"batch url in cwd", "", "https://example.com/", 1, 2, "page-2.figma.js"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.out, tt.arg, ".figma.js", tt.index, tt.total))
		})
	}
}

func TestClassifyInput(t *testing.T) {
	assert.Equal(t, inputURL, classifyInput("HTTPS://example.com"))
	assert.Equal(t, inputURL, classifyInput("file:///tmp/a.html"))
	assert.Equal(t, inputSnapshot, classifyInput("capture.JSON"))
	assert.Equal(t, inputHTML, classifyInput("index.htm"))
	assert.Equal(t, inputHTML, classifyInput("-"))
}

// -- Mocked Collaborators --

func mockDeps(r browser.Renderer, g generate.Generator, genErr error) dependencies {
	return dependencies{
		newRenderer: func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) browser.Renderer {
			return r
		},
		newGenerator: func(cfg config.LLMConfig, logger *zap.Logger) (generate.Generator, error) {
			return g, genErr
		},
	}
}

func TestGenerateConvertRenderFailure(t *testing.T) {
	resetForTest(t)
	page := "<html><body><h1>Blog</h1></body></html>"

	gen := new(mocks.MockGenerator)
	gen.On("Name").Return("mock")
	gen.On("Stream", mock.Anything, "a blog").
		Return(mocks.StreamOf(generate.Chunk{Text: page}, generate.Chunk{Done: true}), nil)

	renderer := new(mocks.MockRenderer)
	renderer.On("Render", mock.Anything, page, 1440, 900).Return(nil, errors.New("chrome exited"))
	renderer.On("Close").Return()

	_, _, err := execute(t, newRootCmd(mockDeps(renderer, gen, nil)), "",
		"generate", "-q", "a", "blog", "-o", t.TempDir()+"/blog.html", "--convert", t.TempDir()+"/blog.figma.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome exited")

	gen.AssertExpectations(t)
	renderer.AssertExpectations(t)
}

func TestGenerateProviderUnavailable(t *testing.T) {
	resetForTest(t)
	_, _, err := execute(t, newRootCmd(mockDeps(nil, nil, errors.New("no API key configured"))), "", "generate", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create generator")
}

func TestGenerateStreamRejected(t *testing.T) {
	resetForTest(t)
	gen := new(mocks.MockGenerator)
	gen.On("Name").Return("mock")
	gen.On("Stream", mock.Anything, "x").Return(nil, errors.New("401 unauthorized"))

	_, _, err := execute(t, newRootCmd(mockDeps(nil, gen, nil)), "", "generate", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 unauthorized")
	gen.AssertExpectations(t)
}

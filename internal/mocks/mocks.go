// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/figport/internal/browser"
	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/dom"
	"github.com/xkilldash9x/figport/internal/generate"
)

var (
	_ config.Interface   = (*MockConfig)(nil)
	_ browser.Renderer   = (*MockRenderer)(nil)
	_ generate.Generator = (*MockGenerator)(nil)
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Browser() config.BrowserConfig {
	args := m.Called()
	return args.Get(0).(config.BrowserConfig)
}

func (m *MockConfig) Convert() config.ConvertConfig {
	args := m.Called()
	return args.Get(0).(config.ConvertConfig)
}

func (m *MockConfig) LLM() config.LLMConfig {
	args := m.Called()
	return args.Get(0).(config.LLMConfig)
}

func (m *MockConfig) Preview() config.PreviewConfig {
	args := m.Called()
	return args.Get(0).(config.PreviewConfig)
}

// --- Setters ---

func (m *MockConfig) SetBrowserHeadless(b bool) {
	m.Called(b)
}

func (m *MockConfig) SetBrowserConcurrency(n int) {
	m.Called(n)
}

func (m *MockConfig) SetConvertPageSize(width, height int) {
	m.Called(width, height)
}

func (m *MockConfig) SetLLMProvider(p string) {
	m.Called(p)
}

func (m *MockConfig) SetLLMModel(model string) {
	m.Called(model)
}

// -- Renderer Mock --

// MockRenderer mocks browser.Renderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, html string, width, height int) (*dom.Document, error) {
	args := m.Called(ctx, html, width, height)
	doc, _ := args.Get(0).(*dom.Document)
	return doc, args.Error(1)
}

func (m *MockRenderer) RenderURL(ctx context.Context, url string, width, height int) (*dom.Document, error) {
	args := m.Called(ctx, url, width, height)
	doc, _ := args.Get(0).(*dom.Document)
	return doc, args.Error(1)
}

func (m *MockRenderer) Close() {
	m.Called()
}

// -- Generator Mock --

// MockGenerator mocks generate.Generator. Stream returns whatever channel the
// test configured; StreamOf builds one from fixed chunks.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockGenerator) Stream(ctx context.Context, prompt string) (<-chan generate.Chunk, error) {
	args := m.Called(ctx, prompt)
	ch, _ := args.Get(0).(<-chan generate.Chunk)
	return ch, args.Error(1)
}

// StreamOf returns a closed, buffered channel holding chunks.
func StreamOf(chunks ...generate.Chunk) <-chan generate.Chunk {
	ch := make(chan generate.Chunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

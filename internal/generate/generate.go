// internal/generate/generate.go
package generate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/config"
)

// SystemPrompt asks the model for a single self-contained page, which is the
// only input shape the converter can render.
const SystemPrompt = `You are a senior web designer. Produce exactly one complete, self-contained HTML document for the page the user describes.
Rules:
- Put all CSS in a single <style> element in <head>. No external stylesheets, scripts or frameworks.
- Prefer flexbox and simple grids for layout. Use real text, not lorem ipsum.
- Use web-safe or Google font family names in font-family declarations.
- Images must use absolute https URLs.
- Reply with the document inside one fenced code block tagged html and nothing else.`

// Chunk is one piece of a streamed response. The final chunk has Done set;
// a failed stream ends with a chunk carrying Err.
type Chunk struct {
	Text       string
	Done       bool
	StopReason string
	Err        error
}

// Generator streams a model response for a prompt.
type Generator interface {
	Name() string
	Stream(ctx context.Context, prompt string) (<-chan Chunk, error)
}

// New builds the generator selected by cfg.Provider.
func New(cfg config.LLMConfig, logger *zap.Logger) (Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		return NewAnthropic(cfg, logger), nil
	case "gemini":
		return NewGemini(cfg, logger), nil
	}
	return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
}

// Collect drains a stream and returns the concatenated text. It returns the
// text received so far together with the first stream or context error.
func Collect(ctx context.Context, chunks <-chan Chunk, onText func(string)) (string, error) {
	var b strings.Builder
	for {
		select {
		case <-ctx.Done():
			return b.String(), ctx.Err()
		case c, ok := <-chunks:
			if !ok {
				return b.String(), nil
			}
			if c.Err != nil {
				return b.String(), c.Err
			}
			if c.Text != "" {
				b.WriteString(c.Text)
				if onText != nil {
					onText(c.Text)
				}
			}
			if c.Done {
				return b.String(), nil
			}
		}
	}
}

// send delivers c unless ctx is done first.
func send(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

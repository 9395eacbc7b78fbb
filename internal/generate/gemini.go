// internal/generate/gemini.go
package generate

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/xkilldash9x/figport/internal/config"
)

// Gemini streams pages from the Gemini API. The client is created on first
// use because construction needs a context.
type Gemini struct {
	cfg    config.LLMConfig
	logger *zap.Logger

	once      sync.Once
	client    *genai.Client
	clientErr error
}

var _ Generator = (*Gemini)(nil)

func NewGemini(cfg config.LLMConfig, logger *zap.Logger) *Gemini {
	return &Gemini{cfg: cfg, logger: logger.Named("generate.gemini")}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) connect(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:  g.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.cfg.BaseURL != "" {
			cc.HTTPOptions.BaseURL = g.cfg.BaseURL
		}
		g.client, g.clientErr = genai.NewClient(ctx, cc)
		if g.clientErr != nil {
			g.clientErr = fmt.Errorf("failed to create gemini client: %w", g.clientErr)
		}
	})
	return g.client, g.clientErr
}

func (g *Gemini) Stream(ctx context.Context, prompt string) (<-chan Chunk, error) {
	client, err := g.connect(ctx)
	if err != nil {
		return nil, err
	}
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		MaxOutputTokens:   int32(g.cfg.MaxTokens),
	}
	out := make(chan Chunk, 64)

	go func() {
		defer close(out)
		var finish string
		for resp, err := range client.Models.GenerateContentStream(ctx, g.cfg.Model, genai.Text(prompt), gc) {
			if err != nil {
				send(ctx, out, Chunk{Err: fmt.Errorf("gemini stream: %w", err)})
				return
			}
			if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
				finish = string(resp.Candidates[0].FinishReason)
			}
			if text := resp.Text(); text != "" {
				if !send(ctx, out, Chunk{Text: text}) {
					return
				}
			}
		}
		g.logger.Info("Generation complete.",
			zap.String("model", g.cfg.Model),
			zap.String("finish_reason", finish))
		send(ctx, out, Chunk{Done: true, StopReason: finish})
	}()
	return out, nil
}

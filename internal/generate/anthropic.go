// internal/generate/anthropic.go
package generate

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/config"
)

// Anthropic streams pages from Anthropic's Messages API.
type Anthropic struct {
	client anthropic.Client
	cfg    config.LLMConfig
	logger *zap.Logger
}

var _ Generator = (*Anthropic)(nil)

// NewAnthropic creates the generator. Extra request options are appended
// after the configured ones.
func NewAnthropic(cfg config.LLMConfig, logger *zap.Logger, extra ...option.RequestOption) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	opts = append(opts, extra...)
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		cfg:    cfg,
		logger: logger.Named("generate.anthropic"),
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) params(prompt string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: int64(a.cfg.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

// Stream starts a streaming request. Text deltas are forwarded as they
// arrive; the channel is closed after the final chunk.
func (a *Anthropic) Stream(ctx context.Context, prompt string) (<-chan Chunk, error) {
	stream := a.client.Messages.NewStreaming(ctx, a.params(prompt))
	out := make(chan Chunk, 64)

	go func() {
		defer close(out)
		defer stream.Close()

		var stopReason string
		var inputTokens, outputTokens int64
		for stream.Next() {
			switch ev := stream.Current().AsAny().(type) {
			case anthropic.MessageStartEvent:
				inputTokens = ev.Message.Usage.InputTokens
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
					if !send(ctx, out, Chunk{Text: delta.Text}) {
						return
					}
				}
			case anthropic.MessageDeltaEvent:
				outputTokens = ev.Usage.OutputTokens
				if ev.Delta.StopReason != "" {
					stopReason = string(ev.Delta.StopReason)
				}
			}
		}
		if err := stream.Err(); err != nil {
			send(ctx, out, Chunk{Err: fmt.Errorf("anthropic stream: %w", err)})
			return
		}

		a.logger.Info("Generation complete.",
			zap.String("model", a.cfg.Model),
			zap.String("stop_reason", stopReason),
			zap.Int64("input_tokens", inputTokens),
			zap.Int64("output_tokens", outputTokens))
		send(ctx, out, Chunk{Done: true, StopReason: stopReason})
	}()
	return out, nil
}

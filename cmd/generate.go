// File: cmd/generate.go
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/convert"
	"github.com/xkilldash9x/figport/internal/generate"
	"github.com/xkilldash9x/figport/internal/observability"
)

type generateOptions struct {
	provider string
	model    string
	out      string
	convert  string
	quiet    bool
}

// newGenerateCmd creates the `generate` command, which asks a language model
// for a page and optionally converts the result straight away.
func newGenerateCmd(deps dependencies) *cobra.Command {
	opts := &generateOptions{}

	generateCmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Generate an HTML page from a description using an LLM",
		Long: `Streams a page description to the configured model and extracts the HTML
document from its reply. The page is written to --out (default stdout).
With --convert the page is also rendered and compiled into a Figma script.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runGenerate(cmd, deps, cfg, opts, strings.Join(args, " "))
		},
	}

	generateCmd.Flags().StringVar(&opts.provider, "provider", "", "LLM provider: anthropic or gemini (default from config)")
	generateCmd.Flags().StringVar(&opts.model, "model", "", "Model name (default from config)")
	generateCmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output HTML file (default stdout)")
	generateCmd.Flags().StringVar(&opts.convert, "convert", "", "Also convert the page and write the script to this file")
	generateCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not echo the streamed response to stderr")
	return generateCmd
}

func runGenerate(cmd *cobra.Command, deps dependencies, cfg config.Interface, opts *generateOptions, prompt string) error {
	if opts.provider != "" {
		cfg.SetLLMProvider(opts.provider)
	}
	if opts.model != "" {
		cfg.SetLLMModel(opts.model)
	}
	logger := observability.GetLogger().Named("cmd.generate")

	gen, err := deps.newGenerator(cfg.LLM(), logger)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	ctx := cmd.Context()
	if timeout := cfg.LLM().Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Info("Requesting page.", zap.String("provider", gen.Name()), zap.String("model", cfg.LLM().Model))
	chunks, err := gen.Stream(ctx, prompt)
	if err != nil {
		return fmt.Errorf("failed to start generation: %w", err)
	}

	var echo func(string)
	if !opts.quiet {
		echo = func(s string) { fmt.Fprint(cmd.ErrOrStderr(), s) }
	}
	response, err := generate.Collect(ctx, chunks, echo)
	if echo != nil {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	page, err := generate.ExtractHTML(response)
	if err != nil {
		return err
	}
	if err := writeOutput(opts.out, cmd.OutOrStdout(), []byte(page)); err != nil {
		return err
	}

	if opts.convert == "" {
		return nil
	}

	width, height := cfg.Convert().PageWidth, cfg.Convert().PageHeight
	renderer := deps.newRenderer(cmd.Context(), cfg.Browser(), logger)
	defer renderer.Close()

	doc, err := renderer.Render(cmd.Context(), page, width, height)
	if err != nil {
		return fmt.Errorf("failed to render generated page: %w", err)
	}
	res := convert.New(logger, cfg.Convert()).Convert(doc, width, height)
	if err := writeOutput(opts.convert, cmd.OutOrStdout(), []byte(res.Script)); err != nil {
		return err
	}
	logger.Info("Converted generated page.", zap.String("script", opts.convert), zap.String("conversion_id", res.ID))
	return nil
}

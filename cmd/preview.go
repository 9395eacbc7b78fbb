// File: cmd/preview.go
package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/convert"
	"github.com/xkilldash9x/figport/internal/observability"
	"github.com/xkilldash9x/figport/internal/preview"
	"github.com/xkilldash9x/figport/internal/scene"
)

// newPreviewCmd creates the `preview` command. It converts one input and
// draws the resulting scene graph as SVG, which is a quick way to eyeball
// the auto-layout structure without opening Figma.
func newPreviewCmd(deps dependencies) *cobra.Command {
	opts := &convertOptions{}

	previewCmd := &cobra.Command{
		Use:   "preview [input]",
		Short: "Draw the converted scene graph as an SVG approximation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			opts.applyOverrides(cfg)

			ctx := cmd.Context()
			logger := observability.GetLogger().Named("cmd.preview")
			width, height := cfg.Convert().PageWidth, cfg.Convert().PageHeight

			loader := newPageLoader(ctx, deps, cfg.Browser(), logger, cmd.InOrStdin())
			defer loader.Close()

			doc, err := loader.Load(ctx, args[0], width, height)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}
			res := convert.New(logger, cfg.Convert()).Convert(doc, width, height)
			if res.Scene == nil {
				return fmt.Errorf("%s produced no scene graph", args[0])
			}

			renderer, err := preview.New(logger, cfg.Preview())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := renderer.Render(&buf, res.Scene); err != nil {
				return err
			}
			if err := writeOutput(opts.out, cmd.OutOrStdout(), buf.Bytes()); err != nil {
				return err
			}
			logger.Info("Rendered preview.", zap.String("input", args[0]), zap.Int("nodes", scene.Count(res.Scene)))
			return nil
		},
	}

	previewCmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output SVG file (default stdout)")
	previewCmd.Flags().IntVar(&opts.width, "width", 0, "Viewport width in CSS pixels (default from config)")
	previewCmd.Flags().IntVar(&opts.height, "height", 0, "Viewport height in CSS pixels (default from config)")
	previewCmd.Flags().BoolVar(&opts.headful, "headful", false, "Show the browser window while rendering")
	return previewCmd
}

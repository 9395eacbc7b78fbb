// File: cmd/snapshot.go
package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/observability"
)

// newSnapshotCmd creates the `snapshot` command, which renders one input and
// writes the captured document as JSON. The result can be fed back to
// `convert` without a browser.
func newSnapshotCmd(deps dependencies) *cobra.Command {
	opts := &convertOptions{}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [input]",
		Short: "Render a page and save its computed document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			opts.applyOverrides(cfg)

			ctx := cmd.Context()
			logger := observability.GetLogger().Named("cmd.snapshot")
			width, height := cfg.Convert().PageWidth, cfg.Convert().PageHeight

			loader := newPageLoader(ctx, deps, cfg.Browser(), logger, cmd.InOrStdin())
			defer loader.Close()

			doc, err := loader.Load(ctx, args[0], width, height)
			if err != nil {
				return fmt.Errorf("failed to capture %s: %w", args[0], err)
			}

			var buf bytes.Buffer
			if err := doc.Encode(&buf); err != nil {
				return err
			}
			if err := writeOutput(opts.out, cmd.OutOrStdout(), buf.Bytes()); err != nil {
				return err
			}
			logger.Info("Captured document.", zap.String("input", args[0]), zap.Int("nodes", doc.Count()))
			return nil
		},
	}

	snapshotCmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default stdout)")
	snapshotCmd.Flags().IntVar(&opts.width, "width", 0, "Viewport width in CSS pixels (default from config)")
	snapshotCmd.Flags().IntVar(&opts.height, "height", 0, "Viewport height in CSS pixels (default from config)")
	snapshotCmd.Flags().BoolVar(&opts.headful, "headful", false, "Show the browser window while rendering")
	return snapshotCmd
}

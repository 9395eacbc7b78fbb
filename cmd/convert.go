// File: cmd/convert.go
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/convert"
	"github.com/xkilldash9x/figport/internal/observability"
	"github.com/xkilldash9x/figport/internal/scene"
)

const (
	emitScript = "script"
	emitScene  = "scene"
)

type convertOptions struct {
	emit        string
	out         string
	width       int
	height      int
	headful     bool
	concurrency int
}

// newConvertCmd creates and configures the `convert` command.
func newConvertCmd(deps dependencies) *cobra.Command {
	opts := &convertOptions{}

	convertCmd := &cobra.Command{
		Use:   "convert [inputs...]",
		Short: "Convert HTML pages or document snapshots into Figma build scripts",
		Long: `Each input is an HTML file, an http(s) URL, a .json document snapshot, or "-"
for HTML on stdin. HTML and URLs are rendered in a headless browser first.

With a single input the result is written to stdout unless --out is given.
With several inputs --out names a directory; without it each result is
written next to its input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runConvert(cmd, deps, cfg, opts, args)
		},
	}

	convertCmd.Flags().StringVar(&opts.emit, "emit", emitScript, "What to write: 'script' (Figma plugin script) or 'scene' (scene graph JSON)")
	convertCmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file, or directory when converting several inputs")
	convertCmd.Flags().IntVar(&opts.width, "width", 0, "Viewport width in CSS pixels (default from config)")
	convertCmd.Flags().IntVar(&opts.height, "height", 0, "Viewport height in CSS pixels (default from config)")
	convertCmd.Flags().BoolVar(&opts.headful, "headful", false, "Show the browser window while rendering")
	convertCmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Pages rendered at once (default from config)")
	return convertCmd
}

// applyOverrides folds command-line flags into the loaded configuration.
func (o *convertOptions) applyOverrides(cfg config.Interface) {
	if o.width > 0 || o.height > 0 {
		w, h := cfg.Convert().PageWidth, cfg.Convert().PageHeight
		if o.width > 0 {
			w = o.width
		}
		if o.height > 0 {
			h = o.height
		}
		cfg.SetConvertPageSize(w, h)
	}
	if o.headful {
		cfg.SetBrowserHeadless(false)
	}
	if o.concurrency > 0 {
		cfg.SetBrowserConcurrency(o.concurrency)
	}
}

func runConvert(cmd *cobra.Command, deps dependencies, cfg config.Interface, opts *convertOptions, args []string) error {
	if opts.emit != emitScript && opts.emit != emitScene {
		return fmt.Errorf("invalid --emit %q (want %s or %s)", opts.emit, emitScript, emitScene)
	}
	opts.applyOverrides(cfg)

	ctx := cmd.Context()
	logger := observability.GetLogger().Named("cmd.convert")
	width, height := cfg.Convert().PageWidth, cfg.Convert().PageHeight

	loader := newPageLoader(ctx, deps, cfg.Browser(), logger, cmd.InOrStdin())
	defer loader.Close()

	jobs := make([]convert.Job, len(args))
	for i, arg := range args {
		jobs[i] = loader.Job(arg, width, height)
	}

	converter := convert.New(logger, cfg.Convert())
	results, err := converter.ConvertAll(ctx, jobs, cfg.Browser().Concurrency)
	if err != nil {
		return err
	}

	var failures []error
	for i, res := range results {
		if res.Err != nil {
			failures = append(failures, res.Err)
			continue
		}
		if res.Placeholder {
			logger.Warn("Input produced no page; writing placeholder script.", zap.String("input", res.Name))
		}

		data, ext, err := encodeResult(res, opts.emit)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", res.Name, err))
			continue
		}
		path := outputPath(opts.out, args[i], ext, i, len(args))
		if err := writeOutput(path, cmd.OutOrStdout(), data); err != nil {
			failures = append(failures, err)
			continue
		}
		if path != "" {
			logger.Info("Wrote output.", zap.String("input", res.Name), zap.String("path", path))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d inputs failed: %w", len(failures), len(args), errors.Join(failures...))
	}
	return nil
}

func encodeResult(res convert.Result, emit string) ([]byte, string, error) {
	if emit == emitScript {
		return []byte(res.Script), ".figma.js", nil
	}
	if res.Scene == nil {
		return nil, "", fmt.Errorf("no scene graph to write")
	}
	data, err := encodeScene(res.Scene)
	return data, ".scene.json", err
}

func encodeScene(root *scene.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSceneJSON(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSceneJSON(w io.Writer, root *scene.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to encode scene graph: %w", err)
	}
	return nil
}

// outputPath picks where one result goes. "" means stdout.
func outputPath(out, arg, ext string, index, total int) string {
	if total == 1 {
		return out
	}
	name := derivedName(arg, ext, index)
	if out != "" {
		return filepath.Join(out, name)
	}
	if arg == "-" || classifyInput(arg) == inputURL {
		return name
	}
	return filepath.Join(filepath.Dir(arg), name)
}

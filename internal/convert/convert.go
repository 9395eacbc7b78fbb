// internal/convert/convert.go
package convert

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/figport/internal/codegen"
	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/dom"
	"github.com/xkilldash9x/figport/internal/scene"
	"github.com/xkilldash9x/figport/internal/walker"
)

// Result is the outcome of one conversion.
type Result struct {
	ID     string
	Name   string
	Script string
	// Scene is nil when no conversion could start.
	Scene *scene.Node
	// Placeholder is set when Script only explains why nothing was built.
	Placeholder bool
	Err         error
}

// Converter runs the walk, emit and assemble phases in order.
type Converter struct {
	logger  *zap.Logger
	walker  *walker.Walker
	emitter *codegen.Emitter
	cfg     config.ConvertConfig
}

// New builds a Converter from the convert configuration section.
func New(logger *zap.Logger, cfg config.ConvertConfig) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := scene.FontName{Family: cfg.FallbackFontFamily, Style: cfg.FallbackFontStyle}
	return &Converter{
		logger:  logger.Named("convert"),
		walker:  walker.New(logger, cfg.FallbackFontFamily),
		emitter: codegen.NewEmitter(logger, fallback),
		cfg:     cfg,
	}
}

// Convert compiles doc into a build script. It never fails: a missing
// document produces a placeholder script instead. Non-positive sizes fall
// back to the document viewport, then to the configured page size.
func (c *Converter) Convert(doc *dom.Document, width, height int) Result {
	id := uuid.NewString()
	log := c.logger.With(zap.String("conversion_id", id))

	if doc == nil || doc.Root == nil {
		log.Warn("No rendered document to convert.")
		return Result{ID: id, Script: codegen.Placeholder("no rendered document"), Placeholder: true}
	}
	width, height = c.pageSize(doc, width, height)

	root := c.walker.Walk(doc, doc.Root)
	prog := c.emitter.Emit(root, width, height)
	script := codegen.Assemble(prog, codegen.Meta{
		Title:  doc.Title,
		URL:    doc.URL,
		Width:  width,
		Height: height,
	})

	log.Info("Converted document.",
		zap.String("title", doc.Title),
		zap.Int("elements", doc.Count()),
		zap.Int("scene_nodes", scene.Count(root)),
		zap.Int("fonts", len(prog.Fonts)),
		zap.Int("script_bytes", len(script)))
	return Result{ID: id, Script: script, Scene: root}
}

func (c *Converter) pageSize(doc *dom.Document, width, height int) (int, int) {
	if width <= 0 {
		width = int(doc.Width)
	}
	if height <= 0 {
		height = int(doc.Height)
	}
	if width <= 0 {
		width = c.cfg.PageWidth
	}
	if height <= 0 {
		height = c.cfg.PageHeight
	}
	return width, height
}

// Loader produces the document for a Job, for example by rendering HTML.
type Loader func(ctx context.Context) (*dom.Document, error)

// Job is one input of a batch conversion.
type Job struct {
	Name   string
	Load   Loader
	Width  int
	Height int
}

// ConvertAll loads and converts jobs with at most limit running at once.
// Results keep the order of jobs. A failing loader only fails its own
// result; the returned error is non-nil only when ctx is cancelled.
func (c *Converter) ConvertAll(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	results := make([]Result, len(jobs))
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := job.Load(gctx)
			if err != nil {
				c.logger.Error("Failed to load document.", zap.String("input", job.Name), zap.Error(err))
				results[i] = Result{Name: job.Name, Err: fmt.Errorf("loading %s: %w", job.Name, err)}
				return nil
			}
			res := c.Convert(doc, job.Width, job.Height)
			res.Name = job.Name
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch conversion interrupted: %w", err)
	}
	return results, nil
}

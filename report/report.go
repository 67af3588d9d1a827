// Package report turns a clearance record into a finished PDF certificate.
package report

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ByLCY/clearcert/assets"
	"github.com/ByLCY/clearcert/clearance"
	"github.com/ByLCY/clearcert/config"
	"github.com/ByLCY/clearcert/imaging"
	"github.com/ByLCY/clearcert/layout"
	"github.com/ByLCY/clearcert/renderer"
	canvasrenderer "github.com/ByLCY/clearcert/renderer/canvas"
)

// Engine measures text for layout and serialises the laid-out pages.
type Engine interface {
	renderer.Renderer
	layout.Measurer
}

// Document is a generated certificate.
type Document struct {
	Filename string
	Bytes    []byte
	// Layout is the page layout the bytes were drawn from.
	Layout *layout.Result
}

// Generator holds the long-lived pieces of the pipeline. It is safe for
// concurrent use; every Generate call gets its own layout state.
type Generator struct {
	cfg    *config.Config
	logger *zap.Logger
	engine Engine
	loader *assets.Loader
	images layout.ImageEmbedder
}

// Option customises a Generator.
type Option func(*Generator)

// WithLogger sets the logger passed down to assets and layout.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithEngine replaces the canvas renderer.
func WithEngine(e Engine) Option {
	return func(g *Generator) { g.engine = e }
}

// WithLoader replaces the asset loader, e.g. to add an S3 client.
func WithLoader(l *assets.Loader) Option {
	return func(g *Generator) { g.loader = l }
}

// WithImageEmbedder replaces the photograph scaler.
func WithImageEmbedder(e layout.ImageEmbedder) Option {
	return func(g *Generator) { g.images = e }
}

// NewGenerator builds a generator. A nil cfg uses config.Default.
func NewGenerator(cfg *config.Config, opts ...Option) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Generator{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.engine == nil {
		g.engine = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Logger: g.logger})
	}
	if g.loader == nil {
		g.loader = DefaultLoader(cfg, g.logger)
	}
	if g.images == nil {
		g.images = imaging.New()
	}
	return g
}

// DefaultLoader returns a loader configured from cfg that also serves the
// built-in branding assets.
func DefaultLoader(cfg *config.Config, logger *zap.Logger, extra ...assets.Option) *assets.Loader {
	opts := []assets.Option{
		assets.WithTimeout(cfg.Assets.Timeout.Duration),
		assets.WithLogger(logger),
		assets.WithFS(clearance.Branding),
		assets.WithBaseDir(cfg.Assets.BaseDir),
		assets.WithParallelism(cfg.Assets.Parallelism),
	}
	return assets.NewLoader(append(opts, extra...)...)
}

// Generate renders one certificate. Missing or broken assets never fail
// the call; they are logged and drawn as placeholders. A nil tmpl uses
// the built-in template.
func (g *Generator) Generate(ctx context.Context, rec *clearance.ClearanceRecord, tmpl *clearance.DocumentTemplate) (*Document, error) {
	if rec == nil {
		return nil, errors.New("report: record is nil")
	}
	logger := g.logger.With(zap.String("project", rec.ProjectID))

	plan := clearance.BuildDocumentPlan(rec, tmpl)
	bundle := g.loader.LoadAll(ctx, plan.Assets...)
	logger.Debug("assets loaded", zap.Int("requested", len(plan.Assets)), zap.Int("loaded", bundle.Len()))

	res, err := layout.Build(plan.Pages, plan.Band, plan.Meta, layout.BuildOptions{
		Measurer:     g.engine,
		Images:       g.images,
		Assets:       bundle,
		Logger:       logger,
		Page:         g.cfg.PageSetup(),
		ImageDPI:     g.cfg.Images.DPI,
		ImageQuality: g.cfg.Images.Quality,
	})
	if err != nil {
		return nil, fmt.Errorf("report: layout: %w", err)
	}

	out, err := g.engine.Render(res)
	if err != nil {
		return nil, fmt.Errorf("report: render: %w", err)
	}
	logger.Info("certificate generated", zap.Int("pages", len(res.Pages)), zap.Int("bytes", len(out)))
	return &Document{Filename: clearance.Filename(rec), Bytes: out, Layout: res}, nil
}

// Generate renders a certificate with the default configuration.
func Generate(ctx context.Context, rec *clearance.ClearanceRecord, tmpl *clearance.DocumentTemplate) (*Document, error) {
	return NewGenerator(nil).Generate(ctx, rec, tmpl)
}

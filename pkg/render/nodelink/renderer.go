package nodelink

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphmorph/pkg/cache"
	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/morph"
	"github.com/matzehuels/graphmorph/pkg/observability"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// Formats lists the formats a [Renderer] can produce.
var Formats = []string{FormatSVG, FormatDOT, FormatPDF, FormatPNG}

// Engine is the layout engine recorded in artifact cache keys.
const Engine = "dot"

// Sink receives a rendered artifact.
type Sink func(ctx context.Context, format string, data []byte) error

// Renderer implements [morph.Renderer] by drawing each snapshot with
// Graphviz and passing the artifacts to a sink.
type Renderer struct {
	formats []string
	opts    Options
	scale   float64
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	sink    Sink
	logger  *log.Logger
}

// RendererOption configures a [Renderer].
type RendererOption func(*Renderer)

// WithFormats selects the output formats. Defaults to SVG.
func WithFormats(formats ...string) RendererOption {
	return func(r *Renderer) { r.formats = formats }
}

// WithOptions sets the DOT generation options.
func WithOptions(opts Options) RendererOption {
	return func(r *Renderer) { r.opts = opts }
}

// WithScale sets the PNG scale factor. Defaults to 2.
func WithScale(scale float64) RendererOption {
	return func(r *Renderer) { r.scale = scale }
}

// WithCache stores artifacts in c under keys from keyer. A nil keyer uses
// the default keyer.
func WithCache(c cache.Cache, keyer cache.Keyer) RendererOption {
	return func(r *Renderer) {
		r.cache = c
		if keyer != nil {
			r.keyer = keyer
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) RendererOption {
	return func(r *Renderer) { r.logger = l }
}

// NewRenderer creates a renderer that hands artifacts to sink.
func NewRenderer(sink Sink, opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		formats: []string{FormatSVG},
		scale:   2.0,
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
		ttl:     cache.TTLArtifact,
		sink:    sink,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if sink == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "renderer needs a sink")
	}
	for _, f := range r.formats {
		if !validFormat(f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
		}
	}
	return r, nil
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}

// Render converts s to every configured format and passes each artifact to
// the sink in order.
func (r *Renderer) Render(ctx context.Context, s *morph.Snapshot) error {
	dot := ToDOT(s, r.opts)
	hash := cache.Hash([]byte(dot))
	for _, format := range r.formats {
		data, err := r.artifact(ctx, dot, hash, format)
		if err != nil {
			return err
		}
		if err := r.sink(ctx, format, data); err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "write %s", format)
		}
	}
	return nil
}

func (r *Renderer) artifact(ctx context.Context, dot, hash, format string) ([]byte, error) {
	if format == FormatDOT {
		return []byte(dot), nil
	}

	key := r.keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{Format: format, Engine: Engine})
	if data, hit, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("cache read failed", "format", format, "error", err)
	} else if hit {
		observability.Cache().OnCacheHit(ctx, format)
		r.logger.Debug("cache hit", "format", format)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, format)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = RenderSVG(ctx, dot)
	case FormatPDF:
		data, err = RenderPDF(ctx, dot)
	case FormatPNG:
		data, err = RenderPNG(ctx, dot, r.scale)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Warn("cache write failed", "format", format, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	return data, nil
}

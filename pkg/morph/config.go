package morph

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphmorph/pkg/errors"
)

const (
	DefaultDelimiter       = "/"
	DefaultSigil           = "_"
	DefaultRootName        = "_root"
	DefaultLeafMargin      = 5
	DefaultDecorationDelay = 550 * time.Millisecond
)

// Config controls how names are parsed and how new nodes are styled.
type Config struct {
	// Delimiter separates the segments of a group path.
	Delimiter string
	// Sigil is the leading character that marks a name as a group.
	Sigil string
	// RootName names the implicit root group. It must start with Sigil.
	RootName string
	// LeafMargin is the margin given to leaves declared without one.
	LeafMargin int
	// DecorationDelay is how long after a render the Decorator runs.
	DecorationDelay time.Duration
}

// DefaultConfig returns the configuration used by [New].
func DefaultConfig() Config {
	return Config{
		Delimiter:       DefaultDelimiter,
		Sigil:           DefaultSigil,
		RootName:        DefaultRootName,
		LeafMargin:      DefaultLeafMargin,
		DecorationDelay: DefaultDecorationDelay,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := errors.ValidateSymbol("delimiter", c.Delimiter); err != nil {
		return err
	}
	if err := errors.ValidateSymbol("sigil", c.Sigil); err != nil {
		return err
	}
	if c.Delimiter == c.Sigil {
		return errors.New(errors.ErrCodeInvalidConfig, "delimiter and sigil must differ, both are %q", c.Sigil)
	}
	if err := errors.ValidateName(c.RootName); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "root name")
	}
	if !strings.HasPrefix(c.RootName, c.Sigil) {
		return errors.New(errors.ErrCodeInvalidConfig, "root name %q must start with sigil %q", c.RootName, c.Sigil)
	}
	if strings.Contains(c.RootName, c.Delimiter) {
		return errors.New(errors.ErrCodeInvalidConfig, "root name %q must not contain delimiter %q", c.RootName, c.Delimiter)
	}
	if c.LeafMargin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "leaf margin must not be negative")
	}
	if c.DecorationDelay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "decoration delay must not be negative")
	}
	return nil
}

// Option configures a [Morpher].
type Option func(*Morpher)

// WithConfig replaces the whole configuration. Zero fields fall back to the
// defaults.
func WithConfig(c Config) Option {
	return func(m *Morpher) {
		d := DefaultConfig()
		if c.Delimiter != "" {
			d.Delimiter = c.Delimiter
		}
		if c.Sigil != "" {
			d.Sigil = c.Sigil
		}
		if c.RootName != "" {
			d.RootName = c.RootName
		}
		if c.LeafMargin != 0 {
			d.LeafMargin = c.LeafMargin
		}
		if c.DecorationDelay != 0 {
			d.DecorationDelay = c.DecorationDelay
		}
		m.cfg = d
	}
}

func WithDelimiter(d string) Option { return func(m *Morpher) { m.cfg.Delimiter = d } }
func WithSigil(s string) Option     { return func(m *Morpher) { m.cfg.Sigil = s } }
func WithRootName(n string) Option  { return func(m *Morpher) { m.cfg.RootName = n } }
func WithLeafMargin(px int) Option  { return func(m *Morpher) { m.cfg.LeafMargin = px } }

// WithLogger sets the logger. The morpher tags it with its session id.
func WithLogger(l *log.Logger) Option { return func(m *Morpher) { m.logger = l } }

// WithRenderer sets the collaborator that receives a [Snapshot] after every
// successful interaction.
func WithRenderer(r Renderer) Option { return func(m *Morpher) { m.renderer = r } }

// WithDecorator schedules d after every render. A zero delay keeps the
// configured DecorationDelay.
func WithDecorator(d Decorator, delay time.Duration) Option {
	return func(m *Morpher) {
		m.decorator = d
		if delay > 0 {
			m.cfg.DecorationDelay = delay
		}
	}
}

// WithSession overrides the generated session id.
func WithSession(id string) Option { return func(m *Morpher) { m.session = id } }

package retained

import (
	"log/slog"

	"github.com/agiangrant/ctdlayout/geom"
)

// Layout defaults. Layouts never read these directly; they are only the
// values DefaultConfig hands out.
const (
	DefaultMargin    float32 = 4
	DefaultSpacing   float32 = 4
	DefaultTolerance         = geom.DefaultTolerance
)

// Config carries the per-layout settings passed to every layout constructor.
type Config struct {
	// Margin is subtracted on each side of the owning area.
	Margin float32

	// Spacing is inserted between adjacent items (columns and rows for grids).
	Spacing float32

	// Tolerance is the absolute slack under which the negotiated extent
	// counts as equal to the target.
	Tolerance float32

	// StretchWeighted makes LinearLayout split space by stretch factor
	// instead of evenly. A stretch of zero counts as one.
	StretchWeighted bool

	// Logger receives pass diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default margins and tolerance with the default logger.
func DefaultConfig() Config {
	return Config{
		Margin:    DefaultMargin,
		Spacing:   DefaultSpacing,
		Tolerance: DefaultTolerance,
	}
}

// WithMargins returns a copy of c with margin and spacing replaced.
func (c Config) WithMargins(margin, spacing float32) Config {
	c.Margin = margin
	c.Spacing = spacing
	return c
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) tolerance() float32 {
	if c.Tolerance <= 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}

package tw

// SizeProperties is the set of layout properties a class string can set.
// A nil field means the classes left it alone, so widgets keep their own
// value. Used both for ClassMap entries and for parsed results.
type SizeProperties struct {
	// Sizing
	Width     *float32
	Height    *float32
	MinWidth  *float32
	MinHeight *float32
	MaxWidth  *float32
	MaxHeight *float32

	// Policy: "fixed", "minimum", "maximum", "preferred", "expanding"
	PolicyX  *string
	PolicyY  *string
	StretchX *float32
	StretchY *float32

	// Grid placement
	Column  *int
	Row     *int
	ColSpan *int
	RowSpan *int

	// Visibility
	Hidden *bool

	// Container layout
	Margin  *float32 // outer margin of the widget's own layout (p-*)
	Spacing *float32 // gap between the widget's items (gap-*)
}

// Merge copies the non-nil fields of p into s. Later classes win.
func (s *SizeProperties) Merge(p SizeProperties) {
	mergeFloat(&s.Width, p.Width)
	mergeFloat(&s.Height, p.Height)
	mergeFloat(&s.MinWidth, p.MinWidth)
	mergeFloat(&s.MinHeight, p.MinHeight)
	mergeFloat(&s.MaxWidth, p.MaxWidth)
	mergeFloat(&s.MaxHeight, p.MaxHeight)

	if p.PolicyX != nil {
		s.PolicyX = p.PolicyX
	}
	if p.PolicyY != nil {
		s.PolicyY = p.PolicyY
	}
	mergeFloat(&s.StretchX, p.StretchX)
	mergeFloat(&s.StretchY, p.StretchY)

	mergeInt(&s.Column, p.Column)
	mergeInt(&s.Row, p.Row)
	mergeInt(&s.ColSpan, p.ColSpan)
	mergeInt(&s.RowSpan, p.RowSpan)

	if p.Hidden != nil {
		s.Hidden = p.Hidden
	}
	mergeFloat(&s.Margin, p.Margin)
	mergeFloat(&s.Spacing, p.Spacing)
}

func mergeFloat(dst **float32, src *float32) {
	if src != nil {
		*dst = src
	}
}

func mergeInt(dst **int, src *int) {
	if src != nil {
		*dst = src
	}
}

// IsEmpty reports whether no property is set.
func (s SizeProperties) IsEmpty() bool {
	return s == SizeProperties{}
}

// ThemeConfig holds the consumer's class configuration.
// This is registered via SetConfig() at startup.
type ThemeConfig struct {
	ClassMap    map[string]SizeProperties
	Breakpoints BreakpointConfig

	// SpacingUnit is the pixel size of one scale step (w-1, p-1, ...).
	SpacingUnit float32
}

// DefaultSpacingUnit matches Tailwind's 0.25rem scale step.
const DefaultSpacingUnit float32 = 4

// registeredConfig holds the consumer's configuration.
// If nil, parsing falls back to the framework defaults.
var registeredConfig *ThemeConfig

// SetConfig registers the consumer's class configuration.
// Call it at startup before any parsing occurs.
func SetConfig(config ThemeConfig) {
	registeredConfig = &config
}

// GetClassMap returns the registered ClassMap or falls back to the framework default.
func GetClassMap() map[string]SizeProperties {
	if registeredConfig != nil && registeredConfig.ClassMap != nil {
		return registeredConfig.ClassMap
	}
	return ClassMap
}

// GetBreakpoints returns the registered breakpoints or falls back to the framework default.
func GetBreakpoints() BreakpointConfig {
	if registeredConfig != nil && registeredConfig.Breakpoints != (BreakpointConfig{}) {
		return registeredConfig.Breakpoints
	}
	return DefaultBreakpoints()
}

// GetSpacingUnit returns the registered scale step or DefaultSpacingUnit.
func GetSpacingUnit() float32 {
	if registeredConfig != nil && registeredConfig.SpacingUnit > 0 {
		return registeredConfig.SpacingUnit
	}
	return DefaultSpacingUnit
}

func strPtr(s string) *string    { return &s }
func floatPtr(f float32) *float32 { return &f }
func boolPtr(b bool) *bool        { return &b }

// ClassMap holds the keyword utilities. Scaled utilities (w-24, col-span-2)
// are parsed from their prefix and never appear here.
var ClassMap = map[string]SizeProperties{
	// Policy on both axes
	"fixed":     {PolicyX: strPtr("fixed"), PolicyY: strPtr("fixed")},
	"preferred": {PolicyX: strPtr("preferred"), PolicyY: strPtr("preferred")},
	"expand":    {PolicyX: strPtr("expanding"), PolicyY: strPtr("expanding")},
	"grow":      {PolicyX: strPtr("minimum"), PolicyY: strPtr("minimum")},
	"shrink":    {PolicyX: strPtr("maximum"), PolicyY: strPtr("maximum")},

	// Policy per axis
	"fixed-x":  {PolicyX: strPtr("fixed")},
	"fixed-y":  {PolicyY: strPtr("fixed")},
	"expand-x": {PolicyX: strPtr("expanding")},
	"expand-y": {PolicyY: strPtr("expanding")},
	"grow-x":   {PolicyX: strPtr("minimum")},
	"grow-y":   {PolicyY: strPtr("minimum")},
	"shrink-x": {PolicyX: strPtr("maximum")},
	"shrink-y": {PolicyY: strPtr("maximum")},

	// Fill the parent along an axis
	"w-full": {PolicyX: strPtr("expanding")},
	"h-full": {PolicyY: strPtr("expanding")},

	// Visibility
	"hidden":  {Hidden: boolPtr(true)},
	"visible": {Hidden: boolPtr(false)},

	"p-0":   {Margin: floatPtr(0)},
	"gap-0": {Spacing: floatPtr(0)},
}

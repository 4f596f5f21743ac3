package tw

// BreakpointConfig holds the pixel thresholds for responsive breakpoints.
// Mobile-first: properties apply at the breakpoint width and above.
type BreakpointConfig struct {
	SM  float32 // ≥640px by default
	MD  float32 // ≥768px by default
	LG  float32 // ≥1024px by default
	XL  float32 // ≥1280px by default
	XXL float32 // ≥1536px by default (2xl)
}

// DefaultBreakpoints returns the standard Tailwind CSS breakpoint values.
func DefaultBreakpoints() BreakpointConfig {
	return BreakpointConfig{
		SM:  640,
		MD:  768,
		LG:  1024,
		XL:  1280,
		XXL: 1536,
	}
}

// ActiveBreakpoint returns the highest breakpoint that width satisfies.
func (c BreakpointConfig) ActiveBreakpoint(width float32) Breakpoint {
	switch {
	case width >= c.XXL:
		return Breakpoint2XL
	case width >= c.XL:
		return BreakpointXL
	case width >= c.LG:
		return BreakpointLG
	case width >= c.MD:
		return BreakpointMD
	case width >= c.SM:
		return BreakpointSM
	}
	return BreakpointBase
}

// ResolveForWidth merges properties from base up through the active breakpoint:
// base → sm → md → lg → xl → 2xl. Only properties set at a level override.
func (cs *ComputedStyles) ResolveForWidth(width float32, config BreakpointConfig) SizeProperties {
	result := cs.Base
	active := config.ActiveBreakpoint(width)

	levels := [...]struct {
		bp    Breakpoint
		props *SizeProperties
	}{
		{BreakpointSM, &cs.SM},
		{BreakpointMD, &cs.MD},
		{BreakpointLG, &cs.LG},
		{BreakpointXL, &cs.XL},
		{Breakpoint2XL, &cs.XXL},
	}
	for _, l := range levels {
		if l.bp > active {
			break
		}
		result.Merge(*l.props)
	}
	return result
}

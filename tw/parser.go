package tw

import (
	"fmt"
	"strings"
)

// Breakpoint represents responsive breakpoint
type Breakpoint int

const (
	BreakpointBase Breakpoint = iota
	BreakpointSM              // ≥640px
	BreakpointMD              // ≥768px
	BreakpointLG              // ≥1024px
	BreakpointXL              // ≥1280px
	Breakpoint2XL             // ≥1536px
)

// ComputedStyles holds the parsed properties per breakpoint.
type ComputedStyles struct {
	// Base styles (always apply)
	Base SizeProperties

	// Responsive variants (apply at the breakpoint width and above)
	SM  SizeProperties
	MD  SizeProperties
	LG  SizeProperties
	XL  SizeProperties
	XXL SizeProperties
}

// ParsedClass represents a class with its variant modifiers
type ParsedClass struct {
	Breakpoint     Breakpoint
	Ignored        bool // state/dark variants do not affect layout
	BaseClass      string
	ArbitraryValue *ArbitraryValue // For arbitrary values like w-[120px]
}

// ArbitraryValue represents a runtime-parsed arbitrary value
type ArbitraryValue struct {
	Property string // e.g., "w", "min-h", "stretch-x"
	Value    string // e.g., "120px", "2.5rem", "3"
}

// ParseClasses parses a class string and returns the computed properties.
// Example: "w-24 min-h-[40px] expand-x stretch-x-2 md:hidden col-span-2"
func ParseClasses(classStr string) ComputedStyles {
	var computed ComputedStyles

	for _, class := range strings.Fields(classStr) {
		parsed := parseClass(class)
		if parsed.Ignored {
			continue
		}

		var partial SizeProperties
		var ok bool
		switch {
		case parsed.ArbitraryValue != nil:
			partial, ok = parseArbitraryValue(parsed.ArbitraryValue)
		default:
			partial, ok = GetClassMap()[parsed.BaseClass]
			if !ok {
				partial, ok = parseScaled(parsed.BaseClass)
			}
		}
		if !ok {
			// Unknown class, silently ignore (like Tailwind CSS)
			continue
		}

		getTargetProperties(&computed, parsed.Breakpoint).Merge(partial)
	}

	return computed
}

// Parse is shorthand for the base properties of classStr, ignoring
// responsive variants.
func Parse(classStr string) SizeProperties {
	return ParseClasses(classStr).Base
}

// parseClass splits a class into variant modifiers and base utility
// "md:expand-x" → ParsedClass{Breakpoint: MD, BaseClass: "expand-x"}
// "w-[120px]" → ParsedClass{ArbitraryValue: {Property: "w", Value: "120px"}}
func parseClass(class string) ParsedClass {
	parts := strings.Split(class, ":")

	pc := ParsedClass{
		Breakpoint: BreakpointBase,
		BaseClass:  parts[len(parts)-1], // Last part is always the base utility
	}

	for i := 0; i < len(parts)-1; i++ {
		switch parts[i] {
		case "sm":
			pc.Breakpoint = BreakpointSM
		case "md":
			pc.Breakpoint = BreakpointMD
		case "lg":
			pc.Breakpoint = BreakpointLG
		case "xl":
			pc.Breakpoint = BreakpointXL
		case "2xl":
			pc.Breakpoint = Breakpoint2XL
		default:
			pc.Ignored = true
		}
	}

	if strings.Contains(pc.BaseClass, "[") && strings.HasSuffix(pc.BaseClass, "]") {
		pc.ArbitraryValue = extractArbitraryValue(pc.BaseClass)
		pc.BaseClass = ""
	}

	return pc
}

// extractArbitraryValue parses arbitrary value syntax
// "w-[33px]" → ArbitraryValue{Property: "w", Value: "33px"}
func extractArbitraryValue(class string) *ArbitraryValue {
	bracketIdx := strings.Index(class, "[")
	if bracketIdx == -1 {
		return nil
	}

	property := strings.TrimSuffix(class[:bracketIdx], "-") // Remove trailing dash
	value := strings.TrimSuffix(class[bracketIdx+1:], "]")

	return &ArbitraryValue{
		Property: property,
		Value:    value,
	}
}

// propertyKind selects how a prefix's value is parsed.
type propertyKind int

const (
	kindDimension propertyKind = iota // scale steps or a dimension
	kindFactor                        // plain number
	kindIndex                         // non-negative integer
	kindSpan                          // positive integer
	kindPolicy                        // policy name
)

// prefixRule binds a utility prefix to the properties it sets.
type prefixRule struct {
	prefix string
	kind   propertyKind
	apply  func(p *SizeProperties, v value)
}

type value struct {
	f float32
	i int
	s string
}

// prefixRules is ordered so longer prefixes are tried first.
var prefixRules = []prefixRule{
	{"min-w", kindDimension, func(p *SizeProperties, v value) { p.MinWidth = floatPtr(v.f) }},
	{"min-h", kindDimension, func(p *SizeProperties, v value) { p.MinHeight = floatPtr(v.f) }},
	{"max-w", kindDimension, func(p *SizeProperties, v value) { p.MaxWidth = floatPtr(v.f) }},
	{"max-h", kindDimension, func(p *SizeProperties, v value) { p.MaxHeight = floatPtr(v.f) }},
	{"size", kindDimension, func(p *SizeProperties, v value) {
		p.Width, p.Height = floatPtr(v.f), floatPtr(v.f)
	}},
	{"w", kindDimension, func(p *SizeProperties, v value) { p.Width = floatPtr(v.f) }},
	{"h", kindDimension, func(p *SizeProperties, v value) { p.Height = floatPtr(v.f) }},
	{"p", kindDimension, func(p *SizeProperties, v value) { p.Margin = floatPtr(v.f) }},
	{"gap", kindDimension, func(p *SizeProperties, v value) { p.Spacing = floatPtr(v.f) }},
	{"stretch-x", kindFactor, func(p *SizeProperties, v value) { p.StretchX = floatPtr(v.f) }},
	{"stretch-y", kindFactor, func(p *SizeProperties, v value) { p.StretchY = floatPtr(v.f) }},
	{"stretch", kindFactor, func(p *SizeProperties, v value) {
		p.StretchX, p.StretchY = floatPtr(v.f), floatPtr(v.f)
	}},
	{"col-span", kindSpan, func(p *SizeProperties, v value) { p.ColSpan = &v.i }},
	{"row-span", kindSpan, func(p *SizeProperties, v value) { p.RowSpan = &v.i }},
	{"col", kindIndex, func(p *SizeProperties, v value) { p.Column = &v.i }},
	{"row", kindIndex, func(p *SizeProperties, v value) { p.Row = &v.i }},
	{"policy-x", kindPolicy, func(p *SizeProperties, v value) { p.PolicyX = strPtr(v.s) }},
	{"policy-y", kindPolicy, func(p *SizeProperties, v value) { p.PolicyY = strPtr(v.s) }},
	{"policy", kindPolicy, func(p *SizeProperties, v value) {
		p.PolicyX, p.PolicyY = strPtr(v.s), strPtr(v.s)
	}},
}

var policyNames = map[string]bool{
	"fixed":     true,
	"minimum":   true,
	"maximum":   true,
	"preferred": true,
	"expanding": true,
}

// parseScaled handles prefix utilities with a scale value: "w-24" is 24
// spacing units, "stretch-x-2" a factor of 2, "col-span-3" three columns.
func parseScaled(class string) (SizeProperties, bool) {
	for _, rule := range prefixRules {
		raw, ok := strings.CutPrefix(class, rule.prefix+"-")
		if !ok || raw == "" {
			continue
		}
		v, ok := parseValue(rule.kind, raw, true)
		if !ok {
			continue
		}
		var p SizeProperties
		rule.apply(&p, v)
		return p, true
	}
	return SizeProperties{}, false
}

// parseArbitraryValue converts an arbitrary value at runtime. Dimensions
// in brackets are taken literally rather than as scale steps.
func parseArbitraryValue(arb *ArbitraryValue) (SizeProperties, bool) {
	if arb == nil {
		return SizeProperties{}, false
	}
	for _, rule := range prefixRules {
		if rule.prefix != arb.Property {
			continue
		}
		v, ok := parseValue(rule.kind, arb.Value, false)
		if !ok {
			return SizeProperties{}, false
		}
		var p SizeProperties
		rule.apply(&p, v)
		return p, true
	}
	return SizeProperties{}, false
}

func parseValue(kind propertyKind, raw string, scaled bool) (value, bool) {
	switch kind {
	case kindDimension:
		if scaled {
			steps := parseFloat(raw)
			if steps == nil || *steps < 0 {
				return value{}, false
			}
			return value{f: *steps * GetSpacingUnit()}, true
		}
		d := parseDimension(raw)
		if d == nil || *d < 0 {
			return value{}, false
		}
		return value{f: *d}, true
	case kindFactor:
		f := parseFloat(raw)
		if f == nil || *f < 0 {
			return value{}, false
		}
		return value{f: *f}, true
	case kindIndex, kindSpan:
		n := parseInt(raw)
		if n == nil || *n < 0 || (kind == kindSpan && *n < 1) {
			return value{}, false
		}
		return value{i: *n}, true
	case kindPolicy:
		if !policyNames[raw] {
			return value{}, false
		}
		return value{s: raw}, true
	}
	return value{}, false
}

func parseInt(value string) *int {
	var result int
	var rest string
	if n, _ := fmt.Sscanf(value, "%d%s", &result, &rest); n == 1 {
		return &result
	}
	return nil
}

// parseDimension parses CSS dimension values (px, rem, em)
func parseDimension(value string) *float32 {
	value = strings.TrimSpace(value)

	var numStr string
	var multiplier float32 = 1.0

	switch {
	case strings.HasSuffix(value, "px"):
		numStr = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "rem"):
		numStr = strings.TrimSuffix(value, "rem")
		multiplier = 16.0 // 1rem = 16px
	case strings.HasSuffix(value, "em"):
		numStr = strings.TrimSuffix(value, "em")
		multiplier = 16.0 // approximate
	default:
		numStr = value // Plain number (assume pixels)
	}

	if f := parseFloat(numStr); f != nil {
		result := *f * multiplier
		return &result
	}
	return nil
}

// parseFloat parses a float value, rejecting trailing garbage
func parseFloat(value string) *float32 {
	var result float32
	var rest string
	if n, _ := fmt.Sscanf(value, "%f%s", &result, &rest); n == 1 {
		return &result
	}
	return nil
}

// getTargetProperties returns which properties bucket to merge into
func getTargetProperties(computed *ComputedStyles, bp Breakpoint) *SizeProperties {
	switch bp {
	case BreakpointSM:
		return &computed.SM
	case BreakpointMD:
		return &computed.MD
	case BreakpointLG:
		return &computed.LG
	case BreakpointXL:
		return &computed.XL
	case Breakpoint2XL:
		return &computed.XXL
	default:
		return &computed.Base
	}
}

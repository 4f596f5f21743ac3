package retained

import (
	"strings"

	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

// Policy describes how an item may deviate from its size hint along one axis.
type Policy uint8

const (
	// PolicyFixed keeps the hint; the zero value, so an unset policy is fixed.
	PolicyFixed Policy = iota

	// PolicyMinimum treats the hint as a minimum: the item may grow, never shrink.
	PolicyMinimum

	// PolicyMaximum treats the hint as a maximum: the item may shrink, never grow.
	PolicyMaximum

	// PolicyPreferred keeps the hint unless no other item can absorb the
	// difference, then it may grow or shrink.
	PolicyPreferred

	// PolicyExpanding may grow or shrink, and is served first when growing.
	PolicyExpanding

	policyCount
)

var policyNames = [...]string{
	PolicyFixed:     "fixed",
	PolicyMinimum:   "minimum",
	PolicyMaximum:   "maximum",
	PolicyPreferred: "preferred",
	PolicyExpanding: "expanding",
}

func (p Policy) String() string {
	if p < policyCount {
		return policyNames[p]
	}
	return "policy(invalid)"
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p < policyCount
}

// ParsePolicy converts a policy name ("fixed", "expanding", ...) to a Policy.
func ParsePolicy(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range policyNames {
		if n == name {
			return Policy(i), nil
		}
	}
	return PolicyFixed, errors.Wrapf(ErrInvalidPolicy, "unknown policy name %q", name)
}

// SizePolicy holds a Policy and a stretch factor for each axis.
// The zero value is fixed on both axes with no stretch.
type SizePolicy struct {
	Horizontal Policy
	Vertical   Policy

	// Stretch factors weight the distribution among adjustable siblings.
	// Zero means no extra priority; the item stays eligible.
	HorizontalStretch float32
	VerticalStretch   float32
}

// NewSizePolicy creates a policy without stretch.
func NewSizePolicy(horizontal, vertical Policy) SizePolicy {
	return SizePolicy{Horizontal: horizontal, Vertical: vertical}
}

// WithStretch returns a copy of p with the given stretch factors.
func (p SizePolicy) WithStretch(horizontal, vertical float32) SizePolicy {
	p.HorizontalStretch = horizontal
	p.VerticalStretch = vertical
	return p
}

// Policy returns the policy along axis a.
func (p SizePolicy) Policy(a geom.Axis) Policy {
	if a == geom.Vertical {
		return p.Vertical
	}
	return p.Horizontal
}

// WithPolicy returns a copy of p whose policy along a is replaced.
func (p SizePolicy) WithPolicy(a geom.Axis, policy Policy) SizePolicy {
	if a == geom.Vertical {
		p.Vertical = policy
	} else {
		p.Horizontal = policy
	}
	return p
}

// Stretch returns the stretch factor along axis a.
func (p SizePolicy) Stretch(a geom.Axis) float32 {
	if a == geom.Vertical {
		return p.VerticalStretch
	}
	return p.HorizontalStretch
}

// CanGrow reports whether the item may exceed its hint along a.
func (p SizePolicy) CanGrow(a geom.Axis) bool {
	switch p.Policy(a) {
	case PolicyMinimum, PolicyExpanding:
		return true
	}
	return false
}

// CanShrink reports whether the item may go below its hint along a.
func (p SizePolicy) CanShrink(a geom.Axis) bool {
	switch p.Policy(a) {
	case PolicyMaximum, PolicyExpanding:
		return true
	}
	return false
}

// Expands reports whether the item is served first when space grows along a.
func (p SizePolicy) Expands(a geom.Axis) bool {
	return p.Policy(a) == PolicyExpanding
}

// Lenient reports whether the item may leave its hint once every strict
// candidate is exhausted.
func (p SizePolicy) Lenient(a geom.Axis) bool {
	return p.Policy(a) == PolicyPreferred
}

// Validate checks both policies and stretch factors.
func (p SizePolicy) Validate() error {
	if !p.Horizontal.Valid() {
		return errors.Wrapf(ErrInvalidPolicy, "horizontal policy %d", p.Horizontal)
	}
	if !p.Vertical.Valid() {
		return errors.Wrapf(ErrInvalidPolicy, "vertical policy %d", p.Vertical)
	}
	if p.HorizontalStretch < 0 || p.VerticalStretch < 0 {
		return errors.Wrapf(ErrInvalidPolicy, "negative stretch (%v, %v)", p.HorizontalStretch, p.VerticalStretch)
	}
	return nil
}

func (p SizePolicy) String() string {
	return p.Horizontal.String() + "/" + p.Vertical.String()
}

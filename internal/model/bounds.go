package model

import (
	"fmt"
	"strings"
)

// Bound is the inclusive flux range of a reaction.
type Bound struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// Consistent reports whether Lower <= Upper.
func (b Bound) Consistent() bool {
	return b.Lower <= b.Upper
}

// BoundKind selects which side of a Bound an override touches.
type BoundKind string

const (
	LowerBound BoundKind = "lower"
	UpperBound BoundKind = "upper"
)

// ParseBoundKind accepts "lower"/"lb" and "upper"/"ub", case-insensitively.
func ParseBoundKind(s string) (BoundKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower", "lb", "lower_bound":
		return LowerBound, nil
	case "upper", "ub", "upper_bound":
		return UpperBound, nil
	}
	return "", fmt.Errorf("unknown bound kind %q (want lower or upper)", s)
}

// Bounds is the bound vector of a model, indexed in reaction order.
// Every With* method returns a modified copy; the receiver is never changed.
type Bounds []Bound

// Clone returns an independent copy.
func (b Bounds) Clone() Bounds {
	out := make(Bounds, len(b))
	copy(out, b)
	return out
}

// With returns a copy with reaction i set to bound.
func (b Bounds) With(i int, bound Bound) Bounds {
	out := b.Clone()
	out[i] = bound
	return out
}

// WithLower returns a copy with the lower bound of reaction i set to v.
func (b Bounds) WithLower(i int, v float64) Bounds {
	out := b.Clone()
	out[i].Lower = v
	return out
}

// WithUpper returns a copy with the upper bound of reaction i set to v.
func (b Bounds) WithUpper(i int, v float64) Bounds {
	out := b.Clone()
	out[i].Upper = v
	return out
}

// WithKind returns a copy with the selected side of reaction i set to v.
func (b Bounds) WithKind(i int, kind BoundKind, v float64) Bounds {
	if kind == LowerBound {
		return b.WithLower(i, v)
	}
	return b.WithUpper(i, v)
}

// Get returns the selected side of reaction i.
func (b Bounds) Get(i int, kind BoundKind) float64 {
	if kind == LowerBound {
		return b[i].Lower
	}
	return b[i].Upper
}

// Equal reports whether both vectors hold exactly the same bounds.
func (b Bounds) Equal(other Bounds) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownReaction is returned when a reaction identifier is not part of the model.
	ErrUnknownReaction = errors.New("model: unknown reaction")

	// ErrUnknownMetabolite is returned when a metabolite identifier is not part of the model.
	ErrUnknownMetabolite = errors.New("model: unknown metabolite")

	// ErrDuplicateID is returned when two metabolites or two reactions share an identifier.
	ErrDuplicateID = errors.New("model: duplicate identifier")

	// ErrInvalidReaction is returned for reactions without an id or with a zero coefficient.
	ErrInvalidReaction = errors.New("model: invalid reaction")

	// ErrInconsistentBounds is wrapped by BoundsError.
	ErrInconsistentBounds = errors.New("model: inconsistent bounds")
)

// BoundIssue describes a reaction whose lower bound exceeds its upper bound.
type BoundIssue struct {
	Reaction string
	Lower    float64
	Upper    float64
}

func (i BoundIssue) Error() string {
	return fmt.Sprintf("reaction %q has inconsistent bounds: [%g, %g]", i.Reaction, i.Lower, i.Upper)
}

// BoundsError collects every BoundIssue of a bound vector.
type BoundsError struct {
	Issues []BoundIssue
}

func (e *BoundsError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Error()
	}
	return fmt.Sprintf("%v: %s", ErrInconsistentBounds, strings.Join(parts, "; "))
}

func (e *BoundsError) Unwrap() error {
	return ErrInconsistentBounds
}

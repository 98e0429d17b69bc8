package model

import "errors"

// Construction-time error taxonomy. Every mutating operation that would
// violate a model invariant fails atomically with one of these sentinels
// (wrapped with context); the tree is left unchanged. Resolution (ISD
// building) introduces no errors of its own.
var (
	// ErrStructure covers illegal parent/child combinations, cycles,
	// re-parenting of attached nodes and invalid timing pairs.
	ErrStructure = errors.New("illegal document structure")

	// ErrInvalidStyle is returned for unknown style properties and values
	// failing property validation.
	ErrInvalidStyle = errors.New("invalid style value")

	// ErrUnknownRegion is returned when an element is associated with a
	// region that is not registered in its document.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrUnassociatedDocument is returned when an operation requires an
	// owning document and the element has none.
	ErrUnassociatedDocument = errors.New("element has no document")

	// ErrImmutableID is returned on attempts to change a region id after
	// construction.
	ErrImmutableID = errors.New("immutable id")

	// ErrMalformedGroup is returned when a ruby group child sequence does
	// not match the required pattern.
	ErrMalformedGroup = errors.New("malformed ruby group")
)

package optype

import (
	"errors"
	"fmt"
)

// Error classes. Configuration errors come only from Build and are fatal
// for startup; lookup errors come only from a sealed Registry and are
// returned to the caller as protocol failures.
var (
	ErrConfiguration = errors.New("optype: invalid catalog")
	ErrLookup        = errors.New("optype: lookup failed")
)

var (
	ErrInvalidIdentifier   = errors.New("optype: invalid identifier")
	ErrInvalidVariant      = errors.New("optype: invalid variant")
	ErrDuplicateIdentifier = errors.New("optype: duplicate identifier")
	ErrDuplicateType       = errors.New("optype: duplicate payload type")
	ErrUnknownIdentifier   = errors.New("optype: unknown identifier")
	ErrUnknownType         = errors.New("optype: unknown payload type")
)

// InvalidIdentifierError reports a variant declared with a negative id.
type InvalidIdentifierError struct {
	Variant Variant
}

func (e InvalidIdentifierError) Error() string {
	return fmt.Sprintf("optype: id %d of %s must be non-negative", e.Variant.ID, e.Variant)
}

func (e InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier || target == ErrConfiguration
}

// InvalidVariantError reports a variant missing its name or marker.
type InvalidVariantError struct {
	Variant Variant
	Reason  string
}

func (e InvalidVariantError) Error() string {
	return fmt.Sprintf("optype: variant id=%d: %s", e.Variant.ID, e.Reason)
}

func (e InvalidVariantError) Is(target error) bool {
	return target == ErrInvalidVariant || target == ErrConfiguration
}

// DuplicateIdentifierError reports a wire id claimed by two variants.
type DuplicateIdentifierError struct {
	ID       int32
	Existing Variant
	New      Variant
}

func (e DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("optype: id %d is already registered to %s, cannot register %s", e.ID, e.Existing, e.New)
}

func (e DuplicateIdentifierError) Is(target error) bool {
	return target == ErrDuplicateIdentifier || target == ErrConfiguration
}

// DuplicateTypeError reports a payload marker claimed by two variants.
type DuplicateTypeError struct {
	Marker   Marker
	Existing Variant
	New      Variant
}

func (e DuplicateTypeError) Error() string {
	return fmt.Sprintf("optype: payload type %s is already registered to %s, cannot register %s", e.Marker, e.Existing, e.New)
}

func (e DuplicateTypeError) Is(target error) bool {
	return target == ErrDuplicateType || target == ErrConfiguration
}

// UnknownIdentifierError reports a wire id no registered variant owns.
type UnknownIdentifierError struct {
	ID int32
}

func (e UnknownIdentifierError) Error() string {
	return fmt.Sprintf("optype: id %d has not been registered", e.ID)
}

func (e UnknownIdentifierError) Is(target error) bool {
	return target == ErrUnknownIdentifier || target == ErrLookup
}

// UnknownTypeError reports a payload marker no registered variant owns.
type UnknownTypeError struct {
	Marker Marker
}

func (e UnknownTypeError) Error() string {
	if e.Marker == "" {
		return "optype: payload type <nil> has not been registered"
	}
	return fmt.Sprintf("optype: payload type %s has not been registered", e.Marker)
}

func (e UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType || target == ErrLookup
}

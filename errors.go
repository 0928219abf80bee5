package safebytes

import "errors"

var (
	// ErrIneligibleType indicates that a type cannot provide a fully defined
	// byte view. Types embedding pointers, slices, maps, strings,
	// interfaces, channels or funcs are rejected: their storage contains
	// addresses with no stable byte-level meaning.
	ErrIneligibleType = errors.New("safebytes: type has no fully defined byte representation")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("safebytes: WriteTo called with a nil io.Writer")
)

package safebytes

import (
	"bytes"
	"io"
)

// WriteTo normalizes *v and writes its byte view to w, so a value can be
// streamed (to a hasher, file or connection) without the caller holding the
// intermediate view. Returns the number of bytes written.
func WriteTo[T any](w io.Writer, v *T) (int64, error) {
	if w == nil {
		return 0, ErrWriteToNil
	}
	b, err := Normalize(v)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n < len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// Equal normalizes both values and reports whether their views are
// byte-identical. For eligible types this is a deterministic whole-value
// comparison: padding can never cause two equal values to differ.
func Equal[T any](a, b *T) (bool, error) {
	av, err := Normalize(a)
	if err != nil {
		return false, err
	}
	bv, err := Normalize(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(av, bv), nil
}

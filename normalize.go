package safebytes

import (
	"reflect"
	"unsafe"
)

// Normalize overwrites every padding byte of *v with zero and returns a
// read-only view over its full in-memory representation. Field bytes are
// never touched, so two values with identical field content yield
// byte-identical views regardless of what garbage their padding held.
//
// The view aliases v's storage: it is valid only until *v is next mutated
// or moved, and the caller must hold sole access to *v for the duration of
// the call. Normalize is idempotent.
//
// It fails only when T is ineligible (see LayoutOf); for a T known to be
// eligible the call is total and MustNormalize can be used instead.
func Normalize[T any](v *T) ([]byte, error) {
	t := reflect.TypeOf(v).Elem()
	l, err := LayoutOf(t)
	if err != nil {
		return nil, err
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(v)), l.Size)
	l.Zero(b)
	return b, nil
}

// MustNormalize is Normalize for types statically known to be eligible.
// It panics if T is not.
func MustNormalize[T any](v *T) []byte {
	b, err := Normalize(v)
	if err != nil {
		panic(err)
	}
	return b
}

// NormalizeSlice normalizes every element of s in place and returns a view
// over the slice's whole backing storage, len(s)*sizeof(T) bytes long.
// The same aliasing and sole-access rules as Normalize apply.
func NormalizeSlice[T any](s []T) ([]byte, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	l, err := LayoutOf(t)
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return []byte{}, nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), uintptr(len(s))*l.Size)
	for i := range s {
		base := uintptr(i) * l.Size
		for _, p := range l.Padding {
			clear(b[base+p.Off : base+p.End()])
		}
	}
	return b, nil
}

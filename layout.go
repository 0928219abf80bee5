package safebytes

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/puzpuzpuz/xsync/v4"
)

// Range is a half-open span [Off, Off+Len) within a value's storage.
type Range struct {
	Off uintptr
	Len uintptr
}

// End returns the first offset past the range.
func (r Range) End() uintptr { return r.Off + r.Len }

// Layout is the derived byte-level description of an eligible type: the
// total size, the spans holding scalar data (flattened through nested
// structs and arrays), and the complementary padding spans.
//
// Invariant: Fields and Padding are sorted, mutually disjoint, and together
// tile [0, Size) exactly.
type Layout struct {
	Size    uintptr
	Fields  []Range
	Padding []Range
}

// layoutCache avoids re-deriving layouts through reflection on every call.
// Using a global concurrent map makes lookups safe from any goroutine.
var layoutCache = xsync.NewMap[reflect.Type, *Layout]()

// LayoutOf derives the layout of t, or reports why t is ineligible.
//
// Eligibility is structural: scalar types are always eligible, arrays are
// eligible iff their element type is, and structs are eligible iff every
// field (exported or not) is. Any other kind makes the whole type
// ineligible, and the returned error names the offending field.
//
// The result is cached per type; callers must not mutate it.
func LayoutOf(t reflect.Type) (*Layout, error) {
	if l, ok := layoutCache.Load(t); ok {
		return l, nil
	}

	var spans []Range
	if err := appendDataSpans(&spans, t, 0, t.String()); err != nil {
		return nil, err
	}

	l := &Layout{
		Size:   t.Size(),
		Fields: coalesce(spans),
	}
	l.Padding = complement(l.Fields, l.Size)

	l, _ = layoutCache.LoadOrStore(t, l)
	return l, nil
}

// Zero writes the filler value across every padding range of b, which must
// be the full storage of a value laid out as l.
func (l *Layout) Zero(b []byte) {
	for _, p := range l.Padding {
		clear(b[p.Off:p.End()])
	}
}

// appendDataSpans collects the scalar-data spans of t, shifted by base, into
// spans. path names the location within the root type for diagnostics.
func appendDataSpans(spans *[]Range, t reflect.Type, base uintptr, path string) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		*spans = append(*spans, Range{Off: base, Len: t.Size()})
		return nil

	case reflect.Array:
		elem := t.Elem()

		// Derive the element's spans once; every index repeats them at a
		// stride of the element size (arrays have no inter-element padding
		// beyond what the element layout itself contains).
		var elemSpans []Range
		if err := appendDataSpans(&elemSpans, elem, 0, path+"[0]"); err != nil {
			return err
		}
		elemSpans = coalesce(elemSpans)

		n := uintptr(t.Len())
		if n == 0 || len(elemSpans) == 0 {
			return nil
		}
		if len(elemSpans) == 1 && elemSpans[0].Off == 0 && elemSpans[0].Len == elem.Size() {
			// Padding-free element: the whole array is one contiguous span.
			*spans = append(*spans, Range{Off: base, Len: n * elem.Size()})
			return nil
		}
		for i := uintptr(0); i < n; i++ {
			off := base + i*elem.Size()
			for _, s := range elemSpans {
				*spans = append(*spans, Range{Off: off + s.Off, Len: s.Len})
			}
		}
		return nil

	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if err := appendDataSpans(spans, f.Type, base+f.Offset, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: %s has kind %s", ErrIneligibleType, path, t.Kind())
	}
}

// coalesce sorts spans by offset and merges adjacent or contiguous ones.
// Input spans never overlap: they come from disjoint field storage.
func coalesce(spans []Range) []Range {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Off < spans[j].Off })

	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Off <= last.End() {
			if s.End() > last.End() {
				last.Len = s.End() - last.Off
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// complement returns the gaps left by the sorted, disjoint fields within
// [0, size): the padding between consecutive spans plus any trailing tail.
func complement(fields []Range, size uintptr) []Range {
	var pad []Range
	var off uintptr
	for _, f := range fields {
		if f.Off > off {
			pad = append(pad, Range{Off: off, Len: f.Off - off})
		}
		off = f.End()
	}
	if size > off {
		pad = append(pad, Range{Off: off, Len: size - off})
	}
	return pad
}

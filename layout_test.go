package safebytes

import (
	"reflect"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Shared fixtures ---

// header is the canonical small composite: one byte of data, three bytes of
// alignment padding, then a 32-bit field.
type header struct {
	Flag  uint8
	Value uint32
}

type inner struct {
	Tag uint8
	Big uint64
}

type outer struct {
	In   inner
	Tail uint16
}

type empty struct{}

// checkTiling asserts the central layout invariant: fields and padding are
// disjoint and together cover [0, Size) exactly, with no gaps.
func checkTiling(t *testing.T, typ reflect.Type) {
	t.Helper()

	l, err := LayoutOf(typ)
	require.NoError(t, err)

	all := append(append([]Range(nil), l.Fields...), l.Padding...)
	sort.Slice(all, func(i, j int) bool { return all[i].Off < all[j].Off })

	var off uintptr
	for _, r := range all {
		require.EqualValues(t, off, r.Off, "gap or overlap at offset %d in %s", off, typ)
		require.NotZero(t, r.Len, "empty range in %s", typ)
		off = r.End()
	}
	assert.EqualValues(t, l.Size, off)
	assert.EqualValues(t, typ.Size(), l.Size)
}

func TestLayoutCoverage(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeOf(uint8(0)),
		reflect.TypeOf(complex128(0)),
		reflect.TypeOf(false),
		reflect.TypeOf(header{}),
		reflect.TypeOf(inner{}),
		reflect.TypeOf(outer{}),
		reflect.TypeOf(empty{}),
		reflect.TypeOf([4]uint32{}),
		reflect.TypeOf([3]inner{}),
		reflect.TypeOf([2][2]uint16{}),
		reflect.TypeOf(struct {
			A [0]int64
			B uint8
		}{}),
		reflect.TypeOf(struct {
			A uint8
			_ [3]byte
			B uint32
		}{}),
	} {
		t.Run(typ.String(), func(t *testing.T) {
			checkTiling(t, typ)
		})
	}
}

func TestLayoutConcrete(t *testing.T) {
	typ := reflect.TypeOf(header{})
	off := typ.Field(1).Offset

	l, err := LayoutOf(typ)
	require.NoError(t, err)
	require.EqualValues(t, 4, off, "test expects 32-bit alignment for uint32")

	assert.EqualValues(t, 8, l.Size)
	assert.Equal(t, []Range{{Off: 0, Len: 1}, {Off: off, Len: 4}}, l.Fields)
	assert.Equal(t, []Range{{Off: 1, Len: off - 1}}, l.Padding)
}

// Nested padding must appear in the flattened range set at outer offsets,
// even though it lies inside a direct field of the outer type.
func TestLayoutNestedFlattened(t *testing.T) {
	ot := reflect.TypeOf(outer{})
	it := reflect.TypeOf(inner{})
	inOff := ot.Field(0).Offset
	bigOff := it.Field(1).Offset
	tailOff := ot.Field(1).Offset

	l, err := LayoutOf(ot)
	require.NoError(t, err)

	tailEnd := tailOff + 2
	assert.Equal(t, []Range{
		{Off: inOff + 1, Len: bigOff - 1},
		{Off: tailEnd, Len: l.Size - tailEnd},
	}, l.Padding)
}

func TestLayoutArrays(t *testing.T) {
	t.Run("ScalarElementsCollapse", func(t *testing.T) {
		l, err := LayoutOf(reflect.TypeOf([4]uint32{}))
		require.NoError(t, err)
		assert.Equal(t, []Range{{Off: 0, Len: 16}}, l.Fields)
		assert.Empty(t, l.Padding)
	})

	t.Run("PaddedElementsRepeatPerIndex", func(t *testing.T) {
		it := reflect.TypeOf(inner{})
		bigOff := it.Field(1).Offset
		stride := it.Size()

		l, err := LayoutOf(reflect.TypeOf([2]inner{}))
		require.NoError(t, err)
		assert.Equal(t, []Range{
			{Off: 1, Len: bigOff - 1},
			{Off: stride + 1, Len: bigOff - 1},
		}, l.Padding)
	})

	t.Run("EmptyArray", func(t *testing.T) {
		l, err := LayoutOf(reflect.TypeOf([0]inner{}))
		require.NoError(t, err)
		assert.Zero(t, l.Size)
		assert.Empty(t, l.Fields)
		assert.Empty(t, l.Padding)
	})
}

func TestLayoutZeroSized(t *testing.T) {
	l, err := LayoutOf(reflect.TypeOf(empty{}))
	require.NoError(t, err)
	assert.Zero(t, l.Size)
	assert.Empty(t, l.Fields)
	assert.Empty(t, l.Padding)
}

func TestLayoutTrailingAlignment(t *testing.T) {
	typ := reflect.TypeOf(outer{})
	tailEnd := typ.Field(1).Offset + typ.Field(1).Type.Size()

	l, err := LayoutOf(typ)
	require.NoError(t, err)
	assert.EqualValues(t, Roundup(tailEnd, uintptr(typ.Align())), l.Size)
}

func TestLayoutIneligible(t *testing.T) {
	type withString struct {
		Name string
	}
	type withNested struct {
		OK  uint8
		Bad struct {
			M map[string]int
		}
	}
	type withPointer struct {
		P *int
	}
	type withSlice struct {
		S []byte
	}

	cases := []struct {
		typ  reflect.Type
		path string
		kind string
	}{
		{reflect.TypeOf(withString{}), ".Name", "string"},
		{reflect.TypeOf(withNested{}), ".Bad.M", "map"},
		{reflect.TypeOf(withPointer{}), ".P", "ptr"},
		{reflect.TypeOf(withSlice{}), ".S", "slice"},
		{reflect.TypeOf("x"), "string", "string"},
	}
	for _, tc := range cases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			_, err := LayoutOf(tc.typ)
			require.ErrorIs(t, err, ErrIneligibleType)
			assert.Contains(t, err.Error(), tc.path)
			assert.Contains(t, err.Error(), tc.kind)
		})
	}
}

func TestLayoutCacheIdentity(t *testing.T) {
	typ := reflect.TypeOf(header{})
	l1, err := LayoutOf(typ)
	require.NoError(t, err)
	l2, err := LayoutOf(typ)
	require.NoError(t, err)
	assert.Same(t, l1, l2)
}

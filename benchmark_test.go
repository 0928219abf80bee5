package safebytes

import (
	"reflect"
	"testing"
)

type benchPayload struct {
	ID      uint32
	Val1    uint64
	Val2    uint64
	Val3    uint64
	IsAlive bool
}

func BenchmarkNormalize(b *testing.B) {
	v := benchPayload{ID: 1, Val1: 100}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MustNormalize(&v)
	}
}

func BenchmarkNormalizeSlice(b *testing.B) {
	items := make([]benchPayload, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = NormalizeSlice(items)
	}
}

// Baseline: the cached layout lookup alone, to see its share of Normalize.
func BenchmarkLayoutOf(b *testing.B) {
	typ := reflect.TypeOf(benchPayload{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = LayoutOf(typ)
	}
}

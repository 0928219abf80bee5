package safebytes

import "golang.org/x/exp/constraints"

func Ptr[T any](v T) *T { return &v } // ptr is a helper function to create a pointer to a value, making test setup cleaner.

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

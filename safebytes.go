// Package safebytes exposes byte-level views of struct values that are
// guaranteed to contain no indeterminate padding bytes.
//
// The Go compiler is free to insert unspecified filler bytes between and
// after struct fields to satisfy alignment. Reading the raw storage of such
// a value therefore yields non-deterministic content: two structs with
// identical field values may differ in their padding bytes, which breaks
// hashing, comparison, and deduplication over raw memory.
//
// safebytes solves this by normalizing a value in place: every padding byte
// is overwritten with zero, and only then is a read-only view over the
// value's full storage handed out. Two paths produce such a view:
//
//   - Normalize derives the padding ranges of a type at runtime via
//     reflection (cached per type) and works for any eligible type.
//   - safebytes-gen (cmd/safebytes-gen) generates a SafeBytes method with
//     the padding ranges hardcoded, for zero-reflection call sites.
//
// A type is eligible when its byte representation can be made fully
// defined: scalar types trivially (a scalar occupies its full storage),
// arrays of eligible types, and structs whose every field is eligible.
// Pointers, slices, maps, strings, interfaces, channels and funcs are not
// eligible; their storage embeds addresses that have no stable byte-level
// meaning.
//
// The resulting view follows the host platform's native layout and byte
// order. It is not a portable wire format, and there is no decoding path
// from bytes back to a value.
package safebytes

// Byter is implemented by types that can expose a fully defined view of
// their own raw storage.
//
// Implementations are expected from cmd/safebytes-gen; a hand-written
// implementation must uphold the same contract or every composite built on
// top of it silently inherits the violation.
type Byter interface {
	// SafeBytes overwrites every padding byte of the value with zero and
	// returns a read-only view over the value's full in-memory size.
	//
	// The caller must hold sole access to the value for the duration of the
	// call, and the returned slice aliases the value's storage: it is valid
	// only until the value is next mutated or moved. SafeBytes is
	// idempotent and must never write outside the value's own storage.
	SafeBytes() []byte
}

package main

import (
	"fmt"
	"go/types"
	"sort"
)

// typeSpec holds everything the templates need to emit one SafeBytes
// implementation: the type's total size, the padding gaps between its own
// direct fields, and the composite fields whose normalization is delegated
// to their own SafeBytes method.
type typeSpec struct {
	Name  string
	Size  int64
	Gaps  []gapData
	Calls []callData
}

// gapData is a half-open byte range [Off, End) of own-level padding.
type gapData struct {
	Off int64
	End int64
}

// callData names a field whose type handles its internal padding itself.
type callData struct {
	Field   string
	IsArray bool
}

// fieldKind classifies how a field participates in generated code.
type fieldKind int

const (
	fieldScalar      fieldKind = iota // fully defined storage, nothing to emit
	fieldStruct                       // emit v.F.SafeBytes()
	fieldStructArray                  // emit a per-element SafeBytes loop
)

// analyzeStruct derives the generation plan for a single struct type, or
// reports why the type is ineligible. requested contains the names of every
// type in the current run, so mutually dependent structs can reference each
// other before either method exists.
func analyzeStruct(name string, st *types.Struct, sizes types.Sizes, requested map[string]bool) (*typeSpec, error) {
	n := st.NumFields()
	fields := make([]*types.Var, n)
	for i := range fields {
		fields[i] = st.Field(i)
	}
	var offsets []int64
	if n > 0 {
		offsets = sizes.Offsetsof(fields)
	}

	spec := &typeSpec{Name: name, Size: sizes.Sizeof(st)}

	type span struct{ off, size int64 }
	spans := make([]span, 0, n)
	for i, f := range fields {
		size := sizes.Sizeof(f.Type())
		if size == 0 {
			// Zero-sized fields occupy no bytes; whatever alignment gap they
			// introduce falls out of the walk below as ordinary padding.
			continue
		}
		kind, err := classify(f.Type(), requested, 0)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, f.Name(), err)
		}
		switch kind {
		case fieldStruct:
			spec.Calls = append(spec.Calls, callData{Field: f.Name()})
		case fieldStructArray:
			spec.Calls = append(spec.Calls, callData{Field: f.Name(), IsArray: true})
		}
		spans = append(spans, span{off: offsets[i], size: size})
	}

	// Walk the fields in offset order and record every gap between them,
	// plus the tail after the last field.
	sort.Slice(spans, func(i, j int) bool { return spans[i].off < spans[j].off })
	var off int64
	for _, s := range spans {
		if s.off > off {
			spec.Gaps = append(spec.Gaps, gapData{Off: off, End: s.off})
		}
		if end := s.off + s.size; end > off {
			off = end
		}
	}
	if spec.Size > off {
		spec.Gaps = append(spec.Gaps, gapData{Off: off, End: spec.Size})
	}

	return spec, nil
}

// classify decides how a field type participates in generated code. depth
// tracks array nesting: composite elements are only reachable through one
// array dimension, because the emitted loop indexes a single level.
func classify(t types.Type, requested map[string]bool, depth int) (fieldKind, error) {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		if u.Info()&(types.IsBoolean|types.IsNumeric) != 0 {
			return fieldScalar, nil
		}
		return 0, fmt.Errorf("type %s has no fully defined byte representation", t)

	case *types.Struct:
		if hasSafeBytes(t) {
			return fieldStruct, nil
		}
		if named, ok := t.(*types.Named); ok {
			if requested[named.Obj().Name()] {
				return fieldStruct, nil
			}
			return 0, fmt.Errorf("struct type %s neither implements SafeBytes nor is requested for generation", t)
		}
		return 0, fmt.Errorf("anonymous struct fields are unsupported; declare a named type and request it")

	case *types.Array:
		kind, err := classify(u.Elem(), requested, depth+1)
		if err != nil {
			return 0, err
		}
		if kind == fieldScalar {
			return fieldScalar, nil
		}
		if depth > 0 {
			return 0, fmt.Errorf("nested array of composite type %s is unsupported; wrap the inner array in a named struct", u.Elem())
		}
		return fieldStructArray, nil

	default:
		return 0, fmt.Errorf("type %s has no fully defined byte representation", t)
	}
}

// hasSafeBytes reports whether *t already provides SafeBytes() []byte.
func hasSafeBytes(t types.Type) bool {
	ms := types.NewMethodSet(types.NewPointer(t))
	for i := 0; i < ms.Len(); i++ {
		fn, ok := ms.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != "SafeBytes" {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			return false
		}
		slice, ok := sig.Results().At(0).Type().(*types.Slice)
		if !ok {
			return false
		}
		basic, ok := slice.Elem().(*types.Basic)
		return ok && basic.Kind() == types.Byte
	}
	return false
}

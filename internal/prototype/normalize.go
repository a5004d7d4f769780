package prototype

import (
	"reflect"
	"sort"
)

// NormalizeType implements the type normalization policy (component 4.1):
//
//  1. No declaration -> "".
//  2. A single named type -> that name.
//  3. A union -> drop null, prefer class-existing members over scalars,
//     return the first.
//  4. An intersection -> the first named member.
//
// Go has no first-class union/intersection types. NormalizeType itself
// only ever sees a single reflect.Type, so it applies rules 1 and 2 only;
// the union/intersection collapsing lives in NormalizeCandidates, for a
// caller that has already split a composite declaration into candidate
// types. The prototype reflection code calls NormalizeType only.
func NormalizeType(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return formattedTypeName(t)
}

// NormalizeCandidates applies the union/intersection collapsing rule to a
// pre-split list of candidate types (e.g. the members of a Go union
// emulated via build constraints or an ggicci/httpin-style tag, or the set
// of interfaces embedded into an intersection alias). nullable marks which
// candidates represent the "null" member of a union.
func NormalizeCandidates(candidates []reflect.Type, nullable []bool) string {
	var named []reflect.Type
	for i, c := range candidates {
		if i < len(nullable) && nullable[i] {
			continue
		}
		if c != nil {
			named = append(named, c)
		}
	}
	if len(named) == 0 {
		return ""
	}

	sort.SliceStable(named, func(i, j int) bool {
		iExists := classExists(named[i])
		jExists := classExists(named[j])
		if iExists == jExists {
			return false
		}
		return iExists && !jExists
	})

	return formattedTypeName(named[0])
}

// classExists reports whether t is a struct, interface, pointer, map,
// slice, func or chan type (the Go analogue of PHP's
// class_exists/interface_exists check) as opposed to a scalar/primitive
// kind.
func classExists(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func formattedTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

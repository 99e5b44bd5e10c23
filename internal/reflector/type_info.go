// Package reflector provides cached lookups of fully qualified type names,
// used for message type tagging and type markers.
package reflector

import (
	"reflect"
	"sync"
)

var cache sync.Map // reflect.Type -> TypeInfo

// TypeInfo holds metadata about a reflected type.
type TypeInfo struct {
	Name string       // Fully qualified name: "pkg/path.TypeName"
	Type reflect.Type // The underlying (non-pointer) reflect.Type
}

// TypeInfoOf returns TypeInfo for the dynamic type of x.
func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

// TypeInfoFor returns TypeInfo for type parameter T.
func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeFor[T]())
}

// TypeInfoForType returns TypeInfo for t. Pointer types resolve to their
// element type so *T and T share one entry. Safe for concurrent use.
func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if ti, ok := cache.Load(t); ok {
		return ti.(TypeInfo)
	}

	ti := TypeInfo{
		Name: qualifiedName(t),
		Type: t,
	}
	cache.Store(t, ti)
	return ti
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		// Builtins and unnamed types fall back to Go syntax.
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

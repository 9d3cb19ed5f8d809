package common

import (
	"path"
	"reflect"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// TypeName renders a reflect type as "alias.Name" for named types and
// falls back to the reflect representation for unnamed ones.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		return "[]" + TypeName(t.Elem())
	default:
		if t.PkgPath() == "" || t.Name() == "" {
			return t.String()
		}

		return PkgAlias(t.PkgPath()) + "." + t.Name()
	}
}

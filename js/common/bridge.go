package common

import (
	"reflect"
	"strings"

	"github.com/serenize/snaker"
)

// FieldName returns the JS name for an exported struct field. The name is
// snake_cased, with respect for common initialisms (URL, ID, ...). A `js` tag
// overrides it, and `js:"-"` hides the field.
func FieldName(_ reflect.Type, f reflect.StructField) string {
	// PkgPath is non-empty for unexported fields.
	if f.PkgPath != "" {
		return ""
	}

	if tag := f.Tag.Get("js"); tag != "" {
		if tag == "-" {
			return ""
		}
		return tag
	}

	return snaker.CamelToSnake(f.Name)
}

// MethodName returns the JS name for an exported method: the Go name with its
// first letter lowercased.
func MethodName(_ reflect.Type, m reflect.Method) string {
	// PkgPath is non-empty for unexported methods.
	if m.PkgPath != "" {
		return ""
	}

	return strings.ToLower(m.Name[0:1]) + m.Name[1:]
}

// FieldNameMapper for goja.Runtime.SetFieldNameMapper()
type FieldNameMapper struct{}

// FieldName is part of the goja.FieldNameMapper interface
func (FieldNameMapper) FieldName(t reflect.Type, f reflect.StructField) string {
	return FieldName(t, f)
}

// MethodName is part of the goja.FieldNameMapper interface
func (FieldNameMapper) MethodName(t reflect.Type, m reflect.Method) string { return MethodName(t, m) }

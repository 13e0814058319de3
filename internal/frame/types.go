// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

// =============================================================================
// TYPE TAGS
// =============================================================================

// Type is the declared type tag of a column.
type Type int

const (
	// TypeUnknown covers null-only and undeclared columns.
	TypeUnknown Type = iota
	TypeInteger
	TypeFloat
	TypeString
	TypeBoolean
	TypeTemporal
)

// String returns the short display name of the type.
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "str"
	case TypeBoolean:
		return "bool"
	case TypeTemporal:
		return "time"
	default:
		return "null"
	}
}

// Numeric reports whether values of this type are right aligned.
func (t Type) Numeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// =============================================================================
// SCHEMA
// =============================================================================

// Field is one named, typed column.
type Field struct {
	Name string
	Type Type
}

// Schema is an ordered, immutable list of fields.
type Schema struct {
	fields []Field
}

// NewSchema copies fields into a new Schema.
func NewSchema(fields ...Field) Schema {
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return Schema{fields: cp}
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.fields)
}

// Field returns the i-th field.
func (s Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the fields.
func (s Schema) Fields() []Field {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Equal reports whether two schemas have the same fields in the same order.
func (s Schema) Equal(o Schema) bool {
	if len(s.fields) != len(o.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != o.fields[i] {
			return false
		}
	}
	return true
}

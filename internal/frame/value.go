// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

import (
	"strconv"
	"strings"
	"time"
)

// Value is a single cell.
type Value struct {
	Type  Type
	Null  bool
	Int   int64
	Float float64
	Str   string
	Bool  bool
	Time  time.Time
}

// Row is one record in schema order.
type Row []Value

// NullValue returns a null of the given type.
func NullValue(t Type) Value { return Value{Type: t, Null: true} }

// IntValue returns an integer cell.
func IntValue(v int64) Value { return Value{Type: TypeInteger, Int: v} }

// FloatValue returns a float cell.
func FloatValue(v float64) Value { return Value{Type: TypeFloat, Float: v} }

// StringValue returns a string cell.
func StringValue(v string) Value { return Value{Type: TypeString, Str: v} }

// BoolValue returns a boolean cell.
func BoolValue(v bool) Value { return Value{Type: TypeBoolean, Bool: v} }

// TimeValue returns a temporal cell.
func TimeValue(v time.Time) Value { return Value{Type: TypeTemporal, Time: v} }

// String returns the display text of the value. Nulls render as "".
func (v Value) String() string {
	if v.Null {
		return ""
	}
	switch v.Type {
	case TypeInteger:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	case TypeTemporal:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 && v.Time.Nanosecond() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return v.Str
	}
}

// Compare orders two values of the same type. Nulls sort first.
func (v Value) Compare(o Value) int {
	switch {
	case v.Null && o.Null:
		return 0
	case v.Null:
		return -1
	case o.Null:
		return 1
	}
	switch v.Type {
	case TypeInteger:
		if o.Type == TypeFloat {
			return cmpFloat(float64(v.Int), o.Float)
		}
		return cmpInt(v.Int, o.Int)
	case TypeFloat:
		if o.Type == TypeInteger {
			return cmpFloat(v.Float, float64(o.Int))
		}
		return cmpFloat(v.Float, o.Float)
	case TypeBoolean:
		switch {
		case v.Bool == o.Bool:
			return 0
		case !v.Bool:
			return -1
		default:
			return 1
		}
	case TypeTemporal:
		return v.Time.Compare(o.Time)
	default:
		return strings.Compare(v.String(), o.String())
	}
}

// AsFloat returns the numeric value of integer and float cells.
func (v Value) AsFloat() (float64, bool) {
	if v.Null {
		return 0, false
	}
	switch v.Type {
	case TypeInteger:
		return float64(v.Int), true
	case TypeFloat:
		return v.Float, true
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// =============================================================================
// PARSING
// =============================================================================

// temporalLayouts are tried in order by ParseTime.
var temporalLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses the timestamp and date layouts recognized in text sources.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range temporalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Parse converts text into a value of type t. Empty text is null. Text that
// does not parse as t falls back to a string cell so nothing is lost.
func Parse(s string, t Type) Value {
	if s == "" {
		return NullValue(t)
	}
	switch t {
	case TypeInteger:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntValue(n)
		}
	case TypeFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FloatValue(f)
		}
	case TypeBoolean:
		if b, err := strconv.ParseBool(s); err == nil {
			return BoolValue(b)
		}
	case TypeTemporal:
		if tm, ok := ParseTime(s); ok {
			return TimeValue(tm)
		}
	}
	return StringValue(s)
}

// Infer returns the narrowest type every non-empty sample parses as.
// Integer widens to float; any other conflict widens to string.
func Infer(samples []string) Type {
	result := TypeUnknown
	for _, s := range samples {
		if s == "" {
			continue
		}
		t := classify(s)
		switch {
		case result == TypeUnknown:
			result = t
		case result == t:
		case (result == TypeInteger && t == TypeFloat) || (result == TypeFloat && t == TypeInteger):
			result = TypeFloat
		default:
			return TypeString
		}
	}
	return result
}

func classify(s string) Type {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return TypeInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return TypeFloat
	}
	switch strings.ToLower(s) {
	case "true", "false":
		return TypeBoolean
	}
	if _, ok := ParseTime(s); ok {
		return TypeTemporal
	}
	return TypeString
}

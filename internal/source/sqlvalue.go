// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/tabula/internal/frame"
)

// DeclType maps a SQLite declared column type onto a display type using the
// affinity rules. An empty declaration is Unknown.
func DeclType(decl string) frame.Type {
	d := strings.ToUpper(decl)
	switch {
	case d == "":
		return frame.TypeUnknown
	case strings.Contains(d, "BOOL"):
		return frame.TypeBoolean
	case strings.Contains(d, "DATE"), strings.Contains(d, "TIME"):
		return frame.TypeTemporal
	case strings.Contains(d, "INT"):
		return frame.TypeInteger
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return frame.TypeString
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"),
		strings.Contains(d, "NUMERIC"), strings.Contains(d, "DECIMAL"):
		return frame.TypeFloat
	}
	return frame.TypeString
}

// ValueType returns the display type of a value scanned from database/sql.
func ValueType(v any) frame.Type {
	switch v.(type) {
	case int64, int32, int:
		return frame.TypeInteger
	case float64, float32:
		return frame.TypeFloat
	case bool:
		return frame.TypeBoolean
	case time.Time:
		return frame.TypeTemporal
	case nil:
		return frame.TypeUnknown
	}
	return frame.TypeString
}

// FromSQL converts a scanned value into a cell of type t. SQLite is
// dynamically typed, so values that do not fit t keep their own type.
func FromSQL(v any, t frame.Type) frame.Value {
	switch x := v.(type) {
	case nil:
		return frame.NullValue(t)
	case int64:
		switch t {
		case frame.TypeBoolean:
			return frame.BoolValue(x != 0)
		case frame.TypeFloat:
			return frame.FloatValue(float64(x))
		}
		return frame.IntValue(x)
	case float64:
		return frame.FloatValue(x)
	case bool:
		return frame.BoolValue(x)
	case time.Time:
		return frame.TimeValue(x)
	case []byte:
		return parseText(string(x), t)
	case string:
		return parseText(x, t)
	}
	return frame.StringValue(fmt.Sprint(v))
}

func parseText(s string, t frame.Type) frame.Value {
	switch t {
	case frame.TypeString, frame.TypeUnknown:
		return frame.StringValue(s)
	}
	if s == "" {
		return frame.StringValue(s)
	}
	return frame.Parse(s, t)
}

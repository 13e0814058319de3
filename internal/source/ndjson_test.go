// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tabula/internal/frame"
)

func TestOpenNDJSONKeyOrder(t *testing.T) {
	path := writeFile(t, "events.ndjson",
		`{"zeta": 1, "alpha": "a", "nested": {"k":[1,2]}}`+"\n"+
			`{"alpha": "b", "zeta": 2, "extra": true}`+"\n"+
			"\n"+
			`{"zeta": null}`+"\n")
	src, err := OpenNDJSON(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	schema := src.Schema()
	require.Equal(t, []string{"zeta", "alpha", "nested", "extra"}, schema.Names())
	assert.Equal(t, frame.TypeInteger, schema.Field(0).Type)
	assert.Equal(t, frame.TypeBoolean, schema.Field(3).Type)

	rows := fetchAll(t, src, 10)
	require.Len(t, rows, 3)
	assert.Equal(t, `{"k":[1,2]}`, rows[0][2].String())
	assert.Equal(t, "b", rows[1][1].String())
	assert.True(t, rows[1][2].Null)
	assert.True(t, rows[2][0].Null)
}

func TestOpenJSONArray(t *testing.T) {
	path := writeFile(t, "arr.json", "  [\n{\"a\": 1.5, \"b\": \"x\"},\n{\"a\": 2, \"b\": \"y\"}\n]\n")
	src, err := OpenNDJSON(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, frame.TypeFloat, src.Schema().Field(0).Type)
	rows := fetchAll(t, src, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, 2.0, rows[1][0].Float)

	rows, err = src.Fetch(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "x", rows[0][1].Str)
}

func TestOpenNDJSONRejectsScalars(t *testing.T) {
	path := writeFile(t, "bad.ndjson", "1\n2\n")
	_, err := OpenNDJSON(path, Options{})
	assert.Error(t, err)

	path = writeFile(t, "empty.ndjson", "")
	_, err = OpenNDJSON(path, Options{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

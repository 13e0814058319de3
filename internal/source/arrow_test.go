// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tabula/internal/frame"
)

var testArrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "score", Type: arrow.PrimitiveTypes.Float64},
	{Name: "ok", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

// testRecord builds n rows; every third name is null.
func testRecord(t *testing.T, n int) arrow.Record {
	t.Helper()
	b := array.NewRecordBuilder(memory.DefaultAllocator, testArrowSchema)
	defer b.Release()
	for i := 0; i < n; i++ {
		b.Field(0).(*array.Int64Builder).Append(int64(i))
		if i%3 == 2 {
			b.Field(1).(*array.StringBuilder).AppendNull()
		} else {
			b.Field(1).(*array.StringBuilder).Append("n")
		}
		b.Field(2).(*array.Float64Builder).Append(float64(i) / 4)
		b.Field(3).(*array.BooleanBuilder).Append(i%2 == 0)
	}
	return b.NewRecord()
}

func writeParquet(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	rec := testRecord(t, n)
	defer rec.Release()
	tbl := array.NewTableFromRecords(testArrowSchema, []arrow.Record{rec})
	defer tbl.Release()

	w, err := pqarrow.NewFileWriter(testArrowSchema, f, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	require.NoError(t, err)
	require.NoError(t, w.WriteTable(tbl, 16))
	require.NoError(t, w.Close())
	return path
}

func writeIPC(t *testing.T, n int, stream bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.arrow")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	rec := testRecord(t, n)
	defer rec.Release()
	if stream {
		w := ipc.NewWriter(f, ipc.WithSchema(testArrowSchema))
		require.NoError(t, w.Write(rec))
		require.NoError(t, w.Close())
		return path
	}
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(testArrowSchema))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	return path
}

func checkArrowRows(t *testing.T, src frame.DataSource, n int) {
	t.Helper()
	schema := src.Schema()
	require.Equal(t, []string{"id", "name", "score", "ok"}, schema.Names())
	assert.Equal(t, frame.TypeInteger, schema.Field(0).Type)
	assert.Equal(t, frame.TypeString, schema.Field(1).Type)
	assert.Equal(t, frame.TypeFloat, schema.Field(2).Type)
	assert.Equal(t, frame.TypeBoolean, schema.Field(3).Type)

	rows := fetchAll(t, src, 7)
	require.Len(t, rows, n)
	for i, r := range rows {
		assert.Equal(t, int64(i), r[0].Int)
		assert.Equal(t, i%3 == 2, r[1].Null)
		assert.Equal(t, float64(i)/4, r[2].Float)
		assert.Equal(t, i%2 == 0, r[3].Bool)
	}

	// Rewind behind the cursor.
	back, err := src.Fetch(context.Background(), 3, 2)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, int64(3), back[0][0].Int)
}

func TestOpenParquet(t *testing.T) {
	path := writeParquet(t, 40)
	src, err := OpenParquet(context.Background(), path, Options{BatchRows: 8})
	require.NoError(t, err)
	defer src.Close()

	count, known := src.Count()
	assert.True(t, known)
	assert.Equal(t, 40, count)
	checkArrowRows(t, src, 40)
}

func TestOpenArrowFile(t *testing.T) {
	path := writeIPC(t, 12, false)
	src, err := OpenArrow(path)
	require.NoError(t, err)
	defer src.Close()

	count, known := src.Count()
	assert.True(t, known)
	assert.Equal(t, 12, count)
	checkArrowRows(t, src, 12)
}

func TestOpenArrowStream(t *testing.T) {
	path := writeIPC(t, 9, true)
	src, err := OpenArrow(path)
	require.NoError(t, err)
	defer src.Close()

	_, known := src.Count()
	assert.False(t, known)
	checkArrowRows(t, src, 9)
}

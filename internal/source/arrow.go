// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/jeranaias/tabula/internal/frame"
)

// =============================================================================
// ARROW CONVERSION
// =============================================================================

// arrowType maps an Arrow type onto the display type set.
func arrowType(dt arrow.DataType) frame.Type {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return frame.TypeInteger
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64, arrow.DECIMAL128, arrow.DECIMAL256:
		return frame.TypeFloat
	case arrow.BOOL:
		return frame.TypeBoolean
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return frame.TypeTemporal
	case arrow.NULL:
		return frame.TypeUnknown
	}
	return frame.TypeString
}

func arrowSchema(s *arrow.Schema) frame.Schema {
	fields := make([]frame.Field, s.NumFields())
	for i, f := range s.Fields() {
		fields[i] = frame.Field{Name: f.Name, Type: arrowType(f.Type)}
	}
	return frame.NewSchema(fields...)
}

// arrowValue converts the cell at pos of col.
func arrowValue(col arrow.Array, pos int, t frame.Type) frame.Value {
	if col.IsNull(pos) {
		return frame.NullValue(t)
	}
	switch a := col.(type) {
	case *array.Int8:
		return frame.IntValue(int64(a.Value(pos)))
	case *array.Int16:
		return frame.IntValue(int64(a.Value(pos)))
	case *array.Int32:
		return frame.IntValue(int64(a.Value(pos)))
	case *array.Int64:
		return frame.IntValue(a.Value(pos))
	case *array.Uint8:
		return frame.IntValue(int64(a.Value(pos)))
	case *array.Uint16:
		return frame.IntValue(int64(a.Value(pos)))
	case *array.Uint32:
		return frame.IntValue(int64(a.Value(pos)))
	case *array.Uint64:
		return frame.IntValue(int64(a.Value(pos)))
	case *array.Float16:
		return frame.FloatValue(float64(a.Value(pos).Float32()))
	case *array.Float32:
		return frame.FloatValue(float64(a.Value(pos)))
	case *array.Float64:
		return frame.FloatValue(a.Value(pos))
	case *array.Boolean:
		return frame.BoolValue(a.Value(pos))
	case *array.String:
		return frame.StringValue(a.Value(pos))
	case *array.LargeString:
		return frame.StringValue(a.Value(pos))
	case *array.Binary:
		return frame.StringValue(string(a.Value(pos)))
	case *array.Date32:
		return frame.TimeValue(a.Value(pos).ToTime().UTC())
	case *array.Date64:
		return frame.TimeValue(a.Value(pos).ToTime().UTC())
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return frame.TimeValue(a.Value(pos).ToTime(unit).UTC())
	}
	s := col.ValueStr(pos)
	if t == frame.TypeFloat {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return frame.FloatValue(f)
		}
	}
	return frame.StringValue(s)
}

// batchReader is the part of an Arrow record stream the sources use.
type batchReader interface {
	Next() bool
	Record() arrow.Record
	Err() error
	Release()
}

// recordRows walks a batchReader row by row.
type recordRows struct {
	br     batchReader
	types  []frame.Type
	rec    arrow.Record
	pos    int
	closer io.Closer
}

func (r *recordRows) Read() (frame.Row, error) {
	for r.rec == nil || r.pos >= int(r.rec.NumRows()) {
		if !r.br.Next() {
			if err := r.br.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return nil, io.EOF
		}
		r.rec, r.pos = r.br.Record(), 0
	}
	row := make(frame.Row, len(r.types))
	for i, t := range r.types {
		row[i] = arrowValue(r.rec.Column(i), r.pos, t)
	}
	r.pos++
	return row, nil
}

func (r *recordRows) Close() error {
	r.br.Release()
	r.rec = nil
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func schemaTypes(s frame.Schema) []frame.Type {
	types := make([]frame.Type, s.Len())
	for i := range types {
		types[i] = s.Field(i).Type
	}
	return types
}

// =============================================================================
// PARQUET
// =============================================================================

// OpenParquet opens a Parquet file. The row count comes from file metadata.
func OpenParquet(ctx context.Context, path string, opts Options) (frame.DataSource, error) {
	opts = opts.withDefaults()
	open := func() (*file.Reader, *pqarrow.FileReader, error) {
		pf, err := file.OpenParquetFile(path, false, file.WithReadProps(parquet.NewReaderProperties(memory.DefaultAllocator)))
		if err != nil {
			return nil, nil, fmt.Errorf("open parquet: %w", err)
		}
		fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: int64(opts.BatchRows)}, memory.DefaultAllocator)
		if err != nil {
			pf.Close()
			return nil, nil, fmt.Errorf("parquet arrow reader: %w", err)
		}
		return pf, fr, nil
	}

	pf, fr, err := open()
	if err != nil {
		return nil, err
	}
	as, err := fr.Schema()
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("parquet schema: %w", err)
	}
	schema := arrowSchema(as)
	types := schemaTypes(schema)
	count := int(pf.NumRows())

	rows := func(pf *file.Reader, fr *pqarrow.FileReader) (rowReader, error) {
		rr, err := fr.GetRecordReader(ctx, nil, nil)
		if err != nil {
			pf.Close()
			return nil, fmt.Errorf("parquet records: %w", err)
		}
		return &recordRows{br: rr, types: types, closer: pf}, nil
	}
	first, err := rows(pf, fr)
	if err != nil {
		return nil, err
	}
	seq := newSequential(schema, first, func() (rowReader, error) {
		pf, fr, err := open()
		if err != nil {
			return nil, err
		}
		return rows(pf, fr)
	})
	seq.count, seq.known = count, true
	return seq, nil
}

// =============================================================================
// ARROW IPC
// =============================================================================

// fileBatches iterates the record batches of an IPC file.
type fileBatches struct {
	fr  *ipc.FileReader
	i   int
	rec arrow.Record
	err error
}

func (b *fileBatches) Next() bool {
	if b.i >= b.fr.NumRecords() {
		return false
	}
	rec, err := b.fr.Record(b.i)
	if err != nil {
		b.err = err
		return false
	}
	b.rec = rec
	b.i++
	return true
}

func (b *fileBatches) Record() arrow.Record { return b.rec }
func (b *fileBatches) Err() error           { return b.err }
func (b *fileBatches) Release()             { b.fr.Close() }

// openIPC tries the random-access file format first and falls back to the
// stream format.
func openIPC(path string) (batchReader, *arrow.Schema, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if fr, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.DefaultAllocator)); err == nil {
		return &fileBatches{fr: fr}, fr.Schema(), f, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, nil, err
	}
	sr, err := ipc.NewReader(f, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		f.Close()
		return nil, nil, nil, fmt.Errorf("open arrow: %w", err)
	}
	return sr, sr.Schema(), f, nil
}

// OpenArrow opens an Arrow IPC file or stream.
func OpenArrow(path string) (frame.DataSource, error) {
	br, as, closer, err := openIPC(path)
	if err != nil {
		return nil, err
	}
	schema := arrowSchema(as)
	types := schemaTypes(schema)
	first := &recordRows{br: br, types: types, closer: closer}
	seq := newSequential(schema, first, func() (rowReader, error) {
		br, _, closer, err := openIPC(path)
		if err != nil {
			return nil, err
		}
		return &recordRows{br: br, types: types, closer: closer}, nil
	})
	if fb, ok := br.(*fileBatches); ok {
		n := 0
		for i := 0; i < fb.fr.NumRecords(); i++ {
			rec, err := fb.fr.Record(i)
			if err != nil {
				break
			}
			n += int(rec.NumRows())
		}
		seq.count, seq.known = n, true
	}
	return seq, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/tabula/internal/frame"
	"github.com/jeranaias/tabula/internal/source"
)

// =============================================================================
// ENGINE
// =============================================================================

// Options configure the scratch database.
type Options struct {
	// Database is a persistent database file. Empty creates a scratch file
	// that Close removes.
	Database string

	// TempDir holds the scratch file. Empty uses os.TempDir.
	TempDir string

	// BindBatch is the number of rows inserted per transaction by Bind.
	BindBatch int
}

// Engine runs SQL against bound frames and attached databases. It is safe
// for concurrent use; every Run holds its own connection.
type Engine struct {
	db      *sql.DB
	path    string
	scratch bool
	batch   int

	bindMu sync.Mutex // serializes Bind

	mu       sync.Mutex
	closed   bool
	attached map[string]string // alias -> path
	bound    map[string]bool
}

// New opens the engine database.
func New(opts Options) (*Engine, error) {
	path, scratch := opts.Database, false
	if path == "" {
		dir := opts.TempDir
		if dir == "" {
			dir = os.TempDir()
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create engine directory: %w", err)
		}
		path = filepath.Join(dir, "tabula-"+uuid.NewString()+".db")
		scratch = true
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open engine database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open engine database: %w", err)
	}

	batch := opts.BindBatch
	if batch <= 0 {
		batch = 4096
	}
	return &Engine{
		db:       db,
		path:     path,
		scratch:  scratch,
		batch:    batch,
		attached: make(map[string]string),
		bound:    make(map[string]bool),
	}, nil
}

// Path returns the database file.
func (e *Engine) Path() string { return e.path }

// Close closes the database and removes a scratch file.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	err := e.db.Close()
	if e.scratch {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			os.Remove(e.path + suffix)
		}
	}
	return err
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// conn checks out a connection with every attachment applied.
func (e *Engine) conn(ctx context.Context) (*sql.Conn, error) {
	if e.isClosed() {
		return nil, ErrEngineClosed
	}
	c, err := e.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	attached := make(map[string]string, len(e.attached))
	for alias, path := range e.attached {
		attached[alias] = path
	}
	e.mu.Unlock()

	for alias, path := range attached {
		if err := attach(ctx, c, path, alias); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func attach(ctx context.Context, c *sql.Conn, path, alias string) error {
	_, err := c.ExecContext(ctx, "ATTACH DATABASE ? AS "+source.QuoteIdent(alias), path)
	if err != nil && strings.Contains(err.Error(), "already in use") {
		return nil
	}
	return err
}

// Attach makes the SQLite database at path queryable under alias. Attached
// tables also resolve unqualified when no main table shadows them.
func (e *Engine) Attach(ctx context.Context, path, alias string) error {
	c, err := e.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := attach(ctx, c, path, alias); err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	e.mu.Lock()
	e.attached[alias] = path
	e.mu.Unlock()
	log.Printf("ENGINE: attached %s as %s", path, alias)
	return nil
}

// Bound reports whether table was materialized by Bind.
func (e *Engine) Bound(table string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bound[table]
}

// Unbind forgets a bound table so the next Bind reloads it.
func (e *Engine) Unbind(table string) {
	e.mu.Lock()
	delete(e.bound, table)
	e.mu.Unlock()
}

// =============================================================================
// BIND
// =============================================================================

func sqlType(t frame.Type) string {
	switch t {
	case frame.TypeInteger:
		return "INTEGER"
	case frame.TypeFloat:
		return "REAL"
	case frame.TypeBoolean:
		return "BOOLEAN"
	case frame.TypeTemporal:
		return "DATETIME"
	case frame.TypeString:
		return "TEXT"
	}
	return ""
}

func sqlValue(v frame.Value) any {
	if v.Null {
		return nil
	}
	switch v.Type {
	case frame.TypeInteger:
		return v.Int
	case frame.TypeFloat:
		return v.Float
	case frame.TypeBoolean:
		if v.Bool {
			return int64(1)
		}
		return int64(0)
	case frame.TypeTemporal:
		return v.Time.Format("2006-01-02 15:04:05")
	}
	return v.Str
}

// Bind opens a source and copies every row into table, replacing any table
// of that name.
func (e *Engine) Bind(ctx context.Context, table string, opener frame.Opener) error {
	e.bindMu.Lock()
	defer e.bindMu.Unlock()
	return e.bind(ctx, table, opener)
}

// Ensure binds table unless it is already bound. Concurrent callers wait
// for the first one and share its table.
func (e *Engine) Ensure(ctx context.Context, table string, opener frame.Opener) error {
	e.bindMu.Lock()
	defer e.bindMu.Unlock()
	if e.Bound(table) {
		return nil
	}
	return e.bind(ctx, table, opener)
}

func (e *Engine) bind(ctx context.Context, table string, opener frame.Opener) error {
	src, err := opener(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	c, err := e.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	schema := src.Schema()
	cols := make([]string, schema.Len())
	marks := make([]string, schema.Len())
	for i, f := range schema.Fields() {
		cols[i] = strings.TrimSpace(source.QuoteIdent(f.Name) + " " + sqlType(f.Type))
		marks[i] = "?"
	}
	name := source.QuoteIdent(table)
	if _, err := c.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("bind %s: %w", table, err)
	}
	if _, err := c.ExecContext(ctx, "CREATE TABLE "+name+" ("+strings.Join(cols, ", ")+")"); err != nil {
		return fmt.Errorf("bind %s: %w", table, err)
	}
	insert := "INSERT INTO " + name + " VALUES (" + strings.Join(marks, ", ") + ")"

	total := 0
	args := make([]any, schema.Len())
	for start := 0; ; {
		rows, err := src.Fetch(ctx, start, e.batch)
		if err != nil {
			return fmt.Errorf("bind %s: %w", table, err)
		}
		if err := insertRows(ctx, c, insert, rows, args); err != nil {
			return fmt.Errorf("bind %s: %w", table, err)
		}
		start += len(rows)
		total += len(rows)
		if len(rows) < e.batch {
			break
		}
	}

	e.mu.Lock()
	e.bound[table] = true
	e.mu.Unlock()
	log.Printf("ENGINE: bound %d rows into %s", total, table)
	return nil
}

func insertRows(ctx context.Context, c *sql.Conn, insert string, rows []frame.Row, args []any) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		for i := range args {
			args[i] = nil
			if i < len(r) {
				args[i] = sqlValue(r[i])
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// TableName derives a SQL-friendly table name from a file path: the base
// name without extensions, lowercased, non-alphanumerics folded to '_'.
func TableName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		return "data"
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "t_" + name
	}
	return name
}

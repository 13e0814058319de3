// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/tabula/internal/frame"
)

// QuoteIdent quotes a SQLite identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// tableSource pages through a SQLite table with LIMIT/OFFSET.
type tableSource struct {
	db     *sql.DB
	table  string
	schema frame.Schema
	count  int
}

// OpenSQLite opens table in the database at path read-only. An empty table
// selects the first user table.
func OpenSQLite(ctx context.Context, path, table string) (frame.DataSource, error) {
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if table == "" {
		table, err = firstTable(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	schema, err := tableSchema(ctx, db, table)
	if err != nil {
		db.Close()
		return nil, err
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+QuoteIdent(table)).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("count %s: %w", table, err)
	}
	return &tableSource{db: db, table: table, schema: schema, count: count}, nil
}

func firstTable(ctx context.Context, db *sql.DB) (string, error) {
	var name string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		 ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END, rowid LIMIT 1`).Scan(&name)
	if err == sql.ErrNoRows {
		return "", ErrNoTable
	}
	if err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}
	return name, nil
}

func tableSchema(ctx context.Context, db *sql.DB, table string) (frame.Schema, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+QuoteIdent(table)+")")
	if err != nil {
		return frame.Schema{}, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var fields []frame.Field
	for rows.Next() {
		var (
			cid     int
			name    string
			decl    string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &decl, &notNull, &dflt, &pk); err != nil {
			return frame.Schema{}, err
		}
		fields = append(fields, frame.Field{Name: name, Type: DeclType(decl)})
	}
	if err := rows.Err(); err != nil {
		return frame.Schema{}, err
	}
	if len(fields) == 0 {
		return frame.Schema{}, fmt.Errorf("table %s: %w", table, ErrNoTable)
	}
	return frame.NewSchema(fields...), nil
}

func (s *tableSource) Schema() frame.Schema { return s.schema }

func (s *tableSource) Count() (int, bool) { return s.count, true }

func (s *tableSource) Fetch(ctx context.Context, start, limit int) ([]frame.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT * FROM "+QuoteIdent(s.table)+" LIMIT ? OFFSET ?", limit, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return ScanRows(rows, s.schema, limit)
}

func (s *tableSource) Close() error { return s.db.Close() }

// ScanRows reads up to limit rows from rows, converting each column with
// FromSQL against schema.
func ScanRows(rows *sql.Rows, schema frame.Schema, limit int) ([]frame.Row, error) {
	n := schema.Len()
	vals := make([]any, n)
	ptrs := make([]any, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	out := make([]frame.Row, 0, limit)
	for len(out) < limit && rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(frame.Row, n)
		for i, v := range vals {
			row[i] = FromSQL(v, schema.Field(i).Type)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tabula/internal/frame"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// fetchAll drains src in blocks of n.
func fetchAll(t *testing.T, src frame.DataSource, n int) []frame.Row {
	t.Helper()
	var all []frame.Row
	for start := 0; ; {
		rows, err := src.Fetch(context.Background(), start, n)
		require.NoError(t, err)
		all = append(all, rows...)
		start += len(rows)
		if len(rows) < n {
			return all
		}
	}
}

func texts(row frame.Row) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = v.String()
	}
	return out
}

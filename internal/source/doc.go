// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package source implements frame.DataSource for files on disk.
//
// Supported inputs are delimited text (CSV, TSV), NDJSON or a JSON array of
// objects, Parquet, Arrow IPC and SQLite tables. Text inputs may be gzip,
// zstd or lz4 compressed; the codec is chosen by suffix.
//
// Sequential formats cannot seek. When the Provider asks for rows behind the
// read cursor the source reopens the file and skips forward.
package source

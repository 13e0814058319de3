// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine is the Analytical Engine: a scratch SQLite database that
// runs SQL over opened datasets.
//
// File frames are materialized into tables with Bind; SQLite files are
// attached in place with Attach. Run streams the result of a query as a
// frame.DataSource so it can back a Provider like any file.
package engine

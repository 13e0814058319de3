// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for tabula.
//
// Supports TOML, JSON (comments and trailing commas allowed) and YAML
// configuration files, with sensible defaults, environment variable
// overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GridConfig: Chunking, caching and column width limits
//   - WatchConfig: File change detection
//   - CSVConfig: Delimited text parsing
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (applied by the caller)
//   - Environment variables (TABULA_*)
//   - ~/.tabula/config.toml, config.json or config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Printf("CONFIG: %v", err)
//	}
//	rows := cfg.Grid.ChunkRows
package config

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.json")
	data := []byte(`["select 1"]`)

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}
	content, _ := os.ReadFile(path)
	if string(content) != "second" {
		t.Errorf("Expected overwritten content, got %q", string(content))
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestAtomicWriteFailureKeepsOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := AtomicWriteFile(path, []byte("keep"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}

	boom := errors.New("boom")
	err := AtomicWrite(path, 0644, func(w io.Writer) error {
		io.WriteString(w, "half")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("AtomicWrite error = %v, want %v", err, boom)
	}
	content, _ := os.ReadFile(path)
	if string(content) != "keep" {
		t.Errorf("original clobbered: got %q", string(content))
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected temp file to be removed, found %d entries", len(entries))
	}
}

// =============================================================================
// DISPLAY WIDTH TESTS
// =============================================================================

func TestWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"日本", 4},
		{"café", 4},
	}
	for _, tt := range tests {
		if got := Width(tt.in); got != tt.want {
			t.Errorf("Width(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdefgh", 5, "abcd…"},
		{"zero", "abc", 0, ""},
		{"wide runes", "日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if Width(got) > tt.width {
				t.Errorf("Truncate result %q wider than %d", got, tt.width)
			}
		})
	}
}

func TestPad(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q, want %q", got, "ab  ")
	}
	if got := PadLeft("42", 5); got != "   42" {
		t.Errorf("PadLeft = %q, want %q", got, "   42")
	}
	if got := PadLeft("123456", 4); Width(got) != 4 {
		t.Errorf("PadLeft overflow width = %d, want 4", Width(got))
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"two\nlines", "two lines"},
		{"tab\tsep", "tab sep"},
		{"bell\a", "bell"},
		{"café", "café"},
	}
	for _, tt := range tests {
		if got := CellText(tt.in); got != tt.want {
			t.Errorf("CellText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n     int
		final bool
		want  string
	}{
		{0, true, "0"},
		{999, true, "999"},
		{1000, true, "1,000"},
		{1234567, false, "1,234,567+"},
		{-1500, true, "-1,500"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.n, tt.final); got != tt.want {
			t.Errorf("FormatCount(%d, %v) = %q, want %q", tt.n, tt.final, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if Percent(50, 200) != 25 {
		t.Errorf("Percent(50, 200) = %d, want 25", Percent(50, 200))
	}
	if Percent(5, 0) != 100 {
		t.Error("Percent with zero total should be 100")
	}
	if Percent(300, 200) != 100 {
		t.Error("Percent should clamp at 100")
	}
}

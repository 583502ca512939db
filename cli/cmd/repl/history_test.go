package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestParseHistoryEntry(t *testing.T) {
	tests := []struct {
		line string
		want HistoryEntry
	}{
		{"E:#Doc:Length", HistoryEntry{Line: "#Doc:Length", Mode: modeExpand}},
		{"C:reload", HistoryEntry{Line: "reload", Mode: modeCtrl}},
		{"unprefixed", HistoryEntry{Line: "unprefixed", Mode: modeExpand}},
	}

	for _, tt := range tests {
		got := parseHistoryEntry(tt.line)
		if got != tt.want {
			t.Errorf("parseHistoryEntry(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestHistoryEntryString(t *testing.T) {
	if got := (HistoryEntry{Line: "quit", Mode: modeCtrl}).String(); got != "C:quit" {
		t.Errorf("String() = %q, want %q", got, "C:quit")
	}
}

func TestHistoryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() missing file error = %v", err)
	}

	for _, e := range []HistoryEntry{
		{"#Doc:Length", modeExpand},
		{"list", modeCtrl},
		{"#Doc:Unit(m, metre)", modeExpand},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error = %v", e.Line, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	if perm := info.Mode().Perm(); perm != historyFileMode {
		t.Errorf("mode = %v, want %v", perm, historyFileMode)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(reloaded.Entries(), h.Entries()) {
		t.Errorf("reloaded = %v, want %v", reloaded.Entries(), h.Entries())
	}
}

func TestHistoryAddDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "b", "c", "a", "  "} {
		if err := h.Add(line, modeExpand); err != nil {
			t.Fatalf("Add(%q) error = %v", line, err)
		}
	}

	// Same text in another mode is a distinct entry.
	if err := h.Add("a", modeCtrl); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	want := []HistoryEntry{
		{"b", modeExpand},
		{"c", modeExpand},
		{"a", modeExpand},
		{"a", modeCtrl},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got, want := string(data), "E:b\nE:c\nE:a\nC:a\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}
}

func TestHistoryEntry(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("only", modeCtrl); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := h.Entry(0)
	if err != nil || got.Line != "only" || got.Mode != modeCtrl {
		t.Errorf("Entry(0) = %+v, %v", got, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistoryStep(t *testing.T) {
	m := testModel(t, "", modeExpand)

	for _, e := range []HistoryEntry{
		{"#Doc:Length", modeExpand},
		{"list", modeCtrl},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	m.historyIdx = m.history.Len()

	// Within the current mode the command entry is skipped.
	if got := m.historyStep(-1, true); got.input.Value() != "#Doc:Length" || got.mode != modeExpand {
		t.Errorf("in-mode step = (%q, %v)", got.input.Value(), got.mode)
	}

	// Otherwise the newest entry switches to its mode.
	m = m.historyStep(-1, false)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Fatalf("step = (%q, %v), want (list, ctrl)", m.input.Value(), m.mode)
	}

	m = m.historyStep(1, false)
	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("step past newest = (%q, %d)", m.input.Value(), m.historyIdx)
	}
}

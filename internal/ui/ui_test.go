package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/bucket/internal/model"
)

func TestProgressBar(t *testing.T) {
	cases := []struct {
		done, total, width int
		want               string
	}{
		{0, 0, 10, "░░░░░░░░░░   0%"},
		{1, 2, 10, "█████░░░░░  50%"},
		{3, 3, 2, "█████ 100%"},
	}
	for _, c := range cases {
		if got := ProgressBar(c.done, c.total, c.width); got != c.want {
			t.Errorf("ProgressBar(%d,%d,%d) = %q, want %q", c.done, c.total, c.width, got, c.want)
		}
	}
}

func TestPanelAlignsWideRunes(t *testing.T) {
	SetColorMode(ColorAlways)
	defer SetColorMode(ColorAuto)
	SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"京都へ行く", C(fgGreen, "ok")})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if a, b := visibleWidth(lines[1]), visibleWidth(lines[2]); a != b {
		t.Errorf("rows differ in width: %d vs %d\n%s", a, b, buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate(strings.Repeat("x", 20), 10); got != "xxxxxxx..." {
		t.Errorf("Truncate = %q", got)
	}
}

func TestMonoTheme(t *testing.T) {
	SetColorMode(ColorAlways)
	defer func() { SetColorMode(ColorAuto); SetTheme("classic") }()
	SetTheme("mono")
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("mono theme should disable color, got %q", got)
	}
	if Current().BoxChecked != "[x]" {
		t.Errorf("BoxChecked = %q", Current().BoxChecked)
	}
	SetTheme("classic")
	if got := C(fgRed, "x"); got != fgRed+"x"+reset {
		t.Errorf("switching back from mono should restore color, got %q", got)
	}
}

func TestColorFollowsOutput(t *testing.T) {
	defer func() { SetColorMode(ColorAuto); Setup(os.Stdout, "classic") }()
	Setup(&bytes.Buffer{}, "classic")
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("non-terminal output got color: %q", got)
	}
	SetColorMode(ColorNever)
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("ColorNever got color: %q", got)
	}
}

func TestRows(t *testing.T) {
	SetColorMode(ColorNever)
	defer SetColorMode(ColorAuto)
	SetTheme("mono")
	defer SetTheme("classic")

	done := time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)
	if got := CompletedRow(1, model.Item{Title: "Ski in Hokkaido", CompletedAt: &done}); got != "c2. [x] Ski in Hokkaido  2026-03-04" {
		t.Errorf("CompletedRow = %q", got)
	}
	it := model.Item{Title: "Learn to sail", Source: model.SourceSuggested}
	if got := PendingRow(0, it, 2); got != " 1. [ ] Learn to sail * n2" {
		t.Errorf("PendingRow = %q", got)
	}
	text := "line one\nline two"
	rows := NoteRows(0, model.Note{Content: &text, CreatedAt: done})
	if len(rows) != 3 || rows[2] != "    line two" {
		t.Errorf("NoteRows = %q", rows)
	}
}

package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func at(h int) *time.Time {
	t := time.Date(2026, 1, 1, h, 0, 0, 0, time.UTC)
	return &t
}

func TestCompletedViewNewestFirstNilLast(t *testing.T) {
	items := []Item{
		{ID: "old", Status: StatusCompleted, CompletedAt: at(1)},
		{ID: "none", Status: StatusCompleted},
		{ID: "p", Status: StatusPending},
		{ID: "new", Status: StatusCompleted, CompletedAt: at(5)},
	}
	got := CompletedView(items)
	want := []string{"new", "old", "none"}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestPendingViewByOrder(t *testing.T) {
	items := []Item{
		{ID: "c", Order: 7},
		{ID: "done", Order: 0, Status: StatusCompleted},
		{ID: "a", Order: 1},
		{ID: "b", Order: 3},
	}
	got := PendingView(items)
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("PendingView = %+v", got)
	}
}

func TestApplyExplicitCompletedAt(t *testing.T) {
	it := Item{Status: StatusPending}
	done := StatusCompleted
	p := ItemPatch{Status: &done, CompletedAt: at(3)}
	p.Apply(&it, *at(9))
	if it.CompletedAt == nil || !it.CompletedAt.Equal(*at(3)) {
		t.Errorf("CompletedAt = %v", it.CompletedAt)
	}
}

func TestApplyIgnoresStrayCompletedAt(t *testing.T) {
	it := Item{Status: StatusPending}
	ItemPatch{CompletedAt: at(3)}.Apply(&it, *at(9))
	if it.CompletedAt != nil {
		t.Error("a pending item must not get a completion time")
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  Visit Kyoto ", "Visit Kyoto", true},
		{"   ", "", false},
		{strings.Repeat("あ", MaxTitleLen), strings.Repeat("あ", MaxTitleLen), true},
		{strings.Repeat("x", MaxTitleLen+1), "", false},
	}
	for _, c := range cases {
		got, err := NormalizeTitle(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("NormalizeTitle(%q) = %q, %v", c.in, got, err)
		}
		if !c.ok && !errors.Is(err, ErrValidation) {
			t.Errorf("NormalizeTitle(%q): want ErrValidation, got %v", c.in, err)
		}
	}
}

func TestHasPayload(t *testing.T) {
	empty, blank, text := "", "  ", "hi"
	cases := []struct {
		content, image *string
		want           bool
	}{
		{nil, nil, false},
		{&empty, nil, false},
		{&blank, &empty, false},
		{&text, nil, true},
		{nil, &text, true},
	}
	for i, c := range cases {
		if got := HasPayload(c.content, c.image); got != c.want {
			t.Errorf("case %d: HasPayload = %v", i, got)
		}
	}
}

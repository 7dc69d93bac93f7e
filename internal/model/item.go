package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLen is the longest title (in characters) the UI accepts.
const MaxTitleLen = 200

// ErrValidation marks input the caller should have rejected before it reached a store.
var ErrValidation = errors.New("validation failed")

// Status is the lifecycle state of an Item. Pending -> Completed is one-way.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Source records where an Item came from.
type Source string

const (
	SourceUser      Source = "user"
	SourceSuggested Source = "suggested"
)

// UnmarshalText accepts the legacy "ai" spelling for suggested items.
// A missing source reads as user.
func (s *Source) UnmarshalText(b []byte) error {
	switch v := Source(b); v {
	case SourceUser, SourceSuggested:
		*s = v
	case "ai":
		*s = SourceSuggested
	case "":
		*s = SourceUser
	default:
		return fmt.Errorf("unknown source %q", string(b))
	}
	return nil
}

// Item is one entry on the bucket list.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	Source      Source     `json:"source"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (it Item) Pending() bool   { return it.Status != StatusCompleted }
func (it Item) Completed() bool { return it.Status == StatusCompleted }

// Clone returns a copy that shares no memory with it.
func (it Item) Clone() Item {
	if it.CompletedAt != nil {
		t := *it.CompletedAt
		it.CompletedAt = &t
	}
	return it
}

// ItemPatch lists every field update may touch. Nil means leave unchanged.
type ItemPatch struct {
	Title       *string
	Status      *Status
	CompletedAt *time.Time
}

// Apply merges p into it. now is used when a completion carries no timestamp.
// A patch can never break the Pending/CompletedAt pairing: reopening a
// completed item and setting CompletedAt on a pending one are both ignored.
func (p ItemPatch) Apply(it *Item, now time.Time) {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Status != nil && *p.Status == StatusCompleted && it.Pending() {
		at := now
		if p.CompletedAt != nil {
			at = *p.CompletedAt
		}
		it.Status = StatusCompleted
		it.CompletedAt = &at
	}
}

// NormalizeTitle trims title and checks the UI length rules.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("empty title: %w", ErrValidation)
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLen {
		return "", fmt.Errorf("title is %d characters, max %d: %w", n, MaxTitleLen, ErrValidation)
	}
	return title, nil
}

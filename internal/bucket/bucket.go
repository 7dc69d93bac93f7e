// Package bucket is the application layer the CLI and TUI talk to. It
// enforces the rules that sit above the stores: title limits, the photo size
// gate, note cleanup on delete, and translating pending-view positions into
// collection positions.
package bucket

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Makepad-fr/bucket/internal/imaging"
	"github.com/Makepad-fr/bucket/internal/model"
	"github.com/Makepad-fr/bucket/internal/store/itemstore"
	"github.com/Makepad-fr/bucket/internal/store/notestore"
	"github.com/Makepad-fr/bucket/internal/store/safe"
	"github.com/Makepad-fr/bucket/internal/suggest"
)

// DefaultMaxImageKB is the largest encoded photo a note may carry.
const DefaultMaxImageKB = 500

var (
	ErrAlreadyCompleted = errors.New("item already completed")
	ErrNoSuchPending    = errors.New("no such pending item")
	ErrNoSuchCompleted  = errors.New("no such completed item")
)

// ImageTooLargeError reports a photo that is still over the limit after
// ingestion.
type ImageTooLargeError struct {
	SizeKB, MaxKB float64
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("image is %.0fKB, limit is %.0fKB", e.SizeKB, e.MaxKB)
}

// ErrImageTooLarge matches any *ImageTooLargeError via errors.Is.
var ErrImageTooLarge = &ImageTooLargeError{}

func (e *ImageTooLargeError) Is(target error) bool {
	_, ok := target.(*ImageTooLargeError)
	return ok
}

type Options struct {
	Image      imaging.Options
	MaxImageKB float64
	Logger     *log.Logger
	Now        func() time.Time
}

// Service ties one adapter, one item store and one note store together.
type Service struct {
	adapter *safe.Adapter
	Items   *itemstore.Store
	Notes   *notestore.Store

	image      imaging.Options
	maxImageKB float64
	log        *log.Logger
	now        func() time.Time
}

// New builds the stores on top of a and loads their persisted state.
func New(a *safe.Adapter, opt Options) *Service {
	if opt.Logger == nil {
		opt.Logger = log.Default()
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.MaxImageKB <= 0 {
		opt.MaxImageKB = DefaultMaxImageKB
	}
	s := &Service{
		adapter: a,
		Items: itemstore.New(a,
			itemstore.WithLogger(opt.Logger), itemstore.WithClock(opt.Now)),
		Notes: notestore.New(a,
			notestore.WithLogger(opt.Logger), notestore.WithClock(opt.Now)),
		image:      opt.Image,
		maxImageKB: opt.MaxImageKB,
		log:        opt.Logger,
		now:        opt.Now,
	}
	s.Items.Load()
	s.Notes.Load()
	return s
}

// HealthCheck reports whether the storage backend round-trips values.
func (s *Service) HealthCheck() bool { return s.adapter.HealthCheck() }

func (s *Service) Pending() []model.Item   { return s.Items.Pending() }
func (s *Service) Completed() []model.Item { return s.Items.Completed() }

// PendingAt returns the pending item at 0-based view position i.
func (s *Service) PendingAt(i int) (model.Item, error) {
	p := s.Items.Pending()
	if i < 0 || i >= len(p) {
		return model.Item{}, fmt.Errorf("position %d of %d: %w", i+1, len(p), ErrNoSuchPending)
	}
	return p[i], nil
}

// CompletedAt returns the completed item at 0-based position i of the
// newest-first completed view.
func (s *Service) CompletedAt(i int) (model.Item, error) {
	c := s.Items.Completed()
	if i < 0 || i >= len(c) {
		return model.Item{}, fmt.Errorf("position %d of %d: %w", i+1, len(c), ErrNoSuchCompleted)
	}
	return c[i], nil
}

// AddItem creates a pending item typed in by the user.
func (s *Service) AddItem(title string) (model.Item, error) {
	title, err := model.NormalizeTitle(title)
	if err != nil {
		return model.Item{}, err
	}
	return s.Items.Create(title, model.StatusPending, model.SourceUser), nil
}

// AcceptSuggestion adds a catalog suggestion as a pending item.
func (s *Service) AcceptSuggestion(sg suggest.Suggestion) (model.Item, error) {
	title, err := model.NormalizeTitle(sg.Title)
	if err != nil {
		return model.Item{}, err
	}
	return s.Items.Create(title, model.StatusPending, model.SourceSuggested), nil
}

// Rename changes an item's title.
func (s *Service) Rename(id, title string) error {
	title, err := model.NormalizeTitle(title)
	if err != nil {
		return err
	}
	if _, err := s.Items.Get(id); err != nil {
		return err
	}
	s.Items.Update(id, model.ItemPatch{Title: &title})
	return nil
}

// Complete records a certificate note and marks the item completed.
func (s *Service) Complete(id string) (model.Item, error) {
	it, err := s.Items.Get(id)
	if err != nil {
		return model.Item{}, err
	}
	if it.Completed() {
		return it, fmt.Errorf("%q: %w", it.Title, ErrAlreadyCompleted)
	}
	at := s.now().Round(0)
	cert := Certificate(it, at)
	if _, err := s.Notes.Scope(id).Create(&cert, nil); err != nil {
		return model.Item{}, err
	}
	done := model.StatusCompleted
	s.Items.Update(id, model.ItemPatch{Status: &done, CompletedAt: &at})
	return s.Items.Get(id)
}

// DeleteItem removes an item together with all of its notes.
func (s *Service) DeleteItem(id string) {
	s.Notes.Scope(id).DeleteAll()
	s.Items.Delete(id)
}

// MovePending moves the item at pending-view position from to the position
// currently held by the item at to.
func (s *Service) MovePending(from, to int) error {
	p := s.Items.Pending()
	if from < 0 || from >= len(p) || to < 0 || to >= len(p) {
		return fmt.Errorf("move %d -> %d of %d: %w", from+1, to+1, len(p), ErrNoSuchPending)
	}
	if from == to {
		return nil
	}
	absFrom := s.Items.Index(p[from].ID)
	absTo := s.Items.Index(p[to].ID)
	return s.Items.Reorder(absFrom, absTo)
}

// NotesOf returns the notes of item id, freshly read from storage.
func (s *Service) NotesOf(id string) []model.Note {
	return s.Notes.Scope(id).Load()
}

// AddTextNote attaches a text note to item id.
func (s *Service) AddTextNote(id, text string) (model.Note, error) {
	if _, err := s.Items.Get(id); err != nil {
		return model.Note{}, err
	}
	return s.Notes.Scope(id).Create(&text, nil)
}

// AddPhotoNote shrinks raw into an embedded JPEG and attaches it, with an
// optional caption, to item id. Photos still over the size limit after
// shrinking are rejected with an *ImageTooLargeError.
func (s *Service) AddPhotoNote(id string, raw []byte, mime, caption string) (model.Note, error) {
	if _, err := s.Items.Get(id); err != nil {
		return model.Note{}, err
	}
	if err := imaging.CheckMIME(mime); err != nil {
		return model.Note{}, err
	}
	enc, err := imaging.Ingest(raw, s.image)
	if err != nil {
		s.log.Printf("bucket: photo ingest failed: %v", err)
		return model.Note{}, err
	}
	if kb := enc.SizeKB(); kb > s.maxImageKB {
		return model.Note{}, &ImageTooLargeError{SizeKB: kb, MaxKB: s.maxImageKB}
	}
	var content *string
	if caption != "" {
		content = &caption
	}
	return s.Notes.Scope(id).Create(content, &enc.DataURI)
}

// DeleteNote removes one note of item id.
func (s *Service) DeleteNote(id, noteID string) {
	s.Notes.Scope(id).Delete(noteID)
}

// Package itemstore owns the bucket-list items, their order and their status.
//
// Every mutation rewrites the whole collection through the persistence
// adapter before returning. A failed write is logged and the in-memory change
// stands. The store is meant for a single UI loop and does no locking.
package itemstore

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/bucket/internal/model"
	"github.com/Makepad-fr/bucket/internal/store/jsonstore"
)

// Key is the storage key holding the item array.
const Key = "items"

var (
	ErrNotFound        = errors.New("item not found")
	ErrIndexOutOfRange = errors.New("index out of range")
)

type Store struct {
	adapter jsonstore.Adapter
	log     *log.Logger
	now     func() time.Time
	newID   func() string

	items []model.Item
	last  time.Time // latest created_at handed out or loaded
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option       { return func(s *Store) { s.log = l } }
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }
func WithIDs(newID func() string) Option    { return func(s *Store) { s.newID = newID } }

func New(a jsonstore.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: a,
		log:     log.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
		items:   []model.Item{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load rehydrates the store. Missing, unreadable or malformed data all give
// an empty list. Items come back in stored order with order renumbered 0..N-1.
func (s *Store) Load() []model.Item {
	items, err := jsonstore.Load[model.Item](s.adapter, Key)
	if err != nil {
		s.log.Printf("itemstore: discarding stored items: %v", err)
		items = []model.Item{}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	s.items = items
	s.renumber()
	s.last = time.Time{}
	for _, it := range items {
		if it.CreatedAt.After(s.last) {
			s.last = it.CreatedAt
		}
	}
	return s.All()
}

// All returns a copy of the full collection in backing order.
func (s *Store) All() []model.Item {
	out := make([]model.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) Get(id string) (model.Item, error) {
	if i := s.index(id); i >= 0 {
		return s.items[i].Clone(), nil
	}
	return model.Item{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Index returns the absolute position of id, or -1.
func (s *Store) Index(id string) int { return s.index(id) }

// Create appends a new item. Its order is the size of the whole collection
// before the insert, completed items included.
func (s *Store) Create(title string, status model.Status, source model.Source) model.Item {
	it := model.Item{
		ID:        s.newID(),
		Title:     title,
		Status:    model.StatusPending,
		Source:    source,
		Order:     len(s.items),
		CreatedAt: s.stamp(),
	}
	if status == model.StatusCompleted {
		at := it.CreatedAt
		it.Status = model.StatusCompleted
		it.CompletedAt = &at
	}
	s.items = append(s.items, it)
	s.persist()
	return it.Clone()
}

// Update merges p into the item with the given id. Unknown ids are ignored.
func (s *Store) Update(id string, p model.ItemPatch) {
	i := s.index(id)
	if i < 0 {
		return
	}
	p.Apply(&s.items[i], s.clock())
	s.persist()
}

// Delete removes the item with the given id. Its notes are the caller's job.
func (s *Store) Delete(id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.renumber()
	s.persist()
}

// Reorder moves the item at from to position to. Both indices address the
// full collection, not a filtered view.
func (s *Store) Reorder(from, to int) error {
	n := len(s.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder %d -> %d of %d: %w", from, to, n, ErrIndexOutOfRange)
	}
	it := s.items[from]
	s.items = slices.Delete(s.items, from, from+1)
	s.items = slices.Insert(s.items, to, it)
	s.renumber()
	s.persist()
	return nil
}

func (s *Store) Pending() []model.Item   { return model.PendingView(s.All()) }
func (s *Store) Completed() []model.Item { return model.CompletedView(s.All()) }

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
}

// renumber restores order == position.
func (s *Store) renumber() {
	for i := range s.items {
		s.items[i].Order = i
	}
}

func (s *Store) clock() time.Time { return s.now().Round(0) }

// stamp returns a creation time strictly after every earlier one.
func (s *Store) stamp() time.Time {
	t := s.clock()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func (s *Store) persist() {
	if err := jsonstore.Save(s.adapter, Key, s.items); err != nil {
		s.log.Printf("itemstore: %v", err)
	}
}

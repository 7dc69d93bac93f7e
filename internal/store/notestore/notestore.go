// Package notestore keeps the notes attached to items.
//
// All notes share one storage key. A single Store owns that key for the whole
// process. Callers work through per-item Scopes. Every write re-reads the key,
// replaces the scope's slice of it and writes the result back.
package notestore

import (
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/bucket/internal/model"
	"github.com/Makepad-fr/bucket/internal/store/jsonstore"
)

// Key is the storage key holding every note of every item.
const Key = "notes"

type Store struct {
	adapter jsonstore.Adapter
	log     *log.Logger
	now     func() time.Time
	newID   func() string

	notes  []model.Note
	loaded bool
	scopes map[string]*Scope
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
		scopes:  map[string]*Scope{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scope returns the view bound to itemID. Repeated calls share one Scope.
func (s *Store) Scope(itemID string) *Scope {
	if sc, ok := s.scopes[itemID]; ok {
		return sc
	}
	sc := &Scope{store: s, itemID: itemID}
	s.scopes[itemID] = sc
	return sc
}

// Load rehydrates every note from storage. Malformed data is logged and
// treated as no notes.
func (s *Store) Load() []model.Note {
	notes, ok := s.read()
	if !ok {
		notes = []model.Note{}
	}
	s.notes = notes
	s.loaded = true
	return s.All()
}

// ensureLoaded reads storage once if nothing has loaded it yet, so the
// in-scope sets written back by persist start from what is stored.
func (s *Store) ensureLoaded() {
	if !s.loaded {
		s.Load()
	}
}

// All returns a copy of every note the store knows about, across items.
func (s *Store) All() []model.Note {
	s.ensureLoaded()
	return cloneAll(s.notes)
}

// read fetches the stored collection. ok is false when the stored value
// cannot be decoded.
func (s *Store) read() (notes []model.Note, ok bool) {
	notes, err := jsonstore.Load[model.Note](s.adapter, Key)
	if err != nil {
		s.log.Printf("notestore: %v", err)
		return nil, false
	}
	return notes, true
}

// persist rewrites the stored collection with itemID's notes replaced by
// scoped.
func (s *Store) persist(itemID string, scoped []model.Note) {
	base, ok := s.read()
	if !ok {
		base = s.notes
	}
	merged := make([]model.Note, 0, len(base)+len(scoped))
	for _, n := range base {
		if n.ItemID != itemID {
			merged = append(merged, n)
		}
	}
	merged = append(merged, scoped...)
	s.notes = merged
	s.loaded = true
	if err := jsonstore.Save(s.adapter, Key, merged); err != nil {
		s.log.Printf("notestore: %v", err)
	}
}

func (s *Store) inScope(itemID string) []model.Note {
	s.ensureLoaded()
	var out []model.Note
	for _, n := range s.notes {
		if n.ItemID == itemID {
			out = append(out, n)
		}
	}
	return out
}

// Scope is the notes of one item.
type Scope struct {
	store  *Store
	itemID string
}

func (sc *Scope) ItemID() string { return sc.itemID }

// Load re-reads storage and returns this item's notes in creation order.
// Unreadable data is logged and yields no notes.
func (sc *Scope) Load() []model.Note {
	sc.store.Load()
	return sc.Notes()
}

// Notes returns the in-memory notes of this item without touching storage.
func (sc *Scope) Notes() []model.Note {
	return cloneAll(sc.store.inScope(sc.itemID))
}

// Create adds a note. At least one of content and image must carry a value.
func (sc *Scope) Create(content, image *string) (model.Note, error) {
	if sc.itemID == "" {
		return model.Note{}, fmt.Errorf("note without item: %w", model.ErrValidation)
	}
	if !model.HasPayload(content, image) {
		return model.Note{}, fmt.Errorf("note needs content or an image: %w", model.ErrValidation)
	}
	n := model.Note{
		ID:        sc.store.newID(),
		ItemID:    sc.itemID,
		Content:   content,
		Image:     image,
		CreatedAt: sc.store.now().Round(0),
	}
	n = n.Clone()
	sc.store.persist(sc.itemID, append(sc.store.inScope(sc.itemID), n))
	return n.Clone(), nil
}

// Delete removes one note of this item. Unknown ids are ignored.
func (sc *Scope) Delete(noteID string) {
	scoped := sc.store.inScope(sc.itemID)
	i := slices.IndexFunc(scoped, func(n model.Note) bool { return n.ID == noteID })
	if i < 0 {
		return
	}
	sc.store.persist(sc.itemID, slices.Delete(scoped, i, i+1))
}

// DeleteAll removes every note of this item.
func (sc *Scope) DeleteAll() {
	sc.store.persist(sc.itemID, nil)
}

func cloneAll(notes []model.Note) []model.Note {
	out := make([]model.Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// Package suggest serves random bucket-list ideas from a static catalog.
package suggest

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed suggestions.yaml
var builtin []byte

// Suggestion is one catalog entry.
type Suggestion struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
}

var ErrEmptyCatalog = errors.New("suggestion catalog is empty")

// Catalog is a read-only list of suggestions.
type Catalog struct {
	entries []Suggestion
}

// Builtin returns the embedded catalog.
func Builtin() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("suggest: embedded catalog: %v", err))
	}
	return c
}

// Parse reads a YAML list of suggestions. Entries without a title are dropped.
func Parse(b []byte) (*Catalog, error) {
	var raw []Suggestion
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	c := &Catalog{}
	for _, s := range raw {
		if s.Title != "" {
			c.entries = append(c.entries, s)
		}
	}
	if len(c.entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

// LoadFile parses the catalog at path, or returns Builtin when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(b)
}

func (c *Catalog) Len() int { return len(c.entries) }

func (c *Catalog) All() []Suggestion {
	return append([]Suggestion(nil), c.entries...)
}

// Random picks one entry. A nil r uses the global source.
func (c *Catalog) Random(r *rand.Rand) Suggestion {
	if r == nil {
		return c.entries[rand.IntN(len(c.entries))]
	}
	return c.entries[r.IntN(len(c.entries))]
}

// Deck shows a current card with the next one already drawn, like a stack
// of swipe cards. Draws are independent, so repeats are possible.
type Deck struct {
	catalog *Catalog
	rng     *rand.Rand
	current Suggestion
	next    Suggestion
}

func NewDeck(c *Catalog, r *rand.Rand) *Deck {
	d := &Deck{catalog: c, rng: r}
	d.current = c.Random(r)
	d.next = c.Random(r)
	return d
}

func (d *Deck) Current() Suggestion { return d.current }
func (d *Deck) Next() Suggestion    { return d.next }

// Skip discards the current card.
func (d *Deck) Skip() {
	d.current, d.next = d.next, d.catalog.Random(d.rng)
}

// Accept returns the current card and advances.
func (d *Deck) Accept() Suggestion {
	s := d.current
	d.Skip()
	return s
}

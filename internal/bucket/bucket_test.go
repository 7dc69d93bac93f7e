package bucket

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/bucket/internal/imaging"
	"github.com/Makepad-fr/bucket/internal/model"
	"github.com/Makepad-fr/bucket/internal/store/kv"
	"github.com/Makepad-fr/bucket/internal/store/safe"
	"github.com/Makepad-fr/bucket/internal/suggest"
)

var quiet = log.New(io.Discard, "", 0)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newService(t *testing.T, opt Options) (*Service, *kv.Memory) {
	t.Helper()
	m := kv.NewMemory()
	c := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	opt.Logger = quiet
	opt.Now = c.now
	return New(safe.New(m, quiet), opt), m
}

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	r := rand.New(rand.NewPCG(7, 7))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(r.IntN(256)), uint8(r.IntN(256)), uint8(r.IntN(256)), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestScenario(t *testing.T) {
	s, _ := newService(t, Options{})
	a, err := s.AddItem("Learn pottery")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.AddItem("Visit Kyoto")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MovePending(1, 0); err != nil {
		t.Fatal(err)
	}
	p := s.Pending()
	if len(p) != 2 || p[0].ID != b.ID || p[1].ID != a.ID || p[0].Order != 0 || p[1].Order != 1 {
		t.Fatalf("pending = %v", ids(p))
	}
	if _, err := s.Complete(a.ID); err != nil {
		t.Fatal(err)
	}
	c := s.Completed()
	if len(c) != 1 || c[0].ID != a.ID || c[0].CompletedAt == nil {
		t.Fatalf("completed = %+v", c)
	}
	if p := s.Pending(); len(p) != 1 || p[0].ID != b.ID {
		t.Fatalf("pending = %v", ids(p))
	}
}

func TestMovePendingSkipsCompletedItems(t *testing.T) {
	s, _ := newService(t, Options{})
	s.AddItem("a")
	done, _ := s.AddItem("done")
	s.AddItem("c")
	s.Complete(done.ID)
	// Pending view is [a, c]; moving c up must land it before a.
	if err := s.MovePending(1, 0); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.Pending()); got[0] != "c" || got[1] != "a" {
		t.Errorf("pending = %v", got)
	}
	if err := s.MovePending(0, 5); !errors.Is(err, ErrNoSuchPending) {
		t.Errorf("want ErrNoSuchPending, got %v", err)
	}
}

func TestAddItemValidation(t *testing.T) {
	s, _ := newService(t, Options{})
	for _, title := range []string{"", "   ", strings.Repeat("x", 201)} {
		if _, err := s.AddItem(title); !errors.Is(err, model.ErrValidation) {
			t.Errorf("AddItem(%d chars): want ErrValidation, got %v", len(title), err)
		}
	}
	if s.Items.Len() != 0 {
		t.Error("invalid titles created items")
	}
}

func TestAcceptSuggestion(t *testing.T) {
	s, _ := newService(t, Options{})
	it, err := s.AcceptSuggestion(suggest.Suggestion{ID: 1, Title: "See the northern lights", Category: "travel"})
	if err != nil {
		t.Fatal(err)
	}
	if it.Source != model.SourceSuggested || !it.Pending() {
		t.Errorf("item = %+v", it)
	}
}

func TestCompleteWritesCertificate(t *testing.T) {
	s, _ := newService(t, Options{})
	it, _ := s.AddItem("Run a half marathon")
	done, err := s.Complete(it.ID)
	if err != nil {
		t.Fatal(err)
	}
	notes := s.NotesOf(it.ID)
	if len(notes) != 1 || notes[0].Content == nil || !strings.Contains(*notes[0].Content, "Run a half marathon") {
		t.Fatalf("notes = %+v", notes)
	}
	if _, err := s.Complete(it.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("second Complete: want ErrAlreadyCompleted, got %v", err)
	}
	again, _ := s.Items.Get(it.ID)
	if !again.CompletedAt.Equal(*done.CompletedAt) {
		t.Error("completed_at changed")
	}
}

func TestCertificateDays(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	it := model.Item{Title: "x", CreatedAt: start}
	if c := Certificate(it, start.Add(36*time.Hour)); !strings.Contains(c, "2 days") {
		t.Errorf("certificate = %q", c)
	}
	if c := Certificate(it, start.Add(time.Hour)); !strings.Contains(c, "1 day") {
		t.Errorf("certificate = %q", c)
	}
}

func TestDeleteItemCascades(t *testing.T) {
	s, _ := newService(t, Options{})
	a, _ := s.AddItem("a")
	b, _ := s.AddItem("b")
	s.AddTextNote(a.ID, "one")
	s.AddTextNote(a.ID, "two")
	s.AddTextNote(b.ID, "keep")
	s.DeleteItem(a.ID)
	if _, err := s.Items.Get(a.ID); err == nil {
		t.Error("item still present")
	}
	if n := s.NotesOf(a.ID); len(n) != 0 {
		t.Errorf("orphaned notes: %+v", n)
	}
	if n := s.NotesOf(b.ID); len(n) != 1 {
		t.Errorf("other item lost notes: %+v", n)
	}
}

func TestCompletedAtNewestFirst(t *testing.T) {
	s, _ := newService(t, Options{})
	a, _ := s.AddItem("a")
	b, _ := s.AddItem("b")
	s.Complete(a.ID)
	s.Complete(b.ID)
	if it, err := s.CompletedAt(0); err != nil || it.ID != b.ID {
		t.Errorf("CompletedAt(0) = %q, %v; want b", it.Title, err)
	}
	if _, err := s.CompletedAt(2); !errors.Is(err, ErrNoSuchCompleted) {
		t.Errorf("CompletedAt(2): want ErrNoSuchCompleted, got %v", err)
	}

	// A finished goal still owns its certificate and can be removed with it.
	if n := s.NotesOf(a.ID); len(n) != 1 {
		t.Fatalf("notes of completed item = %+v", n)
	}
	s.DeleteItem(a.ID)
	if len(s.Completed()) != 1 || len(s.Notes.All()) != 1 {
		t.Errorf("completed = %d notes = %d after delete", len(s.Completed()), len(s.Notes.All()))
	}
}

func TestNotesForUnknownItem(t *testing.T) {
	s, _ := newService(t, Options{})
	if _, err := s.AddTextNote("ghost", "hi"); err == nil {
		t.Error("AddTextNote on a missing item should fail")
	}
}

func TestAddPhotoNote(t *testing.T) {
	s, _ := newService(t, Options{Image: imaging.Options{MaxWidth: 64}})
	it, _ := s.AddItem("Camp under the stars")
	n, err := s.AddPhotoNote(it.ID, noisyPNG(t, 200, 100), "image/png", "first night")
	if err != nil {
		t.Fatal(err)
	}
	if n.Image == nil || !strings.HasPrefix(*n.Image, "data:image/jpeg;base64,") {
		t.Errorf("image = %.40v", n.Image)
	}
	if n.Content == nil || *n.Content != "first night" {
		t.Errorf("caption = %v", n.Content)
	}
}

func TestAddPhotoNoteRejects(t *testing.T) {
	s, m := newService(t, Options{MaxImageKB: 1})
	it, _ := s.AddItem("x")
	before, _ := m.Get("notes")

	_, err := s.AddPhotoNote(it.ID, noisyPNG(t, 300, 300), "image/png", "")
	var tooBig *ImageTooLargeError
	if !errors.As(err, &tooBig) || !errors.Is(err, ErrImageTooLarge) || tooBig.SizeKB <= 1 {
		t.Errorf("want ImageTooLargeError, got %v", err)
	}
	if _, err := s.AddPhotoNote(it.ID, []byte("%PDF-1.4"), "application/pdf", ""); !errors.Is(err, imaging.ErrUnsupportedFormat) {
		t.Errorf("want ErrUnsupportedFormat, got %v", err)
	}
	if _, err := s.AddPhotoNote(it.ID, []byte("broken"), "image/jpeg", ""); !errors.Is(err, imaging.ErrDecode) {
		t.Errorf("want ErrDecode, got %v", err)
	}
	after, _ := m.Get("notes")
	if !bytes.Equal(before, after) {
		t.Error("rejected photos changed stored notes")
	}
}

func TestStateSurvivesRestart(t *testing.T) {
	m := kv.NewMemory()
	a := safe.New(m, quiet)
	s := New(a, Options{Logger: quiet})
	it, _ := s.AddItem("Bake bread from scratch")
	s.AddItem("Plant a vegetable garden")
	s.MovePending(1, 0)
	s.AddTextNote(it.ID, "sourdough starter day 1")

	s2 := New(a, Options{Logger: quiet})
	if got := ids(s2.Pending()); len(got) != 2 || got[0] != "Plant a vegetable garden" {
		t.Errorf("pending after restart = %v", got)
	}
	if n := s2.NotesOf(it.ID); len(n) != 1 {
		t.Errorf("notes after restart = %+v", n)
	}
}

func TestHealthCheck(t *testing.T) {
	s, m := newService(t, Options{})
	if !s.HealthCheck() {
		t.Error("healthy store reported unhealthy")
	}
	m.Broken = true
	if s.HealthCheck() {
		t.Error("broken store reported healthy")
	}
}

func TestRename(t *testing.T) {
	s, _ := newService(t, Options{})
	it, _ := s.AddItem("old")
	if err := s.Rename(it.ID, "  new  "); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Items.Get(it.ID)
	if got.Title != "new" {
		t.Errorf("title = %q", got.Title)
	}
	if err := s.Rename(it.ID, ""); !errors.Is(err, model.ErrValidation) {
		t.Errorf("want ErrValidation, got %v", err)
	}
	if err := s.Rename("ghost", "x"); err == nil {
		t.Error("Rename on a missing item should fail")
	}
}

package cli

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type runner struct {
	t   *testing.T
	dir string
}

func newRunner(t *testing.T, backend string) *runner {
	t.Helper()
	t.Setenv("BUCKET_LOG", "file")
	t.Setenv("BUCKET_BACKEND", backend)
	t.Setenv("BUCKET_THEME", "classic")
	return &runner{t: t, dir: t.TempDir()}
}

func (r *runner) run(args ...string) (int, string, string) {
	r.t.Helper()
	var out, errb bytes.Buffer
	code := Execute(append([]string{"--data-dir", r.dir}, args...), &out, &errb)
	return code, out.String(), errb.String()
}

func (r *runner) ok(args ...string) string {
	r.t.Helper()
	code, out, errs := r.run(args...)
	if code != 0 {
		r.t.Fatalf("bucket %v exited %d: %s", args, code, errs)
	}
	return out
}

func pendingOrder(t *testing.T, out string, titles ...string) {
	t.Helper()
	last := -1
	for _, title := range titles {
		i := strings.Index(out, title)
		if i < 0 {
			t.Fatalf("%q missing from:\n%s", title, out)
		}
		if i < last {
			t.Fatalf("%q out of order in:\n%s", title, out)
		}
		last = i
	}
}

func TestItemLifecycle(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			r := newRunner(t, backend)
			r.ok("add", "Learn", "pottery")
			r.ok("add", "Visit Kyoto")
			pendingOrder(t, r.ok("ls", "--plain"), "Learn pottery", "Visit Kyoto")

			r.ok("mv", "2", "1")
			pendingOrder(t, r.ok("ls", "--plain"), "Visit Kyoto", "Learn pottery")

			r.ok("done", "2")
			out := r.ok("completed")
			if !strings.Contains(out, "Learn pottery") {
				t.Errorf("completed view:\n%s", out)
			}
			out = r.ok("ls", "--plain")
			if strings.Contains(out, "Learn pottery") {
				t.Errorf("completed item still pending:\n%s", out)
			}
			if !strings.Contains(r.ok("ls", "--plain", "--group"), "Learn pottery") {
				t.Error("--group should include completed items")
			}

			r.ok("rename", "1", "Visit", "Kyoto", "in", "autumn")
			r.ok("note", "add", "1", "book the ryokan")
			if out := r.ok("note", "ls", "1"); !strings.Contains(out, "book the ryokan") {
				t.Errorf("note ls:\n%s", out)
			}
			r.ok("note", "rm", "1", "1")
			if out := r.ok("note", "ls", "1"); !strings.Contains(out, "no notes") {
				t.Errorf("note ls after rm:\n%s", out)
			}

			r.ok("rm", "1")
			if out := r.ok("ls", "--plain"); !strings.Contains(out, "nothing on the list yet") {
				t.Errorf("ls after rm:\n%s", out)
			}
		})
	}
}

func TestCompletedGoalsAreAddressable(t *testing.T) {
	r := newRunner(t, "file")
	r.ok("add", "Swim with dolphins")
	r.ok("add", "See the aurora")
	r.ok("done", "1")

	out := r.ok("completed")
	if !strings.Contains(out, "c1.") {
		t.Errorf("completed view should number its goals:\n%s", out)
	}
	out = r.ok("note", "ls", "c1")
	if !strings.Contains(out, "Swim with dolphins") || strings.Contains(out, "no notes") {
		t.Errorf("certificate not shown for completed goal:\n%s", out)
	}
	r.ok("note", "add", "C1", "the water was cold")
	if out := r.ok("note", "ls", "c1"); !strings.Contains(out, "the water was cold") {
		t.Errorf("note ls c1:\n%s", out)
	}
	if code, _, _ := r.run("note", "ls", "c2"); code != 2 {
		t.Errorf("note ls c2 exited %d, want 2", code)
	}

	r.ok("rm", "c1")
	if out := r.ok("completed"); strings.Contains(out, "Swim with dolphins") {
		t.Errorf("completed goal not removed:\n%s", out)
	}
	if out := r.ok("note", "ls", "1"); !strings.Contains(out, "no notes") {
		t.Errorf("pending goal picked up notes:\n%s", out)
	}
}

func TestUsageErrors(t *testing.T) {
	r := newRunner(t, "file")
	r.ok("add", "one")
	cases := [][]string{
		{"add"},
		{"add", "   "},
		{"done", "x"},
		{"done", "0"},
		{"done", "5"},
		{"rm", "c1"},
		{"rm", "c0"},
		{"mv", "1"},
		{"mv", "1", "9"},
		{"note", "add", "1"},
		{"nope"},
		{"ls", "--bogus"},
	}
	for _, args := range cases {
		if code, _, _ := r.run(args...); code != 2 {
			t.Errorf("bucket %v exited %d, want 2", args, code)
		}
	}
}

func TestPhotoNote(t *testing.T) {
	r := newRunner(t, "file")
	r.ok("add", "Camp under the stars")

	img := image.NewNRGBA(image.Rect(0, 0, 1200, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 1200; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 80, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	photo := filepath.Join(t.TempDir(), "night.png")
	os.WriteFile(photo, buf.Bytes(), 0o644)

	out := r.ok("note", "photo", "1", photo, "first", "night")
	if !strings.Contains(out, "photo added") {
		t.Errorf("output: %s", out)
	}
	if out := r.ok("note", "ls", "1"); !strings.Contains(out, "first night") || !strings.Contains(out, "photo") {
		t.Errorf("note ls:\n%s", out)
	}

	text := filepath.Join(t.TempDir(), "notes.txt")
	os.WriteFile(text, []byte("just words"), 0o644)
	if code, _, _ := r.run("note", "photo", "1", text); code != 2 {
		t.Errorf("non-image photo exited %d, want 2", code)
	}
}

func TestPhotoTooLarge(t *testing.T) {
	r := newRunner(t, "file")
	t.Setenv("BUCKET_IMAGE_MAX_KB", "0.01")
	r.ok("add", "x")
	var buf bytes.Buffer
	png.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 64)))
	photo := filepath.Join(t.TempDir(), "p.png")
	os.WriteFile(photo, buf.Bytes(), 0o644)
	code, _, errs := r.run("note", "photo", "1", photo)
	if code != 2 || !strings.Contains(errs, "smaller image") {
		t.Errorf("exit %d, stderr %q", code, errs)
	}
}

func TestSuggestAccept(t *testing.T) {
	r := newRunner(t, "file")
	r.ok("suggest", "--accept")
	out := r.ok("ls", "--plain")
	if !strings.Contains(out, "✨") {
		t.Errorf("accepted suggestion should be marked:\n%s", out)
	}
}

func TestDoctor(t *testing.T) {
	r := newRunner(t, "sqlite")
	r.ok("add", "a")
	out := r.ok("doctor")
	for _, want := range []string{"storage   OK", "backend   sqlite", "1 pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}

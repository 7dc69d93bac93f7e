// Package imaging turns raw photo bytes into a bounded-size JPEG data URI
// that can be stored as a string next to text notes.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth = 800
	DefaultQuality  = 0.8

	// MaxCanvasSide bounds each side of the source and target pixel buffers.
	MaxCanvasSide = 16384

	dataURIPrefix = "data:image/jpeg;base64,"
)

var (
	ErrDecode            = errors.New("cannot decode image")
	ErrUnsupportedFormat = errors.New("not an image")
	ErrCanvasUnavailable = errors.New("cannot allocate image surface")
)

// Options tune Ingest. A zero MaxWidth or nil Quality means the default.
type Options struct {
	MaxWidth int
	Quality  *float64 // 0..1, clamped
}

// Quality returns q as an Options.Quality value.
func Quality(q float64) *float64 { return &q }

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	q := DefaultQuality
	if o.Quality != nil {
		q = min(max(*o.Quality, 0), 1)
	}
	o.Quality = &q
	return o
}

// Encoded is the result of one ingestion.
type Encoded struct {
	DataURI string
	Width   int
	Height  int
	Format  string // format of the source image
}

// SizeKB is the decoded byte size of the payload in KiB.
func (e Encoded) SizeKB() float64 { return EncodedSizeKB(e.DataURI) }

// Ingest decodes raw, shrinks it to at most opt.MaxWidth wide and re-encodes
// it as a JPEG data URI. It keeps no state and is safe to call concurrently.
func Ingest(raw []byte, opt Options) (Encoded, error) {
	opt = opt.withDefaults()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Encoded{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !canvasFits(cfg.Width, cfg.Height) {
		return Encoded{}, fmt.Errorf("source %dx%d: %w", cfg.Width, cfg.Height, ErrCanvasUnavailable)
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Encoded{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	sb := src.Bounds()
	w, h := TargetSize(sb.Dx(), sb.Dy(), opt.MaxWidth)
	if !canvasFits(w, h) {
		return Encoded{}, fmt.Errorf("target %dx%d: %w", w, h, ErrCanvasUnavailable)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; flatten onto white like a browser canvas export.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)

	var buf bytes.Buffer
	buf.WriteString(dataURIPrefix)
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := jpeg.Encode(enc, dst, &jpeg.Options{Quality: jpegQuality(*opt.Quality)}); err != nil {
		return Encoded{}, fmt.Errorf("jpeg encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return Encoded{}, fmt.Errorf("base64: %w", err)
	}
	return Encoded{DataURI: buf.String(), Width: w, Height: h, Format: format}, nil
}

// TargetSize keeps w x h when w <= maxWidth, otherwise scales both sides by
// maxWidth/w with the height rounded to the nearest pixel.
func TargetSize(w, h, maxWidth int) (int, int) {
	if w <= maxWidth {
		return w, h
	}
	nh := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	if nh < 1 {
		nh = 1
	}
	return maxWidth, nh
}

// EncodedSizeKB returns the exact decoded size, in KiB, of a base64 data URI
// (or of a bare base64 string).
func EncodedSizeKB(dataURI string) float64 {
	payload := dataURI[strings.IndexByte(dataURI, ',')+1:]
	padding := len(payload) - len(strings.TrimRight(payload, "="))
	n := float64(len(payload))*3/4 - float64(padding)
	return n / 1024
}

// CheckMIME rejects anything that is not an image/* type.
func CheckMIME(mime string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/") {
		return fmt.Errorf("%q: %w", mime, ErrUnsupportedFormat)
	}
	return nil
}

// SniffMIME guesses the MIME type of raw from its leading bytes.
func SniffMIME(raw []byte) string {
	return http.DetectContentType(raw)
}

func canvasFits(w, h int) bool {
	return w > 0 && h > 0 && w <= MaxCanvasSide && h <= MaxCanvasSide
}

func jpegQuality(q float64) int {
	n := int(math.Round(q * 100))
	return min(max(n, 1), 100)
}

package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Makepad-fr/bucket/internal/imaging"
	"github.com/Makepad-fr/bucket/internal/model"
)

// TitleWidth caps how many cells of a title a row shows.
const TitleWidth = 80

// Position renders a 1-based list position such as " 3." or "c2.".
func Position(prefix string, i int) string {
	return C(Dim, fmt.Sprintf("%3s.", prefix+strconv.Itoa(i+1)))
}

// PendingRow renders pending item it at 0-based position i, with its
// suggestion marker and note count.
func PendingRow(i int, it model.Item, notes int) string {
	t := current
	row := Position("", i) + " " + C(t.Muted, t.BoxUnchecked) + " " + Truncate(it.Title, TitleWidth)
	if it.Source == model.SourceSuggested {
		row += " " + C(t.Suggested, t.SymSuggested)
	}
	if notes > 0 {
		row += " " + C(t.Muted, fmt.Sprintf("%s%d", t.SymNote, notes))
	}
	return row
}

// CompletedRow renders completed item it at 0-based position i of the
// newest-first view, numbered cN.
func CompletedRow(i int, it model.Item) string {
	t := current
	when := "—"
	if it.CompletedAt != nil {
		when = it.CompletedAt.Local().Format("2006-01-02")
	}
	return Position("c", i) + " " + C(t.Success, t.BoxChecked) + " " +
		Truncate(it.Title, TitleWidth) + "  " + C(t.Muted, when)
}

// NoteRows renders note n at 0-based position i: a dated header, a photo
// marker with its size, then the indented text.
func NoteRows(i int, n model.Note) []string {
	t := current
	head := Position("", i) + " " + C(t.Muted, n.CreatedAt.Local().Format("2006-01-02 15:04"))
	if n.Image != nil {
		head += " " + C(t.Accent, fmt.Sprintf("%s photo %.0fKB", t.SymPhoto, imaging.EncodedSizeKB(*n.Image)))
	}
	rows := []string{head}
	if n.Content != nil {
		for _, ln := range strings.Split(*n.Content, "\n") {
			rows = append(rows, "    "+ln)
		}
	}
	return rows
}

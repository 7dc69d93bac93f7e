package model

import (
	"strings"
	"time"
)

// Note is a timestamped text and/or image annotation on one Item.
// Image holds an encoded data URI, never raw bytes.
type Note struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Content   *string   `json:"content"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// HasPayload reports whether content or image carry anything.
func HasPayload(content, image *string) bool {
	return (content != nil && strings.TrimSpace(*content) != "") ||
		(image != nil && *image != "")
}

func (n Note) Clone() Note {
	if n.Content != nil {
		c := *n.Content
		n.Content = &c
	}
	if n.Image != nil {
		i := *n.Image
		n.Image = &i
	}
	return n
}

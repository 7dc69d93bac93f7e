package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Plain bool // never color, whatever the output

	Title, Muted, Accent, Success, Error, Pending, Suggested string
	BoxUnchecked, BoxChecked                                 string
	CornerTL, CornerTR, CornerBL, CornerBR                   string
	H, V                                                     string
	SymDone, SymPending, SymSuggested, SymNote, SymPhoto     string
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m", Suggested: "\033[95m",
			BoxUnchecked: "◻", BoxChecked: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymPending: "•", SymSuggested: "✨", SymNote: "✎", SymPhoto: "▣",
		}
	case "mono":
		current = Theme{
			Plain:        true,
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymPending: "-", SymSuggested: "*", SymNote: "n", SymPhoto: "p",
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow, Suggested: fgMagenta,
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymPending: "•", SymSuggested: "✨", SymNote: "✎", SymPhoto: "▣",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

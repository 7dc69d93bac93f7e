package cli

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/bucket/internal/bucket"
	"github.com/Makepad-fr/bucket/internal/imaging"
	"github.com/Makepad-fr/bucket/internal/model"
	"github.com/Makepad-fr/bucket/internal/ui"
)

func noteCmd(opt *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes and photos attached to a goal",
		Long: `Manage notes and photos attached to a goal.

Goals are addressed by their position: n for the nth pending goal as shown
by "bucket ls --plain", cN for the Nth goal shown by "bucket completed".`,
	}
	cmd.AddCommand(noteAddCmd(opt), notePhotoCmd(opt), noteListCmd(opt), noteRemoveCmd(opt))
	return cmd
}

func noteAddCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <n|cN> <text...>",
		Short: "Attach a text note to a goal",
		Args:  nArgs(2, -1, "note add <n|cN> <text...>"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			it, err := itemArg(a, args[0])
			if err != nil {
				return err
			}
			if _, err := a.svc.AddTextNote(it.ID, strings.Join(args[1:], " ")); err != nil {
				if errors.Is(err, model.ErrValidation) {
					return usagef("note: %v", err)
				}
				return err
			}
			ui.OK(cmd.OutOrStdout(), "note added")
			return nil
		}),
	}
}

func notePhotoCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "photo <n|cN> <file> [caption...]",
		Short: "Attach a photo (shrunk to fit) to a goal",
		Args:  nArgs(2, -1, "note photo <n|cN> <file> [caption...]"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			it, err := itemArg(a, args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			n, err := a.svc.AddPhotoNote(it.ID, raw, photoMIME(args[1], raw), strings.Join(args[2:], " "))
			switch {
			case errors.Is(err, bucket.ErrImageTooLarge):
				return usagef("%v; pick a smaller image", err)
			case errors.Is(err, imaging.ErrUnsupportedFormat):
				return usagef("please choose an image file: %v", err)
			case errors.Is(err, imaging.ErrDecode):
				return fmt.Errorf("could not process the image: %w", err)
			case err != nil:
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("photo added (%.0fKB)", imaging.EncodedSizeKB(*n.Image)))
			return nil
		}),
	}
}

// photoMIME prefers the sniffed type and falls back to the file extension
// for formats the sniffer does not know (TIFF).
func photoMIME(path string, raw []byte) string {
	if m := imaging.SniffMIME(raw); strings.HasPrefix(m, "image/") {
		return m
	}
	if m := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); m != "" {
		return m
	}
	return imaging.SniffMIME(raw)
}

func noteListCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <n|cN>",
		Short: "Show the notes of a goal",
		Args:  nArgs(1, 1, "note ls <n|cN>"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			it, err := itemArg(a, args[0])
			if err != nil {
				return err
			}
			printNotes(cmd.OutOrStdout(), it, a.svc.NotesOf(it.ID))
			return nil
		}),
	}
}

func noteRemoveCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <n|cN> <note#>",
		Short: "Delete one note of a goal",
		Args:  nArgs(2, 2, "note rm <n|cN> <note#>"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			it, err := itemArg(a, args[0])
			if err != nil {
				return err
			}
			k, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			notes := a.svc.NotesOf(it.ID)
			if k >= len(notes) {
				return usagef("note out of range: have %d, got %d", len(notes), k+1)
			}
			a.svc.DeleteNote(it.ID, notes[k].ID)
			ui.OK(cmd.OutOrStdout(), "note removed")
			return nil
		}),
	}
}

func printNotes(w io.Writer, it model.Item, notes []model.Note) {
	t := ui.Current()
	lines := []string{ui.C(t.Title, ui.Truncate(it.Title, ui.TitleWidth)), ""}
	if len(notes) == 0 {
		lines = append(lines, ui.C(t.Muted, "no notes"))
	}
	for i, n := range notes {
		lines = append(lines, ui.NoteRows(i, n)...)
	}
	ui.Panel(w, lines)
}

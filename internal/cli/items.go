package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/bucket/internal/model"
	"github.com/Makepad-fr/bucket/internal/suggest"
	"github.com/Makepad-fr/bucket/internal/tui"
	"github.com/Makepad-fr/bucket/internal/ui"
)

func addCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a goal (title can be multiple words)",
		Args:  nArgs(1, -1, "add <title...>"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			if _, err := a.svc.AddItem(strings.Join(args, " ")); err != nil {
				return usagef("add: %v", err)
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		}),
	}
}

func listCmd(opt *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List goals (interactive unless --plain)",
		Args:    nArgs(0, 0, "ls [--plain] [--group]"),
		RunE:    withApp(opt, runList(opt)),
	}
	cmd.Flags().BoolVar(&opt.Plain, "plain", false, "print the list instead of opening the TUI")
	cmd.Flags().BoolVar(&opt.Group, "group", false, "with --plain, also show completed goals")
	return cmd
}

func runList(opt *Options) func(cmd *cobra.Command, a *app, args []string) error {
	return func(cmd *cobra.Command, a *app, args []string) error {
		if opt.Plain {
			printList(cmd.OutOrStdout(), a, opt.Group)
			return nil
		}
		cat, err := suggest.LoadFile(a.cfg.Suggestions)
		if err != nil {
			return fmt.Errorf("suggestions: %w", err)
		}
		if err := tui.Run(a.svc, suggest.NewDeck(cat, nil)); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	}
}

func doneCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Complete the goal at pending position n",
		Args:  nArgs(1, 1, "done <n>"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			it, err := pendingArg(a, args[0])
			if err != nil {
				return err
			}
			if _, err := a.svc.Complete(it.ID); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "completed “"+it.Title+"” 🎉")
			return nil
		}),
	}
}

func removeCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <n|cN>",
		Short: "Delete a goal and its notes (cN for the Nth completed goal)",
		Args:  nArgs(1, 1, "rm <n|cN>"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			it, err := itemArg(a, args[0])
			if err != nil {
				return err
			}
			a.svc.DeleteItem(it.ID)
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		}),
	}
}

func moveCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move a pending goal to another position",
		Args:  nArgs(2, 2, "mv <from> <to>"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			from, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			if err := a.svc.MovePending(from, to); err != nil {
				return usagef("%v (run `bucket ls --plain` to see positions)", err)
			}
			ui.OK(cmd.OutOrStdout(), "moved")
			return nil
		}),
	}
}

func renameCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <n|cN> <title...>",
		Short: "Change the title of a goal",
		Args:  nArgs(2, -1, "rename <n|cN> <title...>"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			it, err := itemArg(a, args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Rename(it.ID, strings.Join(args[1:], " ")); err != nil {
				return usagef("rename: %v", err)
			}
			ui.OK(cmd.OutOrStdout(), "renamed")
			return nil
		}),
	}
}

func completedCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "completed",
		Short: "Show completed goals, newest first",
		Args:  nArgs(0, 0, "completed"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			ui.Panel(cmd.OutOrStdout(), completedLines(a.svc.Completed()))
			return nil
		}),
	}
}

// pendingArg resolves a 1-based pending position argument.
func pendingArg(a *app, s string) (model.Item, error) {
	i, err := parsePosition(s)
	if err != nil {
		return model.Item{}, err
	}
	it, err := a.svc.PendingAt(i)
	if err != nil {
		return model.Item{}, usagef("%v (run `bucket ls --plain` to see positions)", err)
	}
	return it, nil
}

// itemArg resolves either a pending position ("3") or a completed one
// ("c3", as numbered by `bucket completed`).
func itemArg(a *app, s string) (model.Item, error) {
	rest, ok := strings.CutPrefix(strings.ToLower(s), "c")
	if !ok {
		return pendingArg(a, s)
	}
	i, err := parsePosition(rest)
	if err != nil {
		return model.Item{}, err
	}
	it, err := a.svc.CompletedAt(i)
	if err != nil {
		return model.Item{}, usagef("%v (run `bucket completed` to see positions)", err)
	}
	return it, nil
}

// -------------- rendering helpers --------------

func printList(w io.Writer, a *app, group bool) {
	all := a.svc.Items.All()
	d, p := model.Stats(all)
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Bucket list"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymPending), p,
		ui.C(t.Accent, "Total"), len(all),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")
	lines = append(lines, pendingLines(a, a.svc.Pending())...)
	if group {
		lines = append(lines, "")
		lines = append(lines, ui.C(t.Accent, "Done"))
		lines = append(lines, completedLines(a.svc.Completed())...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `bucket add \"Visit Kyoto\"`"))
	ui.Panel(w, lines)
}

func pendingLines(a *app, items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "nothing on the list yet")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, ui.PendingRow(i, it, len(a.svc.Notes.Scope(it.ID).Notes())))
	}
	return out
}

func completedLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "(none yet)")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, ui.CompletedRow(i, it))
	}
	return out
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/bucket/internal/model"
	"github.com/Makepad-fr/bucket/internal/suggest"
	"github.com/Makepad-fr/bucket/internal/ui"
)

func suggestCmd(opt *Options) *cobra.Command {
	var accept bool
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show a random idea for the list",
		Args:  nArgs(0, 0, "suggest [--accept]"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			cat, err := suggest.LoadFile(a.cfg.Suggestions)
			if err != nil {
				return fmt.Errorf("suggestions: %w", err)
			}
			sg := cat.Random(nil)
			t := ui.Current()
			ui.Panel(cmd.OutOrStdout(), []string{
				ui.C(t.Suggested, t.SymSuggested+" "+sg.Category),
				ui.C(t.Title, sg.Title),
			})
			if !accept {
				return nil
			}
			if _, err := a.svc.AcceptSuggestion(sg); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "added to the list")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "add the suggestion to the list")
	return cmd
}

func doctorCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the storage backend keeps what it is given",
		Args:  nArgs(0, 0, "doctor"),
		RunE: withApp(opt, func(cmd *cobra.Command, a *app, args []string) error {
			t := ui.Current()
			status := ui.C(t.Success, "OK")
			if !a.svc.HealthCheck() {
				status = ui.C(t.Error, "FAILED")
			}
			d, p := model.Stats(a.svc.Items.All())
			ui.Panel(cmd.OutOrStdout(), []string{
				fmt.Sprintf("storage   %s", status),
				fmt.Sprintf("backend   %s", a.cfg.Backend),
				fmt.Sprintf("data dir  %s", a.cfg.DataDir),
				fmt.Sprintf("items     %d pending, %d done", p, d),
				fmt.Sprintf("notes     %d", len(a.svc.Notes.All())),
			})
			return nil
		}),
	}
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/bucket/internal/bucket"
	"github.com/Makepad-fr/bucket/internal/config"
	"github.com/Makepad-fr/bucket/internal/imaging"
	"github.com/Makepad-fr/bucket/internal/store/kv"
	"github.com/Makepad-fr/bucket/internal/store/safe"
	"github.com/Makepad-fr/bucket/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	DataDir string
	Backend string
	Group   bool // list grouped by pending/done
	Plain   bool // print instead of opening the TUI
}

// usageError marks mistakes in how the command was called (exit code 2).
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error { return usageError{fmt.Sprintf(format, a...)} }

// app is everything a subcommand needs, opened once per invocation.
type app struct {
	cfg     *config.Config
	backend kv.Backend
	svc     *bucket.Service
	logFile io.Closer
}

func openApp(opt *Options) (*app, error) {
	logger := log.New(os.Stderr, "bucket ", log.LstdFlags)
	cfg, err := config.Load(logger)
	if err != nil {
		return nil, err
	}
	if opt.DataDir != "" {
		cfg.DataDir = opt.DataDir
	}
	if opt.Backend != "" {
		cfg.Backend = opt.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageError{err.Error()}
	}
	ui.Setup(os.Stdout, cfg.Theme)

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	a := &app{cfg: cfg}
	if cfg.LogTarget == "file" {
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "bucket.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		logger.SetOutput(f)
		a.logFile = f
	}

	backend, err := kv.Open(cfg.Backend, cfg.DataDir, cfg.DBName)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.backend = backend
	a.svc = bucket.New(safe.New(backend, logger), bucket.Options{
		Image:      imaging.Options{MaxWidth: cfg.ImageMaxWidth, Quality: imaging.Quality(cfg.ImageQuality)},
		MaxImageKB: cfg.ImageMaxKB,
		Logger:     logger,
	})
	return a, nil
}

func (a *app) Close() {
	if a.backend != nil {
		a.backend.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// withApp wraps a subcommand body so it runs against an opened app.
func withApp(opt *Options, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(opt)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opt := &Options{}
	root := &cobra.Command{
		Use:   "bucket",
		Short: "bucket - keep track of the things you want to do",
		Long: `bucket keeps a personal bucket list on this machine.

Add goals, reorder them, attach notes and photos, mark them done, and browse
random ideas when you run out of your own. Run without a subcommand to open
the interactive list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          nArgs(0, 0, "[command]"),
		RunE:          withApp(opt, runList(opt)),
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err.Error()}
	})
	root.PersistentFlags().StringVar(&opt.DataDir, "data-dir", "", "data directory (default $BUCKET_DATA_DIR or ~/.bucket)")
	root.PersistentFlags().StringVar(&opt.Backend, "backend", "", "storage backend: file, sqlite or memory")

	root.AddCommand(
		addCmd(opt),
		listCmd(opt),
		doneCmd(opt),
		removeCmd(opt),
		moveCmd(opt),
		renameCmd(opt),
		completedCmd(opt),
		noteCmd(opt),
		suggestCmd(opt),
		doctorCmd(opt),
	)
	return root
}

// Execute runs the CLI and returns an exit code (0 ok, 1 error, 2 usage).
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) || isCobraUsage(err) {
		return 2
	}
	return 1
}

// isCobraUsage reports command lookup errors raised by cobra itself.
func isCobraUsage(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command")
}

// nArgs accepts between lo and hi positional args (hi < 0: no limit).
func nArgs(lo, hi int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || (hi >= 0 && len(args) > hi) {
			return usagef("usage: bucket %s", usage)
		}
		return nil
	}
}

// parsePosition turns a 1-based position argument into a 0-based index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usagef("not a number: %s", s)
	}
	if n < 1 {
		return 0, usagef("positions start at 1, got %d", n)
	}
	return n - 1, nil
}

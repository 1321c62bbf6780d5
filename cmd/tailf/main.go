package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/tailf/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(app.Run).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tailf: %v\n", err)
		return 1
	}
	return 0
}

type runFunc func(context.Context, app.Options) error

func newRootCmd(runApp runFunc) *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "tailf [flags] FILE",
		Short: "Print the last lines of a file and follow what is appended",
		Long: "tailf prints the last (or first) lines of FILE with their line numbers.\n" +
			"With --follow it keeps printing lines as they are appended.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("lines") && opts.Lines <= 0 {
				return fmt.Errorf("--lines must be positive, got %d", opts.Lines)
			}
			if flags.Changed("rate") && opts.RateHz <= 0 {
				return fmt.Errorf("--rate must be positive, got %d", opts.RateHz)
			}
			if opts.TUI && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("--tui needs a terminal on stdout")
			}
			opts.Path = args[0]
			return runApp(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.Lines, "lines", "n", 0, "number of lines to show (default from config, 10)")
	f.BoolVar(&opts.Head, "head", false, "show the first lines instead of the last")
	f.BoolVarP(&opts.Follow, "follow", "f", false, "keep printing lines as they are appended")
	f.BoolVarP(&opts.Reverse, "reverse", "r", false, "print newest lines first")
	f.BoolVar(&opts.Wait, "wait", false, "wait for the file to become accessible")
	f.IntVar(&opts.RateHz, "rate", 0, "follow polling frequency in Hz (default from config, 20)")
	f.BoolVar(&opts.Resume, "resume", false, "continue from where the last --resume run stopped (implies --follow)")
	f.BoolVar(&opts.TUI, "tui", false, "follow in a full-screen viewer (implies --follow)")
	f.BoolVar(&opts.Color, "color", false, "color line numbers")
	f.BoolVar(&opts.Highlight, "highlight", false, "syntax-highlight lines by file type")
	f.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/tailf/config.toml)")
	f.StringVar(&opts.LogLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")

	return cmd
}

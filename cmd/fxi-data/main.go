package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/google/subcommands"

	"fxi-data/internal/app"
	"fxi-data/internal/index"
	"fxi-data/internal/model"
	"fxi-data/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	status := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(int(status))
}

func newCommander(top *flag.FlagSet, stdout, stderr io.Writer) *subcommands.Commander {
	cdr := subcommands.NewCommander(top, top.Name())
	cdr.Output = stdout
	cdr.Error = stderr
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")
	cdr.Register(&updateCmd{}, "")
	cdr.Register(&listCmd{}, "")
	cdr.Register(&exportCmd{}, "")
	return cdr
}

// execute runs the command line args. Usage errors (no command, unknown
// command, bad flags) exit with ExitFailure like every other failure.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) subcommands.ExitStatus {
	top := flag.NewFlagSet("fxi-data", flag.ContinueOnError)
	top.SetOutput(stderr)
	cdr := newCommander(top, stdout, stderr)
	if err := top.Parse(args); err != nil {
		return subcommands.ExitFailure
	}
	status := cdr.Execute(ctx)
	if status == subcommands.ExitUsageError {
		return subcommands.ExitFailure
	}
	return status
}

type updateCmd struct {
	v, vv, vvv bool
	resume     bool
	from       string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "build missing index M1 history" }
func (*updateCmd) Usage() string {
	return `update [-v|-vv|-vvv] [-resume] [-from YYYY-MM-DD] SYMBOL...
  Computes and stores the M1 history of the given synthetic FX indices.
  Options may be given before or after the symbols.
  Supported symbols: ` + strings.Join(index.Symbols(), ", ") + "\n"
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.v, "v", false, "verbose: month progress")
	f.BoolVar(&c.vv, "vv", false, "more verbose: every day")
	f.BoolVar(&c.vvv, "vvv", false, "very verbose: every file read")
	f.BoolVar(&c.resume, "resume", false, "continue after the newest published day")
	f.StringVar(&c.from, "from", "", "first FXT day to build (YYYY-MM-DD)")
}

func (c *updateCmd) verbosity() app.Verbosity {
	switch {
	case c.vvv:
		return 3
	case c.vv:
		return 2
	case c.v:
		return 1
	}
	return 0
}

// parseInterleaved parses flags that follow positional args, so
// "update AUDFX6 -v" works like "update -v AUDFX6". Args after "--" are
// positional.
func parseInterleaved(f *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for len(args) > 0 {
		if args[0] == "--" {
			return append(pos, args[1:]...), nil
		}
		if strings.HasPrefix(args[0], "-") && args[0] != "-" {
			if err := f.Parse(args); err != nil {
				return nil, err
			}
			args = f.Args()
			continue
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
	return pos, nil
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	symbols, err := parseInterleaved(f, f.Args())
	if err != nil {
		return subcommands.ExitFailure
	}
	if len(symbols) == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitFailure
	}
	var from time.Time
	if c.from != "" {
		t, err := time.ParseInLocation(time.DateOnly, c.from, time.UTC)
		if err != nil {
			slog.Error("invalid -from", "value", c.from, "error", err)
			return subcommands.ExitFailure
		}
		from = t
	}
	// Reject unknown symbols before anything touches the disk.
	if _, err := app.ResolveSymbols(symbols); err != nil {
		slog.Error("unsupported symbol", "error", err)
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitFailure
	}

	a, cleanup, err := InitializeApp(c.verbosity())
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	sum, err := a.Update(ctx, app.UpdateOptions{Symbols: symbols, From: from, Resume: c.resume})
	if err != nil {
		slog.Error("update failed", "error", err)
		return subcommands.ExitFailure
	}
	for _, r := range sum.Failed() {
		if r.Err != nil {
			slog.Error("symbol failed", "symbol", r.Symbol, "state", r.State.String(), "day", r.Err.Day.Format(model.DayLayout), "error", r.Err.Err)
			continue
		}
		slog.Warn("symbol not finished", "symbol", r.Symbol, "state", r.State.String())
	}
	return subcommands.ExitStatus(sum.ExitCode())
}

type listCmd struct{}

func (*listCmd) Name() string           { return "list" }
func (*listCmd) Synopsis() string       { return "print the supported index baskets" }
func (*listCmd) Usage() string          { return "list\n  Prints every index with its formula and members.\n" }
func (*listCmd) SetFlags(*flag.FlagSet) {}

func (*listCmd) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	if err := printBaskets(os.Stdout); err != nil {
		slog.Error("list", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printBaskets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tKIND\tROOT\tANCHOR\tDIGITS\tSTART\tMEMBERS")
	for _, def := range index.All() {
		var start time.Time
		names := make([]string, len(def.Members))
		for i, m := range def.Members {
			names[i] = m.Symbol
			if m.HistoryStart.After(start) {
				start = m.HistoryStart
			}
		}
		anchor := "-"
		if def.Formula.Anchor != "" {
			anchor = def.Formula.Anchor
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%d\t%s\t%s\n", def.Symbol, def.Formula.Kind, def.Formula.Root,
			anchor, def.Formula.Digits, start.Format(time.DateOnly), strings.Join(names, ","))
	}
	return tw.Flush()
}

type exportCmd struct {
	day    string
	format string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "convert one published day to csv, json or parquet" }
func (*exportCmd) Usage() string {
	return "export -day YYYY-MM-DD [-format csv|json|parquet] [-out FILE] SYMBOL\n"
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "day", "", "FXT day to export (YYYY-MM-DD)")
	f.StringVar(&c.format, "format", "csv", "output format: csv, json or parquet")
	f.StringVar(&c.out, "out", "", "output file (default SYMBOL_YYYYMMDD.EXT)")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 || c.day == "" {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitFailure
	}
	day, err := time.ParseInLocation(time.DateOnly, c.day, time.UTC)
	if err != nil {
		slog.Error("invalid -day", "value", c.day, "error", err)
		return subcommands.ExitFailure
	}
	a, cleanup, err := InitializeApp(0)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	if _, err := a.Export(f.Arg(0), day, c.format, c.out); err != nil {
		slog.Error("export failed", "symbol", f.Arg(0), "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// Package cmd implements the CLI command structure for plant-paladin.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/nibzard/plant-paladin/internal/garden"
	"github.com/nibzard/plant-paladin/internal/logging"
	"github.com/nibzard/plant-paladin/internal/plantdir"
	"github.com/nibzard/plant-paladin/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

const defaultHistoryLines = 10

// ErrUsage marks errors caused by invalid command-line usage.
var ErrUsage = errors.New("usage error")

// app carries the per-invocation dependencies every command needs.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
	dir    string
	now    func() time.Time
}

// Run executes the plant-paladin CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("plant-paladin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")
	configDir := fs.String("config-dir", "", "Directory holding config.toml and state.toml (default: per-user config dir)")
	logLevel := fs.String("log-level", "info", "Log level (debug|info|warn|error)")
	logFormat := fs.String("log-format", "text", "Log format (text|json|logfmt)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}
	if !logging.ValidLevel(*logLevel) {
		return fmt.Errorf("%w: invalid log level %q", ErrUsage, *logLevel)
	}
	if !logging.ValidFormat(*logFormat) {
		return fmt.Errorf("%w: invalid log format %q", ErrUsage, *logFormat)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	subcommand, remaining := remaining[0], remaining[1:]

	switch subcommand {
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	case "nag", "water", "ls", "doctor", "history", "tui":
	default:
		printUsage(fs, stderr)
		return fmt.Errorf("%w: unknown command: %s", ErrUsage, subcommand)
	}

	opts := logging.DefaultConsoleOptions()
	opts.Level = *logLevel
	opts.Format = *logFormat
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: logging.NewConsole(stderr, opts),
		now:    time.Now,
	}

	dir, err := plantdir.Resolve(*configDir)
	if err != nil {
		return err
	}
	a.dir = dir
	a.logger.Debug("using config dir", "dir", dir)

	switch subcommand {
	case "nag":
		return a.nagCommand(remaining)
	case "water":
		return a.waterCommand(remaining)
	case "ls":
		return a.lsCommand(remaining)
	case "doctor":
		return a.doctorCommand(remaining)
	case "history":
		return a.historyCommand(remaining)
	case "tui":
		return a.tuiCommand(ctx, remaining)
	}
	return fmt.Errorf("%w: unknown command: %s", ErrUsage, subcommand)
}

// open ensures the config dir exists and loads a reconciled garden from it.
func (a *app) open() (*garden.Garden, error) {
	if err := plantdir.Ensure(a.dir); err != nil {
		return nil, err
	}
	return garden.Open(a.dir, a.logger)
}

// nagCommand prints every plant that needs watering.
func (a *app) nagCommand(args []string) error {
	fs := flag.NewFlagSet("plant-paladin nag", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	g, err := a.open()
	if err != nil {
		return err
	}
	for _, r := range g.Nag(a.now()) {
		fmt.Fprintln(a.stdout, r.String())
	}
	return nil
}

type waterFlagSet struct {
	*flag.FlagSet
	all *bool
}

func newWaterFlagSet(w io.Writer) waterFlagSet {
	fs := flag.NewFlagSet("plant-paladin water", flag.ContinueOnError)
	fs.SetOutput(w)
	all := fs.Bool("all", false, "Mark every plant that needs watering as watered")
	fs.BoolVar(all, "a", false, "Mark every plant that needs watering as watered")
	return waterFlagSet{FlagSet: fs, all: all}
}

// waterCommand marks plants as watered, either by name or every overdue one.
func (a *app) waterCommand(args []string) error {
	fs := newWaterFlagSet(a.stderr)
	names, err := parseInterspersed(fs.FlagSet, args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var req garden.WaterRequest
	switch {
	case *fs.all:
		if len(names) > 0 {
			a.logger.Warn("--all given, ignoring plant names", "plants", strings.Join(names, ", "))
		}
		req = garden.AllOverdue{}
	case len(names) > 0:
		req = garden.Targeted{Names: names}
	default:
		return fmt.Errorf("%w: name at least one plant or pass --all", ErrUsage)
	}

	g, err := a.open()
	if err != nil {
		return err
	}
	now := a.now()
	watered, err := g.Water(req, now)
	if err != nil {
		return err
	}
	if len(watered) == 0 {
		a.logger.Info("no plants needed watering")
		return nil
	}
	a.logger.Info("watered", "plants", strings.Join(watered, ", "))
	return nil
}

// lsCommand lists every configured plant with its watering status.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("plant-paladin ls", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Show absolute timestamps")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	g, err := a.open()
	if err != nil {
		return err
	}
	plants := g.Plants(a.now())
	if len(plants) == 0 {
		fmt.Fprintln(a.stdout, "No plants configured.")
		return nil
	}
	fmt.Fprintln(a.stdout, renderPlantTable(plants, *verbose))
	return nil
}

var dueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// renderPlantTable renders plants as a bordered table.
func renderPlantTable(plants []garden.PlantInfo, verbose bool) string {
	headers := []string{"PLANT", "INTERVAL", "LAST WATERED", "DAYS", "STATUS"}
	if verbose {
		headers = append(headers, "TIMESTAMP")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...)
	for _, p := range plants {
		last, days := "never", "-"
		if !p.Never() {
			last = humanize.Time(p.LastWatered.Time)
			days = strconv.FormatInt(p.Days, 10)
		}
		status := "due in " + pluralDays(p.DueIn())
		if p.Overdue {
			status = dueStyle.Render("due")
		}
		row := []string{p.Name, "every " + pluralDays(int64(p.WateringInterval)), last, days, status}
		if verbose {
			ts := "-"
			if !p.Never() {
				ts = p.LastWatered.String()
			}
			row = append(row, ts)
		}
		t.Row(row...)
	}
	return t.Render()
}

func pluralDays(n int64) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// historyCommand prints recent waterings.
func (a *app) historyCommand(args []string) error {
	fs := flag.NewFlagSet("plant-paladin history", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	n := fs.Int("n", defaultHistoryLines, "Number of entries to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}
	if *n < 0 {
		return fmt.Errorf("%w: -n must not be negative", ErrUsage)
	}
	return logging.TailHistory(a.stdout, plantdir.HistoryPath(a.dir), *n)
}

// tuiCommand launches the interactive view.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("plant-paladin tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	g, err := a.open()
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, g, ui.WithClock(a.now))
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "plant-paladin version %s\n", Version)
	return nil
}

// parseInterspersed parses fs allowing flags after positional arguments.
// Everything after a literal "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var tail []string
	for i, arg := range args {
		if arg == "--" {
			tail = args[i+1:]
			args = args[:i]
			break
		}
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	return append(positional, tail...), nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "plant-paladin - reminds you to water your houseplants")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  plant-paladin [options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  nag                   List plants that need watering")
	fmt.Fprintln(w, "  water [PLANT...] [-a] Mark plants as watered (-a, --all: every plant that needs it;")
	fmt.Fprintln(w, "                        plant names are ignored when -a is given)")
	fmt.Fprintln(w, "  ls [-v]               Show every plant and when it is due")
	fmt.Fprintln(w, "  doctor                Check the config directory and files")
	fmt.Fprintln(w, "  history [-n N]        Show recent waterings")
	fmt.Fprintln(w, "  tui                   Interactive view")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help                  Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

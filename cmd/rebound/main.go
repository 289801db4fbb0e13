package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/modoterra/rebound/internal/buildinfo"
	"github.com/modoterra/rebound/pkg/bench"
	"github.com/modoterra/rebound/pkg/config"
	"github.com/modoterra/rebound/pkg/core"
	"github.com/modoterra/rebound/pkg/providers/docker"
	execprov "github.com/modoterra/rebound/pkg/providers/exec"
	"github.com/modoterra/rebound/pkg/providers/logs/filetail"
	"github.com/modoterra/rebound/pkg/providers/logs/journald"
	"github.com/modoterra/rebound/pkg/providers/systemd"
	tuimodel "github.com/modoterra/rebound/pkg/tui/model"
)

var (
	configPath  string
	verboseFlag bool

	numbersFlag int
	unitFlag    string
	startFlag   string
	readyFlag   string
	plainFlag   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rebound",
	Short: "Measure service restart-to-ready time",
	Long: "Rebound restarts a managed service repeatedly and measures the time\n" +
		"between its startup log line and its first processed unit of work.",
	RunE: runBench,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "rebound.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "enable debug logging")

	rootCmd.Flags().IntVarP(&numbersFlag, "numbers", "n", 1, "number of restart cycles")
	rootCmd.Flags().StringVar(&unitFlag, "unit", "", "systemd unit to restart (overrides config)")
	rootCmd.Flags().StringVar(&startFlag, "start-pattern", "", "pattern of the service started line (overrides config)")
	rootCmd.Flags().StringVar(&readyFlag, "ready-pattern", "", "pattern of the service ready line (overrides config)")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "disable the progress spinner")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func newLogger() *slog.Logger {
	if verboseFlag {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// loadConfig reads the config file (built-in defaults if it is absent),
// applies flag overrides, and validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return nil, err
	}

	if unitFlag != "" {
		cfg.Service.Unit = unitFlag
	}
	if startFlag != "" {
		cfg.Markers.Start = startFlag
	}
	if readyFlag != "" {
		cfg.Markers.Ready = readyFlag
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		strs := make([]string, len(errs))
		for i, e := range errs {
			strs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid config: %s", strings.Join(strs, "; "))
	}
	return cfg, nil
}

func buildRestarter(cfg *config.Config, logger *slog.Logger) (core.Restarter, error) {
	switch cfg.Service.Kind {
	case "systemd":
		return systemd.New(cfg.Service.Unit, logger), nil
	case "docker":
		return docker.New(cfg.Service.Container, logger)
	case "exec":
		return execprov.New(cfg.Service.Command, logger), nil
	default:
		return nil, fmt.Errorf("unknown service kind %q", cfg.Service.Kind)
	}
}

func buildLogSource(cfg *config.Config, logger *slog.Logger) (core.LogSource, error) {
	switch cfg.Logs.Source {
	case "journald":
		return journald.New(cfg.Service.Unit, cfg.Logs.Tail, logger), nil
	case "file":
		return filetail.New(cfg.Logs.File, cfg.Logs.Tail, logger), nil
	default:
		return nil, fmt.Errorf("unknown log source %q", cfg.Logs.Source)
	}
}

func runBench(cmd *cobra.Command, _ []string) error {
	if numbersFlag < 1 {
		return fmt.Errorf("--numbers must be at least 1, got %d", numbersFlag)
	}

	logger := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	markers, err := core.CompileMarkers(cfg.Markers.Start, cfg.Markers.Ready)
	if err != nil {
		return err
	}
	restarter, err := buildRestarter(cfg, logger)
	if err != nil {
		return err
	}
	if closer, ok := restarter.(io.Closer); ok {
		defer closer.Close()
	}
	source, err := buildLogSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := restarter.Verify(ctx); err != nil {
		return err
	}

	if plainFlag || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runPlain(ctx, restarter, source, markers, logger, numbersFlag, cmd.OutOrStdout())
	}
	return runTUI(ctx, restarter, source, markers, logger, numbersFlag)
}

// plainReporter prints each measurement as it is produced.
type plainReporter struct {
	out io.Writer
}

func (plainReporter) CycleStarted(int, int) {}

func (r plainReporter) CycleDone(m core.Measurement) {
	fmt.Fprintf(r.out, "Restart #%d: %s\n", m.Index, core.FormatDuration(m.Elapsed))
}

func runPlain(ctx context.Context, restarter core.Restarter, source core.LogSource, markers core.Markers, logger *slog.Logger, n int, out io.Writer) error {
	runner := bench.NewRunner(restarter, source, markers, plainReporter{out: out}, logger)
	result, err := runner.Run(ctx, n)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, strings.Repeat("_", 40))
	fmt.Fprintln(out, result.Summary())
	return nil
}

// teaReporter forwards runner callbacks into the Bubble Tea program.
type teaReporter struct {
	p *tea.Program
}

func (r teaReporter) CycleStarted(i, n int) {
	r.p.Send(tuimodel.CycleStartedMsg{Index: i, Total: n})
}

func (r teaReporter) CycleDone(m core.Measurement) {
	r.p.Send(tuimodel.CycleDoneMsg{Measurement: m})
}

func runTUI(ctx context.Context, restarter core.Restarter, source core.LogSource, markers core.Markers, logger *slog.Logger, n int) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tuimodel.New(n))
	runner := bench.NewRunner(restarter, source, markers, teaReporter{p: p}, logger)

	go func() {
		result, err := runner.Run(runCtx, n)
		p.Send(tuimodel.RunDoneMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	app := final.(tuimodel.App)
	if app.Interrupted() {
		return fmt.Errorf("interrupted")
	}
	return app.Err()
}

// --- Version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("rebound %s (%s) built %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	},
}

// --- Config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rebound.yaml",
}

var configInitOutput string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a rebound.yaml with the default settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Save(config.Default(), configInitOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configInitOutput)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a rebound.yaml config",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "rebound.yaml"
		if len(args) > 0 {
			path = args[0]
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		errs := config.Validate(cfg)
		if len(errs) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", path)
			return nil
		}

		fmt.Fprintf(os.Stderr, "%s: %d error(s)\n", path, len(errs))
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  • %s\n", e)
		}
		os.Exit(1)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitOutput, "output", "rebound.yaml", "output file path")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}

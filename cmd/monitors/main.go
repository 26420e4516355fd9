// Package main is the CLI entry point for monitors.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/monitors/internal/daemon"
	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/guard"
	"github.com/eliteGoblin/focusd/monitors/internal/infra"
	"github.com/eliteGoblin/focusd/monitors/internal/monitor"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "monitors",
	Short: "Declarative monitors over hooks and sampled host state",
	Long: `monitors builds observers from declarative specs: a monitor listens on
named hooks, gates each notification through guards that sample host
state, and runs an action when every guard passes.`,
	Version: Version,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Define one monitor and run it until interrupted",
	Long: `Defines a monitor whose listener fires on --hook, optionally gated by an
expr-value guard on --expr, and publishes --hook every --interval.

Expressions are sampled through a scheme mux:
  proc:count:<pattern>    number of matching processes
  proc:running:<pattern>  whether any process matches`,
	RunE: runWatch,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered classes, aliases and predicates",
	RunE:  runList,
}

var sampleCmd = &cobra.Command{
	Use:   "sample EXPR",
	Short: "Sample an expression once",
	Args:  cobra.ExactArgs(1),
	RunE:  runSample,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	watchName     string
	watchHook     string
	watchInterval time.Duration
	watchExpr     string
	watchPred     string
	watchClass    string
	debug         bool
	jsonOutput    bool
)

func init() {
	watchCmd.Flags().StringVar(&watchName, "name", "watch", "Monitor name")
	watchCmd.Flags().StringVar(&watchHook, "hook", "tick", "Hook the listener subscribes to")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "How often the hook is published")
	watchCmd.Flags().StringVar(&watchExpr, "expr", "", "Expression guarding the listener (no guard if empty)")
	watchCmd.Flags().StringVar(&watchPred, "pred", "changed", "Guard predicate")
	watchCmd.Flags().StringVar(&watchClass, "class", monitor.LoggedClass, "Monitor class")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level to stderr")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(versionCmd)
}

// newHost wires the bus and the evaluator mux.
func newHost(logger *zap.Logger) (domain.Host, *infra.Bus) {
	bus := infra.NewBus(logger.Named("bus"))
	mux := infra.NewMux(infra.NewVars())
	mux.Handle("proc", infra.NewProcessEvaluator())
	return domain.Host{Events: bus, Eval: mux}, bus
}

// watchSpec builds the monitor arguments for watch: one hook listener,
// guarded by an expr-value guard when expr is set.
func watchSpec(class, hook, expr, pred string) []any {
	listenerSpec := []any{"hook", ":hook", hook}
	if expr != "" {
		listenerSpec = append(listenerSpec,
			":guard-trigger", []any{guard.ExprValueAlias, expr, pred})
	}
	return []any{":class", class, ":trigger-on", listenerSpec}
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := createLogger()
	defer func() { _ = logger.Sync() }()

	host, bus := newHost(logger)
	mgr := monitor.NewManager(host, monitor.WithLogger(logger))

	if _, err := mgr.Define(watchName, watchSpec(watchClass, watchHook, watchExpr, watchPred)...); err != nil {
		return err
	}
	if err := mgr.Enable(watchName); err != nil {
		return err
	}
	defer func() {
		if err := mgr.Remove(watchName); err != nil {
			logger.Error("failed to remove monitor", zap.Error(err))
		}
	}()

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	config := daemon.Config{Hooks: map[string]time.Duration{watchHook: watchInterval}}
	pulse := daemon.NewPulse(config, bus, logger.Named("pulse"))

	return ignoreCanceled(pulse.Run(ctx))
}

// ignoreCanceled treats a canceled context as a clean shutdown.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runList(cmd *cobra.Command, args []string) error {
	mgr := monitor.NewManager(domain.Host{})

	fmt.Println("\n=== Monitor Classes ===")
	for _, name := range mgr.Classes().List() {
		fmt.Printf("  - %s\n", name)
	}

	fmt.Println("\n=== Listener Aliases ===")
	for _, alias := range mgr.ListenerClasses().Aliases(domain.ClassListener) {
		fmt.Printf("  - %s\n", alias)
	}

	fmt.Println("\n=== Guard Aliases ===")
	for _, alias := range mgr.GuardClasses().Aliases(domain.ClassGuard) {
		fmt.Printf("  - %s\n", alias)
	}

	fmt.Println("\n=== Predicates ===")
	fmt.Printf("  %s\n", strings.Join(guard.PredicateNames(), ", "))

	fmt.Println("\n=======================")
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	logger := createLogger()
	defer func() { _ = logger.Sync() }()

	host, _ := newHost(logger)
	v, err := host.Eval.Sample(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s = %v\n", args[0], v)
	return nil
}

func createLogger() *zap.Logger {
	if debug {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}

	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("monitors %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}

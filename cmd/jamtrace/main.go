// jamtrace reconstructs a Jam build's dependency graph and rule-call
// history from its debug-trace output and answers structural queries over
// the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"jamtrace/internal/config"
	"jamtrace/internal/graph"
	"jamtrace/internal/parsers"
	"jamtrace/internal/shell"
)

const version = "1.0.0"

var (
	// Global flags
	flagLog      string
	flagDialects string
	flagConfig   string
	flagPaging   bool
	verbose      bool
	noColor      bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command. With no subcommand it parses the
// trace and drops into the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "jamtrace",
	Short: "jamtrace - query a Jam build's dependency graph from its debug trace",
	Long: `jamtrace parses the debug output of a Jam build (the -d flags) into an
in-memory graph of targets, rules, and rule invocations, then answers
structural queries over that graph: direct and transitive dependencies,
dependency chains, and Jam's own view of why a target was rebuilt.

Dialect tokens select which trace dialects to parse, one character each:
  d   dependency listings        c   rebuild causality
  5   rule flow (+5 output)      m   make pass (alias for +3)
A bare digit runs every numeric level up to it; +N runs exactly level N.

Run without a subcommand to enter the interactive shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := load()
		if err != nil {
			return err
		}
		return shell.New(db, cfg, logger).Run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jamtrace version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jamtrace %s\n", version)
	},
}

// load resolves configuration and parses the trace file into a fresh
// database.
func load() (*config.Config, *graph.Database, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := buildDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// loadConfig layers the command-line flags over the config file.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flagLog != "" {
		cfg.Log = flagLog
	}
	if flagDialects != "" {
		cfg.Dialects = flagDialects
	}
	if flagPaging {
		cfg.Paging = true
	}
	if noColor {
		cfg.Color = config.ColorNever
	}
	return cfg, nil
}

// buildDatabase runs the selected dialect parsers over the trace file.
func buildDatabase(cfg *config.Config) (*graph.Database, error) {
	if cfg.Log == "" {
		return nil, fmt.Errorf("no trace log file given (use --log)")
	}
	db := graph.NewDatabase()
	if err := parsers.Run(db, cfg.Log, dialectTokens(cfg.Dialects), logger); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfg.Log, err)
	}
	logger.Info("trace parsed",
		zap.String("logfile", cfg.Log),
		zap.Int("targets", db.NumTargets()),
		zap.Int("rules", db.NumRules()))
	return db, nil
}

// dialectTokens splits the dialect flag string into one token per
// character, matching the jam -d flag syntax it mirrors.
func dialectTokens(dialects string) []string {
	tokens := make([]string, 0, len(dialects))
	for _, r := range dialects {
		tokens = append(tokens, string(r))
	}
	return tokens
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLog, "log", "l", "", "Jam trace log file to parse")
	rootCmd.PersistentFlags().StringVarP(&flagDialects, "dialects", "d", "", "dialect tokens, one per character (default from config, usually 5)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.jamtrace.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagPaging, "paging", false, "page shell output through $PAGER")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(rebuiltCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(chainsCmd)
	rootCmd.AddCommand(rebuildChainsCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

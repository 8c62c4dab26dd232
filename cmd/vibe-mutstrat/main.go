// Package main provides the vibe-mutstrat command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-mutstrat/internal/config"
	"github.com/inodb/vibe-mutstrat/internal/store"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp()
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var uerr *usageError
	if errors.As(err, &uerr) {
		return ExitUsage
	}
	return ExitError
}

// usageError marks errors caused by invalid command-line usage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra argument validator so its errors exit with ExitUsage.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// app carries the state shared by all commands.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

func newApp() *app {
	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)
	return &app{v: v}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vibe-mutstrat",
		Short: "Mutation type classification stratified by gene role",
		Long: `vibe-mutstrat classifies protein and DNA change notations into mutation
types and counts them for all genes, oncogenes and tumor suppressor genes.`,
		Example: `  # Import a MAF file into the local store
  vibe-mutstrat import data_mutations.maf

  # Write the stratified report tables
  vibe-mutstrat report --out-dir results/ --xlsx results/mutation_types.xlsx

  # Count protein change types straight from a file
  vibe-mutstrat count --taxonomy protein data_mutations.maf`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default ~/"+config.FileName+")")
	flags.String("store", "", "Record store path (default ~/.vibe-mutstrat/mutations.db)")
	flags.String("store-driver", "", "Record store driver: duckdb or sqlite")
	flags.String("cancer-gene-list", "", "OncoKB cancerGeneList.tsv used for gene roles")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	_ = a.v.BindPFlag("store.path", flags.Lookup("store"))
	_ = a.v.BindPFlag("store.driver", flags.Lookup("store-driver"))
	_ = a.v.BindPFlag("genes.cancer_gene_list", flags.Lookup("cancer-gene-list"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		a.importCmd(),
		a.countCmd(),
		a.reportCmd(),
		a.classifyCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

// setup reads the config file and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.readConfigFile(); err != nil {
		return err
	}
	// The config commands must work even when the current settings are invalid.
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return nil
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) readConfigFile() error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.configFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	a.v.SetConfigFile(filepath.Join(home, config.FileName))
	if err := a.v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func (a *app) openStore() (*store.Store, error) {
	s, err := store.Open(a.cfg.Store.Driver, a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("opened record store",
		zap.String("driver", a.cfg.Store.Driver),
		zap.String("path", a.cfg.Store.Path))
	return s, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-mutstrat version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// Command pokecatcher catches, releases and evolves Pokémon from the
// command line or over a REST API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/pokemon-catcher/internal/config"
	"github.com/ramonehamilton/pokemon-catcher/internal/logging"
	"github.com/ramonehamilton/pokemon-catcher/internal/version"
)

// options carries global flag values and the state built from them.
type options struct {
	configPath string
	dbPath     string
	fixture    string
	verbose    bool
	logFile    string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pokecatcher",
		Short: "Catch, release and evolve Pokémon",
		Long: `pokecatcher is a small Pokémon catching game.

Catch chances depend on how far a Pokémon is along its evolution chain:
base forms are easy, final forms are hard. Three copies of a Pokémon can be
traded for one copy of its next form.

Run "pokecatcher serve" to play through the REST API and WebSocket feed.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ~/.pokemon-catcher/config.toml)")
	flags.StringVar(&opts.dbPath, "db", "", "Database path (overrides config)")
	flags.StringVar(&opts.fixture, "fixture", "", "Offline YAML pokedex (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write logs to this file")

	root.AddCommand(
		newServeCmd(opts),
		newCatalogCmd(opts),
		newCatchCmd(opts),
		newReleaseCmd(opts),
		newEvolveCmd(opts),
		newListCmd(opts),
		newClearCmd(opts),
		newAttemptsCmd(opts),
		newReportCmd(opts),
		newBackupCmd(opts),
	)
	return root
}

// init loads the configuration and builds the logger.
func (o *options) init() error {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return err
		}
	}
	o.configPath = path

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if o.dbPath != "" {
		cfg.Storage.DBPath = o.dbPath
	}
	if o.fixture != "" {
		cfg.API.Fixture = o.fixture
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	o.cfg = cfg

	o.logger, err = logging.New(logging.Options{
		Debug:   o.verbose || cfg.App.DebugMode,
		Console: true,
		File:    o.logFile,
	})
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package ctl implements contentctl, the operator CLI for the content store.
//
// Local commands open the store named by STORE_BACKEND/STORE_PATH (or
// --store) directly; the server should be stopped when using the bunt
// backend. The remote commands talk to a running server over its admin API.
package ctl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/internal/version"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCommand builds the contentctl command tree. Each call returns an
// independent tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "contentctl",
		Short: "Manage tech.safi site content",
		Long: `contentctl inspects and edits the tech.safi content store.

Local commands (domains, get, export, import, reset, history, snapshot, posts, migrate)
open the store directly. The remote commands call a running server with the
admin API key.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.techsafi/contentctl.yaml)")
	pf.String("store", "", "BuntDB file to open (overrides STORE_PATH)")
	pf.String("backend", "", "store backend: bunt or postgres (overrides STORE_BACKEND)")
	pf.String("server", "", "server URL for remote commands")
	pf.String("api-key", "", "admin API key for remote commands")
	pf.StringP("output", "o", OutputTable, "output format (table, json, yaml)")
	pf.String("actor", "contentctl", "name recorded as the author of writes")
	pf.Bool("debug", false, "enable debug logging")

	for _, name := range []string{"store", "backend", "server", "api-key", "output", "actor", "debug"} {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		a.domainsCmd(),
		a.getCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.resetCmd(),
		a.historyCmd(),
		a.snapshotCmd(),
		a.postsCmd(),
		a.migrateCmd(),
		a.remoteCmd(),
		hashPasswordCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(filepath.Join(home, ".techsafi"))
		a.v.SetConfigName("contentctl")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("CONTENTCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	switch a.output() {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format %q", a.output())
	}
}

func (a *app) output() string { return a.v.GetString("output") }
func (a *app) actor() string  { return a.v.GetString("actor") }

func (a *app) logger() *slog.Logger {
	level := slog.LevelWarn
	if a.v.GetBool("debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// serverConfig reads the server's environment configuration and applies
// the --store and --backend overrides.
func (a *app) serverConfig() (*config.Config, error) {
	cfg, err := config.NewConfig(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return nil, err
	}
	if s := a.v.GetString("store"); s != "" {
		cfg.Store.Path = s
		cfg.Store.Backend = config.BackendBunt
	}
	if b := a.v.GetString("backend"); b != "" {
		cfg.Store.Backend = b
	}
	return cfg, cfg.Validate()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "contentctl %s\n", version.String())
		},
	}
}

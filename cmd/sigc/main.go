package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/sig/compiler"
	"github.com/AnatoleLucet/sig/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by the commands once the configuration is loaded.
type app struct {
	configFile string
	cfg        *config.Config
	log        *slog.Logger
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sigc",
		Short: "Compile sig components to JavaScript modules",
		Long: `sigc compiles component sources into JavaScript modules that define
custom elements on top of the sig runtime.

Configuration is read from sigc.yaml in the working directory (or --config),
with SIGC_ environment variables taking precedence, e.g.
SIGC_COMPILER_RUNTIME_PATH or SIGC_LOG_LEVEL.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./sigc.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")

	rootCmd.AddCommand(
		compileCmd(a),
		analyzeCmd(a),
		watchCmd(a),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		report(err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	v := config.New(a.configFile)
	for key, flag := range map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = newLogger(cfg.Log)
	slog.SetDefault(a.log)

	if used := v.ConfigFileUsed(); used != "" {
		a.log.Debug("using config file", "path", used)
	}
	return nil
}

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.Level))

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// report prints err, with its source frame for compile errors.
func report(err error) {
	var cerr *compiler.Error
	if errors.As(err, &cerr) {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", cerr.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

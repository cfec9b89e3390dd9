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

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
)

// EnvironmentVariablePrefix prefixes the environment variables that override
// flags.
const EnvironmentVariablePrefix = "HTMLRENDER_"

const (
	enginePongo = "pongo"
	engineHTML  = "html"
)

type config struct {
	addr      string
	templates string
	engine    string
	async     bool
	debug     bool
	verbosity int
	logFormat string
}

func newConfigFromFlags(flags *pflag.FlagSet) *config {
	cfg := config{}
	flags.StringVar(&cfg.addr, "addr", DefaultAddress, "Listening address")
	flags.StringVar(&cfg.templates, "templates", "", "Templates directory. Defaults to the embedded templates.")
	flags.StringVar(&cfg.engine, "engine", enginePongo, "Template engine: pongo or html")
	flags.BoolVar(&cfg.async, "async", false, "Render templates on a separate goroutine")
	flags.BoolVar(&cfg.debug, "debug", false, "Reload templates on every request")
	flags.IntVarP(&cfg.verbosity, "verbosity", "v", 0, "Logging verbosity")
	flags.StringVar(&cfg.logFormat, "log-format", "text", "Logging format: text or json")
	return &cfg
}

// setFlagsFromEnvVariables overrides flag defaults with HTMLRENDER_ prefixed
// environment variables. Flags given on the command line still take precedence.
func setFlagsFromEnvVariables(flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		envVar := flagToEnvVarName(f)
		if val, present := os.LookupEnv(envVar); present {
			if err := flags.Set(f.Name, val); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", envVar, err))
			}
		}
	})
	return errors.Join(errs...)
}

func flagToEnvVarName(f *pflag.Flag) string {
	return EnvironmentVariablePrefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
}

func newLogger(cfg *config, out io.Writer) (logr.Logger, error) {
	opts := &slog.HandlerOptions{
		// logr verbosity N maps to slog level -N.
		Level: slog.Level(-cfg.verbosity),
	}

	var h slog.Handler
	switch cfg.logFormat {
	case "text":
		h = slog.NewTextHandler(out, opts)
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		return logr.Logger{}, fmt.Errorf("unrecognised log format: %s", cfg.logFormat)
	}
	return logr.FromSlogHandler(h), nil
}

func catchCtrlC(cancel context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals,
		syscall.SIGTERM,
		syscall.SIGINT,
	)

	go func() {
		<-signals
		signal.Stop(signals)
		cancel()
	}()
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.HiRedString("Error:"), err.Error())
}

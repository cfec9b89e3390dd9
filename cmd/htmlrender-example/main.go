// Command htmlrender-example serves a couple of templated pages, one of which
// names a template that does not exist.
package main

//go:generate go run ../generate --templates templates/pongo --out templatenames.go --package main

import (
	"context"
	"io"
	"os"

	"github.com/alesr/htmlrender"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAddress = ":9010"

	// TemplateMissing is deliberately absent from the templates directory.
	TemplateMissing = "notemplate.html"
)

func main() {
	// Configure ^C to terminate program
	ctx, cancel := context.WithCancel(context.Background())
	catchCtrlC(cancel)

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cmd := &cobra.Command{
		Use:           "htmlrender-example",
		Short:         "htmlrender example server",
		Long:          "htmlrender-example serves pages rendered through a registered template provider.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Define run func in order to enable cobra's default help functionality
		Run: func(cmd *cobra.Command, args []string) {},
	}
	cmd.SetOut(out)

	var help bool
	cmd.Flags().BoolVarP(&help, "help", "h", false, "Print usage information")
	cfg := newConfigFromFlags(cmd.Flags())

	if err := setFlagsFromEnvVariables(cmd.Flags()); err != nil {
		return err
	}

	if err := cmd.ParseFlags(args); err != nil {
		return err
	}

	if help {
		return cmd.Help()
	}

	logger, err := newLogger(cfg, out)
	if err != nil {
		return err
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	// Run the server until ctx is done, then shut it down.
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "address", cfg.addr, "engine", cfg.engine)
		return app.Listen(cfg.addr)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return app.Shutdown()
	})

	return g.Wait()
}

// newApp builds the application and fails early if a known template cannot be
// loaded.
func newApp(cfg *config, logger logr.Logger) (*htmlrender.App, error) {
	env, err := newEnvironment(cfg)
	if err != nil {
		return nil, err
	}

	app := htmlrender.NewApp(fiberConfig(logger))
	provider := htmlrender.Register(app, env, htmlrender.WithRegisterLogger(logger))
	if err := provider.Check(TemplateNames...); err != nil {
		return nil, err
	}

	addRoutes(app)
	return app, nil
}

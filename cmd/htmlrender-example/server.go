package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/alesr/htmlrender"
	"github.com/go-logr/logr"
	"github.com/gofiber/fiber/v2"
)

//go:embed templates
var embedded embed.FS

// newEnvironment picks the template engine and its source directory.
// Each engine has its own embedded templates since their syntax differs.
func newEnvironment(cfg *config) (htmlrender.Environment, error) {
	switch cfg.engine {
	case enginePongo:
		fsys, err := templatesFS(cfg.templates, "templates/pongo")
		if err != nil {
			return nil, err
		}
		return htmlrender.NewPongoEnvironment(fsys,
			htmlrender.WithPongoAsync(cfg.async),
			htmlrender.WithPongoDebug(cfg.debug),
		)
	case engineHTML:
		fsys, err := templatesFS(cfg.templates, "templates/html")
		if err != nil {
			return nil, err
		}
		return htmlrender.NewHTMLEnvironment(fsys,
			htmlrender.WithTemplatesPath("."),
			htmlrender.WithAsync(cfg.async),
		)
	default:
		return nil, fmt.Errorf("unknown template engine: %s", cfg.engine)
	}
}

func templatesFS(dir, embeddedDir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(embedded, embeddedDir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates directory: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

func fiberConfig(logger logr.Logger) fiber.Config {
	return fiber.Config{
		AppName:               "htmlrender-example",
		DisableStartupMessage: true,
		ErrorHandler:          htmlrender.ErrorHandler(logger),
	}
}

func addRoutes(app *htmlrender.App) {
	app.Get("/example1", htmlrender.WithTemplate(TemplateExample1)(func(c *fiber.Ctx) (htmlrender.Vars, error) {
		return htmlrender.Vars{"name": "rob"}, nil
	}))

	app.Get("/notemplate", htmlrender.WithTemplate(TemplateMissing)(func(c *fiber.Ctx) (htmlrender.Vars, error) {
		return htmlrender.Vars{"name": "rob"}, nil
	}))
}

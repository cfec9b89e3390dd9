package htmlrender

import (
	"errors"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/gofiber/fiber/v2"
)

// localsInfoKey is the fiber locals key the shared Info is attached under.
const localsInfoKey = "htmlrender.info"

// App is a fiber application that owns a shared Info store and attaches it to
// every request it serves.
type App struct {
	*fiber.App

	info *Info
}

var _ Host = (*App)(nil)

// NewApp creates a fiber application with an empty Info store. The store is
// attached by the first middleware, so routes may be added right away.
func NewApp(config ...fiber.Config) *App {
	a := &App{
		App:  fiber.New(config...),
		info: NewInfo(),
	}
	a.App.Use(Middleware(a.info))
	return a
}

// Info returns the application's shared store.
func (a *App) Info() *Info {
	return a.info
}

// Middleware attaches info to each request. Use it on a plain *fiber.App,
// before any route that renders templates.
func Middleware(info *Info) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localsInfoKey, info)
		return c.Next()
	}
}

// InfoFromCtx returns the Info attached by Middleware.
func InfoFromCtx(c *fiber.Ctx) (*Info, bool) {
	info, ok := c.Locals(localsInfoKey).(*Info)
	return info, ok && info != nil
}

// ProviderFromCtx returns the Provider registered under key for this request.
func ProviderFromCtx(c *fiber.Ctx, key string) (*Provider, error) {
	info, ok := InfoFromCtx(c)
	if !ok {
		return nil, ErrProviderNotRegistered{Key: key}
	}
	return info.Provider(key)
}

// HandlerFunc computes the variables of a templated page.
type HandlerFunc func(c *fiber.Ctx) (Vars, error)

// TemplateOption configures WithTemplate and HTTPTemplate.
type TemplateOption func(*templateConfig)

type templateConfig struct {
	status      int
	encoding    string
	key         string
	errorWriter ErrorWriter
}

// WithStatus sets the status of successful responses. Defaults to 200.
func WithStatus(status int) TemplateOption {
	return func(cfg *templateConfig) {
		cfg.status = status
	}
}

// WithEncoding sets the response charset. Defaults to DefaultEncoding.
func WithEncoding(encoding string) TemplateOption {
	return func(cfg *templateConfig) {
		if encoding != "" {
			cfg.encoding = encoding
		}
	}
}

// WithKey reads the Provider from key instead of DefaultKey.
func WithKey(key string) TemplateOption {
	return func(cfg *templateConfig) {
		if key != "" {
			cfg.key = key
		}
	}
}

func newTemplateConfig(name string, opts []TemplateOption) *templateConfig {
	if name == "" {
		panic("htmlrender: template name must not be empty")
	}

	cfg := &templateConfig{
		status:      http.StatusOK,
		encoding:    DefaultEncoding,
		key:         DefaultKey,
		errorWriter: defaultErrorWriter,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.status < 100 || cfg.status > 999 {
		panic("htmlrender: invalid status code")
	}
	return cfg
}

// WithTemplate adapts a HandlerFunc into a fiber handler that renders name
// with the variables it returns.
//
//	app.Get("/", htmlrender.WithTemplate("index.html")(func(c *fiber.Ctx) (htmlrender.Vars, error) {
//		return htmlrender.Vars{"name": "rob"}, nil
//	}))
//
// Errors from f and a missing Provider are returned to fiber's error handler.
// It panics if name is empty.
func WithTemplate(name string, opts ...TemplateOption) func(HandlerFunc) fiber.Handler {
	cfg := newTemplateConfig(name, opts)

	return func(f HandlerFunc) fiber.Handler {
		return func(c *fiber.Ctx) error {
			vars, err := f(c)
			if err != nil {
				return err
			}

			p, err := ProviderFromCtx(c, cfg.key)
			if err != nil {
				return err
			}

			resp, err := p.Respond(c.UserContext(), cfg.status, name, vars, cfg.encoding)
			if err != nil {
				return err
			}
			return resp.Send(c)
		}
	}
}

// ErrorHandler returns a fiber error handler that logs unrecovered errors
// with their go-errors category. *fiber.Error keeps its status; everything
// else becomes a plain 500.
func ErrorHandler(logger logr.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			ge := AsGoError(err)
			logger.Error(err, "request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"category", ge.Category,
				"code", ge.TextCode,
			)
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(code).SendString(http.StatusText(code))
	}
}

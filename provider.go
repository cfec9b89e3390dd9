package htmlrender

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger logr.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// Provider renders named templates from a single Environment into HTTP
// responses. It is immutable once built and safe for concurrent use.
type Provider struct {
	env    Environment
	logger logr.Logger
}

// NewProvider wraps env. The environment is shared, never copied or modified.
func NewProvider(env Environment, opts ...ProviderOption) *Provider {
	p := &Provider{
		env:    env,
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Environment returns the wrapped environment.
func (p *Provider) Environment() Environment {
	return p.env
}

// Render resolves name and renders it with vars.
func (p *Provider) Render(ctx context.Context, name string, vars Vars) (string, error) {
	if p.env == nil {
		return "", errors.New("htmlrender: provider has no environment")
	}

	tmpl, err := p.env.Lookup(name)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx, vars)
}

// Respond renders name into a Response with the given status and a
// text/html content type in the requested charset. An empty encoding means
// DefaultEncoding.
//
// A template that does not exist is not an error: it becomes a 500 text/plain
// response carrying the not-found message. Every other failure is returned.
func (p *Provider) Respond(ctx context.Context, status int, name string, vars Vars, encoding string) (*Response, error) {
	charset, enc, err := lookupEncoding(encoding)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := p.Render(ctx, name, vars)
	if err != nil {
		var nf ErrTemplateNotFound
		if !errors.As(err, &nf) {
			return nil, err
		}
		p.logger.Info("template not found", "template", name, "requested_status", status)
		return &Response{
			Status:  http.StatusInternalServerError,
			Headers: []Header{{Name: HeaderContentType, Value: mimeTextPlain}},
			Body:    newBody(nf.Error(), enc, false),
		}, nil
	}

	p.logger.V(1).Info("rendered template", "template", name, "status", status, "duration", time.Since(start))
	return &Response{
		Status:  status,
		Headers: []Header{{Name: HeaderContentType, Value: fmt.Sprintf("text/html; charset=%s", charset)}},
		Body:    newBody(text, enc, true),
	}, nil
}

// Check resolves every name once, returning the joined lookup errors. It
// lets applications fail at startup instead of on the first request.
func (p *Provider) Check(names ...string) error {
	if p.env == nil {
		return errors.New("htmlrender: provider has no environment")
	}

	var errs []error
	for _, name := range names {
		if _, err := p.env.Lookup(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

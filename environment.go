// Package htmlrender renders HTML responses for fiber and net/http handlers
// through a pluggable template environment.
//
// A Provider wraps one Environment and turns a named template plus a set of
// variables into a Response. Register stores a Provider in the application's
// shared Info store, and WithTemplate adapts a handler that only computes
// template variables into a handler that writes the rendered page.
package htmlrender

import "context"

// Vars holds the variables passed to a single template render.
type Vars map[string]any

// Environment resolves template names to renderable templates.
//
// Lookup must return an error satisfying IsTemplateNotFound when name does not
// resolve. Implementations are shared across requests and must be safe for
// concurrent use.
type Environment interface {
	Lookup(name string) (Template, error)
}

// Template is a resolved template ready to be rendered.
type Template interface {
	Render(ctx context.Context, vars Vars) (string, error)
}

type renderResult struct {
	text     string
	err      error
	panicked any
}

// renderAsync runs render on its own goroutine and stops waiting once ctx is
// done. The abandoned render finishes in the background and its result is
// dropped. A panic during render is raised again on the calling goroutine,
// where recovery middleware can see it, as in a synchronous render.
func renderAsync(ctx context.Context, render func() (string, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan renderResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- renderResult{panicked: r}
			}
		}()
		text, err := render()
		done <- renderResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.panicked != nil {
			panic(res.panicked)
		}
		return res.text, res.err
	}
}

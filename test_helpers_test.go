package htmlrender

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// stubEnvironment renders "{{name}}" placeholders from an in-memory map.
type stubEnvironment struct {
	templates map[string]string
	lookups   atomic.Int64
}

func newStubEnvironment(templates map[string]string) *stubEnvironment {
	return &stubEnvironment{templates: templates}
}

func (e *stubEnvironment) Lookup(name string) (Template, error) {
	e.lookups.Add(1)

	text, ok := e.templates[name]
	if !ok {
		return nil, ErrTemplateNotFound{Name: name}
	}
	return stubTemplate(text), nil
}

type stubTemplate string

func (t stubTemplate) Render(ctx context.Context, vars Vars) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := string(t)
	for _, k := range keys {
		out = strings.ReplaceAll(out, "{{"+k+"}}", fmt.Sprint(vars[k]))
	}
	return out, nil
}

// failingEnvironment resolves every name to a template that fails with err.
type failingEnvironment struct {
	err error
}

func (e failingEnvironment) Lookup(name string) (Template, error) {
	return failingTemplate{err: ErrTemplateExecution{Name: name, Err: e.err}}, nil
}

type failingTemplate struct {
	err error
}

func (t failingTemplate) Render(context.Context, Vars) (string, error) {
	return "", t.err
}

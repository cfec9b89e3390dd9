package htmlrender

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io/fs"
	"path"
	"text/template/parse"
)

const (
	// DefaultTemplateDir is the default directory where templates are stored.
	DefaultTemplateDir = "templates"
)

// HTMLOption configures an HTMLEnvironment.
// It follows the functional options pattern for flexible configuration.
type HTMLOption func(*HTMLEnvironment)

// WithTemplatesPath returns an HTMLOption that sets a custom template directory path.
// If an empty path is provided, the default path will be used.
func WithTemplatesPath(dir string) HTMLOption {
	return func(e *HTMLEnvironment) {
		if dir != "" {
			e.dir = dir
		}
	}
}

// WithFuncs adds custom template functions available to every template.
func WithFuncs(funcMap template.FuncMap) HTMLOption {
	return func(e *HTMLEnvironment) {
		if e.funcs == nil {
			e.funcs = make(template.FuncMap, len(funcMap))
		}
		for name, fn := range funcMap {
			e.funcs[name] = fn
		}
	}
}

// WithAsync renders templates on a separate goroutine so callers stop waiting
// once their context is done.
func WithAsync(async bool) HTMLOption {
	return func(e *HTMLEnvironment) {
		e.async = async
	}
}

// WithStrict rejects renders whose variables are missing a field the template
// reads. Without it, missing keys do not fail the render.
func WithStrict(strict bool) HTMLOption {
	return func(e *HTMLEnvironment) {
		e.strict = strict
	}
}

// HTMLEnvironment resolves html/template files from a filesystem.
// Templates are parsed on every lookup, so it holds no mutable state once built.
type HTMLEnvironment struct {
	fs     fs.FS
	dir    string
	funcs  template.FuncMap
	async  bool
	strict bool
}

var _ Environment = (*HTMLEnvironment)(nil)

// NewHTMLEnvironment creates an html/template environment over the provided filesystem.
func NewHTMLEnvironment(fsys fs.FS, opts ...HTMLOption) (*HTMLEnvironment, error) {
	if fsys == nil {
		return nil, errors.New("htmlrender: html environment requires a filesystem")
	}

	env := &HTMLEnvironment{
		fs:  fsys,
		dir: DefaultTemplateDir,
	}

	for _, opt := range opts {
		opt(env)
	}
	return env, nil
}

// Lookup parses the template stored at name, relative to the templates directory.
func (e *HTMLEnvironment) Lookup(name string) (Template, error) {
	file := path.Join(e.dir, name)
	if name == "" || !fs.ValidPath(name) || !fs.ValidPath(file) {
		return nil, ErrTemplateNotFound{Name: name}
	}

	info, err := fs.Stat(e.fs, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrTemplateNotFound{Name: name}
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrTemplateNotFound{Name: name}
	}

	tmpl := template.New(path.Base(file))
	if len(e.funcs) > 0 {
		tmpl = tmpl.Funcs(e.funcs)
	}
	if e.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err = tmpl.ParseFS(e.fs, file)
	if err != nil {
		return nil, ErrTemplateExecution{Name: name, Err: err}
	}

	return &htmlTemplate{
		name:   name,
		tmpl:   tmpl,
		async:  e.async,
		strict: e.strict,
	}, nil
}

type htmlTemplate struct {
	name   string
	tmpl   *template.Template
	async  bool
	strict bool
}

func (t *htmlTemplate) Render(ctx context.Context, vars Vars) (string, error) {
	if t.async {
		return renderAsync(ctx, func() (string, error) {
			return t.execute(vars)
		})
	}
	return t.execute(vars)
}

func (t *htmlTemplate) lookupTree(name string) *parse.Tree {
	if tt := t.tmpl.Lookup(name); tt != nil {
		return tt.Tree
	}
	return nil
}

func (t *htmlTemplate) execute(vars Vars) (string, error) {
	if vars == nil {
		vars = Vars{}
	}

	if t.strict {
		if err := validateTemplateFields(t.name, t.tmpl.Tree, vars, t.lookupTree); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, map[string]any(vars)); err != nil {
		return "", ErrTemplateExecution{Name: t.name, Err: err}
	}
	return buf.String(), nil
}

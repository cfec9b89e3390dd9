package htmlrender

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// DefaultPongoSetName names the pongo2 template set when none is configured.
const DefaultPongoSetName = "htmlrender"

// PongoOption configures a PongoEnvironment before construction.
type PongoOption func(*pongoConfig)

type pongoConfig struct {
	name    string
	async   bool
	debug   bool
	globals Vars
	filters map[string]pongo2.FilterFunction
}

// WithPongoName names the underlying pongo2 template set.
func WithPongoName(name string) PongoOption {
	return func(cfg *pongoConfig) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithPongoAsync renders templates on a separate goroutine so callers stop
// waiting once their context is done.
func WithPongoAsync(async bool) PongoOption {
	return func(cfg *pongoConfig) {
		cfg.async = async
	}
}

// WithPongoDebug bypasses the compiled template cache so edits on disk are
// picked up on the next request.
func WithPongoDebug(debug bool) PongoOption {
	return func(cfg *pongoConfig) {
		cfg.debug = debug
	}
}

// WithPongoGlobals seeds values available to every template.
func WithPongoGlobals(globals Vars) PongoOption {
	return func(cfg *pongoConfig) {
		if len(globals) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(Vars, len(globals))
		}
		for key, value := range globals {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithPongoFilters registers template filters. pongo2 filters are process
// wide; a filter whose name is already registered is left untouched.
func WithPongoFilters(filters map[string]pongo2.FilterFunction) PongoOption {
	return func(cfg *pongoConfig) {
		if len(filters) == 0 {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]pongo2.FilterFunction, len(filters))
		}
		for name, fn := range filters {
			cfg.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// PongoEnvironment resolves Django/Jinja style templates through pongo2.
type PongoEnvironment struct {
	fs    fs.FS
	set   *pongo2.TemplateSet
	async bool
	debug bool
}

var _ Environment = (*PongoEnvironment)(nil)

// NewPongoEnvironment builds a pongo2 template set that loads templates from fsys.
func NewPongoEnvironment(fsys fs.FS, opts ...PongoOption) (*PongoEnvironment, error) {
	if fsys == nil {
		return nil, errors.New("htmlrender: pongo environment requires a filesystem")
	}

	cfg := &pongoConfig{name: DefaultPongoSetName}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if err := registerFilters(cfg.filters); err != nil {
		return nil, err
	}

	set := pongo2.NewSet(cfg.name, pongo2.NewFSLoader(fsys))
	set.Debug = cfg.debug
	if len(cfg.globals) > 0 {
		if set.Globals == nil {
			set.Globals = make(pongo2.Context, len(cfg.globals))
		}
		set.Globals.Update(pongo2.Context(cfg.globals))
	}

	return &PongoEnvironment{
		fs:    fsys,
		set:   set,
		async: cfg.async,
		debug: cfg.debug,
	}, nil
}

// filtersMu serializes writes to pongo2's global filter registry.
var filtersMu sync.Mutex

func registerFilters(filters map[string]pongo2.FilterFunction) error {
	filtersMu.Lock()
	defer filtersMu.Unlock()

	for name, fn := range filters {
		if name == "" || fn == nil || pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, fn); err != nil {
			return fmt.Errorf("htmlrender: register filter %q: %w", name, err)
		}
	}
	return nil
}

// NewPongoEnvironmentFromDir builds a PongoEnvironment rooted at a directory on disk.
func NewPongoEnvironmentFromDir(dir string, opts ...PongoOption) (*PongoEnvironment, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("htmlrender: templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("htmlrender: templates path %q is not a directory", dir)
	}
	return NewPongoEnvironment(os.DirFS(dir), opts...)
}

// Lookup compiles the named template, reusing pongo2's cache unless the
// environment runs in debug mode.
func (e *PongoEnvironment) Lookup(name string) (Template, error) {
	if name == "" || !fs.ValidPath(name) {
		return nil, ErrTemplateNotFound{Name: name}
	}

	info, err := fs.Stat(e.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrTemplateNotFound{Name: name}
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrTemplateNotFound{Name: name}
	}

	var tpl *pongo2.Template
	if e.debug {
		tpl, err = e.set.FromFile(name)
	} else {
		tpl, err = e.set.FromCache(name)
	}
	if err != nil {
		return nil, ErrTemplateExecution{Name: name, Err: err}
	}

	return &pongoTemplate{name: name, tpl: tpl, async: e.async}, nil
}

type pongoTemplate struct {
	name  string
	tpl   *pongo2.Template
	async bool
}

func (t *pongoTemplate) Render(ctx context.Context, vars Vars) (string, error) {
	if t.async {
		return renderAsync(ctx, func() (string, error) {
			return t.execute(vars)
		})
	}
	return t.execute(vars)
}

func (t *pongoTemplate) execute(vars Vars) (string, error) {
	out, err := t.tpl.Execute(pongo2.Context(vars))
	if err != nil {
		return "", ErrTemplateExecution{Name: t.name, Err: err}
	}
	return out, nil
}

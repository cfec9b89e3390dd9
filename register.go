package htmlrender

import "github.com/go-logr/logr"

// DefaultKey is the Info key a Provider is registered under unless overridden.
const DefaultKey = "htmlrender.Provider"

// Host is an application exposing a shared Info store.
type Host interface {
	Info() *Info
}

// RegisterOption configures Register.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	key       string
	providers []ProviderOption
}

// WithRegisterKey stores the Provider under key instead of DefaultKey.
// An empty key keeps the default.
func WithRegisterKey(key string) RegisterOption {
	return func(cfg *registerConfig) {
		if key != "" {
			cfg.key = key
		}
	}
}

// WithRegisterLogger passes logger to the registered Provider.
func WithRegisterLogger(logger logr.Logger) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.providers = append(cfg.providers, WithLogger(logger))
	}
}

// Register builds a Provider over env and stores it in the application's
// Info. Registering twice under the same key replaces the earlier Provider.
//
// env is not validated here; problems surface on the first render. It panics
// if app has no Info, such as a zero App not built by NewApp.
func Register(app Host, env Environment, opts ...RegisterOption) *Provider {
	cfg := &registerConfig{key: DefaultKey}
	for _, opt := range opts {
		opt(cfg)
	}

	p := NewProvider(env, cfg.providers...)
	app.Info().Set(cfg.key, p)
	return p
}

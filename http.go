package htmlrender

import (
	"net/http"
)

// HTTPMiddleware attaches info to the context of every request passed to next.
func HTTPMiddleware(info *Info) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), info)))
		})
	}
}

// HTTPHandlerFunc computes the variables of a templated page served by net/http.
type HTTPHandlerFunc func(r *http.Request) (Vars, error)

// ErrorWriter reports an error the template handler could not turn into a page.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

func defaultErrorWriter(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// WithErrorWriter replaces the plain 500 written by HTTPTemplate on failure.
func WithErrorWriter(ew ErrorWriter) TemplateOption {
	return func(cfg *templateConfig) {
		if ew != nil {
			cfg.errorWriter = ew
		}
	}
}

// HTTPTemplate is WithTemplate for net/http. The Provider is read from the
// Info attached by HTTPMiddleware.
func HTTPTemplate(name string, opts ...TemplateOption) func(HTTPHandlerFunc) http.Handler {
	cfg := newTemplateConfig(name, opts)

	return func(f HTTPHandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vars, err := f(r)
			if err != nil {
				cfg.errorWriter(w, r, err)
				return
			}

			p, err := ProviderFromContext(r.Context(), cfg.key)
			if err != nil {
				cfg.errorWriter(w, r, err)
				return
			}

			resp, err := p.Respond(r.Context(), cfg.status, name, vars, cfg.encoding)
			if err != nil {
				cfg.errorWriter(w, r, err)
				return
			}
			body, err := resp.Bytes()
			if err != nil {
				cfg.errorWriter(w, r, err)
				return
			}
			// Headers are committed here; a failed write means the client went away.
			_ = resp.writeEncoded(w, body)
		})
	}
}

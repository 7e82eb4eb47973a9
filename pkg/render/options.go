package render

import (
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-legaldocs/pkg/render/template"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithEngine swaps the template engine. The default is the pongo2 engine
// from the gotemplate package.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithHelpers adds or replaces helpers. Later options win on name clashes.
func WithHelpers(helpers HelperSet) Option {
	return func(r *Renderer) {
		for name, fn := range helpers {
			if fn == nil {
				delete(r.helpers, name)
				continue
			}
			r.helpers[name] = fn
		}
	}
}

// WithPreHook runs hook before each render, ahead of helper binding.
func WithPreHook(hook gotemplatepkg.PreHook) Option {
	return func(r *Renderer) {
		if hook != nil {
			r.preHooks = append(r.preHooks, hook)
		}
	}
}

// WithPostHook runs hook on each rendered document, in registration order.
func WithPostHook(hook gotemplatepkg.PostHook) Option {
	return func(r *Renderer) {
		if hook != nil {
			r.postHooks = append(r.postHooks, hook)
		}
	}
}

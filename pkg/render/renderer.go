// Package render fills document markup with a canonical payload.
package render

import (
	"errors"
	"fmt"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/render/template"
	"github.com/goliatone/go-legaldocs/pkg/render/template/gotemplate"
)

// ErrTemplate marks markup that failed to parse or execute.
var ErrTemplate = errors.New("template rendering failed")

// Renderer binds payloads to markup. Helpers are handed to the engine with
// each call and never registered globally, so two renderers with different
// helper sets can run side by side.
type Renderer struct {
	engine    template.TemplateRenderer
	helpers   HelperSet
	preHooks  []gotemplatepkg.PreHook
	postHooks []gotemplatepkg.PostHook
	hooks     *gotemplatepkg.HookChain
}

// New builds a Renderer with the default helper set.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{helpers: DefaultHelpers()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := gotemplate.New()
		if err != nil {
			return nil, fmt.Errorf("render: init engine: %w", err)
		}
		r.engine = engine
	}
	r.hooks = gotemplatepkg.NewHookChain(
		gotemplatepkg.WithPreHooksChain(r.preHooks...),
		gotemplatepkg.WithPreHooksChain(r.bindHelpers),
		gotemplatepkg.WithPostHooksChain(r.postHooks...),
	)
	return r, nil
}

// Helpers returns a copy of the helper set bound to each render.
func (r *Renderer) Helpers() HelperSet {
	return r.helpers.Clone()
}

// Render produces the filled markup. Unknown placeholders render as empty
// text. Helper names shadow payload keys of the same name. Pre-hooks run
// before the helpers are bound and may swap the markup or the data; post-hooks
// see the rendered output and may replace it.
func (r *Renderer) Render(markup string, data payload.Payload) (string, error) {
	hctx := &gotemplatepkg.HookContext{
		Template:  markup,
		Data:      data,
		Metadata:  map[string]any{},
		IsPreHook: true,
	}
	if err := r.hooks.ExecutePreHooks(hctx); err != nil {
		return "", fmt.Errorf("render: pre-hook: %w", err)
	}

	out, err := r.engine.RenderString(hctx.Template, hctx.Data)
	if err != nil {
		return "", fmt.Errorf("render: %w: %w", ErrTemplate, err)
	}

	hctx.IsPreHook = false
	hctx.Output = out
	out, err = r.hooks.ExecutePostHooks(hctx)
	if err != nil {
		return "", fmt.Errorf("render: post-hook: %w", err)
	}
	return out, nil
}

// bindHelpers replaces the hook data with a fresh context holding the payload
// and the helper set.
func (r *Renderer) bindHelpers(hctx *gotemplatepkg.HookContext) error {
	var data payload.Payload
	switch v := hctx.Data.(type) {
	case nil:
	case payload.Payload:
		data = v
	case map[string]any:
		data = v
	default:
		return fmt.Errorf("render: hook data must be an object, got %T", hctx.Data)
	}
	ctx := make(map[string]any, len(data)+len(r.helpers))
	for key, value := range data {
		ctx[key] = value
	}
	for name, fn := range r.helpers {
		ctx[name] = fn
	}
	hctx.Data = ctx
	return nil
}

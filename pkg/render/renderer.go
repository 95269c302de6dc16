// Package render builds the HTML pages of the user manager: the list view
// and the create/edit form. Field and row data is flattened into view structs
// first, control markup is emitted with escaped builders, and page chrome
// comes from pongo2 templates themed through go-theme tokens.
package render

import (
	"fmt"

	"github.com/goliatone/go-userdesk/pkg/render/template"
	"github.com/goliatone/go-userdesk/pkg/render/template/pongo"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplates swaps the template engine, for callers that load templates
// from disk instead of the embedded bundle.
func WithTemplates(templates template.Renderer) Option {
	return func(r *Renderer) {
		r.templates = templates
	}
}

// WithTheme sets the resolved theme applied to every page.
func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// Renderer turns view structs into complete HTML documents.
type Renderer struct {
	templates template.Renderer
	theme     Theme
}

// New builds a Renderer. Without options it uses the embedded templates and
// the default theme's base variant.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		theme: ResolveTheme(DefaultManifest(), ""),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.templates == nil {
		engine, err := pongo.New(pongo.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("render: build template engine: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

// Theme returns the renderer's resolved theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// FormPage renders the create/edit page for the given view.
func (r *Renderer) FormPage(view FormView) (string, error) {
	view.Flash = sanitizeFlash(view.Flash)
	view.FlashError = sanitizeFlash(view.FlashError)

	content, err := r.templates.RenderTemplate("form", view)
	if err != nil {
		return "", fmt.Errorf("render: form page: %w", err)
	}
	return r.page(view.Title, view.Flash, view.FlashError, content)
}

// ListPage renders the user list page for the given view.
func (r *Renderer) ListPage(view ListView) (string, error) {
	view.Flash = sanitizeFlash(view.Flash)
	view.FlashError = sanitizeFlash(view.FlashError)

	content, err := r.templates.RenderTemplate("list", view)
	if err != nil {
		return "", fmt.Errorf("render: list page: %w", err)
	}
	return r.page(view.Title, view.Flash, view.FlashError, content)
}

func (r *Renderer) page(title, flash, flashError, content string) (string, error) {
	out, err := r.templates.RenderTemplate("page", map[string]any{
		"title":      title,
		"flash":      flash,
		"flashError": flashError,
		"content":    content,
		"theme":      r.theme,
		"themeStyle": r.theme.CSSVarsStyle,
	})
	if err != nil {
		return "", fmt.Errorf("render: page chrome: %w", err)
	}
	return out, nil
}

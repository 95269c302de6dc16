// Package template defines the rendering seam between page builders and the
// concrete template engine, so page code never imports pongo2 directly.
package template

import (
	"io"
)

// Renderer is the engine contract page renderers rely on. Render dispatches
// on its argument: inline template content is compiled on the fly, anything
// else is treated as a template name.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}

package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page templates for consumers that want to
// drive their own engine with the built-in markup.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// Should never happen, but fall back to raw FS so templates remain usable.
		return embeddedTemplates
	}
	return sub
}

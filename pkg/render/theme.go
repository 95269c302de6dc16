package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme is the resolved styling context handed to page templates: token
// values merged for the selected variant, plus the CSS custom-property block
// derived from them.
type Theme struct {
	Name         string            `json:"name"`
	Variant      string            `json:"variant,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"cssVarsStyle,omitempty"`
	AssetPrefix  string            `json:"assetPrefix,omitempty"`
}

// DefaultManifest describes the built-in theme with a light base and a dark
// variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "userdesk",
		Version: "1.0.0",
		Tokens: map[string]string{
			"surface":      "#ffffff",
			"text":         "#1f2933",
			"muted":        "#6b7280",
			"accent":       "#2563eb",
			"danger":       "#dc2626",
			"field-border": "#d1d5db",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/userdesk",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface":      "#111827",
					"text":         "#f9fafb",
					"muted":        "#9ca3af",
					"field-border": "#374151",
				},
			},
		},
	}
}

// DefaultProvider registers the built-in manifest on a go-theme registry so
// callers hosting multiple themes can select it by name.
func DefaultProvider() (theme.ThemeProvider, error) {
	registry := theme.NewRegistry()
	if err := registry.Register(DefaultManifest()); err != nil {
		return nil, fmt.Errorf("render: register default theme: %w", err)
	}
	return registry, nil
}

// ResolveTheme merges the named variant's tokens over the manifest's base
// tokens and derives the CSS custom properties. An unknown variant falls back
// to the base theme.
func ResolveTheme(manifest *theme.Manifest, variant string) Theme {
	if manifest == nil {
		return Theme{}
	}

	tokens := copyStringMap(manifest.Tokens)
	resolved := Theme{
		Name:        manifest.Name,
		AssetPrefix: manifest.Assets.Prefix,
	}

	if variant != "" {
		if v, ok := manifest.Variants[variant]; ok {
			resolved.Variant = variant
			if tokens == nil {
				tokens = make(map[string]string, len(v.Tokens))
			}
			for key, value := range v.Tokens {
				tokens[key] = value
			}
			if v.Assets.Prefix != "" {
				resolved.AssetPrefix = v.Assets.Prefix
			}
		}
	}

	resolved.Tokens = tokens
	resolved.CSSVars = cssVars(tokens)
	resolved.CSSVarsStyle = cssVarsStyle(resolved.CSSVars)
	return resolved
}

func cssVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out["--"+key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

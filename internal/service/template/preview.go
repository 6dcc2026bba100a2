package template

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/osteele/liquid"
)

// Renderer wraps a Liquid engine with a small set of email-oriented filters.
// It is safe for concurrent use.
type Renderer struct {
	engine *liquid.Engine
}

// NewRenderer builds the engine and registers custom filters.
func NewRenderer() *Renderer {
	r := &Renderer{engine: liquid.NewEngine()}
	r.registerFilters()
	return r
}

func (r *Renderer) registerFilters() {
	// Fallback value: {{ name | default: "there" }}
	r.engine.RegisterFilter("default", func(value interface{}, fallback string) interface{} {
		if value == nil {
			return fallback
		}
		s := fmt.Sprintf("%v", value)
		if s == "" || s == "<nil>" {
			return fallback
		}
		return value
	})

	// Capitalize first letter: {{ name | capitalize }}
	r.engine.RegisterFilter("capitalize", func(s string) string {
		if len(s) == 0 {
			return s
		}
		return strings.ToUpper(string(s[0])) + strings.ToLower(s[1:])
	})

	// URL encode: {{ email | urlencode }}
	r.engine.RegisterFilter("urlencode", func(s string) string {
		return url.QueryEscape(s)
	})

	// HTML escape: {{ user_input | escape }}
	r.engine.RegisterFilter("escape", func(s string) string {
		return html.EscapeString(s)
	})

	// Extract email domain: {{ email | email_domain }}
	r.engine.RegisterFilter("email_domain", func(email string) string {
		parts := strings.Split(email, "@")
		if len(parts) == 2 {
			return parts[1]
		}
		return ""
	})
}

// Validate compiles a template string and returns any syntax error.
func (r *Renderer) Validate(src string) error {
	_, err := r.engine.ParseString(src)
	return err
}

// Render processes a template with the given context.
func (r *Renderer) Render(src string, ctx map[string]interface{}) (string, error) {
	return r.engine.ParseAndRenderString(src, ctx)
}

// Package branding models the provider's branding records and the store
// contract the editor persists them through.
package branding

import (
	"context"
	"net/url"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// Branding is a remote record holding one HTML template per category.
type Branding struct {
	ID          string            `json:"id"`
	Name        string            `json:"name,omitempty"`
	TextColor   string            `json:"text_color,omitempty"`
	LayoutColor string            `json:"layout_color,omitempty"`
	Templates   map[string]string `json:"templates,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
}

// TemplateFor returns the document stored for c, if any.
func (b Branding) TemplateFor(c variables.Category) (string, bool) {
	doc, ok := b.Templates[string(c)]
	return doc, ok && doc != ""
}

// ConfiguredCategories lists the categories that carry a template, in
// category order.
func (b Branding) ConfiguredCategories() []variables.Category {
	var out []variables.Category
	for _, c := range variables.AllCategories() {
		if _, ok := b.TemplateFor(c); ok {
			out = append(out, c)
		}
	}
	return out
}

// FirstConfigured picks the category to open: preferred when it has a
// template, otherwise the first configured one.
func (b Branding) FirstConfigured(preferred variables.Category) (variables.Category, bool) {
	if _, ok := b.TemplateFor(preferred); ok {
		return preferred, true
	}
	configured := b.ConfiguredCategories()
	if len(configured) == 0 {
		return "", false
	}
	return configured[0], true
}

// DisplayName falls back to a placeholder for unnamed records.
func (b Branding) DisplayName() string {
	if b.Name == "" {
		return "Unnamed"
	}
	return b.Name
}

// CreateRequest creates a branding with a single template.
type CreateRequest struct {
	Name        string
	Category    variables.Category
	HTML        string
	TextColor   string
	LayoutColor string
}

// Form encodes the request as application/x-www-form-urlencoded fields.
func (r CreateRequest) Form() url.Values {
	v := url.Values{}
	v.Set("name", r.Name)
	setTemplate(v, r.Category, r.HTML, r.TextColor, r.LayoutColor)
	return v
}

// UpdateRequest replaces one template and the colours of a branding.
type UpdateRequest struct {
	Category    variables.Category
	HTML        string
	TextColor   string
	LayoutColor string
}

// Form encodes the request as application/x-www-form-urlencoded fields.
func (r UpdateRequest) Form() url.Values {
	v := url.Values{}
	setTemplate(v, r.Category, r.HTML, r.TextColor, r.LayoutColor)
	return v
}

func setTemplate(v url.Values, c variables.Category, html, text, layout string) {
	v.Set("templates["+string(c)+"]", html)
	v.Set("text_color", text)
	v.Set("layout_color", layout)
}

// Store persists brandings. Implementations are the relay backed API client
// and the local SQLite store.
type Store interface {
	List(ctx context.Context) ([]Branding, error)
	Get(ctx context.Context, id string) (*Branding, error)
	Create(ctx context.Context, req CreateRequest) (string, error)
	Update(ctx context.Context, id string, req UpdateRequest) error
}

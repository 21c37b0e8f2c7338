// Package variables manages the placeholder vocabulary of the template
// editor and the categories that constrain which placeholders a template
// must contain.
package variables

import (
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
)

// TokenPattern matches a {{name}} placeholder.
var TokenPattern = regexp.MustCompile(`\{\{[^{}\s]+\}\}`)

var namePattern = regexp.MustCompile(`^[^{}\s]+$`)

// Token renders name as a placeholder.
func Token(name string) string {
	return "{{" + name + "}}"
}

type builtin struct {
	name        string
	description string
}

var builtins = []builtin{
	{"sender_email", "Sender email address"},
	{"sign_button", "Signaturit button (signatures_request and pending_sign only)"},
	{"validate_button", "Validate document button (validation_request only)"},
	{"signer_name", "Signer name"},
	{"signer_email", "Signer email address"},
	{"filename", "File name (or names)"},
	{"logo", "Current logo"},
	{"remaining_time", "Document expiration date (pending_sign only)"},
	{"email_button", "Signaturit button (emails_request only)"},
	{"email_body", "Text of the body parameter (signatures_request only)"},
	{"code", "SMS code (sms_verify and sms_validate only)"},
	{"reason", "Reason the signature was declined (document_declined only)"},
	{"dashboard_button", "Button to view details in the dashboard (document_declined only)"},
	{"signers", "Signer name and email as NAME - EMAIL (signed_document only)"},
}

const customDescription = "Custom variable"

// Variable is one registry entry. Description is only kept for user
// defined variables; provider variables are documented by the package.
type Variable struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// UnmarshalYAML accepts a bare name as well as a name/description mapping.
func (v *Variable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = Variable{Name: node.Value}
		return nil
	}
	type plain Variable
	return node.Decode((*plain)(v))
}

// Registry is an ordered, duplicate free list of variables.
type Registry struct {
	entries []Variable
}

// NewRegistry returns a registry seeded with the provider variables.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// NewRegistryFrom builds a registry holding exactly vars, in order.
func NewRegistryFrom(vars []Variable) (*Registry, error) {
	r := &Registry{}
	for _, v := range vars {
		if err := r.AddDescribed(v.Name, v.Description); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Replace swaps the contents for vars. On error the registry is unchanged.
func (r *Registry) Replace(vars []Variable) error {
	next, err := NewRegistryFrom(vars)
	if err != nil {
		return err
	}
	r.entries = next.entries
	return nil
}

// Reset restores the provider variables in their documented order.
func (r *Registry) Reset() {
	r.entries = r.entries[:0]
	for _, b := range builtins {
		r.entries = append(r.entries, Variable{Name: b.name})
	}
}

// Add appends name without a description.
func (r *Registry) Add(name string) error {
	return r.AddDescribed(name, "")
}

// AddDescribed appends name. Empty, malformed and duplicate names are
// rejected.
func (r *Registry) AddDescribed(name, description string) error {
	if name == "" {
		return ferrors.ValidationError("variable name is empty").Build()
	}
	if !namePattern.MatchString(name) {
		return ferrors.ValidationError("variable name must not contain braces or whitespace").
			WithContext("variable", name).
			Build()
	}
	if r.Has(name) {
		return ferrors.ValidationError("variable already exists").
			WithContext("variable", name).
			Build()
	}
	r.entries = append(r.entries, Variable{Name: name, Description: strings.TrimSpace(description)})
	return nil
}

// Remove deletes name if present and reports whether it was.
func (r *Registry) Remove(name string) bool {
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return true
}

// RemoveAt deletes the entry at index i.
func (r *Registry) RemoveAt(i int) error {
	if i < 0 || i >= len(r.entries) {
		return ferrors.ValidationError("variable index out of range").
			WithContext("index", i).
			Build()
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return nil
}

func (r *Registry) index(name string) int {
	return slices.IndexFunc(r.entries, func(v Variable) bool { return v.Name == name })
}

func (r *Registry) Has(name string) bool {
	return r.index(name) >= 0
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns a copy of the names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, v := range r.entries {
		out[i] = v.Name
	}
	return out
}

// Variables returns a copy of the entries in insertion order.
func (r *Registry) Variables() []Variable {
	return slices.Clone(r.entries)
}

// IsBuiltin reports whether name is one of the provider variables.
func IsBuiltin(name string) bool {
	return slices.ContainsFunc(builtins, func(b builtin) bool { return b.name == name })
}

// Describe returns the documentation of a variable: the provider text for
// built-ins, the stored description for user defined ones, or a generic
// label.
func (r *Registry) Describe(name string) string {
	for _, b := range builtins {
		if b.name == name {
			return b.description
		}
	}
	if i := r.index(name); i >= 0 && r.entries[i].Description != "" {
		return r.entries[i].Description
	}
	return customDescription
}

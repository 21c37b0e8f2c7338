package editor

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/style"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// Draft is the on-disk form of a session's editable state.
type Draft struct {
	Name       string               `yaml:"name,omitempty"`
	BrandingID string               `yaml:"branding_id,omitempty"`
	Category   variables.Category   `yaml:"category"`
	Minify     bool                 `yaml:"minify"`
	Variables  []variables.Variable `yaml:"variables,omitempty"`
	Body       string               `yaml:"body"`
	Style      style.Model          `yaml:"style"`
}

// NewDraft returns a draft holding the default style and body.
func NewDraft() *Draft {
	return &Draft{
		Category: variables.SignaturesRequest,
		Body:     style.DefaultBody,
		Style:    style.Defaults(),
	}
}

// LoadDraft reads a draft file.
func LoadDraft(path string) (*Draft, error) {
	// #nosec G304 -- draft path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read draft").
			WithContext("path", path).
			Build()
	}

	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "parse draft").
			WithContext("path", path).
			Build()
	}
	if d.Category == "" {
		d.Category = variables.SignaturesRequest
	}
	if _, err := variables.ParseCategory(string(d.Category)); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveDraft writes d to path, creating parent directories.
func SaveDraft(path string, d *Draft) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode draft").Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create draft directory").Build()
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write draft").
			WithContext("path", path).
			Build()
	}
	return nil
}

// Draft captures the current state of the session, including the full
// variable list so removals survive a reload.
func (s *Session) Draft() *Draft {
	return &Draft{
		Name:       s.name,
		BrandingID: s.brandingID,
		Category:   s.category,
		Minify:     s.minify,
		Variables:  s.registry.Variables(),
		Body:       s.body,
		Style:      s.style,
	}
}

// ApplyDraft replaces the session state with d. A draft that lists
// variables replaces the registry contents; one without keeps them.
func (s *Session) ApplyDraft(d *Draft) error {
	category := d.Category
	if category == "" {
		category = s.category
	}
	if _, err := variables.ParseCategory(string(category)); err != nil {
		return err
	}
	if len(d.Variables) > 0 {
		if err := s.registry.Replace(d.Variables); err != nil {
			return err
		}
	}

	s.name = d.Name
	s.brandingID = d.BrandingID
	s.category = category
	s.minify = d.Minify
	s.body = d.Body
	s.style = d.Style
	return nil
}

// AddVariable registers a user defined variable.
func (s *Session) AddVariable(name, description string) error {
	if err := s.registry.AddDescribed(name, description); err != nil {
		return err
	}
	s.logger.Info("Added variable", slog.String("variable", name))
	return nil
}

// RemoveVariable drops name from the registry.
func (s *Session) RemoveVariable(name string) error {
	if !s.registry.Remove(name) {
		return ferrors.NotFoundError("variable not found").
			WithContext("variable", name).
			Build()
	}
	s.logger.Info("Removed variable", slog.String("variable", name))
	return nil
}

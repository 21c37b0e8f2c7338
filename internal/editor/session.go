// Package editor owns the state of one template editing session: the style
// model, the body text and the branding being edited. It drives the render,
// import and save flows on top of the templates package and persists
// through a branding.Store.
//
// A Session is owned by a single goroutine and is not safe for concurrent
// use.
package editor

import (
	"context"
	"log/slog"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/branding"
	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/metrics"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/style"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/templates"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// Session is an editing session for one branding template.
type Session struct {
	store    branding.Store
	logger   *slog.Logger
	recorder metrics.Recorder
	registry *variables.Registry

	category variables.Category
	minify   bool

	style style.Model
	body  string

	// brandingID is empty until the session is bound to a stored branding.
	brandingID string
	name       string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithRegistry shares a variable registry with the session.
func WithRegistry(r *variables.Registry) Option {
	return func(s *Session) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithCategory sets the initial template category.
func WithCategory(c variables.Category) Option {
	return func(s *Session) { s.category = c }
}

// WithMinify enables minification of exported and saved documents.
func WithMinify(enabled bool) Option {
	return func(s *Session) { s.minify = enabled }
}

// NewSession creates a session with default style and body. store may be nil
// for sessions that only render.
func NewSession(store branding.Store, opts ...Option) *Session {
	s := &Session{
		store:    store,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		registry: variables.NewRegistry(),
		category: variables.SignaturesRequest,
		style:    style.Defaults(),
		body:     style.DefaultBody,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartNew discards the current state and begins a new, unsaved branding.
func (s *Session) StartNew(name string) {
	s.brandingID = ""
	s.name = name
	s.style = style.Defaults()
	s.body = style.DefaultBody
	s.registry.Reset()
	s.logger.Info("Started new branding", logfields.Branding(name))
}

// OpenExisting binds the session to a stored branding and loads the
// template of the current category, or of the first configured one. When
// the fetch fails the session is left unchanged.
func (s *Session) OpenExisting(ctx context.Context, id string) error {
	b, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	category := s.category
	if c, ok := b.FirstConfigured(s.category); ok {
		category = c
	}
	if err := s.load(b, category); err != nil {
		return err
	}
	s.brandingID = b.ID
	s.name = b.Name
	s.logger.Info("Opened branding",
		logfields.BrandingID(b.ID),
		logfields.Branding(b.DisplayName()),
		logfields.Category(string(s.category)))
	return nil
}

// LoadTemplate reloads the current category of the open branding. A
// category without a stored template starts from the defaults.
func (s *Session) LoadTemplate(ctx context.Context) error {
	if s.brandingID == "" {
		return ferrors.ValidationError("no branding is open").Build()
	}
	b, err := s.fetch(ctx, s.brandingID)
	if err != nil {
		return err
	}
	return s.load(b, s.category)
}

func (s *Session) fetch(ctx context.Context, id string) (*branding.Branding, error) {
	if s.store == nil {
		return nil, ferrors.ConfigError("no branding store configured").Build()
	}
	b, err := s.store.Get(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to fetch branding", logfields.BrandingID(id), logfields.Error(err))
		return nil, err
	}
	return b, nil
}

// load replaces style and body with the stored template of category and the
// branding colours. Nothing is changed when the stored document is rejected.
func (s *Session) load(b *branding.Branding, category variables.Category) error {
	model, body := style.Defaults(), style.DefaultBody
	if doc, ok := b.TemplateFor(category); ok {
		res, err := s.parse(doc, model, category)
		if err != nil {
			return err
		}
		model = res.Style
		if res.Body != "" {
			body = res.Body
		}
	}
	applyBrandColor(&model.Text, b.TextColor)
	applyBrandColor(&model.Background, b.LayoutColor)

	s.category = category
	s.style = model
	s.body = body
	return nil
}

// applyBrandColor accepts hex literals only; the opacity is kept.
func applyBrandColor(c *style.Color, value string) {
	parsed, ok := style.ParseColor(value)
	if !ok || parsed.Opacity != "" {
		return
	}
	c.Hex = parsed.Hex
}

// Import reads an existing document into the session. JSON escaped input is
// unwrapped first. Documents that are the editor's own interface are
// rejected without changing anything; any other parse failure keeps the
// whole document as literal body text. The returned result tells the
// caller which fields were recovered; see Result.Advisory.
func (s *Session) Import(doc string) (*templates.Result, error) {
	res, err := s.parse(templates.Unescape(doc), s.style, s.category)
	if err != nil {
		return nil, err
	}
	s.style = res.Style
	if res.Body != "" {
		s.body = res.Body
	}
	return res, nil
}

func (s *Session) parse(doc string, base style.Model, category variables.Category) (*templates.Result, error) {
	parser := templates.Parser{PrimaryToken: variables.PrimaryToken(category)}
	res, err := parser.Parse(doc, base)
	switch {
	case ferrors.HasCategory(err, ferrors.CategoryNotATemplate):
		s.recorder.IncParseOutcome(metrics.ParseRejected)
		s.logger.Warn("Rejected import of editor markup", logfields.Error(err))
		return nil, err
	case err != nil:
		s.recorder.IncParseOutcome(metrics.ParseLiteral)
		s.logger.Warn("Import fell back to literal body", logfields.Error(err))
		return &templates.Result{Style: base, Body: doc, Found: []templates.Field{templates.FieldBody}}, nil
	case !res.Extracted():
		s.recorder.IncParseOutcome(metrics.ParseEmpty)
		s.logger.Info("Import recovered nothing", logfields.Bytes(len(doc)))
	default:
		s.recorder.IncParseOutcome(metrics.ParseExtracted)
		s.logger.Debug("Imported template",
			slog.Int("found", len(res.Found)),
			slog.Int("missed", len(res.Misses)))
	}
	return res, nil
}

// Render returns the full document for the current state.
func (s *Session) Render() string {
	s.recorder.IncRender(string(s.category))
	g := templates.Generator{PrimaryToken: variables.PrimaryToken(s.category)}
	return g.Generate(s.style, s.body)
}

// Export returns the document that would be saved: the rendered document,
// minified when minification is enabled.
func (s *Session) Export() string {
	doc := s.Render()
	if s.minify {
		doc = templates.Minify(doc)
	}
	return doc
}

// ExportText returns the text/plain rendition of the document.
func (s *Session) ExportText() string {
	return templates.PlainText(s.Render())
}

// Validate reports the mandatory tokens the exported document lacks.
func (s *Session) Validate() []string {
	missing := templates.Validate(s.Export(), s.category)
	s.recorder.IncValidation(string(s.category), len(missing) == 0)
	return missing
}

// Save validates the exported document and creates or updates the branding.
// A new branding needs a name; once created the session is bound to it.
// It returns the branding id.
func (s *Session) Save(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", ferrors.ConfigError("no branding store configured").Build()
	}

	doc := s.Export()
	missing := templates.Validate(doc, s.category)
	s.recorder.IncValidation(string(s.category), len(missing) == 0)
	if len(missing) > 0 {
		return "", templates.ValidationError(s.category, missing)
	}

	resolved := s.style.Resolve()
	textColor, layoutColor := resolved.Text.Hex, resolved.Background.Hex

	if s.brandingID == "" {
		if s.name == "" {
			return "", ferrors.ValidationError("branding name is required").Build()
		}
		id, err := s.store.Create(ctx, branding.CreateRequest{
			Name:        s.name,
			Category:    s.category,
			HTML:        doc,
			TextColor:   textColor,
			LayoutColor: layoutColor,
		})
		if err != nil {
			return "", err
		}
		s.brandingID = id
		s.logger.Info("Created branding", logfields.BrandingID(id), logfields.Branding(s.name))
		return id, nil
	}

	err := s.store.Update(ctx, s.brandingID, branding.UpdateRequest{
		Category:    s.category,
		HTML:        doc,
		TextColor:   textColor,
		LayoutColor: layoutColor,
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("Updated branding",
		logfields.BrandingID(s.brandingID),
		logfields.Category(string(s.category)),
		logfields.Bytes(len(doc)))
	return s.brandingID, nil
}

// Reset restores the default style and body. The bound branding is kept.
func (s *Session) Reset() {
	s.style = style.Defaults()
	s.body = style.DefaultBody
}

// SetStyle replaces the style model.
func (s *Session) SetStyle(m style.Model) { s.style = m }

// SetBody replaces the body text.
func (s *Session) SetBody(body string) { s.body = body }

// SetCategory switches the template category.
func (s *Session) SetCategory(c variables.Category) error {
	if _, err := variables.ParseCategory(string(c)); err != nil {
		return err
	}
	s.category = c
	return nil
}

// SetMinify toggles minification.
func (s *Session) SetMinify(enabled bool) { s.minify = enabled }

// SetName sets the name used when a new branding is created.
func (s *Session) SetName(name string) { s.name = name }

func (s *Session) Style() style.Model            { return s.style }
func (s *Session) Body() string                  { return s.body }
func (s *Session) Category() variables.Category  { return s.category }
func (s *Session) Minify() bool                  { return s.minify }
func (s *Session) Name() string                  { return s.name }
func (s *Session) BrandingID() string            { return s.brandingID }
func (s *Session) IsNew() bool                   { return s.brandingID == "" }
func (s *Session) Registry() *variables.Registry { return s.registry }

// IsRejected reports whether err is an import rejection of editor markup.
func IsRejected(err error) bool {
	return ferrors.HasCategory(err, ferrors.CategoryNotATemplate)
}

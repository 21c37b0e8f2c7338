package templates

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/style"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// Sentinels identify the editor's own interface markup.
var Sentinels = []string{
	"Generador de Plantillas HTML",
	"HTML Template Generator",
	`class="controls"`,
	`id="previewFrame"`,
}

// Field names a group of style values the parser tries to recover.
type Field string

const (
	FieldLogo         Field = "logo"
	FieldBackground   Field = "background"
	FieldContainer    Field = "container"
	FieldBorder       Field = "border"
	FieldButton       Field = "button"
	FieldButtonText   Field = "button_text"
	FieldButtonBorder Field = "button_border"
	FieldText         Field = "text"
	FieldBody         Field = "body"
)

var (
	reWidth        = regexp.MustCompile(`width:\s*([^;]+)`)
	reHeight       = regexp.MustCompile(`height:\s*([^;]+)`)
	reObjectFit    = regexp.MustCompile(`object-fit:\s*([^;]+)`)
	reBodyBg       = regexp.MustCompile(`background-color:\s*([^;]+)`)
	reBackground   = regexp.MustCompile(`background(?:-color)?:\s*([^;]+)`)
	rePxWidth      = regexp.MustCompile(`width:\s*(\d+)px`)
	reRadius       = regexp.MustCompile(`border-radius:\s*(\d+)px`)
	reBorder       = regexp.MustCompile(`border:\s*(\d+)px solid ([^;]+)`)
	reMargin       = regexp.MustCompile(`margin:\s*(\d+)px\s+(\d+)px\s+(\d+)px\s+(\d+)px`)
	rePadding      = regexp.MustCompile(`padding:\s*(\d+)px\s+(\d+)px\s+(\d+)px\s+(\d+)px`)
	reColor        = regexp.MustCompile(`(?:^|;)\s*color:\s*([^;]+)`)
	reBareNumber   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reManyNewlines = regexp.MustCompile(`\n{3,}`)
)

// Result carries everything a parse recovered.
type Result struct {
	// Style is the input model with every recognised field overwritten.
	Style style.Model
	// Body is the recovered body text. It is empty when nothing was found.
	Body   string
	Found  []Field
	Misses []Field
}

// Extracted reports whether any field was recognised.
func (r *Result) Extracted() bool {
	return len(r.Found) > 0
}

// Advisory returns a warning when nothing could be recovered. It is not a
// failure of the parse.
func (r *Result) Advisory() error {
	if r.Extracted() {
		return nil
	}
	return ferrors.MalformedInputError("no template information could be extracted, edit manually").Build()
}

func (r *Result) mark(f Field, ok bool) {
	if ok {
		r.Found = append(r.Found, f)
		return
	}
	r.Misses = append(r.Misses, f)
}

// Parser recovers style values and body text from email documents.
// PrimaryToken is emitted where the button block was; it defaults to
// {{sign_button}}.
type Parser struct {
	PrimaryToken string
}

// Parse reads doc with the default primary token.
func Parse(doc string, into style.Model) (*Result, error) {
	return Parser{}.Parse(doc, into)
}

// IsGeneratorMarkup reports whether doc contains one of the Sentinels.
func IsGeneratorMarkup(doc string) bool {
	for _, s := range Sentinels {
		if strings.Contains(doc, s) {
			return true
		}
	}
	return false
}

// Parse extracts what it can from doc on top of into. Each field is looked
// up independently; a miss never stops the others. The only hard failure is
// input that is the editor's own markup.
func (p Parser) Parse(doc string, into style.Model) (*Result, error) {
	if IsGeneratorMarkup(doc) {
		return nil, ferrors.NotATemplateError("input is the generator interface, not an email template").Build()
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryMalformedInput, "parse template HTML").Build()
	}

	res := &Result{Style: into}
	m := &res.Style

	res.mark(FieldLogo, parseLogo(root, m))
	res.mark(FieldBackground, parseBackground(root, m))
	container, border := parseContainer(root, m)
	res.mark(FieldContainer, container)
	res.mark(FieldBorder, border)

	button, label, buttonBorder := parseButton(root, m)
	res.mark(FieldButton, button)
	res.mark(FieldButtonText, label)
	res.mark(FieldButtonBorder, buttonBorder)

	area := contentArea(root)
	res.mark(FieldText, parseTextColor(area, m))

	res.Body = p.bodyText(area)
	res.mark(FieldBody, res.Body != "")
	return res, nil
}

func parseLogo(root *html.Node, m *style.Model) bool {
	img := first(root,
		tag("img").and(attrEquals("alt", "Logo")),
		tag("img").and(attrEquals("alt", "logo")),
		tag("img"),
	)
	if img == nil {
		m.Logo.URL = ""
		return false
	}

	var found bool
	if src := getAttr(img, "src"); src != "" && !strings.Contains(src, "data:image") {
		m.Logo.URL = src
		found = true
	}

	css := getAttr(img, "style")
	if w, ok := styleOrAttr(img, css, reWidth, "width"); ok {
		m.Logo.Width = withUnit(w)
	}
	if h, ok := styleOrAttr(img, css, reHeight, "height"); ok {
		m.Logo.Height = withUnit(h)
	}
	if fit := submatch(reObjectFit, css, 1); fit != "" {
		m.Logo.ObjectFit = fit
	} else {
		m.Logo.ObjectFit = "none"
	}
	return found
}

func styleOrAttr(n *html.Node, css string, re *regexp.Regexp, attr string) (string, bool) {
	if v := submatch(re, css, 1); v != "" {
		return v, true
	}
	if v := strings.TrimSpace(getAttr(n, attr)); v != "" {
		return v, true
	}
	return "", false
}

func withUnit(v string) string {
	if reBareNumber.MatchString(v) {
		return v + "px"
	}
	return v
}

func parseBackground(root *html.Node, m *style.Model) bool {
	body := query(root, tag("body"))
	if body == nil {
		return false
	}
	return applyColor(&m.Background, submatch(reBodyBg, getAttr(body, "style"), 1))
}

func parseContainer(root *html.Node, m *style.Model) (bool, bool) {
	tables := queryAll(root, tag("table").and(anyOf(hasAttr("bgcolor"), attrContains("style", "background"))))
	for _, t := range tables {
		css := getAttr(t, "style")
		if applyColor(&m.Container, getAttr(t, "bgcolor")) ||
			applyColor(&m.Container, submatch(reBackground, css, 1)) {
			return true, applyColor(&m.Border, submatch(reBorder, css, 2))
		}
	}
	return false, false
}

func parseButton(root *html.Node, m *style.Model) (found, label, border bool) {
	btn := first(root,
		tag("table").and(class(ButtonClass)),
		tag("table").and(attrEquals("align", "center"), attrContains("style", "background")),
	)
	if btn == nil {
		return false, false, false
	}
	css := getAttr(btn, "style")

	if w := submatch(rePxWidth, css, 1); w != "" {
		m.ButtonWidth = w
		found = true
	}
	if applyColor(&m.Button, submatch(reBackground, css, 1)) {
		found = true
	}
	if r := submatch(reRadius, css, 1); r != "" {
		m.ButtonBorderRadius = r
	}
	if bm := reBorder.FindStringSubmatch(css); bm != nil {
		m.ButtonBorderWidth = bm[1]
		border = applyColor(&m.ButtonBorder, bm[2])
	} else {
		m.ButtonBorderWidth = "0"
	}
	if mm := reMargin.FindStringSubmatch(css); mm != nil {
		m.ButtonMargin = style.Sides{Top: mm[1], Right: mm[2], Bottom: mm[3], Left: mm[4]}
	}
	if td := query(btn, tag("td")); td != nil {
		if pm := rePadding.FindStringSubmatch(getAttr(td, "style")); pm != nil {
			m.ButtonPadding = style.Sides{Top: pm[1], Right: pm[2], Bottom: pm[3], Left: pm[4]}
		}
	}
	if span := first(btn, tag("span").and(class(labelClass)), tag("span"), tag("a")); span != nil {
		label = applyColor(&m.ButtonText, submatch(reColor, getAttr(span, "style"), 1))
	}
	return found, label, border
}

func parseTextColor(area *html.Node, m *style.Model) bool {
	if area == nil || area.Data != "td" {
		return false
	}
	return applyColor(&m.Text, submatch(reColor, getAttr(area, "style"), 1))
}

// contentArea picks the most specific container of the body text.
func contentArea(root *html.Node) *html.Node {
	if n := query(root, tag("td").and(attrContains("style", "padding:0 0 25px 0"))); n != nil {
		return n
	}
	if n := query(root, class("note")); n != nil {
		return n
	}
	for _, t := range queryAll(root, tag("table").and(attrEquals("bgcolor", "#ffffff"))) {
		if td := query(t, tag("td")); td != nil {
			return td
		}
	}
	return query(root, tag("body"))
}

func (p Parser) bodyText(area *html.Node) string {
	if area == nil {
		return ""
	}
	token := p.PrimaryToken
	if token == "" {
		token = variables.DefaultPrimaryToken
	}

	var b strings.Builder
	for c := area.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			switch {
			case n.Type == html.TextNode:
				if t := strings.TrimSpace(n.Data); t != "" {
					b.WriteString(t)
					b.WriteByte('\n')
				}
			case n.Type == html.ElementNode && n.Data == "br":
				b.WriteByte('\n')
			case n.Type == html.ElementNode && hasClass(n, ButtonClass):
				b.WriteString(token)
				b.WriteByte('\n')
				return false
			}
			return true
		})
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		text = textContent(area)
	}
	return strings.TrimSpace(reManyNewlines.ReplaceAllString(text, "\n\n"))
}

// applyColor stores value into c when it is an accepted colour literal.
// A hex literal keeps the current opacity.
func applyColor(c *style.Color, value string) bool {
	if value == "" {
		return false
	}
	parsed, ok := style.ParseColor(value)
	if !ok {
		return false
	}
	*c = parsed.Merge(style.Color{Opacity: c.Opacity})
	return true
}

func submatch(re *regexp.Regexp, s string, i int) string {
	m := re.FindStringSubmatch(s)
	if m == nil || len(m) <= i {
		return ""
	}
	return strings.TrimSpace(m[i])
}

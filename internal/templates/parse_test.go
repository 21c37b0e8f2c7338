package templates

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/style"
)

func normalizeBody(s string) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

func TestParse_RoundTrip(t *testing.T) {
	cases := map[string]struct {
		start style.Model
		model style.Model
	}{
		// The button border colour is only written when the border is drawn.
		"defaults with logo": {start: style.Defaults(), model: style.Model{
			Logo: style.Logo{URL: "https://cdn.example.com/logo.png"},
		}},
		"everything set": {model: style.Model{
			Logo:               style.Logo{URL: "https://cdn.example.com/a.png?x=1&y=2", Width: "120px", Height: "40px", ObjectFit: "contain"},
			Background:         style.Color{Hex: "#f0f0f0", Opacity: "1"},
			Container:          style.Color{Hex: "#fafafa", Opacity: "0.9"},
			Border:             style.Color{Hex: "#dddddd", Opacity: "1"},
			Text:               style.Color{Hex: "#222222", Opacity: "1"},
			Button:             style.Color{Hex: "#0055aa", Opacity: "1"},
			ButtonText:         style.Color{Hex: "#ffff00", Opacity: "1"},
			ButtonBorder:       style.Color{Hex: "#ff0000", Opacity: "0.5"},
			ButtonBorderWidth:  "2",
			ButtonBorderRadius: "6",
			ButtonPadding:      style.Sides{Top: "8", Right: "12", Bottom: "8", Left: "12"},
			ButtonMargin:       style.Sides{Top: "20", Right: "0", Bottom: "20", Left: "0"},
			ButtonWidth:        "240",
		}},
	}
	body := "Hello {{signer_name}},\n\n{{filename}}\n\n{{sign_button}}\n\nThanks"

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m := tc.model
			doc := Generate(m, body)

			res, err := Parse(doc, tc.start)
			require.NoError(t, err)
			require.True(t, res.Extracted())
			require.NoError(t, res.Advisory())

			want := m.Resolve()
			if diff := cmp.Diff(want, res.Style); diff != "" {
				t.Fatalf("style mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, normalizeBody(body), normalizeBody(res.Body))
			assert.Equal(t, 1, strings.Count(res.Body, "{{sign_button}}"))
		})
	}
}

func TestParse_RejectsGeneratorMarkup(t *testing.T) {
	for _, sentinel := range Sentinels {
		res, err := Parse("<html><body>"+sentinel+"</body></html>", style.Defaults())

		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotATemplate))
	}
}

func TestParse_NothingExtracted(t *testing.T) {
	start := style.Defaults()
	res, err := Parse("<html><body></body></html>", start)
	require.NoError(t, err)

	assert.False(t, res.Extracted())
	advisory := res.Advisory()
	require.Error(t, advisory)
	assert.True(t, ferrors.HasCategory(advisory, ferrors.CategoryMalformedInput))
	assert.Contains(t, res.Misses, FieldBody)
	assert.Equal(t, start, res.Style)
	assert.Empty(t, res.Body)
}

func TestParse_ForeignTemplate(t *testing.T) {
	doc := `<html><body style="background-color: #EEEEEE">
		<img src="data:image/png;base64,AAAA" width="150" height="50">
		<table bgcolor="#ffffff"><tr><td>
			Dear {{signer_name}}<br>
			<table align="center" style="width:180px;background-color:#123456;border-radius:4px;margin:5px 6px 7px 8px">
				<tr><td style="padding:1px 2px 3px 4px"><a style="color:#abcdef">Sign</a></td></tr>
			</table>
			Bye
		</td></tr></table>
	</body></html>`

	start := style.Defaults()
	start.Logo.URL = "https://old.example.com/logo.png"
	res, err := Parse(doc, start)
	require.NoError(t, err)

	s := res.Style
	assert.Equal(t, "https://old.example.com/logo.png", s.Logo.URL, "data URIs are not imported")
	assert.Equal(t, "150px", s.Logo.Width)
	assert.Equal(t, "50px", s.Logo.Height)
	assert.Equal(t, "none", s.Logo.ObjectFit)
	assert.Equal(t, style.Color{Hex: "#eeeeee", Opacity: "1"}, s.Background)
	assert.Equal(t, style.Color{Hex: "#ffffff", Opacity: "1"}, s.Container)
	assert.Equal(t, "180", s.ButtonWidth)
	assert.Equal(t, style.Color{Hex: "#123456", Opacity: "1"}, s.Button)
	assert.Equal(t, "4", s.ButtonBorderRadius)
	assert.Equal(t, "0", s.ButtonBorderWidth)
	assert.Equal(t, style.Sides{Top: "5", Right: "6", Bottom: "7", Left: "8"}, s.ButtonMargin)
	assert.Equal(t, style.Sides{Top: "1", Right: "2", Bottom: "3", Left: "4"}, s.ButtonPadding)
	assert.Equal(t, style.Color{Hex: "#abcdef", Opacity: "1"}, s.ButtonText)

	assert.Equal(t, "Dear {{signer_name}}\n\nSign\nBye", res.Body)
	assert.Contains(t, res.Misses, FieldLogo)
}

func TestParse_MarkerClassNotDescended(t *testing.T) {
	doc := `<html><body><div class="note">Intro<table class="miboton"><tr><td><span>{{sign_button}}</span></td></tr></table>Outro</div></body></html>`

	res, err := Parser{PrimaryToken: "{{email_button}}"}.Parse(doc, style.Model{})
	require.NoError(t, err)
	assert.Equal(t, "Intro\n{{email_button}}\nOutro", res.Body)
}

func TestParse_NonHexColorsAreMisses(t *testing.T) {
	doc := `<html><body style="background-color: red;"><p>x</p></body></html>`
	start := style.Defaults()

	res, err := Parse(doc, start)
	require.NoError(t, err)
	assert.Equal(t, start.Background, res.Style.Background)
	assert.Contains(t, res.Misses, FieldBackground)
	assert.Contains(t, res.Found, FieldBody)
}

func TestParse_NoImageClearsLogo(t *testing.T) {
	start := style.Model{Logo: style.Logo{URL: "https://x/logo.png"}}
	res, err := Parse(`<html><body><p>hi</p></body></html>`, start)
	require.NoError(t, err)
	assert.Empty(t, res.Style.Logo.URL)
}

func TestParse_CollapsesNewlines(t *testing.T) {
	res, err := Parse(`<html><body>a<br><br><br><br>b</body></html>`, style.Model{})
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", res.Body)
}

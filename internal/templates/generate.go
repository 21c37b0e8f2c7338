package templates

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/style"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// ButtonClass marks the button table. The parser relies on it to find the
// button block again.
const ButtonClass = "miboton"

const labelClass = "mititulo"

const paragraphStyle = `margin:0 0 12px 0;font-size:16px;line-height:24px;font-family:'Helvetica Neue', Helvetica, Arial;`

// Generator renders email documents. PrimaryToken is the placeholder replaced
// by the button block; it defaults to {{sign_button}}.
type Generator struct {
	PrimaryToken string
}

// Generate renders m and body with the default primary token.
func Generate(m style.Model, body string) string {
	return Generator{}.Generate(m, body)
}

func (g Generator) token() string {
	if g.PrimaryToken == "" {
		return variables.DefaultPrimaryToken
	}
	return g.PrimaryToken
}

// Generate renders a complete HTML email document. The output depends only
// on its inputs.
func (g Generator) Generate(m style.Model, body string) string {
	s := m.Resolve()
	button := g.button(s)

	var content []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, g.token()) {
			content = append(content, strings.Replace(line, g.token(), button, 1))
			continue
		}
		content = append(content, indent(10)+`<p style="`+paragraphStyle+`">`+"\n"+indent(10)+line+"</p>")
	}

	var b document
	b.line(0, `<!DOCTYPE html>`)
	b.line(0, `<html lang="es" xmlns="http://www.w3.org/1999/xhtml" xmlns:o="urn:schemas-microsoft-com:office:office">`)
	b.line(0, `<head>`)
	b.line(1, `<meta charset="UTF-8">`)
	b.line(1, `<meta name="viewport" content="width=device-width,initial-scale=1">`)
	b.line(1, `<meta name="x-apple-disable-message-reformatting">`)
	b.line(1, `<title>Solicitud de Firma</title>`)
	b.line(1, `<!--[if mso]>`)
	b.line(1, `<noscript>`)
	b.line(2, `<xml>`)
	b.line(3, `<o:OfficeDocumentSettings>`)
	b.line(4, `<o:PixelsPerInch>96</o:PixelsPerInch>`)
	b.line(3, `</o:OfficeDocumentSettings>`)
	b.line(2, `</xml>`)
	b.line(1, `</noscript>`)
	b.line(1, `<![endif]-->`)
	b.line(1, `<style>`)
	b.line(2, `table, td, div, h1, p {font-family: 'Helvetica Neue', Helvetica, Arial;}`)
	b.line(1, `</style>`)
	b.line(0, `</head>`)
	b.line(0, `<body style="margin:0;padding:0;background-color: `+s.Background.RGBA()+`;">`)
	b.line(1, `<table role="presentation" style="width:100%;border-collapse:collapse;border:0;border-spacing:0;margin:30px 0px;">`)
	b.line(2, `<tr>`)
	b.line(3, `<td align="center" style="padding:0;">`)
	b.line(4, `<table role="presentation" style="width:800px;border-collapse:collapse;border:1px solid `+s.Border.RGBA()+
		`;border-spacing:0;text-align:left;background:`+s.Container.RGBA()+`">`)
	if s.Logo.URL != "" {
		b.line(5, `<tr>`)
		b.line(6, `<td align="center" style="padding:30px 0 20px 0;">`)
		b.line(7, `<img style="`+logoStyle(s.Logo)+`" alt="Logo" src="`+html.EscapeString(s.Logo.URL)+`">`)
		b.line(6, `</td>`)
		b.line(5, `</tr>`)
	}
	b.line(5, `<tr>`)
	b.line(6, `<td style="padding:10px 25px 0px 25px;">`)
	b.line(7, `<table role="presentation" style="width:100%;border-collapse:collapse;border:0;border-spacing:0;">`)
	b.line(8, `<tr>`)
	b.line(9, `<td style="padding:0 0 25px 0;color:`+s.Text.RGBA()+`;">`)
	for _, c := range content {
		b.raw(c)
	}
	b.line(9, `</td>`)
	b.line(8, `</tr>`)
	b.line(7, `</table>`)
	b.line(6, `</td>`)
	b.line(5, `</tr>`)
	b.line(4, `</table>`)
	b.line(3, `</td>`)
	b.line(2, `</tr>`)
	b.line(1, `</table>`)
	b.line(0, `</body>`)
	b.line(0, `</html>`)
	return b.String()
}

func (g Generator) button(s style.Model) string {
	var border string
	if w, err := strconv.ParseFloat(strings.TrimSpace(s.ButtonBorderWidth), 64); err == nil && w > 0 {
		border = fmt.Sprintf("border:%spx solid %s;", s.ButtonBorderWidth, s.ButtonBorder.RGBA())
	}

	var b document
	b.raw(fmt.Sprintf(`<table class="%s" align="center" style='width:%spx;background:%s;border-radius:%spx;%s%s'>`,
		ButtonClass, s.ButtonWidth, s.Button.RGBA(), s.ButtonBorderRadius, border, sides("margin", s.ButtonMargin)))
	b.line(11, `<tr>`)
	b.line(12, `<td style='`+sides("padding", s.ButtonPadding)+`line-height:12px'>`)
	b.line(13, `<p style='text-align:center;margin:0;'>`)
	b.line(14, fmt.Sprintf(`<span class="%s" style='font-size:18px;font-family:"Arial";color:%s;'>%s</span>`,
		labelClass, s.ButtonText.RGBA(), g.token()))
	b.line(13, `</p>`)
	b.line(12, `</td>`)
	b.line(11, `</tr>`)
	b.line(10, `</table>`)
	return b.String()
}

func logoStyle(l style.Logo) string {
	var fit string
	if l.ObjectFit != "none" {
		fit = "object-fit:" + l.ObjectFit + ";"
	}
	return "width:" + l.Width + ";height:" + l.Height + ";" + fit + "display:block;"
}

func sides(prop string, s style.Sides) string {
	return fmt.Sprintf("%s:%spx %spx %spx %spx;", prop, s.Top, s.Right, s.Bottom, s.Left)
}

// document joins lines with a newline and no trailing terminator.
type document struct {
	strings.Builder
}

func (d *document) raw(s string) {
	if d.Len() > 0 {
		d.WriteByte('\n')
	}
	d.WriteString(s)
}

func (d *document) line(depth int, s string) {
	d.raw(indent(depth) + s)
}

func indent(depth int) string {
	return strings.Repeat("\t", depth)
}

package style

// DefaultBody is the body text of a fresh session.
const DefaultBody = "Estimado/a {{signer_name}}, le hacemos llegar la siguiente documentacion para firmar:\n\n" +
	"{{filename}}\n\n" +
	"Para proceder con la revision de la documentacion presione el siguiente boton:\n\n" +
	"{{sign_button}}\n\n" +
	"{{email_body}}"

// Defaults returns the style applied to a new template.
func Defaults() Model {
	return Model{
		Logo: Logo{Width: "300px", Height: "auto", ObjectFit: "none"},

		Background:   Color{Hex: "#ffffff", Opacity: "1"},
		Container:    Color{Hex: "#ffffff", Opacity: "1"},
		Border:       Color{Hex: "#cccccc", Opacity: "1"},
		Text:         Color{Hex: "#153643", Opacity: "1"},
		Button:       Color{Hex: "#070707", Opacity: "1"},
		ButtonText:   Color{Hex: "#ffffff", Opacity: "1"},
		ButtonBorder: Color{Hex: "#070707", Opacity: "1"},

		ButtonBorderWidth:  "0",
		ButtonBorderRadius: "20",
		ButtonPadding:      Sides{Top: "15", Right: "15", Bottom: "15", Left: "15"},
		ButtonMargin:       Sides{Top: "10", Right: "0", Bottom: "10", Left: "0"},
		ButtonWidth:        "200",
	}
}

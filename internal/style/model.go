// Package style holds the visual parameters of an email template.
//
// Every field stores the raw value typed into an editor control. An empty
// string means "unset"; Resolve substitutes the documented default so that
// generated markup never carries blanks.
package style

// Color pairs a hex literal with an opacity. Opacity is embedded verbatim
// when rendered and is not range checked.
type Color struct {
	Hex     string `yaml:"hex"`
	Opacity string `yaml:"opacity"`
}

// Logo describes the optional header image.
type Logo struct {
	URL       string `yaml:"url"`
	Width     string `yaml:"width"`
	Height    string `yaml:"height"`
	ObjectFit string `yaml:"object_fit"`
}

// Sides holds four pixel quantities in top, right, bottom, left order.
type Sides struct {
	Top    string `yaml:"top"`
	Right  string `yaml:"right"`
	Bottom string `yaml:"bottom"`
	Left   string `yaml:"left"`
}

// Model is the full set of style parameters of a template.
type Model struct {
	Logo Logo `yaml:"logo"`

	Background   Color `yaml:"background"`
	Container    Color `yaml:"container"`
	Border       Color `yaml:"border"`
	Text         Color `yaml:"text"`
	Button       Color `yaml:"button"`
	ButtonText   Color `yaml:"button_text"`
	ButtonBorder Color `yaml:"button_border"`

	ButtonBorderWidth  string `yaml:"button_border_width"`
	ButtonBorderRadius string `yaml:"button_border_radius"`
	ButtonPadding      Sides  `yaml:"button_padding"`
	ButtonMargin       Sides  `yaml:"button_margin"`
	ButtonWidth        string `yaml:"button_width"`
}

// Resolve returns a copy of m with every unset field replaced by its default.
func (m Model) Resolve() Model {
	d := Defaults()

	m.Logo.Width = or(m.Logo.Width, d.Logo.Width)
	m.Logo.Height = or(m.Logo.Height, d.Logo.Height)
	m.Logo.ObjectFit = or(m.Logo.ObjectFit, d.Logo.ObjectFit)

	m.Background = m.Background.Merge(d.Background)
	m.Container = m.Container.Merge(d.Container)
	m.Border = m.Border.Merge(d.Border)
	m.Text = m.Text.Merge(d.Text)
	m.Button = m.Button.Merge(d.Button)
	m.ButtonText = m.ButtonText.Merge(d.ButtonText)
	m.ButtonBorder = m.ButtonBorder.Merge(d.ButtonBorder)

	m.ButtonBorderWidth = or(m.ButtonBorderWidth, d.ButtonBorderWidth)
	m.ButtonBorderRadius = or(m.ButtonBorderRadius, d.ButtonBorderRadius)
	m.ButtonPadding = m.ButtonPadding.Merge(d.ButtonPadding)
	m.ButtonMargin = m.ButtonMargin.Merge(d.ButtonMargin)
	m.ButtonWidth = or(m.ButtonWidth, d.ButtonWidth)
	return m
}

// Merge overlays the non-empty sides of s on top of base.
func (s Sides) Merge(def Sides) Sides {
	return Sides{
		Top:    or(s.Top, def.Top),
		Right:  or(s.Right, def.Right),
		Bottom: or(s.Bottom, def.Bottom),
		Left:   or(s.Left, def.Left),
	}
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

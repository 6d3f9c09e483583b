package model

// Color is one entry of the project colour palette. Value is what gets
// stored on a project; Hex is used when rendering in a terminal.
type Color struct {
	Name  string
	Value string
	Hex   string
}

var Palette = []Color{
	{Name: "Teal", Value: "hsl(170 70% 50%)", Hex: "#26D9BB"},
	{Name: "Blue", Value: "hsl(210 85% 65%)", Hex: "#5CA6F0"},
	{Name: "Purple", Value: "hsl(260 70% 70%)", Hex: "#A68AE6"},
	{Name: "Pink", Value: "hsl(330 80% 70%)", Hex: "#F085BA"},
	{Name: "Red", Value: "hsl(0 78% 60%)", Hex: "#EB5757"},
	{Name: "Orange", Value: "hsl(30 88% 60%)", Hex: "#F59A3D"},
	{Name: "Yellow", Value: "hsl(45 90% 55%)", Hex: "#F5C623"},
	{Name: "Green", Value: "hsl(130 65% 55%)", Hex: "#4CD764"},
	{Name: "Gray", Value: "hsl(210 15% 65%)", Hex: "#9CA6B0"},
}

var DefaultColor = Palette[0]

// LookupColor finds a palette entry by stored value, name or hex.
func LookupColor(v string) (Color, bool) {
	for _, c := range Palette {
		if c.Value == v || c.Name == v || c.Hex == v {
			return c, true
		}
	}
	return Color{}, false
}

// HexFor returns a terminal colour for a stored project colour. Unknown
// values are passed through so hand-edited hex colours still render.
func HexFor(v string) string {
	if c, ok := LookupColor(v); ok {
		return c.Hex
	}
	if v == "" {
		return DefaultColor.Hex
	}
	return v
}

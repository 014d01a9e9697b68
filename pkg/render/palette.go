package render

import "golang.org/x/exp/constraints"

// Palette is shared by every chart on a page
var Palette = [...]string{
	"#0088FE",
	"#00C49F",
	"#FFBB28",
	"#FF8042",
	"#8884D8",
	"#82CA9D",
}

// PaletteSize is the number of distinct palette colors
const PaletteSize = len(Palette)

// ColorAt returns the palette color for a position, wrapping around the palette
func ColorAt(index int) string {
	return Palette[wrap(index, PaletteSize)]
}

func wrap[T constraints.Integer](i, n T) T {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// Package palette holds the fixed table of named shirt colors and the RGB
// triple used everywhere else in teestudio.
package palette

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	apierrors "github.com/diogo/teestudio/internal/errors"
)

// RGB is a color with red, green and blue channels in [0,1]. There is no alpha.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// White is the color every shirt starts with.
var White = RGB{R: 1, G: 1, B: 1}

// New returns an RGB with every channel clamped to [0,1].
func New(r, g, b float64) RGB {
	return RGB{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
}

// FromBytes normalizes 0-255 channels, the range color pickers work in.
func FromBytes(r, g, b uint8) RGB {
	return RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// FromColorful converts a go-colorful color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) RGB {
	c = c.Clamped()
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Colorful returns the go-colorful representation of c.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Hex renders c as #rrggbb.
func (c RGB) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// Bytes returns the 0-255 channels of c.
func (c RGB) Bytes() (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

// ApproxEqual reports whether every channel of c and o differs by at most eps.
func (c RGB) ApproxEqual(o RGB, eps float64) bool {
	return math.Abs(c.R-o.R) <= eps && math.Abs(c.G-o.G) <= eps && math.Abs(c.B-o.B) <= eps
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%.2f, %.2f, %.2f)", c.R, c.G, c.B)
}

// Entry is one named color of the table.
type Entry struct {
	Name  string `json:"name"`
	Value RGB    `json:"value"`
}

// Table is the ordered color table. Order is match priority: multi-word names
// sit in front of the single words they contain.
var Table = []Entry{
	{"sky blue", RGB{0.53, 0.81, 0.92}},
	{"navy blue", RGB{0.0, 0.0, 0.5}},
	{"royal blue", RGB{0.25, 0.41, 0.88}},
	{"forest green", RGB{0.13, 0.55, 0.13}},
	{"hot pink", RGB{1.0, 0.41, 0.71}},
	{"red", RGB{0.8, 0.1, 0.1}},
	{"blue", RGB{0.1, 0.3, 0.8}},
	{"green", RGB{0.1, 0.6, 0.2}},
	{"yellow", RGB{0.95, 0.85, 0.1}},
	{"orange", RGB{1.0, 0.55, 0.0}},
	{"purple", RGB{0.5, 0.2, 0.7}},
	{"pink", RGB{1.0, 0.6, 0.75}},
	{"black", RGB{0.0, 0.0, 0.0}},
	{"white", RGB{1.0, 1.0, 1.0}},
	{"gray", RGB{0.5, 0.5, 0.5}},
	{"grey", RGB{0.5, 0.5, 0.5}},
	{"brown", RGB{0.45, 0.3, 0.15}},
	{"navy", RGB{0.0, 0.0, 0.5}},
	{"teal", RGB{0.0, 0.5, 0.5}},
	{"maroon", RGB{0.5, 0.0, 0.0}},
	{"burgundy", RGB{0.5, 0.0, 0.13}},
	{"beige", RGB{0.96, 0.96, 0.86}},
	{"cream", RGB{1.0, 0.99, 0.82}},
	{"khaki", RGB{0.76, 0.69, 0.57}},
	{"cyan", RGB{0.0, 0.8, 0.8}},
	{"magenta", RGB{0.8, 0.0, 0.8}},
	{"gold", RGB{1.0, 0.84, 0.0}},
	{"silver", RGB{0.75, 0.75, 0.75}},
	{"olive", RGB{0.5, 0.5, 0.0}},
	{"lime", RGB{0.5, 1.0, 0.0}},
	{"mint", RGB{0.6, 1.0, 0.8}},
	{"lavender", RGB{0.9, 0.9, 0.98}},
	{"coral", RGB{1.0, 0.5, 0.31}},
	{"turquoise", RGB{0.25, 0.88, 0.82}},
}

var index = func() map[string]int {
	m := make(map[string]int, len(Table))
	for i, e := range Table {
		m[e.Name] = i
	}
	return m
}()

// Lookup finds a table entry by name, case-insensitively.
func Lookup(name string) (Entry, bool) {
	i, ok := index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return Table[i], true
}

// Names returns the table names in priority order.
func Names() []string {
	names := make([]string, len(Table))
	for i, e := range Table {
		names[i] = e.Name
	}
	return names
}

var hexPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !hexPattern.MatchString(s) {
		return RGB{}, apierrors.NewColorError(s)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, apierrors.NewColorError(s)
	}
	return FromColorful(c), nil
}

// Nearest returns the table entry perceptually closest to c.
func Nearest(c RGB) Entry {
	target := c.Colorful()
	best := Table[0]
	bestDist := math.Inf(1)
	for _, e := range Table {
		d := target.DistanceLab(e.Value.Colorful())
		if d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func toByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// Package category maps genre names to coarse display categories and
// assigns each category a color scheme.
//
// A [Lookup] is built once, usually at startup, and passed explicitly to the
// builder, the anchor generator and renderers:
//
//	cats := category.Default()
//	cats.Category("Lo-Fi")      // "Electronic & Dance"
//	cats.Color("Electronic & Dance") // "#00D9FF"
//
// Tables can also be loaded from TOML with [LoadFile]:
//
//	[[category]]
//	name = "Hip Hop & Rap"
//	color = "#FF6B35"
//	genres = ["hip hop", "rap", "trap"]
//
// Categories without a configured color get a generated one, spread evenly
// around the HSV hue circle.
package category

import (
	_ "embed"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
)

// Other is the fallback category for genres missing from the table.
const Other = "Specialty & Other"

// Variant blend factors for Light and Dark.
const (
	lightBlend = 0.35
	darkBlend  = 0.3
)

//go:embed categories.toml
var builtinTable []byte

var separators = regexp.MustCompile(`[-\s]+`)

// Category is one entry of a category table.
type Category struct {
	Name   string   `toml:"name" json:"name"`
	Color  string   `toml:"color,omitempty" json:"color,omitempty"`
	Genres []string `toml:"genres" json:"genres"`
}

// Table is the TOML document shape read by LoadFile and Parse.
type Table struct {
	Categories []Category `toml:"category"`
}

// Scheme is the color family of one category.
type Scheme struct {
	Primary string `json:"primary"`
	Light   string `json:"light"`
	Dark    string `json:"dark"`
}

// Lookup resolves genres to categories. A nil *Lookup is valid and maps
// every genre to Other.
type Lookup struct {
	byGenre map[string]string
	genres  map[string][]string
	order   []string
	schemes map[string]Scheme
}

// New builds a lookup from categories. Category order is preserved and
// Other is appended when absent. Later entries for an already-mapped genre
// are ignored.
func New(categories []Category) *Lookup {
	l := &Lookup{
		byGenre: make(map[string]string),
		genres:  make(map[string][]string),
		schemes: make(map[string]Scheme),
	}
	colors := make(map[string]string)
	for _, c := range categories {
		if c.Name == "" {
			continue
		}
		if _, seen := l.genres[c.Name]; !seen {
			l.order = append(l.order, c.Name)
			l.genres[c.Name] = nil
		}
		if c.Color != "" && colors[c.Name] == "" {
			colors[c.Name] = c.Color
		}
		for _, g := range c.Genres {
			key := Normalize(g)
			if key == "" {
				continue
			}
			if _, dup := l.byGenre[key]; dup {
				continue
			}
			l.byGenre[key] = c.Name
			l.genres[c.Name] = append(l.genres[c.Name], g)
		}
	}
	if _, ok := l.genres[Other]; !ok {
		l.order = append(l.order, Other)
		l.genres[Other] = nil
	}

	for i, name := range l.order {
		base, err := colorful.Hex(colors[name])
		if err != nil {
			base = generated(i, len(l.order))
		}
		l.schemes[name] = schemeFor(base)
	}
	return l
}

// Default returns the built-in table.
func Default() *Lookup {
	l, err := Parse(builtinTable)
	if err != nil {
		panic(fmt.Sprintf("category: built-in table: %v", err))
	}
	return l
}

// Parse decodes a TOML category table.
func Parse(data []byte) (*Lookup, error) {
	var t Table
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse category table: %w", err)
	}
	return New(t.Categories), nil
}

// LoadFile reads a TOML category table from disk.
func LoadFile(path string) (*Lookup, error) {
	var t Table
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("load category table %s: %w", path, err)
	}
	return New(t.Categories), nil
}

// Normalize lower-cases and trims s and collapses runs of dashes and
// whitespace into a single space.
func Normalize(s string) string {
	return separators.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Category returns the category of genre, or Other.
func (l *Lookup) Category(genre string) string {
	if l == nil {
		return Other
	}
	if c, ok := l.byGenre[Normalize(genre)]; ok {
		return c
	}
	return Other
}

// Categories returns all category names in table order. Other is last
// unless the table placed it explicitly.
func (l *Lookup) Categories() []string {
	if l == nil {
		return []string{Other}
	}
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Genres returns the genres configured for category, in table order.
func (l *Lookup) Genres(category string) []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.genres[category]))
	copy(out, l.genres[category])
	return out
}

// Scheme returns the color scheme of category, falling back to Other.
func (l *Lookup) Scheme(category string) Scheme {
	if l == nil {
		return schemeFor(colorful.Color{R: 0.5, G: 0.5, B: 0.5})
	}
	if s, ok := l.schemes[category]; ok {
		return s
	}
	return l.schemes[Other]
}

// Color returns the primary hex color of category.
func (l *Lookup) Color(category string) string { return l.Scheme(category).Primary }

// Light returns the light variant of category's color.
func (l *Lookup) Light(category string) string { return l.Scheme(category).Light }

// Dark returns the dark variant of category's color.
func (l *Lookup) Dark(category string) string { return l.Scheme(category).Dark }

func schemeFor(base colorful.Color) Scheme {
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{}
	return Scheme{
		Primary: base.Hex(),
		Light:   base.BlendLab(white, lightBlend).Clamped().Hex(),
		Dark:    base.BlendLab(black, darkBlend).Clamped().Hex(),
	}
}

func generated(i, n int) colorful.Color {
	if n <= 0 {
		n = 1
	}
	hue := math.Mod(float64(i)*360/float64(n), 360)
	return colorful.Hsv(hue, 0.65, 0.9)
}

// Package widget lays out and renders the day counter over a background.
package widget

import "strings"

// Family names a widget size.
type Family string

const (
	FamilySmall  Family = "small"
	FamilyMedium Family = "medium"
	FamilyLarge  Family = "large"
)

// DefaultFamily is used for unknown family names.
const DefaultFamily = FamilyMedium

// Config holds the logical size and typography of a widget family.
// All lengths are in logical pixels and are multiplied by the render scale.
type Config struct {
	Family     Family
	Width      int
	Height     int
	TitleSize  float64
	NumberSize float64
	UnitSize   float64
	Padding    float64
	Spacing    float64
}

var families = map[Family]Config{
	FamilySmall:  {Family: FamilySmall, Width: 155, Height: 155, TitleSize: 11, NumberSize: 32, UnitSize: 10, Padding: 12, Spacing: 4},
	FamilyMedium: {Family: FamilyMedium, Width: 329, Height: 155, TitleSize: 14, NumberSize: 48, UnitSize: 12, Padding: 16, Spacing: 6},
	FamilyLarge:  {Family: FamilyLarge, Width: 329, Height: 345, TitleSize: 16, NumberSize: 64, UnitSize: 14, Padding: 20, Spacing: 8},
}

// Families lists the known families from smallest to largest.
func Families() []Family {
	return []Family{FamilySmall, FamilyMedium, FamilyLarge}
}

// ParseFamily normalises name. ok is false when name is not a known family,
// in which case DefaultFamily is returned.
func ParseFamily(name string) (Family, bool) {
	f := Family(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := families[f]; ok {
		return f, true
	}
	return DefaultFamily, false
}

// ConfigFor returns the layout for f, falling back to DefaultFamily.
func ConfigFor(f Family) Config {
	if c, ok := families[f]; ok {
		return c
	}
	return families[DefaultFamily]
}

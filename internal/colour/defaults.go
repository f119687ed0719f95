package colour

import "math/rand/v2"

// DefaultPalettes are used when no palette has been stored.
var DefaultPalettes = []Palette{
	{MustParseHex("#EE7B94"), MustParseHex("#7BC2EE")},
	{MustParseHex("#FFFDF8"), MustParseHex("#F5FAFF"), MustParseHex("#0047FF"), MustParseHex("#00AFFF")},
	{MustParseHex("#5FE387"), MustParseHex("#00A0FC"), MustParseHex("#AE6DD7"), MustParseHex("#FF6892"), MustParseHex("#E3C95F")},
}

// RandomDefault picks one of DefaultPalettes uniformly. A nil rng uses the
// global source.
func RandomDefault(rng *rand.Rand) Palette {
	var i int
	if rng == nil {
		i = rand.IntN(len(DefaultPalettes))
	} else {
		i = rng.IntN(len(DefaultPalettes))
	}
	return DefaultPalettes[i].Clone()
}

// IsDefault reports whether p equals one of DefaultPalettes.
func IsDefault(p Palette) bool {
	for _, d := range DefaultPalettes {
		if len(d) != len(p) {
			continue
		}
		same := true
		for i := range d {
			if d[i] != p[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

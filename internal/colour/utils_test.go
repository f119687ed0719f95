package colour

import (
	"math"
	"testing"
)

func TestRGBToHSL(t *testing.T) {
	tests := []struct {
		hex  string
		want HSL
	}{
		{"#ff0000", HSL{H: 0, S: 100, L: 50}},
		{"#00ff00", HSL{H: 120, S: 100, L: 50}},
		{"#0000ff", HSL{H: 240, S: 100, L: 50}},
		{"#ffffff", HSL{H: 0, S: 0, L: 100}},
		{"#000000", HSL{H: 0, S: 0, L: 0}},
		{"#808080", HSL{H: 0, S: 0, L: 50}},
		{"#ee7b94", HSL{H: 347, S: 77, L: 71}},
		{"#7bc2ee", HSL{H: 203, S: 77, L: 71}},
		{"#c89664", HSL{H: 30, S: 48, L: 59}},
		// Hue rounds up to 360 and wraps.
		{"#ff0001", HSL{H: 0, S: 100, L: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got := RGBToHSL(MustParseHex(tt.hex))
			if got != tt.want {
				t.Errorf("RGBToHSL(%s) = %+v, want %+v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    string
	}{
		{"red", 0, 100, 50, "#ff0000"},
		{"green", 120, 100, 50, "#00ff00"},
		{"blue", 240, 100, 50, "#0000ff"},
		{"white", 0, 0, 100, "#ffffff"},
		{"black", 0, 0, 0, "#000000"},
		{"wrap positive", 480, 100, 50, "#00ff00"},
		{"wrap negative", -120, 100, 50, "#0000ff"},
		{"clamp saturation", 0, 250, 50, "#ff0000"},
		{"clamp lightness", 200, 50, -10, "#000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSLToRGB(tt.h, tt.s, tt.l).Hex(); got != tt.want {
				t.Errorf("HSLToRGB(%v, %v, %v) = %s, want %s", tt.h, tt.s, tt.l, got, tt.want)
			}
		})
	}
}

func TestHSLRoundTripExact(t *testing.T) {
	for _, hex := range []string{"#ff0000", "#00ff00", "#0000ff", "#ffffff", "#000000", "#808080", "#ff0001"} {
		got := fromHSL(RGBToHSL(MustParseHex(hex))).Hex()
		want := hex
		if hex == "#ff0001" {
			want = "#ff0000"
		}
		if got != want {
			t.Errorf("round trip of %s = %s, want %s", hex, got, want)
		}
	}
}

func TestHSLRoundTripUnrounded(t *testing.T) {
	for r := 0; r <= 255; r += 17 {
		for g := 0; g <= 255; g += 15 {
			for b := 0; b <= 255; b += 51 {
				c := RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
				h, s, l := RGBToHSLFloat(c)
				back := HSLToRGB(h, s, l)
				if !withinChannel(c, back, 1) {
					t.Fatalf("unrounded round trip of %s = %s", c.Hex(), back.Hex())
				}
			}
		}
	}
}

func TestHSLRoundTripIntegerBound(t *testing.T) {
	// Integer HSL cannot represent every RGB colour; stay within a few levels.
	for r := 0; r <= 255; r += 5 {
		for g := 0; g <= 255; g += 5 {
			for b := 0; b <= 255; b += 5 {
				c := RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
				back := fromHSL(RGBToHSL(c))
				if !withinChannel(c, back, 3) {
					t.Fatalf("integer round trip of %s = %s", c.Hex(), back.Hex())
				}
			}
		}
	}
}

func fromHSL(c HSL) RGB {
	return HSLToRGB(float64(c.H), float64(c.S), float64(c.L))
}

func withinChannel(a, b RGB, tol int) bool {
	diff := func(x, y uint8) int {
		d := int(x) - int(y)
		if d < 0 {
			return -d
		}
		return d
	}
	return diff(a.R, b.R) <= tol && diff(a.G, b.G) <= tol && diff(a.B, b.B) <= tol
}

func TestDistance(t *testing.T) {
	black := MustParseHex("#000000")
	white := MustParseHex("#ffffff")

	if d := Distance(black, black); d != 0 {
		t.Errorf("Distance(black, black) = %v, want 0", d)
	}
	if d := Distance(black, white); math.Abs(d-441.67) > 0.01 {
		t.Errorf("Distance(black, white) = %v, want ~441.67", d)
	}
	if d := Distance(MustParseHex("#000000"), MustParseHex("#030400")); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if Distance(black, white) != Distance(white, black) {
		t.Error("Distance is not symmetric")
	}
}

package prefs

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmylchreest/daycount/internal/colour"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    string
	}{
		{name: "missing", want: DefaultTitle},
		{name: "blank", content: ptr("   \n"), want: DefaultTitle},
		{name: "trimmed", content: ptr("  Sober  \n"), want: "Sober"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != nil {
				writeFile(t, dir, TitleFile, *tt.content)
			}
			if got := NewStore(dir, nil).Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetTitle(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested"), nil)
	if err := s.SetTitle("Together"); err != nil {
		t.Fatal(err)
	}
	if got := s.Title(); got != "Together" {
		t.Errorf("Title() = %q", got)
	}
	if err := s.SetTitle("  "); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(s.Dir(), TitleFile))
	if string(data) != DefaultTitle {
		t.Errorf("stored title = %q, want %q", data, DefaultTitle)
	}
}

func TestStartDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		content *string
		want    time.Time
	}{
		{name: "missing", want: now},
		{name: "invalid", content: ptr("yesterday"), want: now},
		{name: "iso with millis", content: ptr("2024-02-29T16:00:00.000Z"), want: time.Date(2024, 2, 29, 16, 0, 0, 0, time.UTC)},
		{name: "rfc3339 offset", content: ptr("2024-02-29T16:00:00+08:00"), want: time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC)},
		{name: "date only", content: ptr("2024-02-29\n"), want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != nil {
				writeFile(t, dir, StartDateFile, *tt.content)
			}
			if got := NewStore(dir, nil).StartDate(now); !got.Equal(tt.want) {
				t.Errorf("StartDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetStartDate(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	date := time.Date(2023, 7, 4, 9, 30, 15, 123456789, time.FixedZone("X", 2*3600))
	if err := s.SetStartDate(date); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), StartDateFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "2023-07-04T07:30:15.123Z" {
		t.Errorf("stored date = %q", data)
	}
	if got := s.StartDate(time.Now()); !got.Equal(date.Truncate(time.Millisecond)) {
		t.Errorf("StartDate() = %v", got)
	}
}

func TestPalette(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		wantOK  bool
		want    []string
	}{
		{name: "missing"},
		{name: "not an array", content: ptr(`"not-an-array"`)},
		{name: "empty array", content: ptr(`[]`)},
		{name: "single colour", content: ptr(`["#ff0000"]`)},
		{name: "invalid hex", content: ptr(`["#ff0000","blue"]`)},
		{name: "malformed json", content: ptr(`["#ff0000",`)},
		{name: "valid", content: ptr(`["#FF4D73","#4dbbff","#463939"]`), wantOK: true, want: []string{"#ff4d73", "#4dbbff", "#463939"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != nil {
				writeFile(t, dir, PaletteFile, *tt.content)
			}
			got, ok := NewStore(dir, nil).Palette()
			if ok != tt.wantOK {
				t.Fatalf("Palette() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			for i, h := range got.Hex() {
				if h != tt.want[i] {
					t.Errorf("Palette()[%d] = %s, want %s", i, h, tt.want[i])
				}
			}
		})
	}
}

func TestSetPalette(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	p := colour.Palette{colour.MustParseHex("#EE7B94"), colour.MustParseHex("#7BC2EE")}
	if err := s.SetPalette(p); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(s.Dir(), PaletteFile))
	if string(data) != `["#ee7b94","#7bc2ee"]` {
		t.Errorf("stored palette = %s", data)
	}
	got, ok := s.Palette()
	if !ok || len(got) != 2 || got[0] != p[0] {
		t.Errorf("Palette() = %v, %v", got, ok)
	}

	if err := s.SetPalette(p[:1]); err == nil {
		t.Error("SetPalette() accepted a single colour")
	}

	if err := s.ClearPalette(); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Palette(); ok {
		t.Error("Palette() still present after ClearPalette()")
	}
	if err := s.ClearPalette(); err != nil {
		t.Errorf("ClearPalette() of missing file: %v", err)
	}
}

func TestResolvePalette(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PaletteFile, `"not-an-array"`)
	s := NewStore(dir, nil)

	rng := rand.New(rand.NewPCG(7, 7))
	for range 20 {
		if p := s.ResolvePalette(rng); !colour.IsDefault(p) {
			t.Fatalf("ResolvePalette() = %v, want a default palette", p.Hex())
		}
	}

	writeFile(t, dir, PaletteFile, `["#111111","#eeeeee"]`)
	if got := s.ResolvePalette(rng).Hex(); len(got) != 2 || got[0] != "#111111" {
		t.Errorf("ResolvePalette() = %v, want stored palette", got)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	dir, err := DefaultDir()
	if err != nil || dir != filepath.Join("/data", "daycount") {
		t.Errorf("DefaultDir() = %q, %v", dir, err)
	}

	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/tester")
	dir, err = DefaultDir()
	if err != nil || dir != filepath.Join("/home/tester", ".local", "share", "daycount") {
		t.Errorf("DefaultDir() = %q, %v", dir, err)
	}
}

func ptr(s string) *string { return &s }

package cli

import (
	"strings"
	"testing"

	"github.com/jmylchreest/daycount/internal/colour"
)

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"Name", "Value"})
	table.AddRow([]string{"Title", "Day"})
	table.AddRow([]string{"Start date", "2024-01-01"})
	table.AddRow([]string{"Short"})

	want := strings.Join([]string{
		"Name        Value",
		"----------  ----------",
		"Title       Day",
		"Start date  2024-01-01",
		"Short",
		"",
	}, "\n")
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Render() with no headers = %q", got)
	}
	if got := NewTable([]string{"A"}).Render(); got != "A\n-\n" {
		t.Errorf("Render() with no rows = %q", got)
	}
}

func TestTableIgnoresANSI(t *testing.T) {
	swatch := colour.FormatColourWithPreview(colour.MustParseHex("#ff0000"), 2)
	table := NewTable([]string{"Colour", "Note"})
	table.AddRow([]string{swatch, "red"})
	table.AddRow([]string{"plain", "x"})

	lines := strings.Split(table.Render(), "\n")
	noteCol := strings.Index(lines[0], "Note")
	if got := displayWidth(lines[2][:strings.LastIndex(lines[2], "red")]); got != noteCol {
		t.Errorf("swatch row note column = %d, want %d", got, noteCol)
	}
	if got := strings.Index(lines[3], "x"); got != noteCol {
		t.Errorf("plain row note column = %d, want %d", got, noteCol)
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"…", 1},
		{"\x1b[48;2;1;2;3m  \x1b[0m #010203", 10},
	}
	for _, tt := range tests {
		if got := displayWidth(tt.in); got != tt.want {
			t.Errorf("displayWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

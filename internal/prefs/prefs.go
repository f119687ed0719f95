// Package prefs persists the widget title, start date and palette as small
// files in a data directory.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/daycount/internal/colour"
)

// File names inside the data directory.
const (
	TitleFile     = "widget-title.txt"
	StartDateFile = "widget-start-date.txt"
	PaletteFile   = "widget-colors.json"
)

// DefaultTitle is used when no title has been stored.
const DefaultTitle = "Day"

// DateLayout is the layout start dates are written in.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Store reads and writes preferences in a directory.
type Store struct {
	dir    string
	logger hclog.Logger
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{dir: dir, logger: logger}
}

// DefaultDir returns $XDG_DATA_HOME/daycount, falling back to
// ~/.local/share/daycount.
func DefaultDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "daycount"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine data directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "daycount"), nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Title returns the stored title, or DefaultTitle when it is missing,
// blank or unreadable.
func (s *Store) Title() string {
	data, err := s.read(TitleFile)
	if err != nil {
		return DefaultTitle
	}
	if title := strings.TrimSpace(string(data)); title != "" {
		return title
	}
	return DefaultTitle
}

// SetTitle stores title. A blank title stores DefaultTitle.
func (s *Store) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return s.write(TitleFile, []byte(title))
}

// StartDate returns the stored start date, or now when it is missing or
// invalid.
func (s *Store) StartDate(now time.Time) time.Time {
	data, err := s.read(StartDateFile)
	if err != nil {
		return now
	}
	t, err := ParseDate(string(data))
	if err != nil {
		s.logger.Warn("ignoring invalid start date", "error", err)
		return now
	}
	return t
}

// SetStartDate stores t in UTC with millisecond precision.
func (s *Store) SetStartDate(t time.Time) error {
	return s.write(StartDateFile, []byte(t.UTC().Format(DateLayout)))
}

// ParseDate accepts RFC 3339 timestamps with or without fractional
// seconds, local date-times and plain YYYY-MM-DD dates in local time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// Palette returns the stored palette. ok is false when the file is
// missing, is not a JSON array of valid hex colours, or holds fewer than
// two colours.
func (s *Store) Palette() (colour.Palette, bool) {
	data, err := s.read(PaletteFile)
	if err != nil {
		return nil, false
	}
	var p colour.Palette
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("ignoring invalid stored palette", "error", err)
		return nil, false
	}
	if err := p.Validate(); err != nil {
		s.logger.Warn("ignoring stored palette", "error", err)
		return nil, false
	}
	return p, true
}

// ResolvePalette returns the stored palette or, when none is usable, a
// random built-in palette.
func (s *Store) ResolvePalette(rng *rand.Rand) colour.Palette {
	if p, ok := s.Palette(); ok {
		return p
	}
	return colour.RandomDefault(rng)
}

// SetPalette stores p as a JSON array of hex strings.
func (s *Store) SetPalette(p colour.Palette) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	return s.write(PaletteFile, data)
}

// ClearPalette removes the stored palette.
func (s *Store) ClearPalette() error {
	err := os.Remove(filepath.Join(s.dir, PaletteFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove palette: %w", err)
	}
	return nil
}

func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name)) // #nosec G304 - Path inside the data directory
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to read preference", "file", name, "error", err)
		}
		return nil, err
	}
	return data, nil
}

func (s *Store) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil { // #nosec G301 - Data directory needs standard permissions
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - Preference files need standard read permissions
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	s.logger.Debug("preference saved", "file", name)
	return nil
}

package compression

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"

	"github.com/jmylchreest/daycount/internal/security"
)

func readZip(data []byte, match func(string) bool) ([]File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("failed to create zip reader: %w", err)
	}

	var files []File
	for _, f := range zr.File {
		if !f.Mode().IsRegular() {
			continue
		}
		if security.ValidateArchiveEntry(f.Name) != nil || !match(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		content, err := readLimited(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		files = append(files, File{Name: f.Name, Data: content})
	}
	return files, nil
}

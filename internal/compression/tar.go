package compression

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"

	"github.com/jmylchreest/daycount/internal/security"
)

func readTar(r io.Reader, match func(string) bool) ([]File, error) {
	tr := tar.NewReader(r)

	var files []File
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar archive: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if security.ValidateArchiveEntry(header.Name) != nil || !match(header.Name) {
			continue
		}

		data, err := readLimited(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		files = append(files, File{Name: header.Name, Data: data})
	}
	return files, nil
}

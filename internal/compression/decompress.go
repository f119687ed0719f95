package compression

import (
	"fmt"
	"path/filepath"
)

// decompressFile decompresses a single gzip, xz or bzip2 file.
func decompressFile(format Format, data []byte, name string, match func(string) bool) ([]File, error) {
	name = filepath.Base(name)
	if !match(name) {
		return nil, nil
	}

	r, closer, err := decompressor(format, data)
	if err != nil {
		return nil, err
	}
	defer closer()

	content, err := readLimited(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", name, err)
	}
	return []File{{Name: name, Data: content}}, nil
}

// Package compression reads files out of photo bundles: zip and tar
// archives (plain, gzip, xz or bzip2 compressed) and single compressed
// files.
package compression

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/daycount/internal/security"
)

// MaxFileSize bounds the decompressed size of a single member.
const MaxFileSize = 64 << 20

// ErrUnsupported is returned for names that carry no known archive suffix.
var ErrUnsupported = errors.New("unsupported archive format")

// File is a decompressed archive member.
type File struct {
	Name string
	Data []byte
}

// Format identifies a bundle layout.
type Format int

const (
	FormatNone Format = iota
	FormatZip
	FormatTar
	FormatTarGz
	FormatTarXz
	FormatTarBz2
	FormatGz
	FormatXz
	FormatBz2
)

var suffixes = []struct {
	suffix string
	format Format
}{
	{".tar.gz", FormatTarGz},
	{".tgz", FormatTarGz},
	{".tar.xz", FormatTarXz},
	{".txz", FormatTarXz},
	{".tar.bz2", FormatTarBz2},
	{".tbz2", FormatTarBz2},
	{".tbz", FormatTarBz2},
	{".tar", FormatTar},
	{".zip", FormatZip},
	{".gz", FormatGz},
	{".xz", FormatXz},
	{".bz2", FormatBz2},
}

// DetectFormat returns the bundle format implied by name's suffix and the
// name with that suffix removed.
func DetectFormat(name string) (Format, string) {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format, name[:len(name)-len(s.suffix)]
		}
	}
	return FormatNone, name
}

// IsArchive reports whether name has a supported bundle suffix.
func IsArchive(name string) bool {
	f, _ := DetectFormat(name)
	return f != FormatNone
}

// ReadFiles returns every regular member of the bundle whose name satisfies
// match. A nil match accepts every member. Single compressed files yield
// one member named after the bundle without its compression suffix.
func ReadFiles(data []byte, name string, match func(string) bool) ([]File, error) {
	if match == nil {
		match = func(string) bool { return true }
	}

	format, base := DetectFormat(name)
	switch format {
	case FormatZip:
		return readZip(data, match)
	case FormatTar:
		return readTar(bytes.NewReader(data), match)
	case FormatTarGz, FormatTarXz, FormatTarBz2:
		r, closer, err := decompressor(format, data)
		if err != nil {
			return nil, err
		}
		defer closer()
		return readTar(r, match)
	case FormatGz, FormatXz, FormatBz2:
		return decompressFile(format, data, base, match)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

// decompressor returns a reader over the decompressed stream.
func decompressor(format Format, data []byte) (io.Reader, func(), error) {
	src := bytes.NewReader(data)
	switch format {
	case FormatTarGz, FormatGz:
		gzr, err := gzip.NewReader(src)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzr, func() { _ = gzr.Close() }, nil
	case FormatTarXz, FormatXz:
		xzr, err := xz.NewReader(src)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzr, func() {}, nil
	case FormatTarBz2, FormatBz2:
		return bzip2.NewReader(src), func() {}, nil
	default:
		return nil, nil, ErrUnsupported
	}
}

// readLimited reads r fully, failing once MaxFileSize is exceeded.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(security.NewLimitedReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFileSize {
		return nil, security.ErrSizeLimit
	}
	return data, nil
}

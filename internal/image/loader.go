// Package image loads the photos that palettes are extracted from.
package image

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/daycount/internal/compression"
	"github.com/jmylchreest/daycount/internal/security"
	httputil "github.com/jmylchreest/daycount/internal/util/http"
	"github.com/jmylchreest/daycount/internal/util/imagecache"
)

// Loader loads a single raster image.
type Loader interface {
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load decodes a local file. Supported formats: JPEG, PNG, GIF, WebP.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	if compression.IsArchive(path) {
		return DecodeBundle(data, path)
	}
	return Decode(data)
}

// DecodeBundle decodes a random image from the archive data named name.
func DecodeBundle(data []byte, name string) (image.Image, error) {
	files, err := compression.ReadFiles(data, name, isImageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported image files found in archive: %s", name)
	}
	idx, err := randomIndex(len(files))
	if err != nil {
		return nil, err
	}
	return Decode(files[idx].Data)
}

// Decode decodes image bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// SmartLoader loads images from local files, directories and archives (a
// random image is picked) and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader *FileLoader

	// CacheDir, when set, caches downloaded images there and reuses them.
	CacheDir string

	// BlockPrivateHosts rejects URLs pointing at loopback or private
	// network addresses.
	BlockPrivateHosts bool
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{fileLoader: NewFileLoader()}
}

// Load implements Loader.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if IsURL(path) {
		return l.loadFromURL(ctx, path)
	}

	resolved, err := ResolveImagePath(path)
	if err != nil {
		return nil, err
	}
	return l.fileLoader.Load(ctx, resolved)
}

func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if err := security.ValidateHTTPURL(url, !l.BlockPrivateHosts); err != nil {
		return nil, err
	}

	if l.CacheDir != "" {
		cached, err := imagecache.DownloadAndCache(ctx, url, imagecache.CacheOptions{CacheDir: l.CacheDir})
		if err != nil {
			return nil, err
		}
		if name := urlPath(url); compression.IsArchive(name) {
			data, err := os.ReadFile(cached) // #nosec G304 - Path inside the image cache
			if err != nil {
				return nil, fmt.Errorf("failed to read cached archive: %w", err)
			}
			return DecodeBundle(data, name)
		}
		return l.fileLoader.Load(ctx, cached)
	}

	data, err := httputil.Fetch(ctx, url, httputil.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	if name := urlPath(url); compression.IsArchive(name) {
		return DecodeBundle(data, name)
	}
	return Decode(data)
}

// urlPath returns the path of url without query or fragment.
func urlPath(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return url
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ScanDirectoryForImages returns the image files directly inside dirPath.
// Symlinks are followed; subdirectories are not.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}
	return imageFiles, nil
}

// ResolveImagePath returns path for files and a random image for
// directories.
func ResolveImagePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("image path cannot be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	imageFiles, err := ScanDirectoryForImages(path)
	if err != nil {
		return "", err
	}
	idx, err := randomIndex(len(imageFiles))
	if err != nil {
		return "", err
	}
	return imageFiles[idx], nil
}

func randomIndex(n int) (int, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return int(idx.Int64()), nil
}

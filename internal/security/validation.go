// Package security provides validation helpers for untrusted input: photo
// URLs, archive entries and the surface plugin binary.
package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path"
	"strings"
)

// ErrSizeLimit is returned by LimitedReader once its budget is spent.
var ErrSizeLimit = errors.New("decompression size limit exceeded")

// ValidateHTTPURL validates an HTTP(S) URL for downloads. When
// allowPrivate is false, loopback and private network hosts are rejected.
func ValidateHTTPURL(urlStr string, allowPrivate bool) error {
	if urlStr == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("only http:// and https:// URLs are allowed (got %q)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	host := strings.ToLower(parsed.Hostname())
	if !allowPrivate && IsLocalOrPrivateHost(host) {
		return fmt.Errorf("URL cannot point to local or private hosts: %s", host)
	}
	return nil
}

// IsLocalOrPrivateHost reports whether host is localhost or a loopback,
// private or link-local address.
func IsLocalOrPrivateHost(host string) bool {
	host = strings.Trim(host, "[]")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

// ValidateArchiveEntry rejects archive member names that are absolute or
// climb out of the archive root.
func ValidateArchiveEntry(name string) error {
	if name == "" {
		return fmt.Errorf("empty file path")
	}
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("absolute paths in archives are not allowed: %s", name)
	}
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("file path contains directory traversal: %s", name)
	}
	return nil
}

// ValidatePluginBinary checks that path is an executable regular file.
func ValidatePluginBinary(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("invalid plugin binary: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("plugin binary %s is not a regular file", path)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("plugin binary %s is not executable", path)
	}
	return nil
}

// FileChecksum returns the SHA-256 digest of the file at path.
func FileChecksum(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 - Plugin binary chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

// ParseChecksum decodes a hex SHA-256 digest.
func ParseChecksum(s string) ([]byte, error) {
	sum, err := hex.DecodeString(strings.TrimSpace(strings.TrimPrefix(s, "sha256:")))
	if err != nil {
		return nil, fmt.Errorf("invalid checksum: %w", err)
	}
	if len(sum) != sha256.Size {
		return nil, fmt.Errorf("invalid checksum: want %d bytes, got %d", sha256.Size, len(sum))
	}
	return sum, nil
}

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// This prevents decompression bomb attacks when reading archives.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		return 0, ErrSizeLimit
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}

package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFilename(t *testing.T) {
	a := Filename("https://example.com/a.jpg?size=large")
	if !strings.HasSuffix(a, ".jpg") || len(a) != 32+len(".jpg") {
		t.Errorf("Filename() = %q", a)
	}
	if Filename("https://example.com/a.jpg") == Filename("https://example.com/b.jpg") {
		t.Error("different URLs share a filename")
	}
	if got := Filename("https://example.com/photo"); !strings.HasSuffix(got, ".img") {
		t.Errorf("Filename() without extension = %q", got)
	}
}

func TestDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "nested")
	url := srv.URL + "/photo.png"

	path, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil {
		t.Fatalf("DownloadAndCache() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "image-bytes" {
		t.Fatalf("cached file = %q, %v", data, err)
	}

	if _, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	if _, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir, AllowOverwrite: true}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times after overwrite, want 2", hits.Load())
	}

	if _, err := DownloadAndCache(context.Background(), "file:///etc/passwd", CacheOptions{CacheDir: dir}); err == nil {
		t.Error("DownloadAndCache() accepted a non-HTTP URL")
	}
}

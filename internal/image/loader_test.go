package image

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, encodePNG(t, w, h), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "photo.png", 4, 3)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "png", path: path},
		{name: "empty path", path: "", wantErr: true},
		{name: "missing", path: filepath.Join(dir, "missing.png"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
		{name: "not an image", path: filepath.Join(dir, "notes.txt"), wantErr: true},
	}

	loader := NewFileLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := loader.Load(context.Background(), tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Errorf("bounds = %v", img.Bounds())
			}
		})
	}
}

func TestSmartLoaderDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 2, 2)
	writePNG(t, dir, "b.PNG", 2, 2)
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDirectoryForImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("ScanDirectoryForImages() = %v, want 2 files", files)
	}

	img, err := NewSmartLoader().Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load(dir) error: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	if _, err := ScanDirectoryForImages(t.TempDir()); err == nil {
		t.Error("ScanDirectoryForImages() of empty dir should fail")
	}
}

func TestSmartLoaderURL(t *testing.T) {
	data := encodePNG(t, 5, 5)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/photo.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	loader := NewSmartLoader()
	img, err := loader.Load(context.Background(), srv.URL+"/photo.png")
	if err != nil {
		t.Fatalf("Load(url) error: %v", err)
	}
	if img.Bounds().Dx() != 5 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if _, err := loader.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("Load() of a 404 should fail")
	}

	// Cached loads hit the server once.
	hits.Store(0)
	loader.CacheDir = t.TempDir()
	for range 2 {
		if _, err := loader.Load(context.Background(), srv.URL+"/photo.png"); err != nil {
			t.Fatalf("cached Load() error: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestIsURL(t *testing.T) {
	for path, want := range map[string]bool{
		"https://example.com/a.png": true,
		"http://example.com/a.png":  true,
		"/tmp/a.png":                false,
		"ftp://example.com/a.png":   false,
	} {
		if got := IsURL(path); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", path, got, want)
		}
	}
}

func writeZip(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSmartLoaderArchive(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "photos.zip")
	writeZip(t, bundle, map[string][]byte{
		"a.png":     encodePNG(t, 7, 7),
		"notes.txt": []byte("not an image"),
	})

	img, err := NewSmartLoader().Load(context.Background(), bundle)
	if err != nil {
		t.Fatalf("Load(archive) error: %v", err)
	}
	if img.Bounds().Dx() != 7 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	empty := filepath.Join(dir, "empty.zip")
	writeZip(t, empty, map[string][]byte{"notes.txt": []byte("text")})
	if _, err := NewSmartLoader().Load(context.Background(), empty); err == nil {
		t.Error("Load() of an archive without images should fail")
	}
}

func TestSmartLoaderArchiveURL(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "photos.zip")
	writeZip(t, bundle, map[string][]byte{"a.png": encodePNG(t, 4, 4)})
	data, err := os.ReadFile(bundle)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	for _, cacheDir := range []string{"", t.TempDir()} {
		loader := NewSmartLoader()
		loader.CacheDir = cacheDir
		img, err := loader.Load(context.Background(), srv.URL+"/photos.zip?v=1")
		if err != nil {
			t.Fatalf("Load(archive url, cache=%q) error: %v", cacheDir, err)
		}
		if img.Bounds().Dx() != 4 {
			t.Errorf("bounds = %v", img.Bounds())
		}
	}
}

func TestSmartLoaderBlockPrivateHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(encodePNG(t, 2, 2))
	}))
	defer srv.Close()

	loader := NewSmartLoader()
	loader.BlockPrivateHosts = true
	if _, err := loader.Load(context.Background(), srv.URL+"/photo.png"); err == nil {
		t.Error("Load() of a loopback URL should fail when private hosts are blocked")
	}
}

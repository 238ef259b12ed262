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

func TestCacheFilename(t *testing.T) {
	a := cacheFilename("https://example.com/a.JPG?size=large")
	if !strings.HasSuffix(a, ".jpg") || len(a) != 32+4 {
		t.Errorf("cacheFilename() = %q", a)
	}
	if cacheFilename("https://example.com/frame") == cacheFilename("https://example.com/other") {
		t.Error("different URLs should not collide")
	}
	if got := cacheFilename("https://example.com/frame"); !strings.HasSuffix(got, ".img") {
		t.Errorf("cacheFilename() without extension = %q", got)
	}
}

func TestDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("frame-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	url := server.URL + "/frame.png"

	path, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil {
		t.Fatalf("DownloadAndCache() error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("cached outside cache dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "frame-bytes" {
		t.Fatalf("cached contents = %q, %v", data, err)
	}

	again, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil || again != path {
		t.Fatalf("second DownloadAndCache() = %q, %v", again, err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	if _, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir, AllowOverwrite: true}); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times after overwrite, want 2", hits.Load())
	}
}

func TestDownloadAndCacheErrors(t *testing.T) {
	if _, err := DownloadAndCache(context.Background(), "ftp://example.com/a.png", CacheOptions{CacheDir: t.TempDir()}); err == nil {
		t.Error("expected error for non-HTTP URL")
	}

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	if _, err := DownloadAndCache(context.Background(), server.URL+"/a.png", CacheOptions{CacheDir: t.TempDir()}); err == nil {
		t.Error("expected error for 404")
	}
}

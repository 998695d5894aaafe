package update

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestHTTPDownloaderDownload_Success(t *testing.T) {
	testContent := []byte("apk content")

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(testContent)
	}))
	defer server.Close()

	dstPath := filepath.Join(t.TempDir(), "fennec.apk")

	downloader := NewHTTPDownloader(server.Client())
	if err := downloader.Download(context.Background(), server.URL+"/fennec.apk", dstPath); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	content, err := os.ReadFile(dstPath)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if !bytes.Equal(content, testContent) {
		t.Errorf("Content mismatch: got %s, want %s", content, testContent)
	}

	entries, _ := os.ReadDir(filepath.Dir(dstPath))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestHTTPDownloaderDownload_HTTPError(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	dstPath := filepath.Join(dir, "fennec.apk")

	err := NewHTTPDownloader(server.Client()).Download(context.Background(), server.URL, dstPath)
	if err == nil {
		t.Error("Expected error for 404 response")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should exist after failed download, found %v", entries)
	}
}

func TestHTTPDownloaderDownload_RequiresHTTPS(t *testing.T) {
	err := NewHTTPDownloader(nil).Download(context.Background(), "http://ftp.mozilla.org/x.apk", filepath.Join(t.TempDir(), "x.apk"))
	if err == nil {
		t.Error("Expected error for plain http url")
	}
}

func TestHTTPDownloaderDownload_InvalidDestination(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("test"))
	}))
	defer server.Close()

	err := NewHTTPDownloader(server.Client()).Download(context.Background(), server.URL, "/invalid/path/that/does/not/exist.apk")
	if err == nil {
		t.Error("Expected error for invalid destination path")
	}
}

func TestHTTPDownloaderProgress(t *testing.T) {
	content := bytes.Repeat([]byte("x"), 64*1024)

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		_, _ = w.Write(content)
	}))
	defer server.Close()

	var updates []Progress
	downloader := NewHTTPDownloader(server.Client()).WithProgress(func(p Progress) {
		updates = append(updates, p)
	})

	if err := downloader.Download(context.Background(), server.URL, filepath.Join(t.TempDir(), "x.apk")); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if len(updates) == 0 {
		t.Fatal("expected progress updates")
	}
	last := updates[len(updates)-1]
	if last.Percent != 100 || last.Downloaded != int64(len(content)) || last.Total != int64(len(content)) {
		t.Errorf("last progress = %+v, want 100%% of %d", last, len(content))
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].Percent <= updates[i-1].Percent {
			t.Errorf("progress not increasing: %+v then %+v", updates[i-1], updates[i])
		}
	}
}

func TestProgressReaderUnknownLength(t *testing.T) {
	var updates []Progress
	p := &progressReader{
		r:           bytes.NewReader(bytes.Repeat([]byte("x"), 3*mebibyte+10)),
		total:       -1,
		lastPercent: -1,
		onProgress:  func(pr Progress) { updates = append(updates, pr) },
	}

	buf := make([]byte, 64*1024)
	for {
		if _, err := p.Read(buf); err != nil {
			break
		}
	}

	if len(updates) != 3 {
		t.Fatalf("expected one update per MiB (3), got %d", len(updates))
	}
	for _, u := range updates {
		if u.Percent != -1 {
			t.Errorf("Percent = %d, want -1 when length unknown", u.Percent)
		}
	}
}

func TestFileName(t *testing.T) {
	url := "https://ftp.mozilla.org/pub/mobile/releases/68.7.0/android-api-16/multi/fennec-68.7.0.multi.android-arm.apk"
	if got := FileName(url); got != "fennec-68.7.0.multi.android-arm.apk" {
		t.Errorf("FileName() = %s", got)
	}
	if got := FileName("plain.apk"); got != "plain.apk" {
		t.Errorf("FileName() = %s", got)
	}
}

package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Progress reports download progress. Percent is -1 when the server sent
// no content length.
type Progress struct {
	Percent    int
	Downloaded int64
	Total      int64
}

// ProgressFunc receives progress updates. It is called whenever the
// percentage changes, or every MiB when the length is unknown.
type ProgressFunc func(Progress)

// HTTPDownloader downloads APKs over HTTPS
type HTTPDownloader struct {
	client     *http.Client
	onProgress ProgressFunc
}

// NewHTTPDownloader creates a new HTTP downloader
func NewHTTPDownloader(client *http.Client) *HTTPDownloader {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPDownloader{client: client}
}

// WithProgress sets a progress callback.
func (d *HTTPDownloader) WithProgress(fn ProgressFunc) *HTTPDownloader {
	d.onProgress = fn
	return d
}

// Download downloads url to dst. The file appears at dst only once the
// download is complete; a failed download leaves nothing behind.
func (d *HTTPDownloader) Download(ctx context.Context, url string, dst string) error {
	if !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to download over insecure url: %s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("download of %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".part-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	var body io.Reader = resp.Body
	if d.onProgress != nil {
		body = &progressReader{r: resp.Body, total: resp.ContentLength, onProgress: d.onProgress, lastPercent: -1}
	}

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("download of %s failed: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	return nil
}

const mebibyte = 1 << 20

// progressReader counts bytes read and reports progress.
type progressReader struct {
	r           io.Reader
	total       int64
	read        int64
	lastPercent int
	lastMiB     int64
	onProgress  ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.total > 0 {
		percent := int(100 * p.read / p.total)
		if percent != p.lastPercent {
			p.lastPercent = percent
			p.onProgress(Progress{Percent: percent, Downloaded: p.read, Total: p.total})
		}
		return
	}

	if mib := p.read / mebibyte; mib != p.lastMiB {
		p.lastMiB = mib
		p.onProgress(Progress{Percent: -1, Downloaded: p.read, Total: -1})
	}
}

// FileName returns the APK file name at the end of a download URL.
func FileName(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

package update

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProber checks URL existence with a single HEAD request.
type HTTPProber struct {
	client Doer
	log    logrus.FieldLogger
}

// NewHTTPProber creates a prober whose requests give up after
// connectTimeout while connecting and readTimeout while waiting for the
// response headers.
func NewHTTPProber(connectTimeout, readTimeout time.Duration, log logrus.FieldLogger) *HTTPProber {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		DisableKeepAlives:     true,
	}
	client := &http.Client{
		Transport: transport,
		Timeout:   connectTimeout + readTimeout,
	}
	return NewHTTPProberWithClient(client, log)
}

// NewHTTPProberWithClient creates a prober with a custom client (for testing).
func NewHTTPProberWithClient(client Doer, log logrus.FieldLogger) *HTTPProber {
	return &HTTPProber{client: client, log: log}
}

// Exists reports whether url answers HEAD with status 200. Every failure
// is logged and reported as false. The response body is closed on every
// path, including a transport that returns both a response and an error.
func (p *HTTPProber) Exists(ctx context.Context, url string) bool {
	log := p.log.WithField("url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		log.WithError(err).Error("cannot build download link probe")
		return false
	}

	resp, err := p.client.Do(req)
	if resp != nil && resp.Body != nil {
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()
	}
	if err != nil {
		log.WithError(err).Warn("cannot validate download link")
		return false
	}

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("download link is not available")
		return false
	}

	log.Debug("download link is available")
	return true
}

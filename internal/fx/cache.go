package fx

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// diskCache is a disk cache for HTTP responses. The key includes the
// current day, so cached Valet responses expire daily.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", time.Now().UTC().Format("2006-01-02"), req.Method, req.URL.String())
	key = fmt.Sprintf("capgains-%x", sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		slog.Debug("rate cache hit", "url", req.URL.String())
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		slog.Warn("rate cache write failed", "error", err)
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	// DumpResponse replaces resp.Body with an equivalent reader, so the
	// caller still sees the full body.
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0o644)
}

// CachedClient returns an HTTP client whose responses are cached on disk
// with daily expiry.
func CachedClient() *http.Client {
	return &http.Client{Transport: &diskCache{base: http.DefaultTransport}}
}

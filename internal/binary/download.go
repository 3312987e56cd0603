package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a whole download, body included.
	DefaultTimeout = 10 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "binwrap/1.0"
	maxRedirects     = 10
)

// Downloader streams release archives over HTTP.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a downloader. A nil client gets a default client
// with DefaultTimeout and a redirect limit.
func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}

	return &Downloader{
		client:    client,
		userAgent: DefaultUserAgent,
	}
}

// Open issues a GET for url and returns the response body for streaming.
// The caller must close the returned reader. The returned size is the
// Content-Length, or -1 when unknown.
func (d *Downloader) Open(ctx context.Context, url string, progress ProgressFunc) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if progress == nil {
		return resp.Body, resp.ContentLength, nil
	}

	return &progressReader{
		ReadCloser: resp.Body,
		total:      resp.ContentLength,
		callback:   progress,
	}, resp.ContentLength, nil
}

// progressReader wraps a response body and reports cumulative bytes read.
type progressReader struct {
	io.ReadCloser
	total    int64
	received int64
	callback ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if n > 0 {
		r.received += int64(n)
		r.callback(r.received, r.total)
	}
	return n, err
}

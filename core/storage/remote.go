package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// browserHeaders makes remote fetches look like a regular browser navigation,
// which some data-source hosts require before serving files.
var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36",
	"Origin":          "https://www.airtable.com/",
}

// Fetcher opens remote HTTP resources as byte streams.
type Fetcher struct {
	client *resty.Client
}

// NewFetcher creates a Fetcher. A zero timeout means the request is bounded only by its context.
func NewFetcher(timeout time.Duration) *Fetcher {
	client := resty.New()
	client.SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Fetcher{client: client}
}

// Open issues a GET for url and returns the unread response body.
// Connection errors and non-2xx statuses are reported as ErrNetworkFailure
// before anything is returned, so callers never see a failed response body.
func (f *Fetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeaders(browserHeaders).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrNetworkFailure, url, err)
	}

	body := resp.RawBody()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		if body != nil {
			_ = body.Close()
		}
		return nil, fmt.Errorf("%w: get %s: unexpected status %d", ErrNetworkFailure, url, code)
	}
	if body == nil {
		return http.NoBody, nil
	}
	return body, nil
}

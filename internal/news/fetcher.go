package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

// Fetcher downloads a feed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches feeds over HTTP, retrying transport failures and 5xx answers.
type HTTPFetcher struct {
	client     *resty.Client
	maxRetries uint64
	backoff    time.Duration
}

// NewHTTPFetcher creates a fetcher whose single attempts are bounded by timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/rss+xml, application/xml, text/xml"),
		maxRetries: 2,
		backoff:    250 * time.Millisecond,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	b := retry.WithMaxRetries(f.maxRetries, retry.NewExponential(f.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("feed request failed: %w", err))
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("feed returned status %d", resp.StatusCode()))
		}
		if resp.IsError() {
			return fmt.Errorf("feed returned status %d", resp.StatusCode())
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

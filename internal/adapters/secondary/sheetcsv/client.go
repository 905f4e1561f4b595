package sheetcsv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fgz-roster/dutyroster/internal/domain"
)

// maxBodyBytes caps how much of the published sheet is read.
const maxBodyBytes = 8 << 20

// Client fetches a published spreadsheet as CSV over HTTP.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. The client's own Timeout
// is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each fetch.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the CSV export at url.
func NewClient(url string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:        url,
		userAgent:  "dutyroster",
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the sheet URL the client reads from.
func (c *Client) URL() string {
	return c.url
}

// FetchRecords downloads and parses the sheet. A transport failure is
// retried once, since published sheets sit behind a redirecting CDN that
// occasionally drops the first connection.
func (c *Client) FetchRecords(ctx context.Context) ([]domain.Record, error) {
	records, err := c.fetch(ctx)
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, domain.ErrConnection) || ctx.Err() != nil {
		return nil, err
	}
	return c.fetch(ctx)
}

func (c *Client) fetch(ctx context.Context) ([]domain.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrInvalidInput, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: fetch roster: %w", domain.ErrTimeout, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch roster: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: fetch roster: %w", domain.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, fmt.Errorf("%w: fetch roster: unexpected status %s", domain.ErrUpstream, resp.Status)
	}

	records, err := Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return records, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

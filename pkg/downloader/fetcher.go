package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/offspot/offspot-config/pkg/content"
)

const (
	DefaultRetryMax     = 5
	DefaultRetryWaitMin = time.Second
	DefaultRetryWaitMax = 30 * time.Second

	maxDigestSize = 1024
)

var ErrTooLarge = errors.New("payload is larger than allowed")

// Fetcher queries online resources with a bounded exponential
// backoff. It satisfies the size, digest and payload collaborators
// of the manifest builder.
type Fetcher struct {
	client *retryablehttp.Client
}

type Option func(c *retryablehttp.Client)

func WithRetryMax(n int) Option {
	return func(c *retryablehttp.Client) {
		c.RetryMax = n
	}
}

func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = minWait
		c.RetryWaitMax = maxWait
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *retryablehttp.Client) {
		c.HTTPClient = hc
	}
}

// NewFetcher returns a Fetcher logging retries to the logger in ctx.
func NewFetcher(ctx context.Context, opts ...Option) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = DefaultRetryMax
	client.RetryWaitMin = DefaultRetryWaitMin
	client.RetryWaitMax = DefaultRetryWaitMax
	client.Logger = &leveledLogger{log: logr.FromContextOrDiscard(ctx).WithName("http")}
	for _, opt := range opts {
		opt(client)
	}
	return &Fetcher{client: client}
}

func (f *Fetcher) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s %s: unexpected status %s", method, url, resp.Status)
	}
	return resp, nil
}

// RemoteSize returns the size announced by the server for url or
// content.SizeUnknown if it announces none. Servers rejecting HEAD
// requests are asked with a GET.
func (f *Fetcher) RemoteSize(ctx context.Context, url string) (int64, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("url", url)
	resp, err := f.do(ctx, http.MethodHead, url)
	if err != nil {
		log.V(1).Info("HEAD request failed, retrying with GET", "error", err.Error())
		resp, err = f.do(ctx, http.MethodGet, url)
		if err != nil {
			log.Error(err, "failed to query remote size")
			return 0, err
		}
	}
	_ = resp.Body.Close()
	if resp.ContentLength < 0 {
		return content.SizeUnknown, nil
	}
	log.V(2).Info("fetched remote size", "size", resp.ContentLength)
	return resp.ContentLength, nil
}

// SmallPayload downloads url in memory. It fails if the payload
// is larger than maxBytes.
func (f *Fetcher) SmallPayload(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	resp, err := f.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, url, resp.ContentLength)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, maxBytes)
	}
	return data, nil
}

// ChecksumDigest reads the digest published at url. Both a bare
// digest and the `digest  filename` form of the *sum tools are
// accepted.
func (f *Fetcher) ChecksumDigest(ctx context.Context, url string) (string, error) {
	data, err := f.SmallPayload(ctx, url, maxDigestSize)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(bytes.TrimSpace(data)))
	if len(fields) == 0 {
		return "", fmt.Errorf("no digest found at %s", url)
	}
	return strings.ToLower(fields[0]), nil
}

// leveledLogger routes retryablehttp messages to logr.
type leveledLogger struct {
	log logr.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...any) {
	l.log.Error(nil, msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...any) {
	l.log.V(1).Info(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...any) {
	l.log.V(3).Info(msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

var _ retryablehttp.LeveledLogger = &leveledLogger{}

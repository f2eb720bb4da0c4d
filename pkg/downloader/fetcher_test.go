package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/offspot/offspot-config/pkg/builder"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ builder.Fetcher = &Fetcher{}

func newTestFetcher(t *testing.T) (context.Context, *Fetcher) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	return ctx, NewFetcher(ctx, WithRetryMax(2), WithRetryWait(time.Millisecond, 5*time.Millisecond))
}

func TestFetcher_RemoteSize(t *testing.T) {
	payload := []byte("0123456789")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/file":
			w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
			if r.Method == http.MethodGet {
				_, _ = w.Write(payload)
			}
		case "/no-head":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Length", "4")
			_, _ = w.Write([]byte("data"))
		case "/chunked":
			w.(http.Flusher).Flush()
			_, _ = w.Write(payload)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	var cases = []struct {
		path string
		size int64
		ok   bool
	}{
		{"/file", 10, true},
		{"/no-head", 4, true},
		{"/chunked", content.SizeUnknown, true},
		{"/missing", 0, false},
	}

	ctx, f := newTestFetcher(t)
	for _, tt := range cases {
		t.Run(tt.path, func(t *testing.T) {
			size, err := f.RemoteSize(ctx, ts.URL+tt.path)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tt.size, size)
		})
	}
}

func TestFetcher_Retry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	ctx, f := newTestFetcher(t)
	data, err := f.SmallPayload(ctx, ts.URL, 10)
	require.NoError(t, err)
	assert.EqualValues(t, "ok", string(data))
	assert.EqualValues(t, 3, calls.Load())
}

func TestFetcher_RetryExhausted(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	ctx, f := newTestFetcher(t)
	_, err := f.SmallPayload(ctx, ts.URL, 10)
	assert.Error(t, err)
	// first attempt and two retries
	assert.EqualValues(t, 3, calls.Load())
}

func TestFetcher_SmallPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer ts.Close()

	ctx, f := newTestFetcher(t)

	data, err := f.SmallPayload(ctx, ts.URL, 10)
	assert.NoError(t, err)
	assert.Len(t, data, 10)

	_, err = f.SmallPayload(ctx, ts.URL, 5)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFetcher_ChecksumDigest(t *testing.T) {
	var cases = []struct {
		name string
		body string
		out  string
		ok   bool
	}{
		{"bare", "9E92449CE93115E8D85E29E8E584DECE\n", "9e92449ce93115e8d85e29e8e584dece", true},
		{"sum tool", "9e92449ce93115e8d85e29e8e584dece  offspot-base-arm64-1.2.0.img\n", "9e92449ce93115e8d85e29e8e584dece", true},
		{"empty", "\n", "", false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			ctx, f := newTestFetcher(t)
			digest, err := f.ChecksumDigest(ctx, ts.URL)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tt.out, digest)
		})
	}
}

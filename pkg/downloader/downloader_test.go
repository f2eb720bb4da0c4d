package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloader_Download(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			calls++
		}
		_, _ = w.Write([]byte("- ident: a\n"))
	}))
	defer ts.Close()

	d, err := NewDownloader(t.TempDir())
	require.NoError(t, err)

	path, err := d.Download(ctx, ts.URL+"/catalog.yaml")
	require.NoError(t, err)
	assert.EqualValues(t, "catalog.yaml", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.EqualValues(t, "- ident: a\n", string(data))
	assert.EqualValues(t, 1, calls)

	// the second download is served from the cache
	again, err := d.Download(ctx, ts.URL+"/catalog.yaml")
	require.NoError(t, err)
	assert.EqualValues(t, path, again)
	assert.EqualValues(t, 1, calls)
}

func TestHashString(t *testing.T) {
	assert.Len(t, HashString("https://example.com/catalog.yaml"), 12)
	assert.EqualValues(t, HashString("a"), HashString("a"))
	assert.NotEqualValues(t, HashString("a"), HashString("b"))
}

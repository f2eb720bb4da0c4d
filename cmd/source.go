package cmd

import (
	"context"
	"net/url"

	"github.com/offspot/offspot-config/cmd/cache"
	"github.com/offspot/offspot-config/pkg/airutil"
	"github.com/offspot/offspot-config/pkg/downloader"
)

// localPath returns a path to read src from, downloading it
// into the cache first if it is a URL.
func localPath(ctx context.Context, src, cacheDir string) (string, error) {
	src = airutil.ExpandEnv(src)
	uri, err := url.Parse(src)
	if err != nil || uri.Scheme == "" || uri.Scheme == "file" {
		if err == nil && uri.Scheme == "file" {
			return uri.Path, nil
		}
		return src, nil
	}
	dl, err := downloader.NewDownloader(cache.Dir(cacheDir))
	if err != nil {
		return "", err
	}
	return dl.Download(ctx, src)
}

package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"slices"

	"github.com/offspot/offspot-config/pkg/content"
)

// Reader is a downloadable ZIM reader application, offered by the
// dashboard so that users can read ZIMs on their own devices.
type Reader struct {
	Platform    string            `json:"platform"`
	DownloadURL string            `json:"download_url"`
	Filename    string            `json:"filename"`
	Size        int64             `json:"size"`
	Checksum    *content.Checksum `json:"checksum"`
}

var platformOrder = map[string]int{
	"windows": 0,
	"android": 1,
	"macos":   2,
	"linux":   3,
}

// Order ranks the reader by the popularity of its platform.
func (r Reader) Order() int {
	if o, ok := platformOrder[r.Platform]; ok {
		return o
	}
	return len(platformOrder)
}

// ReaderUsing returns the reader for platform, reading its size online.
func ReaderUsing(ctx context.Context, fetcher content.SizeFetcher, platform, downloadURL string, checksum *content.Checksum) (Reader, error) {
	size, err := fetcher.RemoteSize(ctx, downloadURL)
	if err != nil {
		return Reader{}, fmt.Errorf("fetching size of %s reader: %w", platform, err)
	}
	return Reader{
		Platform:    platform,
		DownloadURL: downloadURL,
		Filename:    FilenameFromURL(downloadURL),
		Size:        size,
		Checksum:    checksum,
	}, nil
}

// FilenameFromURL suggests a filename from the path of a URL.
func FilenameFromURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// SortReaders sorts readers by platform order. It is stable.
func SortReaders(readers []Reader) {
	slices.SortStableFunc(readers, func(a, b Reader) int {
		return a.Order() - b.Order()
	})
}

// Link is an arbitrary resource linked from the dashboard. Icon is
// the name of a FontAwesome 6 icon.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

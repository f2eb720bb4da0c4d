package packages

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-logr/logr"
	"github.com/offspot/offspot-config/pkg/content"
)

// MaxIconSize is the largest icon that gets embedded in the dashboard.
const MaxIconSize int64 = 4 << 20

// Download is the downloadable payload of a dashboard entry.
type Download struct {
	URL      string            `json:"url"`
	Size     int64             `json:"size"`
	Checksum *content.Checksum `json:"checksum,omitempty"`
}

// DashboardEntry is the card the dashboard displays for a package.
type DashboardEntry struct {
	Ident       string    `json:"ident"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Languages   []string  `json:"languages"`
	Tags        []string  `json:"tags"`
	URL         string    `json:"url"`
	Icon        string    `json:"icon"`
	Download    *Download `json:"download,omitempty"`
}

// NewDashboardEntry projects p into a dashboard card. The download block
// is only set when the package offers a download of known size.
func NewDashboardEntry(p Package, fqdn, downloadFQDN, icon string) DashboardEntry {
	meta := p.Meta()
	entry := DashboardEntry{
		Ident:       meta.Ident,
		Kind:        meta.Kind,
		Title:       meta.Title,
		Description: meta.Description,
		Languages:   meta.Languages,
		Tags:        meta.Tags,
		URL:         p.URL(fqdn),
		Icon:        icon,
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	if u := p.DownloadURL(downloadFQDN); u != "" && p.DownloadSize() > 0 {
		entry.Download = &Download{
			URL:      u,
			Size:     p.DownloadSize(),
			Checksum: p.DownloadChecksum(),
		}
	}
	return entry
}

// Icon retrieves the icon of p as a base64 data string. Icons are
// decorative so any failure results in an empty icon.
func Icon(ctx context.Context, p Package, fetcher IconFetcher) string {
	u := p.Meta().IconURL
	if u == "" || fetcher == nil {
		return ""
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("ident", p.Meta().Ident, "url", u)
	data, err := fetcher.SmallPayload(ctx, u, MaxIconSize)
	if err != nil {
		log.Error(err, "failed to retrieve icon")
		return ""
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		log.V(1).Info("ignoring icon that is not an image", "mimetype", mt.String())
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

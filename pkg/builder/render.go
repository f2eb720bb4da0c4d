package builder

import (
	"context"
	"embed"
	"encoding/base64"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/dashboard"
	"github.com/offspot/offspot-config/pkg/packages"
	"sigs.k8s.io/yaml"
)

//go:embed branding
var branding embed.FS

// Render finalises the manifest and returns it as YAML. It fills
// the fields that depend on every requested feature and can only
// be called once.
func (b *ConfigBuilder) Render(ctx context.Context) ([]byte, error) {
	log := logr.FromContextOrDiscard(ctx)
	if b.rendered {
		return nil, ErrRendered
	}

	log.V(1).Info("seeding branding files")
	if err := b.seedBranding(); err != nil {
		log.Error(err, "failed to seed branding files")
		return nil, err
	}
	if err := b.EnsureHostPath(content.BrandingPath); err != nil {
		return nil, err
	}

	if b.withDashboard {
		log.V(1).Info("generating dashboard configuration", "entries", len(b.entries))
		data, err := b.dashboardConfig(ctx).Marshal()
		if err != nil {
			log.Error(err, "failed to generate dashboard configuration")
			return nil, err
		}
		f, err := content.NewContentFile(DashboardConfigPath, string(data), content.ViaDirect)
		if err != nil {
			return nil, err
		}
		if err := b.addFile(f); err != nil {
			return nil, err
		}
	}

	if svc, ok := b.service(ReverseProxyService); ok && b.withReverseProxy {
		svc.Environment["SERVICES"] = strings.Join(b.ReversedServices(), ",")
		svc.Environment["FILES_MAPPING"] = joinPairs(b.filesMapping)

		protected := make([]string, 0, len(b.protected))
		for name, creds := range b.protected {
			protected = append(protected, name+":"+creds.Username+":"+creds.Password)
		}
		sort.Strings(protected)
		svc.Environment["PROTECTED_SERVICES"] = strings.Join(protected, ",")
	}

	b.rendered = true
	log.V(2).Info("rendering manifest", "files", len(b.manifest.Files), "images", len(b.manifest.OCIImages))
	return yaml.Marshal(b.manifest)
}

// seedBranding writes the default branding files so that they
// can be restored once customised.
func (b *ConfigBuilder) seedBranding() error {
	return fs.WalkDir(branding, "branding", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := branding.ReadFile(p)
		if err != nil {
			return err
		}
		dst := path.Join(content.OriginalBrandingPath, strings.TrimPrefix(p, "branding/"))
		if err := b.EnsureHostPath(path.Dir(dst)); err != nil {
			return err
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		return b.addFile(content.File{
			To:      dst,
			Content: &encoded,
			Via:     content.ViaBase64,
			Size:    int64(len(data)),
		})
	})
}

func (b *ConfigBuilder) dashboardConfig(ctx context.Context) dashboard.Config {
	var downloadFQDN string
	if b.withZimDownloads {
		downloadFQDN = ZimDownloadDomain + "." + b.FQDN()
	}
	entries := make([]packages.DashboardEntry, 0, len(b.entries))
	for _, p := range b.entries {
		icon := packages.Icon(ctx, p, b.fetcher)
		entries = append(entries, packages.NewDashboardEntry(p, b.FQDN(), downloadFQDN, icon))
	}
	return dashboard.Config{
		Metadata: dashboard.Metadata{Name: b.opts.Name, FQDN: b.FQDN()},
		Packages: entries,
		Readers:  b.readers,
		Links:    b.links,
	}
}

func joinPairs(m map[string]string) string {
	pairs := make([]string, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, k+":"+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

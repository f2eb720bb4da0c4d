package builder

import (
	"context"

	"github.com/go-logr/logr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/dashboard"
	"github.com/offspot/offspot-config/pkg/packages"
)

// AddDashboard enables the home page listing the hotspot's content.
// allowZimDownloads is applied even if the dashboard is already enabled.
// Once allowed, ZIM downloads cannot be turned off.
func (b *ConfigBuilder) AddDashboard(ctx context.Context, allowZimDownloads bool) error {
	if b.rendered {
		return ErrRendered
	}
	b.zimDownloads = b.zimDownloads || allowZimDownloads
	if b.zimDownloads && b.withKiwixServe {
		if err := b.enableZimDownloads(ctx); err != nil {
			return err
		}
	}
	if b.withDashboard {
		return nil
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("adding dashboard", "zimDownloads", allowZimDownloads)

	if err := b.EnsureHostPath(content.BrandingPath); err != nil {
		return err
	}
	b.addImage(dashboardImage)
	b.addService(DashboardService, &v1.Service{
		Image:         dashboardImage.Source(),
		ContainerName: DashboardService,
		PullPolicy:    "never",
		Restart:       "unless-stopped",
		Expose:        []string{"80"},
		Volumes: []v1.Volume{
			bindMount(DashboardConfigPath, dashboard.ConfigPath, true),
			bindMount(content.BrandingPath, "/src/branding", true),
		},
	})
	b.withDashboard = true
	return nil
}

// AddReverseProxy enables the web server routing every domain
// to its service.
func (b *ConfigBuilder) AddReverseProxy(ctx context.Context) error {
	if b.rendered {
		return ErrRendered
	}
	if b.withReverseProxy {
		return nil
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("adding reverse-proxy")

	b.addImage(reverseProxyImage)
	b.addService(ReverseProxyService, &v1.Service{
		Image:         reverseProxyImage.Source(),
		ContainerName: ReverseProxyService,
		Environment: map[string]string{
			"FQDN": b.FQDN(),
		},
		PullPolicy: "never",
		Restart:    "unless-stopped",
		Ports:      []string{"80:80", "443:443"},
	})
	b.withReverseProxy = true
	return nil
}

// AddCaptivePortal enables the portal shown to devices joining the network.
func (b *ConfigBuilder) AddCaptivePortal(ctx context.Context) error {
	if b.rendered {
		return ErrRendered
	}
	if b.withCaptivePortal {
		return nil
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("adding captive-portal")

	b.addImage(captivePortalImage)
	b.addService(CaptivePortalService, &v1.Service{
		Image:         captivePortalImage.Source(),
		ContainerName: CaptivePortalService,
		NetworkMode:   "host",
		CapAdd:        []string{"NET_ADMIN"},
		Environment: map[string]string{
			"HOTSPOT_NAME":      b.opts.Name,
			"HOTSPOT_IP":        "192.168.2.1",
			"HOTSPOT_FQDN":      b.FQDN(),
			"CAPTURED_NETWORKS": "192.168.2.128/25",
			"TIMEOUT":           "60",
			"FILTER_MODULE":     "portal_filter",
		},
		PullPolicy: "never",
		Restart:    "unless-stopped",
		Expose:     []string{"2080", "2443"},
		Volumes: []v1.Volume{
			bindMount("/var/run/internet", "/var/run/internet", true),
		},
	})
	b.withCaptivePortal = true
	return nil
}

// AddHwclock enables the service setting the hardware clock.
func (b *ConfigBuilder) AddHwclock(ctx context.Context) error {
	if b.rendered {
		return ErrRendered
	}
	if b.withHwclock {
		return nil
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("adding hwclock")

	b.addImage(hwclockImage)
	b.addService(HwclockService, &v1.Service{
		Image:         hwclockImage.Source(),
		ContainerName: HwclockService,
		Environment: map[string]string{
			"ADMIN_USERNAME": b.opts.Environ["ADMIN_USERNAME"],
			"ADMIN_PASSWORD": b.opts.Environ["ADMIN_PASSWORD"],
		},
		PullPolicy: "never",
		ReadOnly:   true,
		Restart:    "unless-stopped",
		Expose:     []string{"80"},
		Privileged: true,
	})
	b.reversed.Insert(HwclockService)
	b.withHwclock = true
	return nil
}

// AddMetrics enables the collection and display of usage metrics.
// It enables the dashboard as the metrics are linked from it.
func (b *ConfigBuilder) AddMetrics(ctx context.Context) error {
	if b.rendered {
		return ErrRendered
	}
	if err := b.AddDashboard(ctx, b.zimDownloads); err != nil {
		return err
	}
	if b.withMetrics {
		return nil
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("adding metrics")

	if err := b.EnsureHostPath(MetricsPath); err != nil {
		return err
	}
	b.addImage(metricsImage)
	b.addService(MetricsService, &v1.Service{
		Image:         metricsImage.Source(),
		ContainerName: MetricsService,
		PullPolicy:    "never",
		Restart:       "unless-stopped",
		Expose:        []string{"80"},
		Environment: map[string]string{
			"DATABASE_URL":           "sqlite+pysqlite:////data/database.db",
			"LOGWATCHER_DATA_FOLDER": "/data/logwatcher",
			"PACKAGE_CONF_FILE":      dashboard.ConfigPath,
		},
		Volumes: []v1.Volume{
			bindMount(MetricsPath, "/data", false),
			bindMount(DashboardConfigPath, dashboard.ConfigPath, true),
		},
	})
	b.reversed.Insert(MetricsService)

	user, pass := b.opts.Environ["ADMIN_USERNAME"], b.opts.Environ["ADMIN_PASSWORD"]
	if user != "" && pass != "" {
		b.protected[MetricsService] = packages.Credentials{Username: user, Password: pass}
	}
	b.addLink(dashboard.Link{
		Label: "Metrics",
		URL:   "//" + MetricsService + "." + b.FQDN() + "/",
		Icon:  "chart-line",
	})
	b.withMetrics = true
	return nil
}

// AddFilesService enables the service serving the files packages.
func (b *ConfigBuilder) AddFilesService(ctx context.Context) error {
	if b.rendered {
		return ErrRendered
	}
	if b.withFiles {
		return nil
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("adding files service")

	if err := b.EnsureHostPath(packages.FilesPath); err != nil {
		return err
	}
	b.addImage(fileBrowserImage)
	b.addService(FilesService, &v1.Service{
		Image:         fileBrowserImage.Source(),
		ContainerName: FilesService,
		PullPolicy:    "never",
		Restart:       "unless-stopped",
		Expose:        []string{"80"},
		Volumes: []v1.Volume{
			bindMount(packages.FilesPath, "/data", true),
		},
	})
	b.reversed.Insert(FilesService)
	b.withFiles = true
	return nil
}

// enableZimDownloads exposes the ZIM folder through the files service.
func (b *ConfigBuilder) enableZimDownloads(ctx context.Context) error {
	if b.withZimDownloads {
		return nil
	}
	if err := b.AddFilesService(ctx); err != nil {
		return err
	}
	if err := b.EnsureHostPath(packages.ZimsPath); err != nil {
		return err
	}
	svc, _ := b.service(FilesService)
	svc.Volumes = append(svc.Volumes, bindMount(packages.ZimsPath, "/data/zims", true))
	b.filesMapping[ZimDownloadDomain] = "zims"
	b.withZimDownloads = true
	return nil
}

// AddReader offers a ZIM reader for download on the dashboard.
func (b *ConfigBuilder) AddReader(r dashboard.Reader) error {
	if b.rendered {
		return ErrRendered
	}
	for _, existing := range b.readers {
		if existing.Platform == r.Platform && existing.DownloadURL == r.DownloadURL {
			return nil
		}
	}
	b.readers = append(b.readers, r)
	return nil
}

// AddLink adds a link to an arbitrary resource to the dashboard.
func (b *ConfigBuilder) AddLink(l dashboard.Link) error {
	if b.rendered {
		return ErrRendered
	}
	b.addLink(l)
	return nil
}

func (b *ConfigBuilder) addLink(l dashboard.Link) {
	for _, existing := range b.links {
		if existing == l {
			return
		}
	}
	b.links = append(b.links, l)
}

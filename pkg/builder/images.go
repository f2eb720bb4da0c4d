package builder

import "github.com/offspot/offspot-config/pkg/content"

// images of the builtin services
var (
	dashboardImage     = content.MustOCIImage("ghcr.io/offspot/dashboard:1.0", 119941120, 119838811)
	reverseProxyImage  = content.MustOCIImage("ghcr.io/offspot/reverse-proxy:1.2", 115722240, 115645756)
	captivePortalImage = content.MustOCIImage("ghcr.io/offspot/captive-portal:1.0", 187668480, 187604243)
	hwclockImage       = content.MustOCIImage("ghcr.io/offspot/hwclock:1.0", 59412480, 59382985)
	metricsImage       = content.MustOCIImage("ghcr.io/offspot/metrics:0.3.0", 130723840, 130662409)
	kiwixServeImage    = content.MustOCIImage("ghcr.io/offspot/kiwix-serve:3.5.0-2", 29194240, 29162475)
	zimManagerImage    = content.MustOCIImage("ghcr.io/offspot/zim-manager:0.2", 13629440, 13598399)
	fileBrowserImage   = content.MustOCIImage("ghcr.io/offspot/file-browser:1.0", 47226880, 47162907)
)

// service names
const (
	DashboardService     = "home"
	ReverseProxyService  = "reverse-proxy"
	CaptivePortalService = "home-portal"
	HwclockService       = "hwclock"
	MetricsService       = "metrics"
	KiwixService         = "kiwix"
	ZimManagerService    = "zim-manager"
	FilesService         = "files"
)

const (
	DashboardConfigPath = content.ContentTargetPath + "/dashboard.yaml"
	MetricsPath         = content.DataPartPath + "/metrics"
	// ZimDownloadDomain serves the ZIM files for download.
	ZimDownloadDomain = "zim-download"
)

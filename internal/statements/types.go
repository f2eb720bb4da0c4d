package statements

import (
	"context"
	"errors"

	cbev1 "github.com/Snakdy/container-build-engine/pkg/api/v1"
	"github.com/Snakdy/container-build-engine/pkg/pipelines/utils"
	"github.com/offspot/offspot-config/pkg/builder"
	"github.com/offspot/offspot-config/pkg/catalog"
)

const (
	StatementDashboard     = "dashboard"
	StatementReverseProxy  = "reverse-proxy"
	StatementCaptivePortal = "captive-portal"
	StatementHwclock       = "hwclock"
	StatementMetrics       = "metrics"
	StatementApp           = "app"
	StatementFiles         = "files"
	StatementZim           = "zim"
	StatementFile          = "file"
	StatementReader        = "reader"
	StatementLink          = "link"
)

var ErrUnknownStatement = errors.New("unknown statement")

// Statement is a single feature request run against the builder.
type Statement interface {
	Name() string
	SetOptions(options cbev1.Options)
	Run(ctx context.Context, b *builder.ConfigBuilder) error
}

// Deps are what statements need besides their options.
type Deps struct {
	Catalog *catalog.Catalog
	Fetcher builder.Fetcher
}

type base struct {
	options cbev1.Options
}

func (s *base) SetOptions(options cbev1.Options) {
	if s.options == nil {
		s.options = map[string]any{}
	}
	utils.CopyMap(options, s.options)
}

type DashboardStatement struct {
	base
}

type ReverseProxyStatement struct {
	base
}

type CaptivePortalStatement struct {
	base
}

type HwclockStatement struct {
	base
}

type MetricsStatement struct {
	base
}

type AppStatement struct {
	base
	catalog *catalog.Catalog
}

type FilesStatement struct {
	base
	catalog *catalog.Catalog
}

type ZimStatement struct {
	base
	catalog *catalog.Catalog
}

type FileStatement struct {
	base
}

type ReaderStatement struct {
	base
	fetcher builder.Fetcher
}

type LinkStatement struct {
	base
}

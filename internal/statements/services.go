package statements

import (
	"context"

	"github.com/offspot/offspot-config/pkg/builder"
)

func (s *DashboardStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	allowZimDownloads, err := optional[bool](s.options, "allowZimDownloads")
	if err != nil {
		return err
	}
	return b.AddDashboard(ctx, allowZimDownloads)
}

func (*DashboardStatement) Name() string {
	return StatementDashboard
}

func (*ReverseProxyStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	return b.AddReverseProxy(ctx)
}

func (*ReverseProxyStatement) Name() string {
	return StatementReverseProxy
}

func (*CaptivePortalStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	return b.AddCaptivePortal(ctx)
}

func (*CaptivePortalStatement) Name() string {
	return StatementCaptivePortal
}

func (*HwclockStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	return b.AddHwclock(ctx)
}

func (*HwclockStatement) Name() string {
	return StatementHwclock
}

func (*MetricsStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	return b.AddMetrics(ctx)
}

func (*MetricsStatement) Name() string {
	return StatementMetrics
}

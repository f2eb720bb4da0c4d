package statements

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/builder"
)

// New returns the statement implementing the feature.
func New(feature v1.Feature, deps Deps) (Statement, error) {
	var s Statement
	switch feature.Type {
	case StatementDashboard:
		s = &DashboardStatement{}
	case StatementReverseProxy:
		s = &ReverseProxyStatement{}
	case StatementCaptivePortal:
		s = &CaptivePortalStatement{}
	case StatementHwclock:
		s = &HwclockStatement{}
	case StatementMetrics:
		s = &MetricsStatement{}
	case StatementApp:
		s = &AppStatement{catalog: deps.Catalog}
	case StatementFiles:
		s = &FilesStatement{catalog: deps.Catalog}
	case StatementZim:
		s = &ZimStatement{catalog: deps.Catalog}
	case StatementFile:
		s = &FileStatement{}
	case StatementReader:
		s = &ReaderStatement{fetcher: deps.Fetcher}
	case StatementLink:
		s = &LinkStatement{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatement, feature.Type)
	}
	s.SetOptions(feature.Options)
	return s, nil
}

// RunAll runs every feature in order and stops at the first failure.
func RunAll(ctx context.Context, b *builder.ConfigBuilder, features []v1.Feature, deps Deps) error {
	log := logr.FromContextOrDiscard(ctx)
	for i, feature := range features {
		s, err := New(feature, deps)
		if err != nil {
			return fmt.Errorf("features[%d]: %w", i, err)
		}
		log.V(1).Info("running statement", "index", i, "name", s.Name())
		if err := s.Run(ctx, b); err != nil {
			log.Error(err, "statement failed", "index", i, "name", s.Name())
			return fmt.Errorf("features[%d] (%s): %w", i, s.Name(), err)
		}
	}
	return nil
}

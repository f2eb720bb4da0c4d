package cmd

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/kelseyhightower/envconfig"
	"github.com/offspot/offspot-config/pkg/downloader"
)

// settings are the defaults read from OFFSPOT_* variables.
// Flags take precedence.
type settings struct {
	Catalog  string `envconfig:"CATALOG"`
	CacheDir string `envconfig:"CACHE_DIR"`
	RetryMax int    `envconfig:"RETRY_MAX" default:"5"`
}

func readSettings(ctx context.Context) (*settings, error) {
	var s settings
	if err := envconfig.Process("offspot", &s); err != nil {
		logr.FromContextOrDiscard(ctx).Error(err, "failed to read environment")
		return nil, err
	}
	return &s, nil
}

func (s *settings) fetcher(ctx context.Context) *downloader.Fetcher {
	return downloader.NewFetcher(ctx, downloader.WithRetryMax(s.RetryMax))
}

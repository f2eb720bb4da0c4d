package statements

import (
	"context"

	cbev1 "github.com/Snakdy/container-build-engine/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/airutil"
	"github.com/offspot/offspot-config/pkg/builder"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/dashboard"
)

// Run writes an arbitrary file to the data partition.
func (s *FileStatement) Run(_ context.Context, b *builder.ConfigBuilder) error {
	if _, err := cbev1.GetRequired[string](s.options, "to"); err != nil {
		return err
	}
	var f content.File
	if err := decode(s.options, &f); err != nil {
		return err
	}
	if f.IsLocal() {
		f.URL = airutil.ExpandEnv(f.URL)
	}
	return b.AddFile(f)
}

func (*FileStatement) Name() string {
	return StatementFile
}

func (s *ReaderStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	platform, err := cbev1.GetRequired[string](s.options, "platform")
	if err != nil {
		return err
	}
	url, err := cbev1.GetRequired[string](s.options, "url")
	if err != nil {
		return err
	}
	var opts struct {
		Checksum *content.Checksum `json:"checksum"`
	}
	if err := decode(s.options, &opts); err != nil {
		return err
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	r, err := dashboard.ReaderUsing(ctx, s.fetcher, platform, url, opts.Checksum)
	if err != nil {
		return err
	}
	return b.AddReader(r)
}

func (*ReaderStatement) Name() string {
	return StatementReader
}

func (s *LinkStatement) Run(_ context.Context, b *builder.ConfigBuilder) error {
	label, err := cbev1.GetRequired[string](s.options, "label")
	if err != nil {
		return err
	}
	url, err := cbev1.GetRequired[string](s.options, "url")
	if err != nil {
		return err
	}
	icon, err := optional[string](s.options, "icon")
	if err != nil {
		return err
	}
	return b.AddLink(dashboard.Link{Label: label, URL: url, Icon: icon})
}

func (*LinkStatement) Name() string {
	return StatementLink
}

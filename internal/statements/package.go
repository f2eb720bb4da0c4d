package statements

import (
	"context"
	"errors"

	cbev1 "github.com/Snakdy/container-build-engine/pkg/api/v1"
	"github.com/go-logr/logr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/builder"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/packages"
)

var (
	ErrNoCatalog = errors.New("a catalog is required")
	ErrNoFetcher = errors.New("a fetcher is required")
)

func (s *AppStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	ident, err := cbev1.GetRequired[string](s.options, "ident")
	if err != nil {
		return err
	}
	environ, err := stringMap(s.options, "environ")
	if err != nil {
		return err
	}
	if s.catalog == nil {
		return ErrNoCatalog
	}
	pkg, err := s.catalog.Get(ident)
	if err != nil {
		return err
	}
	logr.FromContextOrDiscard(ctx).V(2).Info("found app in catalog", "ident", ident)
	return b.AddApp(ctx, pkg, environ)
}

func (*AppStatement) Name() string {
	return StatementApp
}

func (s *FilesStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	ident, err := cbev1.GetRequired[string](s.options, "ident")
	if err != nil {
		return err
	}
	if s.catalog == nil {
		return ErrNoCatalog
	}
	pkg, err := s.catalog.GetFiles(ident)
	if err != nil {
		return err
	}
	return b.AddFilesPackage(ctx, pkg)
}

func (*FilesStatement) Name() string {
	return StatementFiles
}

type zimOptions struct {
	Ident       string            `json:"ident"`
	URL         string            `json:"url"`
	Size        v1.ByteSize       `json:"size"`
	Checksum    *content.Checksum `json:"checksum"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Languages   []string          `json:"languages"`
	Tags        []string          `json:"tags"`
	IconURL     string            `json:"icon_url"`
	Domain      string            `json:"domain"`
}

// Run adds the ZIM described by the options or, without url,
// the one in the catalog.
func (s *ZimStatement) Run(ctx context.Context, b *builder.ConfigBuilder) error {
	ident, err := cbev1.GetRequired[string](s.options, "ident")
	if err != nil {
		return err
	}
	var opts zimOptions
	if err := decode(s.options, &opts); err != nil {
		return err
	}
	if opts.URL == "" {
		if s.catalog == nil {
			return ErrNoCatalog
		}
		zim, err := s.catalog.GetZim(ident)
		if err != nil {
			return err
		}
		return b.AddZim(ctx, zim)
	}

	zim, err := packages.NewZimPackage(packages.ZimPackage{
		Descriptor: packages.Descriptor{
			Ident:       ident,
			Domain:      opts.Domain,
			Title:       opts.Title,
			Description: opts.Description,
			Languages:   opts.Languages,
			Tags:        opts.Tags,
			IconURL:     opts.IconURL,
		},
		Source:         opts.URL,
		SourceSize:     int64(opts.Size),
		SourceChecksum: opts.Checksum,
	})
	if err != nil {
		return err
	}
	return b.AddZim(ctx, zim)
}

func (*ZimStatement) Name() string {
	return StatementZim
}

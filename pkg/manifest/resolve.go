package manifest

import (
	"context"

	"github.com/go-logr/logr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/sizes"
)

// Fetcher resolves what a manifest may leave unknown.
type Fetcher interface {
	content.SizeFetcher
	content.DigestFetcher
}

// Resolve returns a copy of m where every pending checksum and
// unknown file size has been fetched.
func Resolve(ctx context.Context, m *v1.Manifest, fetcher Fetcher) (*v1.Manifest, error) {
	log := logr.FromContextOrDiscard(ctx)
	out := m.DeepCopy()

	if out.Base.Checksum != nil && out.Base.Checksum.IsPending() {
		log.V(1).Info("resolving base checksum", "url", out.Base.Checksum.Value)
		c, err := out.Base.Checksum.Resolve(ctx, fetcher)
		if err != nil {
			log.Error(err, "failed to resolve base checksum")
			return nil, err
		}
		out.Base.Checksum = &c
	}

	for i, f := range out.Files {
		var err error
		f, err = f.WithSize(ctx, fetcher)
		if err != nil {
			log.Error(err, "failed to resolve file size", "to", out.Files[i].To)
			return nil, err
		}
		f, err = f.WithChecksum(ctx, fetcher)
		if err != nil {
			log.Error(err, "failed to resolve file checksum", "to", out.Files[i].To)
			return nil, err
		}
		if f.Size != out.Files[i].Size {
			log.V(2).Info("resolved file size", "to", f.To, "size", f.Size)
		}
		out.Files[i] = f
	}
	return out, nil
}

// Sizes returns the content size of m and the smallest image
// able to hold it. Every file size must be known.
func Sizes(m *v1.Manifest) (contentSize, minImageSize int64, err error) {
	contentSize, err = sizes.ContentSize(m.OCIImages, m.Files)
	if err != nil {
		return 0, 0, err
	}
	return contentSize, sizes.MinImageSize(int64(m.Base.RootfsSize), contentSize, sizes.Margin(contentSize)), nil
}

// FitOutput sets the output size of m to the smallest image able
// to hold it and returns that size.
func FitOutput(m *v1.Manifest) (int64, error) {
	_, minSize, err := Sizes(m)
	if err != nil {
		return 0, err
	}
	m.Output.Size = v1.OutputSize(minSize)
	return minSize, nil
}

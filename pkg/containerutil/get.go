package containerutil

import (
	"context"
	"fmt"

	"github.com/Snakdy/container-build-engine/pkg/containers"
	"github.com/Snakdy/container-build-engine/pkg/oci/auth"
	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/offspot/offspot-config/pkg/content"
)

// Get resolves ref in its registry without pulling its layers.
func Get(ctx context.Context, ref string, opts ...remote.Option) (v1.Image, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("ref", ref)
	log.Info("getting image")

	if ref == containers.MagicImageScratch {
		return empty.Image, nil
	}

	remoteRef, err := name.ParseReference(ref)
	if err != nil {
		return nil, fmt.Errorf("parsing name %s: %w", ref, err)
	}

	opts = append([]remote.Option{
		remote.WithContext(ctx),
		remote.WithAuthFromKeychain(auth.KeyChain(auth.Auth{})),
	}, opts...)
	rmt, err := remote.Get(remoteRef, opts...)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", ref, err)
	}
	return rmt.Image()
}

// Describe measures img. The file size is what the exported
// image takes (config and compressed layers) and the full size
// what its uncompressed layers take once loaded. Computing the
// latter reads every layer.
func Describe(ctx context.Context, ident string, img v1.Image) (content.OCIImage, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("ident", ident)

	manifest, err := img.Manifest()
	if err != nil {
		return content.OCIImage{}, fmt.Errorf("reading manifest: %w", err)
	}
	fileSize := manifest.Config.Size

	layers, err := img.Layers()
	if err != nil {
		return content.OCIImage{}, fmt.Errorf("listing layers: %w", err)
	}
	var fullSize int64
	for i, l := range layers {
		size, err := l.Size()
		if err != nil {
			return content.OCIImage{}, fmt.Errorf("layer %d: %w", i, err)
		}
		fileSize += size

		log.V(1).Info("measuring layer", "index", i, "size", size)
		usize, err := uncompressedSize(l)
		if err != nil {
			return content.OCIImage{}, fmt.Errorf("layer %d: %w", i, err)
		}
		fullSize += usize
	}
	log.V(1).Info("described image", "filesize", fileSize, "fullsize", fullSize)
	return content.NewOCIImage(ident, fileSize, fullSize)
}

// Probe looks ref up in its registry and describes it.
func Probe(ctx context.Context, ref string, opts ...remote.Option) (content.OCIImage, error) {
	ident, err := content.NormaliseImageRef(ref)
	if err != nil {
		return content.OCIImage{}, err
	}
	img, err := Get(ctx, ref, opts...)
	if err != nil {
		return content.OCIImage{}, err
	}
	return Describe(ctx, ident, img)
}

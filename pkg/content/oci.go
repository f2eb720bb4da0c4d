package content

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
)

// OCIImage is a container image to be loaded on the hotspot.
//
// FileSize is the size of the exported (compressed) image and FullSize
// the space it takes once loaded in the container runtime.
type OCIImage struct {
	Ident    string `json:"identity"`
	FileSize int64  `json:"filesize"`
	FullSize int64  `json:"fullsize"`
	URL      string `json:"url,omitempty"`
}

// NewOCIImage normalises the image reference so that two spellings
// of the same image share a single identity.
func NewOCIImage(ref string, filesize, fullsize int64) (OCIImage, error) {
	ident, err := NormaliseImageRef(ref)
	if err != nil {
		return OCIImage{}, err
	}
	if filesize < 0 || fullsize < 0 {
		return OCIImage{}, fmt.Errorf("%s: image sizes must be positive", ident)
	}
	return OCIImage{Ident: ident, FileSize: filesize, FullSize: fullsize}, nil
}

// MustOCIImage is NewOCIImage for references known to be valid.
func MustOCIImage(ref string, filesize, fullsize int64) OCIImage {
	img, err := NewOCIImage(ref, filesize, fullsize)
	if err != nil {
		panic(err)
	}
	return img
}

// NormaliseImageRef returns the fully qualified name of an image
// reference (registry/repository:tag).
func NormaliseImageRef(ref string) (string, error) {
	r, err := name.ParseReference(ref)
	if err != nil {
		return "", fmt.Errorf("parsing image reference %q: %w", ref, err)
	}
	return r.Name(), nil
}

// Source is the reference to use when pulling the image.
func (i OCIImage) Source() string {
	return i.Ident
}

func (i OCIImage) String() string {
	return "OCIImage<" + i.Ident + ">"
}

package packages

import (
	"context"
	"errors"
	"fmt"

	"github.com/offspot/offspot-config/pkg/content"
)

type Kind string

const (
	KindApp   Kind = "app"
	KindZim   Kind = "zim"
	KindFiles Kind = "files"
)

var (
	ErrNotApp      = errors.New("package is not an app")
	ErrUnknownKind = errors.New("unknown package kind")
	ErrInvalid     = errors.New("invalid package")
)

// Descriptor holds the fields shared by every kind of package.
type Descriptor struct {
	Ident       string   `json:"ident"`
	Kind        Kind     `json:"kind"`
	Domain      string   `json:"domain"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	IconURL     string   `json:"icon_url,omitempty"`
}

func (d *Descriptor) Meta() *Descriptor {
	return d
}

// Package is an entry of the catalog. The set of implementations
// is closed: AppPackage, ZimPackage and FilesPackage.
type Package interface {
	Meta() *Descriptor
	// URL is the address of the package on the hotspot.
	URL(fqdn string) string
	// DownloadURL is the address from which the package's payload can be
	// downloaded off the hotspot. Empty if it can't.
	DownloadURL(downloadFQDN string) string
	DownloadSize() int64
	DownloadChecksum() *content.Checksum
	// Size is the space the package takes on the hotspot.
	Size() int64
	Validate() error

	isPackage()
}

// IconFetcher retrieves the payload of a small online resource.
type IconFetcher interface {
	SmallPayload(ctx context.Context, url string, maxBytes int64) ([]byte, error)
}

// Same reports whether both packages are the same catalog entry.
func Same(a, b Package) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Meta().Kind == b.Meta().Kind && a.Meta().Ident == b.Meta().Ident
}

func (d *Descriptor) validate() error {
	if d.Ident == "" {
		return fmt.Errorf("%w: ident must be set", ErrInvalid)
	}
	if d.Domain == "" {
		return fmt.Errorf("%w: %s: domain must be set", ErrInvalid, d.Ident)
	}
	return nil
}

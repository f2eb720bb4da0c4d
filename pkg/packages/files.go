package packages

import (
	"fmt"

	"github.com/offspot/offspot-config/pkg/content"
)

// FilesPath is the root of the folders served by the files service.
const FilesPath = content.ContentTargetPath + "/files"

// FilesPackage is a set of files exposed by the files service.
type FilesPackage struct {
	Descriptor

	Via            content.Via       `json:"via"`
	Source         string            `json:"download_url"`
	SourceSize     int64             `json:"download_size,omitempty"`
	SourceChecksum *content.Checksum `json:"download_checksum,omitempty"`
	Target         string            `json:"target,omitempty"`
}

func (*FilesPackage) isPackage() {}

func (p *FilesPackage) Validate() error {
	if err := p.validate(); err != nil {
		return err
	}
	if _, err := p.File(); err != nil {
		return fmt.Errorf("%s: %w", p.Ident, err)
	}
	return nil
}

// Folder is the name of the package's folder in the files service.
func (p *FilesPackage) Folder() string {
	if p.Target != "" {
		return p.Target
	}
	return p.Ident
}

func (p *FilesPackage) URL(fqdn string) string {
	return "//" + p.Domain + "." + fqdn + "/"
}

func (*FilesPackage) DownloadURL(string) string {
	return ""
}

func (p *FilesPackage) DownloadSize() int64 {
	return p.SourceSize
}

func (p *FilesPackage) DownloadChecksum() *content.Checksum {
	return p.SourceChecksum
}

func (p *FilesPackage) Size() int64 {
	return p.SourceSize
}

func (p *FilesPackage) File() (content.File, error) {
	size := p.SourceSize
	if size == 0 {
		size = content.SizeUnknown
	}
	return content.NewFile(content.File{
		To:       FilesPath + "/" + p.Folder(),
		URL:      p.Source,
		Via:      p.Via,
		Size:     size,
		Checksum: p.SourceChecksum,
	})
}

package packages

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/offspot/offspot-config/pkg/content"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ZimsPath is where ZIM files are stored on the hotspot.
const ZimsPath = content.ContentTargetPath + "/zims"

// ZimIdent identifies a ZIM title regardless of its version.
type ZimIdent struct {
	Publisher string
	Name      string
	Flavour   string
}

// ZimIdentFrom parses a publisher:name:flavour ident. The flavour
// may be empty but the separator must be present.
func ZimIdentFrom(ident string) (ZimIdent, error) {
	parts := strings.SplitN(ident, ":", 3)
	if len(parts) != 3 {
		return ZimIdent{}, fmt.Errorf("zim ident must be publisher:name:flavour, got %q", ident)
	}
	return ZimIdent{Publisher: parts[0], Name: parts[1], Flavour: parts[2]}, nil
}

func (z ZimIdent) String() string {
	return z.Publisher + ":" + z.Name + ":" + z.Flavour
}

// ZimPackage is a ZIM file served by kiwix-serve.
type ZimPackage struct {
	Descriptor

	Name    string `json:"name"`
	Flavour string `json:"flavour"`
	Version string `json:"version"`

	Source         string            `json:"download_url"`
	SourceSize     int64             `json:"download_size"`
	SourceChecksum *content.Checksum `json:"download_checksum,omitempty"`
}

// NewZimPackage returns a ZimPackage with the default kind and domain set.
func NewZimPackage(p ZimPackage) (*ZimPackage, error) {
	p.Kind = KindZim
	if p.Domain == "" {
		p.Domain = "kiwix"
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (*ZimPackage) isPackage() {}

func (p *ZimPackage) Validate() error {
	if p.Domain == "" {
		p.Domain = "kiwix"
	}
	if err := p.validate(); err != nil {
		return err
	}
	if _, err := ZimIdentFrom(p.Ident); err != nil {
		return err
	}
	if p.Source == "" {
		return fmt.Errorf("%s: %w", p.Ident, content.ErrMissingSource)
	}
	return nil
}

// Filename is derived from the ident so that a newer version
// of the same title replaces the previous one.
func (p *ZimPackage) Filename() string {
	zi, err := ZimIdentFrom(p.Ident)
	if err != nil {
		return SanitizeFilename(p.Ident) + ".zim"
	}
	return SanitizeFilename(zi.Publisher+"_"+zi.Name+"_"+zi.Flavour) + ".zim"
}

func (p *ZimPackage) URL(fqdn string) string {
	return "//" + p.Domain + "." + fqdn + "/viewer#" + HumanID(p.Filename())
}

func (p *ZimPackage) DownloadURL(downloadFQDN string) string {
	if downloadFQDN == "" {
		return ""
	}
	return "//" + downloadFQDN + "/" + p.Filename()
}

func (p *ZimPackage) DownloadSize() int64 {
	return p.SourceSize
}

func (p *ZimPackage) DownloadChecksum() *content.Checksum {
	return p.SourceChecksum
}

func (p *ZimPackage) Size() int64 {
	return p.SourceSize
}

func (p *ZimPackage) File() (content.File, error) {
	size := p.SourceSize
	if size == 0 {
		size = content.SizeUnknown
	}
	return content.NewFile(content.File{
		To:       ZimsPath + "/" + p.Filename(),
		URL:      p.Source,
		Via:      content.ViaDirect,
		Size:     size,
		Checksum: p.SourceChecksum,
	})
}

// HumanID is the identifier kiwix-serve gives to a ZIM file
// in its URLs.
func HumanID(filename string) string {
	name := path.Base(filename)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = removeAccents(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "+", "plus")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SanitizeFilename removes the characters that are invalid in
// a filename on any common filesystem.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimRight(strings.TrimSpace(name), ".")
}

package packages

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/offspot/offspot-config/pkg/content"
)

// Credentials protects a service behind basic authentication.
// It is (de)serialised as a [username, password] pair.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{c.Username, c.Password})
}

func (c *Credentials) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("credentials must be a [username, password] pair, got %d values", len(pair))
	}
	c.Username, c.Password = pair[0], pair[1]
	return nil
}

// AppPackage is a containerised web application.
type AppPackage struct {
	Descriptor

	Image         string `json:"image"`
	ImageFileSize int64  `json:"image_filesize"`
	ImageFullSize int64  `json:"image_fullsize"`

	// optional payload written to the app's directory
	Source         string            `json:"download_url,omitempty"`
	SourceSize     int64             `json:"download_size,omitempty"`
	SourceChecksum *content.Checksum `json:"download_checksum,omitempty"`
	DownloadTo     string            `json:"download_to,omitempty"`
	DownloadVia    content.Via       `json:"download_via,omitempty"`

	// global:local environ to pass from the config to the container
	EnvironMap map[string]string `json:"environ_map,omitempty"`
	Environ    map[string]string `json:"environ,omitempty"`
	// host:container[:ro]
	Volumes []string `json:"volumes,omitempty"`
	// service[:alias]
	Links []string `json:"links,omitempty"`
	// subdomain to service:port
	SubServices map[string]string `json:"sub_services,omitempty"`
	ProtectedBy *Credentials      `json:"protected_by,omitempty"`
}

func (*AppPackage) isPackage() {}

func (p *AppPackage) URL(fqdn string) string {
	return "//" + p.Domain + "." + fqdn + "/"
}

func (*AppPackage) DownloadURL(string) string {
	return ""
}

func (p *AppPackage) DownloadSize() int64 {
	return p.SourceSize
}

func (p *AppPackage) DownloadChecksum() *content.Checksum {
	return p.SourceChecksum
}

func (p *AppPackage) Size() int64 {
	return p.ImageFullSize + p.SourceSize
}

func (p *AppPackage) Validate() error {
	if err := p.validate(); err != nil {
		return err
	}
	if p.Kind != KindApp {
		return fmt.Errorf("%s: %w", p.Ident, ErrNotApp)
	}
	if _, err := p.OCIImage(); err != nil {
		return fmt.Errorf("%s: %w", p.Ident, err)
	}
	for _, vol := range p.Volumes {
		if _, _, _, err := SplitVolume(vol); err != nil {
			return fmt.Errorf("%s: %w", p.Ident, err)
		}
	}
	for sub, target := range p.SubServices {
		if _, _, ok := strings.Cut(target, ":"); !ok {
			return fmt.Errorf("%s: sub-service %s target must be service:port, got %q", p.Ident, sub, target)
		}
	}
	if p.HasFile() {
		if _, err := p.File(); err != nil {
			return fmt.Errorf("%s: %w", p.Ident, err)
		}
	}
	return nil
}

func (p *AppPackage) OCIImage() (content.OCIImage, error) {
	return content.NewOCIImage(p.Image, p.ImageFileSize, p.ImageFullSize)
}

func (p *AppPackage) HasFile() bool {
	return p.Source != ""
}

// Filename is the name of the app's payload inside the content directory.
func (p *AppPackage) Filename() string {
	if p.DownloadTo != "" {
		return p.DownloadTo
	}
	return p.Ident
}

// File is the payload of the app, to be written in the content directory.
func (p *AppPackage) File() (content.File, error) {
	size := p.SourceSize
	if size == 0 {
		size = content.SizeUnknown
	}
	return content.NewFile(content.File{
		To:       content.ContentTargetPath + "/" + p.Filename(),
		URL:      p.Source,
		Via:      p.DownloadVia,
		Size:     size,
		Checksum: p.SourceChecksum,
	})
}

var (
	appIDHead = regexp.MustCompile(`[^a-zA-Z0-9]`)
	appIDTail = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)
)

// AppID is an identifier derived from the ident that is safe to use
// as a container or file name.
func (p *AppPackage) AppID() string {
	ident := strings.TrimSpace(p.Ident)
	if ident == "" {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	id := appIDHead.ReplaceAllString(ident[:1], "") + appIDTail.ReplaceAllString(ident[1:], "")
	if id == "" {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return id
}

// SplitVolume parses a host:container[:ro] volume definition.
func SplitVolume(spec string) (string, string, bool, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false, fmt.Errorf("volume must be host:container[:ro], got %q", spec)
	}
	readOnly := len(parts) == 3 && strings.Contains(parts[2], "ro")
	return parts[0], parts[1], readOnly, nil
}

package builder

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path"

	"github.com/go-logr/logr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/catalog"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/dashboard"
	"github.com/offspot/offspot-config/pkg/macros"
	"github.com/offspot/offspot-config/pkg/packages"
	"github.com/offspot/offspot-config/pkg/sizes"
	"k8s.io/apimachinery/pkg/util/sets"
)

var (
	ErrDuplicateFile = errors.New("another file is already written to this destination")
	ErrRendered      = errors.New("manifest has already been rendered")
)

// Fetcher retrieves information about online resources.
type Fetcher interface {
	content.SizeFetcher
	content.DigestFetcher
	packages.IconFetcher
}

// Options are the hotspot-wide settings of a manifest.
type Options struct {
	Name        string
	Base        v1.BaseConfig
	Output      v1.OutputSize
	Domain      string
	TLD         string
	SSID        string
	Passphrase  string
	AsGateway   bool
	Timezone    string
	Hostname    string
	Ethernet    *v1.EthernetConfig
	Environ     map[string]string
	WriteConfig bool
}

func (o *Options) setDefaults() {
	if o.Name == "" {
		o.Name = "My Offspot"
	}
	if o.Domain == "" {
		o.Domain = "my-offspot"
	}
	if o.TLD == "" {
		o.TLD = "offspot"
	}
	if o.SSID == "" {
		o.SSID = o.Domain
	}
	if o.Timezone == "" {
		o.Timezone = "UTC"
	}
	if o.Ethernet == nil {
		o.Ethernet = &v1.EthernetConfig{Type: v1.EthernetDHCP}
	}
	if o.Environ == nil {
		o.Environ = map[string]string{}
	}
}

// ConfigBuilder composes a manifest out of feature requests.
//
// Every Add method is idempotent. Render finalises the manifest and
// may only be called once. A ConfigBuilder is not safe for concurrent use.
type ConfigBuilder struct {
	opts     Options
	catalog  *catalog.Catalog
	fetcher  Fetcher
	resolver *macros.Resolver

	manifest     v1.Manifest
	images       sets.Set[string]
	destinations map[string]int

	withDashboard     bool
	withReverseProxy  bool
	withCaptivePortal bool
	withHwclock       bool
	withMetrics       bool
	withKiwixServe    bool
	withFiles         bool
	withZimDownloads  bool

	zimDownloads bool
	entries      []packages.Package
	readers      []dashboard.Reader
	links        []dashboard.Link
	reversed     sets.Set[string]
	filesMapping map[string]string
	protected    map[string]packages.Credentials
	touched      sets.Set[string]
	rendered     bool
}

// NewConfigBuilder returns a builder for a new manifest. cat is used to
// resolve ${APP_DIR:ident} and may be nil. fetcher may be nil as long as
// every size is known and no icon has to be retrieved.
func NewConfigBuilder(ctx context.Context, opts Options, cat *catalog.Catalog, fetcher Fetcher) *ConfigBuilder {
	log := logr.FromContextOrDiscard(ctx)
	opts.setDefaults()

	b := &ConfigBuilder{
		opts:         opts,
		catalog:      cat,
		fetcher:      fetcher,
		images:       sets.New[string](),
		destinations: map[string]int{},
		reversed:     sets.New[string](),
		filesMapping: map[string]string{},
		protected:    map[string]packages.Credentials{},
		touched:      sets.New[string](),
	}
	mctx := macros.Context{
		FQDN:    b.FQDN(),
		Environ: opts.Environ,
	}
	if cat != nil {
		mctx.AppDir = cat.AppDir
	}
	b.resolver = macros.NewResolver(mctx)

	b.manifest = v1.Manifest{
		Base:        opts.Base,
		Output:      v1.OutputConfig{Size: opts.Output},
		OCIImages:   []content.OCIImage{},
		Files:       []content.File{},
		WriteConfig: opts.WriteConfig,
		Offspot: v1.OffspotConfig{
			Timezone: opts.Timezone,
			Hostname: opts.Hostname,
			Ethernet: *opts.Ethernet,
			AP: v1.APConfig{
				Domain:     opts.Domain,
				TLD:        opts.TLD,
				SSID:       opts.SSID,
				Passphrase: opts.Passphrase,
				AsGateway:  opts.AsGateway,
			},
			Containers: v1.ContainerConfig{
				Name:     "offspot",
				Services: map[string]*v1.Service{},
			},
		},
	}
	log.V(1).Info("prepared manifest builder", "fqdn", b.FQDN())
	return b
}

// FQDN is the fully qualified domain of the hotspot.
func (b *ConfigBuilder) FQDN() string {
	return b.opts.Domain + "." + b.opts.TLD
}

// Resolve substitutes variables in text. pkg may be nil.
func (b *ConfigBuilder) Resolve(text string, pkg packages.Package) (string, error) {
	return b.resolver.Resolve(text, pkg)
}

// Manifest returns a copy of the manifest as built so far.
func (b *ConfigBuilder) Manifest() v1.Manifest {
	return *b.manifest.DeepCopy()
}

// Services returns the name of every compose service.
func (b *ConfigBuilder) Services() []string {
	return sets.List(sets.KeySet(b.manifest.Offspot.Containers.Services))
}

// ReversedServices returns the reverse-proxy domain set, sorted.
func (b *ConfigBuilder) ReversedServices() []string {
	return sets.List(b.reversed)
}

// Entries returns the packages displayed on the dashboard.
func (b *ConfigBuilder) Entries() []packages.Package {
	out := make([]packages.Package, len(b.entries))
	copy(out, b.entries)
	return out
}

// FilesMapping returns the domain to folder map of the files service.
func (b *ConfigBuilder) FilesMapping() map[string]string {
	return maps.Clone(b.filesMapping)
}

// SetOutputSize sets the size of the image. Zero lets the image
// builder compute it.
func (b *ConfigBuilder) SetOutputSize(size v1.OutputSize) {
	b.manifest.Output.Size = size
}

// ContentSize returns the size of the content of the manifest. Unknown
// file sizes are fetched and kept in the manifest.
func (b *ConfigBuilder) ContentSize(ctx context.Context) (int64, error) {
	log := logr.FromContextOrDiscard(ctx)
	for i, f := range b.manifest.Files {
		if f.Size >= 0 {
			continue
		}
		if b.fetcher == nil && f.IsRemote() {
			return 0, fmt.Errorf("%s: %w", f.To, content.ErrUnknownSize)
		}
		log.V(2).Info("fetching file size", "to", f.To, "url", f.URL)
		sized, err := f.WithSize(ctx, b.fetcher)
		if err != nil {
			log.Error(err, "failed to fetch file size", "to", f.To)
			return 0, err
		}
		b.manifest.Files[i] = sized
	}
	return sizes.ContentSize(b.manifest.OCIImages, b.manifest.Files)
}

// MinImageSize returns the smallest image able to hold the base
// system, the content and a safety margin.
func (b *ConfigBuilder) MinImageSize(ctx context.Context) (int64, error) {
	contentSize, err := b.ContentSize(ctx)
	if err != nil {
		return 0, err
	}
	return sizes.MinImageSize(int64(b.manifest.Base.RootfsSize), contentSize, sizes.Margin(contentSize)), nil
}

func (b *ConfigBuilder) addImage(img content.OCIImage) {
	if b.images.Has(img.Ident) {
		return
	}
	b.images.Insert(img.Ident)
	b.manifest.OCIImages = append(b.manifest.OCIImages, img)
}

func (b *ConfigBuilder) addService(name string, svc *v1.Service) {
	b.manifest.Offspot.Containers.Services[name] = svc
}

func (b *ConfigBuilder) service(name string) (*v1.Service, bool) {
	svc, ok := b.manifest.Offspot.Containers.Services[name]
	return svc, ok
}

// AddFile adds f to the manifest. Adding an identical file twice
// is a no-op but two different files can't share a destination.
func (b *ConfigBuilder) AddFile(f content.File) error {
	if b.rendered {
		return ErrRendered
	}
	return b.addFile(f)
}

func (b *ConfigBuilder) addFile(f content.File) error {
	f, err := content.NewFile(f)
	if err != nil {
		return err
	}
	if i, ok := b.destinations[f.To]; ok {
		if b.manifest.Files[i].Equal(f) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateFile, f.To)
	}
	b.destinations[f.To] = len(b.manifest.Files)
	b.manifest.Files = append(b.manifest.Files, f)
	return nil
}

// EnsureHostPath makes sure that the directory p exists on the data
// partition by adding an empty placeholder file in it. Each directory
// gets a single placeholder. Paths outside the data partition are
// expected to exist already.
func (b *ConfigBuilder) EnsureHostPath(p string) error {
	p = path.Clean(p)
	if !content.InDataPart(p) || b.touched.Has(p) {
		return nil
	}
	touch, err := content.NewContentFile(p+"/.touch", "", content.ViaDirect)
	if err != nil {
		return err
	}
	if err := b.addFile(touch); err != nil {
		return err
	}
	b.touched.Insert(p)
	return nil
}

func (b *ConfigBuilder) hasEntry(p packages.Package) bool {
	for _, e := range b.entries {
		if packages.Same(e, p) {
			return true
		}
	}
	return false
}

func bindMount(source, target string, readOnly bool) v1.Volume {
	return v1.Volume{Type: "bind", Source: source, Target: target, ReadOnly: readOnly}
}

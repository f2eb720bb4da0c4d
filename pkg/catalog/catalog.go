package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/go-logr/logr"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/packages"
	"go.uber.org/multierr"
	"k8s.io/apimachinery/pkg/util/yaml"
)

//go:embed catalog.json
var bundled []byte

var (
	ErrNotFound    = errors.New("package not found")
	ErrUnknownKind = packages.ErrUnknownKind
)

// Catalog is a read-only registry of packages indexed by ident.
type Catalog struct {
	packages map[string]packages.Package
	idents   []string
}

// Default returns the catalog bundled with the binary.
func Default(ctx context.Context) (*Catalog, error) {
	return Load(ctx, bytes.NewReader(bundled))
}

// Load reads a catalog document: a list of package records in
// either YAML or JSON. Every invalid record is reported.
func Load(ctx context.Context, r io.Reader) (*Catalog, error) {
	log := logr.FromContextOrDiscard(ctx)

	var records []json.RawMessage
	if err := yaml.NewYAMLOrJSONDecoder(r, 4096).Decode(&records); err != nil {
		log.Error(err, "failed to decode catalog")
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c := &Catalog{packages: make(map[string]packages.Package, len(records))}
	var errs error
	for i, record := range records {
		p, err := packages.Unmarshal(record)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		ident := p.Meta().Ident
		if _, ok := c.packages[ident]; ok {
			errs = multierr.Append(errs, fmt.Errorf("record %d: duplicate ident %s", i, ident))
			continue
		}
		c.packages[ident] = p
		c.idents = append(c.idents, ident)
	}
	if errs != nil {
		return nil, errs
	}
	log.V(1).Info("loaded catalog", "count", len(c.idents))
	return c, nil
}

// New builds a catalog from existing packages.
func New(pkgs ...packages.Package) (*Catalog, error) {
	c := &Catalog{packages: make(map[string]packages.Package, len(pkgs))}
	for _, p := range pkgs {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		ident := p.Meta().Ident
		if _, ok := c.packages[ident]; ok {
			return nil, fmt.Errorf("duplicate ident %s", ident)
		}
		c.packages[ident] = p
		c.idents = append(c.idents, ident)
	}
	return c, nil
}

func (c *Catalog) Get(ident string) (packages.Package, error) {
	p, ok := c.packages[ident]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ident)
	}
	return p, nil
}

func (c *Catalog) GetApp(ident string) (*packages.AppPackage, error) {
	return get[*packages.AppPackage](c, ident, packages.KindApp)
}

func (c *Catalog) GetFiles(ident string) (*packages.FilesPackage, error) {
	return get[*packages.FilesPackage](c, ident, packages.KindFiles)
}

func (c *Catalog) GetZim(ident string) (*packages.ZimPackage, error) {
	return get[*packages.ZimPackage](c, ident, packages.KindZim)
}

func get[T packages.Package](c *Catalog, ident string, kind packages.Kind) (T, error) {
	var zero T
	p, ok := c.packages[ident]
	if !ok {
		return zero, fmt.Errorf("%w: no %s matching %s", ErrNotFound, kind, ident)
	}
	out, ok := p.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is a %s, not a %s", ErrNotFound, ident, p.Meta().Kind, kind)
	}
	return out, nil
}

// AppDir returns the on-host directory of the package with this ident.
func (c *Catalog) AppDir(ident string) (string, error) {
	if _, err := c.Get(ident); err != nil {
		return "", err
	}
	return AppDir(ident), nil
}

// AppDir is the dedicated on-host directory of an installed package.
func AppDir(ident string) string {
	return content.ContentTargetPath + "/" + ident
}

func (c *Catalog) Len() int {
	return len(c.idents)
}

// Idents returns the idents of all packages, in catalog order.
func (c *Catalog) Idents() []string {
	return slices.Clone(c.idents)
}

package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"k8s.io/apimachinery/pkg/util/yaml"
	sigyaml "sigs.k8s.io/yaml"
)

var ErrMissingManifest = errors.New("missing manifest")

// Name returns the default path of the manifest built from
// the request at s.
func Name(s string) string {
	return strings.TrimSuffix(s, filepath.Ext(s)) + "-manifest.yaml"
}

// Read parses and validates the manifest at path.
func Read(ctx context.Context, path string) (*v1.Manifest, error) {
	log := logr.FromContextOrDiscard(ctx)
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingManifest, path)
		}
		log.Error(err, "failed to open manifest")
		return nil, err
	}
	defer f.Close()

	m, err := Parse(ctx, f)
	if err != nil {
		log.Error(err, "failed to read manifest", "path", path)
		return nil, err
	}
	return m, nil
}

// Parse reads a YAML or JSON manifest and validates it as a whole.
func Parse(ctx context.Context, r io.Reader) (*v1.Manifest, error) {
	var m v1.Manifest
	if err := yaml.NewYAMLOrJSONDecoder(r, 4096).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	logr.FromContextOrDiscard(ctx).V(2).Info("parsed manifest", "files", len(m.Files), "images", len(m.OCIImages))
	return &m, nil
}

// Marshal serialises the manifest as YAML.
func Marshal(m *v1.Manifest) ([]byte, error) {
	return sigyaml.Marshal(m)
}

// ParseBytes is Parse for in-memory manifests.
func ParseBytes(ctx context.Context, data []byte) (*v1.Manifest, error) {
	return Parse(ctx, bytes.NewReader(data))
}

package manifest

import (
	"errors"
	"fmt"

	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"go.uber.org/multierr"
)

var ErrDuplicateDestination = errors.New("several files are written to the same destination")

// Validate checks the integrity of the manifest as a whole. Every
// violation is reported.
func Validate(m *v1.Manifest) error {
	var err error
	if m.Base.Source == "" {
		err = multierr.Append(err, errors.New("base source must be set"))
	}
	if m.Base.Checksum != nil {
		err = multierr.Append(err, m.Base.Checksum.Validate())
	}

	seen := map[string]int{}
	for i, f := range m.Files {
		if e := f.Validate(); e != nil {
			err = multierr.Append(err, fmt.Errorf("files[%d]: %w", i, e))
		}
		if j, ok := seen[f.To]; ok {
			err = multierr.Append(err, fmt.Errorf("%w: %s (files[%d] and files[%d])", ErrDuplicateDestination, f.To, j, i))
			continue
		}
		seen[f.To] = i
	}

	images := map[string]struct{}{}
	for _, img := range m.OCIImages {
		if _, ok := images[img.Ident]; ok {
			err = multierr.Append(err, fmt.Errorf("image %s is listed more than once", img.Ident))
		}
		images[img.Ident] = struct{}{}
	}

	for name, svc := range m.Offspot.Containers.Services {
		if svc == nil || svc.Image == "" {
			err = multierr.Append(err, fmt.Errorf("service %s has no image", name))
		}
	}
	return err
}

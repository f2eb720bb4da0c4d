package packages

import (
	"encoding/json"
	"fmt"
)

// Unmarshal decodes a single catalog record into the package
// variant matching its kind.
func Unmarshal(data []byte) (Package, error) {
	var head struct {
		Ident string `json:"ident"`
		Kind  Kind   `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var p Package
	switch head.Kind {
	case KindApp:
		p = &AppPackage{}
	case KindZim:
		p = &ZimPackage{}
	case KindFiles:
		p = &FilesPackage{}
	default:
		return nil, fmt.Errorf("%s: %w: %q", head.Ident, ErrUnknownKind, head.Kind)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decoding %s package %s: %w", head.Kind, head.Ident, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

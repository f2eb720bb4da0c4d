package statements

import (
	"encoding/json"
	"fmt"

	cbev1 "github.com/Snakdy/container-build-engine/pkg/api/v1"
)

// decode reads the options into out following its json tags.
func decode(options cbev1.Options, out any) error {
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("reading options: %w", err)
	}
	return nil
}

// optional returns the value of key or the zero value when it is
// absent. A value of the wrong type is an error.
func optional[T any](options cbev1.Options, key string) (T, error) {
	var zero T
	v, ok := options[key]
	if !ok || v == nil {
		return zero, nil
	}
	val, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("option %q must be a %T, got %T", key, zero, v)
	}
	return val, nil
}

// stringMap reads key as a map of strings.
func stringMap(options cbev1.Options, key string) (map[string]string, error) {
	raw, err := optional[map[string]any](options, key)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("option %s.%s must be a string, got %T", key, k, v)
		}
		out[k] = s
	}
	return out, nil
}

package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/offspot/offspot-config/pkg/sizes"
)

// ByteSize is a size in bytes. It can be read from a number
// or a human representation such as "2.5GiB".
type ByteSize int64

func (b *ByteSize) UnmarshalJSON(data []byte) error {
	n, err := parseSize(data)
	if err != nil {
		return err
	}
	*b = ByteSize(n)
	return nil
}

func (b ByteSize) String() string {
	return sizes.Format(int64(b))
}

// SizeAuto lets the image builder compute the output size.
const SizeAuto = "auto"

// OutputSize is either a size in bytes or automatic (zero).
type OutputSize int64

func (o OutputSize) IsAuto() bool {
	return o <= 0
}

func (o OutputSize) MarshalJSON() ([]byte, error) {
	if o.IsAuto() {
		return json.Marshal(SizeAuto)
	}
	return json.Marshal(int64(o))
}

func (o *OutputSize) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte(`"`+SizeAuto+`"`)) || string(data) == "null" {
		*o = 0
		return nil
	}
	n, err := parseSize(data)
	if err != nil {
		return err
	}
	*o = OutputSize(n)
	return nil
}

func parseSize(data []byte) (int64, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, err
	}
	switch v := raw.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("size must not be negative: %v", v)
		}
		return strconv.ParseInt(string(bytes.TrimSpace(data)), 10, 64)
	case string:
		return sizes.Parse(v)
	default:
		return 0, fmt.Errorf("size must be a number or a string, got %s", data)
	}
}

package content

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// DigestFetcher reads a digest published at a URL.
type DigestFetcher interface {
	ChecksumDigest(ctx context.Context, url string) (string, error)
}

// Checksum is used to validate a download. A checksum of kind ChecksumURL
// is pending: its Value is the URL of the digest and it must be resolved
// before the digest can be read.
type Checksum struct {
	Algo  string       `json:"algo"`
	Value string       `json:"value"`
	Kind  ChecksumKind `json:"kind,omitempty"`
}

func NewChecksum(algo, value string, kind ChecksumKind) (Checksum, error) {
	if kind == "" {
		kind = ChecksumDigest
	}
	c := Checksum{Algo: algo, Value: value, Kind: kind}
	if err := c.Validate(); err != nil {
		return Checksum{}, err
	}
	return c, nil
}

func (c Checksum) Validate() error {
	if !slices.Contains(SupportedAlgorithms, c.Algo) {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedAlgorithm, c.Algo, strings.Join(SupportedAlgorithms, ","))
	}
	switch c.Kind {
	case "", ChecksumDigest, ChecksumURL:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, c.Kind)
	}
	if c.Value == "" {
		return fmt.Errorf("checksum value must not be empty")
	}
	return nil
}

func (c Checksum) IsPending() bool {
	return c.Kind == ChecksumURL
}

// Resolve returns a resolved copy of the checksum, fetching the digest
// if the checksum is pending.
func (c Checksum) Resolve(ctx context.Context, f DigestFetcher) (Checksum, error) {
	if !c.IsPending() {
		c.Kind = ChecksumDigest
		return c, nil
	}
	digest, err := f.ChecksumDigest(ctx, c.Value)
	if err != nil {
		return Checksum{}, fmt.Errorf("reading checksum from %s: %w", c.Value, err)
	}
	return Checksum{Algo: c.Algo, Value: digest, Kind: ChecksumDigest}, nil
}

func (c Checksum) Digest() (string, error) {
	if c.IsPending() {
		return "", ErrPendingChecksum
	}
	return c.Value, nil
}

// Aria returns the checksum in the aria2c format: {algo}={digest}
func (c Checksum) Aria() (string, error) {
	digest, err := c.Digest()
	if err != nil {
		return "", err
	}
	return c.Algo + "=" + digest, nil
}

package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChecksum(t *testing.T) {
	var cases = []struct {
		algo  string
		value string
		kind  ChecksumKind
		ok    bool
	}{
		{"md5", "9e92449ce93115e8d85e29e8e584dece", "", true},
		{"sha-256", "https://example.com/file.sha256", ChecksumURL, true},
		{"sha256", "abc", ChecksumDigest, false},
		{"md5", "abc", "magnet", false},
		{"md5", "", ChecksumDigest, false},
	}

	for _, tt := range cases {
		t.Run(tt.algo+"/"+string(tt.kind), func(t *testing.T) {
			c, err := NewChecksum(tt.algo, tt.value, tt.kind)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, c.Kind)
		})
	}
}

func TestChecksum_Resolve(t *testing.T) {
	ctx := context.TODO()

	t.Run("pending checksum is fetched", func(t *testing.T) {
		fetcher := &fakeFetcher{digest: "d41d8cd98f00b204e9800998ecf8427e"}
		c, err := NewChecksum("md5", "https://example.com/a.md5", ChecksumURL)
		require.NoError(t, err)

		_, err = c.Digest()
		assert.ErrorIs(t, err, ErrPendingChecksum)

		resolved, err := c.Resolve(ctx, fetcher)
		require.NoError(t, err)
		assert.False(t, resolved.IsPending())
		assert.True(t, c.IsPending())

		aria, err := resolved.Aria()
		assert.NoError(t, err)
		assert.EqualValues(t, "md5=d41d8cd98f00b204e9800998ecf8427e", aria)

		// resolving again never calls the fetcher
		_, err = resolved.Resolve(ctx, fetcher)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, fetcher.calls)
	})
	t.Run("digest checksum is kept", func(t *testing.T) {
		c, err := NewChecksum("sha-1", "abc", ChecksumDigest)
		require.NoError(t, err)
		out, err := c.Resolve(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, c, out)
	})
}

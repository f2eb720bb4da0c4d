package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOCIImage(t *testing.T) {
	var cases = []struct {
		ref   string
		ident string
		ok    bool
	}{
		{"ghcr.io/offspot/dashboard:1.0", "ghcr.io/offspot/dashboard:1.0", true},
		{"busybox", "index.docker.io/library/busybox:latest", true},
		{"ghcr.io/offspot/Dashboard:1.0", "", false},
	}
	for _, tt := range cases {
		t.Run(tt.ref, func(t *testing.T) {
			img, err := NewOCIImage(tt.ref, 10, 20)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tt.ident, img.Ident)
			assert.EqualValues(t, tt.ident, img.Source())
		})
	}
}

func TestOCIImage_Equality(t *testing.T) {
	a := MustOCIImage("ghcr.io/offspot/kiwix-serve:3.5.0-2", 29194240, 29162475)
	b := MustOCIImage("ghcr.io/offspot/kiwix-serve:3.5.0-2", 29194240, 29162475)
	c := MustOCIImage("ghcr.io/offspot/kiwix-serve:3.5.0-2", 1, 29162475)

	assert.True(t, a == b)
	assert.False(t, a == c)
	assert.EqualValues(t, a.Ident, c.Ident)
}

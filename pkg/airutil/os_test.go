package airutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("OFFSPOT_TEST_DIR", "/srv/offspot")

	var cases = []struct {
		in  string
		out string
	}{
		{"${OFFSPOT_TEST_DIR}/catalog.yaml", "/srv/offspot/catalog.yaml"},
		{"$OFFSPOT_TEST_DIR", "$OFFSPOT_TEST_DIR"},
		{"${OFFSPOT_TEST_MISSING:-fallback}", "fallback"},
		{"https://example.com/catalog.yaml", "https://example.com/catalog.yaml"},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			assert.EqualValues(t, tt.out, ExpandEnv(tt.in))
		})
	}
}

func TestEnviron(t *testing.T) {
	t.Setenv("LANG", "fr_FR.UTF-8")
	t.Setenv("ADMIN_PASSWORD", "s3cret=x")

	env := Environ()
	assert.EqualValues(t, "C", env["LANG"])
	assert.EqualValues(t, "C", env["LC_ALL"])
	assert.EqualValues(t, "s3cret=x", env["ADMIN_PASSWORD"])
}

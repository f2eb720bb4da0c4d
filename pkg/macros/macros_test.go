package macros

import (
	"context"
	"strings"
	"testing"

	"github.com/offspot/offspot-config/pkg/catalog"
	"github.com/offspot/offspot-config/pkg/packages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) *Resolver {
	c, err := catalog.Load(context.TODO(), strings.NewReader(`[{"ident": "other", "kind": "files", "domain": "other", "via": "zip", "download_url": "https://example.com/o.zip"}]`))
	require.NoError(t, err)

	return NewResolver(Context{
		FQDN: "my-offspot.offspot",
		Environ: map[string]string{
			"ADMIN_PASSWORD": "s3cret",
			"TRICKY":         "${FQDN}",
		},
		AppDir: c.AppDir,
	})
}

func TestResolver_Resolve(t *testing.T) {
	r := newResolver(t)
	pkg := &packages.AppPackage{Descriptor: packages.Descriptor{Ident: "nomad.offspot.kiwix.org", Domain: "nomad"}}

	var cases = []struct {
		name string
		in   string
		pkg  packages.Package
		out  string
	}{
		{"fqdn", "${FQDN}", nil, "my-offspot.offspot"},
		{"reverse name", "http://${REVERSE_NAME}:80", nil, "http://reverse-proxy:80"},
		{"branding", "${BRANDING_PATH}:${ORIGINAL_BRANDING_PATH}", nil, "/data/contents/branding:/data/contents/branding.original"},
		{"app dir", "${APP_DIR}/media", pkg, "/data/contents/nomad.offspot.kiwix.org/media"},
		{"other app dir", "${APP_DIR:other}", pkg, "/data/contents/other"},
		{"package ident", "${PACKAGE_IDENT}", pkg, "nomad.offspot.kiwix.org"},
		{"package domain", "${PACKAGE_DOMAIN}", pkg, "nomad"},
		{"package fqdn", "https://${PACKAGE_FQDN}/", pkg, "https://nomad.my-offspot.offspot/"},
		{"environ", "$environ{ADMIN_PASSWORD}", nil, "s3cret"},
		{"environ before macros", "$environ{TRICKY}", nil, "my-offspot.offspot"},
		{"unregistered is kept", "${HOME}/x", nil, "${HOME}/x"},
		{"plain text", "nothing to do", nil, "nothing to do"},
		{"mixed", "$environ{ADMIN_PASSWORD}@${FQDN}", nil, "s3cret@my-offspot.offspot"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Resolve(tt.in, tt.pkg)
			assert.NoError(t, err)
			assert.EqualValues(t, tt.out, out)
		})
	}
}

func TestResolver_Resolve_Errors(t *testing.T) {
	r := newResolver(t)

	var cases = []struct {
		name string
		in   string
	}{
		{"missing environ", "$environ{MISSING}"},
		{"unknown app dir", "${APP_DIR:nope}"},
		{"package macro without package", "${PACKAGE_IDENT}"},
		{"app dir without package", "${APP_DIR}"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.in, nil)
			assert.Error(t, err)
		})
	}

	_, err := r.Resolve("$environ{MISSING}", nil)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestResolver_NoRecursion(t *testing.T) {
	r := NewResolver(Context{
		FQDN:    "${FQDN}",
		Environ: map[string]string{"A": "$environ{B}", "B": "b"},
	})

	out, err := r.Resolve("${FQDN}", nil)
	assert.NoError(t, err)
	assert.EqualValues(t, "${FQDN}", out)

	out, err = r.Resolve("$environ{A}", nil)
	assert.NoError(t, err)
	assert.EqualValues(t, "$environ{B}", out)
}

func TestResolver_ResolveAll(t *testing.T) {
	r := newResolver(t)

	out, err := r.ResolveAll(map[string]string{"URL": "http://${FQDN}"}, nil)
	assert.NoError(t, err)
	assert.EqualValues(t, map[string]string{"URL": "http://my-offspot.offspot"}, out)

	_, err = r.ResolveAll(map[string]string{"PASS": "$environ{MISSING}"}, nil)
	assert.ErrorIs(t, err, ErrUnresolved)
}

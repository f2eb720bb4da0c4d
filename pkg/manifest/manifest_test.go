package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/logr/testr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	sizes  map[string]int64
	digest string
}

func (f *fakeFetcher) RemoteSize(_ context.Context, url string) (int64, error) {
	size, ok := f.sizes[url]
	if !ok {
		return 0, errors.New("not found")
	}
	return size, nil
}

func (f *fakeFetcher) ChecksumDigest(context.Context, string) (string, error) {
	return f.digest, nil
}

var _ Fetcher = &fakeFetcher{}

const testManifest = `
base:
  source: https://example.com/base.img
  rootfsSize: 2.5GiB
  checksum:
    algo: md5
    value: https://example.com/base.img.md5
    kind: url
output:
  size: auto
ociImages:
  - identity: ghcr.io/offspot/kiwix-serve:3.5.0-2
    filesize: 29194240
    fullsize: 29162475
files:
  - to: /data/contents/zims/a.zim
    url: https://example.com/a.zim
    checksum:
      algo: md5
      value: https://example.com/a.zim.md5
      kind: url
  - to: /data/contents/zims/.touch
    content: ""
    via: direct
    size: 0
writeConfig: false
offspot:
  timezone: UTC
  ethernet:
    type: dhcp
  ap:
    domain: my-offspot
    tld: offspot
    ssid: my-offspot
    as-gateway: false
  containers:
    name: offspot
    services:
      kiwix:
        image: ghcr.io/offspot/kiwix-serve:3.5.0-2
        container_name: kiwix
`

func TestName(t *testing.T) {
	var cases = []struct {
		in  string
		out string
	}{
		{"request.yaml", "request-manifest.yaml"},
		{"/tmp/hotspot.json", "/tmp/hotspot-manifest.yaml"},
		{"hotspot", "hotspot-manifest.yaml"},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			assert.EqualValues(t, tt.out, Name(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	m, err := Parse(ctx, strings.NewReader(testManifest))
	require.NoError(t, err)
	assert.EqualValues(t, 2684354560, m.Base.RootfsSize)
	assert.True(t, m.Output.Size.IsAuto())
	require.Len(t, m.Files, 2)
	assert.EqualValues(t, content.SizeUnknown, m.Files[0].Size)
	assert.Contains(t, m.Offspot.Containers.Services, "kiwix")
}

func TestParse_RoundTrip(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	m, err := Parse(ctx, strings.NewReader(testManifest))
	require.NoError(t, err)

	data, err := Marshal(m)
	require.NoError(t, err)

	out, err := ParseBytes(ctx, data)
	require.NoError(t, err)
	require.Len(t, out.Files, len(m.Files))
	for i := range m.Files {
		assert.EqualValues(t, m.Files[i].To, out.Files[i].To)
		assert.EqualValues(t, m.Files[i].Size, out.Files[i].Size)
	}
	assert.EqualValues(t, m.Base.RootfsSize, out.Base.RootfsSize)
}

func TestValidate(t *testing.T) {
	var cases = []struct {
		name string
		m    v1.Manifest
		err  error
		ok   bool
	}{
		{
			"valid",
			v1.Manifest{
				Base:  v1.BaseConfig{Source: "1.2.0"},
				Files: []content.File{{To: "/data/a", URL: "https://example.com/a", Via: content.ViaDirect}},
			},
			nil,
			true,
		},
		{
			"duplicate destination",
			v1.Manifest{
				Base: v1.BaseConfig{Source: "1.2.0"},
				Files: []content.File{
					{To: "/data/a", URL: "https://example.com/a", Via: content.ViaDirect},
					{To: "/data/a", URL: "https://example.com/b", Via: content.ViaDirect},
				},
			},
			ErrDuplicateDestination,
			false,
		},
		{
			"missing base",
			v1.Manifest{},
			nil,
			false,
		},
		{
			"service without image",
			v1.Manifest{
				Base: v1.BaseConfig{Source: "1.2.0"},
				Offspot: v1.OffspotConfig{
					Containers: v1.ContainerConfig{Services: map[string]*v1.Service{"home": {}}},
				},
			},
			nil,
			false,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.m)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestParse_DuplicateDestination(t *testing.T) {
	doc := testManifest + `
`
	doc = strings.Replace(doc, "to: /data/contents/zims/.touch", "to: /data/contents/zims/a.zim", 1)
	_, err := Parse(context.TODO(), strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrDuplicateDestination)
}

func TestResolve(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	m, err := Parse(ctx, strings.NewReader(testManifest))
	require.NoError(t, err)

	fetcher := &fakeFetcher{
		sizes:  map[string]int64{"https://example.com/a.zim": 26_634_065},
		digest: "9e92449ce93115e8d85e29e8e584dece",
	}
	out, err := Resolve(ctx, m, fetcher)
	require.NoError(t, err)

	// the original is untouched
	assert.EqualValues(t, content.SizeUnknown, m.Files[0].Size)
	assert.True(t, m.Base.Checksum.IsPending())

	assert.EqualValues(t, 26_634_065, out.Files[0].Size)
	assert.False(t, out.Base.Checksum.IsPending())
	assert.False(t, out.Files[0].Checksum.IsPending())
	assert.EqualValues(t, fetcher.digest, out.Files[0].Checksum.Value)

	contentSize, minSize, err := Sizes(out)
	require.NoError(t, err)
	assert.EqualValues(t, 29194240+29162475+26_634_065, contentSize)
	assert.Zero(t, minSize%512)
	assert.Greater(t, minSize, int64(out.Base.RootfsSize)+contentSize)

	_, _, err = Sizes(m)
	assert.ErrorIs(t, err, content.ErrUnknownSize)
}

func TestResolve_LogsDestination(t *testing.T) {
	var lines []string
	ctx := logr.NewContext(context.TODO(), funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{}))

	m, err := Parse(ctx, strings.NewReader(testManifest))
	require.NoError(t, err)

	_, err = Resolve(ctx, m, &fakeFetcher{digest: "9e92449ce93115e8d85e29e8e584dece"})
	assert.Error(t, err)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], `"to"="/data/contents/zims/a.zim"`)
}

func TestFitOutput(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	m, err := Parse(ctx, strings.NewReader(testManifest))
	require.NoError(t, err)

	_, err = FitOutput(m)
	assert.ErrorIs(t, err, content.ErrUnknownSize)
	assert.True(t, m.Output.Size.IsAuto())

	out, err := Resolve(ctx, m, &fakeFetcher{
		sizes:  map[string]int64{"https://example.com/a.zim": 26_634_065},
		digest: "9e92449ce93115e8d85e29e8e584dece",
	})
	require.NoError(t, err)

	size, err := FitOutput(out)
	require.NoError(t, err)
	_, minSize, err := Sizes(out)
	require.NoError(t, err)
	assert.EqualValues(t, minSize, size)
	assert.EqualValues(t, minSize, out.Output.Size)
}

func TestRead(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	path := filepath.Join(t.TempDir(), "manifest.yaml")

	_, err := Read(ctx, path)
	assert.ErrorIs(t, err, ErrMissingManifest)

	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0644))
	m, err := Read(ctx, path)
	require.NoError(t, err)
	assert.EqualValues(t, "https://example.com/base.img", m.Base.Source)

	sum, err := Sha256(path)
	require.NoError(t, err)
	assert.Len(t, sum, 64)
}

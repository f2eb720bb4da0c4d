package cmd

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/builder"
	"github.com/offspot/offspot-config/pkg/manifest"
	"github.com/offspot/offspot-config/pkg/packages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T) (context.Context, *builder.ConfigBuilder) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	b := builder.NewConfigBuilder(ctx, builder.Options{
		Base: v1.BaseConfig{Source: "1.2.0", RootfsSize: 2_638_217_216},
	}, nil, nil)
	require.NoError(t, b.AddDashboard(ctx, false))

	zim, err := packages.NewZimPackage(packages.ZimPackage{
		Descriptor: packages.Descriptor{Ident: "openZIM:wikipedia_en_all:maxi", Title: "Wikipedia"},
		Source:     "https://example.com/wikipedia_en_all_maxi.zim",
		SourceSize: 26_634_065,
	})
	require.NoError(t, err)
	require.NoError(t, b.AddZim(ctx, zim))
	return ctx, b
}

func TestFitOutput_Min(t *testing.T) {
	ctx, b := newBuilder(t)

	before, err := b.MinImageSize(ctx)
	require.NoError(t, err)
	require.NoError(t, setOutputSize(b, outputSizeMin))

	data, err := b.Render(ctx)
	require.NoError(t, err)
	m, err := manifest.ParseBytes(ctx, data)
	require.NoError(t, err)

	data, err = fitOutput(ctx, m, outputSizeMin, data)
	require.NoError(t, err)

	// rendering adds the branding and dashboard files
	_, minSize, err := manifest.Sizes(m)
	require.NoError(t, err)
	assert.Greater(t, minSize, before)

	written, err := manifest.ParseBytes(ctx, data)
	require.NoError(t, err)
	assert.EqualValues(t, minSize, written.Output.Size)
}

func TestFitOutput_Directives(t *testing.T) {
	var cases = []struct {
		directive string
		auto      bool
		size      int64
	}{
		{"", true, 0},
		{"auto", true, 0},
		{"8GiB", false, 8 << 30},
		{"1024", false, 1024},
	}
	for _, tt := range cases {
		t.Run(tt.directive, func(t *testing.T) {
			ctx, b := newBuilder(t)
			require.NoError(t, setOutputSize(b, tt.directive))

			data, err := b.Render(ctx)
			require.NoError(t, err)
			m, err := manifest.ParseBytes(ctx, data)
			require.NoError(t, err)

			out, err := fitOutput(ctx, m, tt.directive, data)
			require.NoError(t, err)
			assert.Equal(t, data, out)
			assert.EqualValues(t, tt.auto, m.Output.Size.IsAuto())
			if !tt.auto {
				assert.EqualValues(t, tt.size, m.Output.Size)
			}
		})
	}
}

func TestSetOutputSize_Invalid(t *testing.T) {
	_, b := newBuilder(t)
	assert.Error(t, setOutputSize(b, "big"))
}

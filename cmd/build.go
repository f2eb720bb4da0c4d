package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/offspot/offspot-config/internal/statements"
	"github.com/offspot/offspot-config/pkg/airutil"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/builder"
	"github.com/offspot/offspot-config/pkg/catalog"
	"github.com/offspot/offspot-config/pkg/fileutil"
	"github.com/offspot/offspot-config/pkg/manifest"
	"github.com/offspot/offspot-config/pkg/sizes"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/yaml"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "build the manifest of a hotspot",
	RunE:  build,
}

const (
	flagConfig     = "config"
	flagCatalog    = "catalog"
	flagOutput     = "output"
	flagOutputSize = "output-size"
	flagCacheDir   = "cache-dir"
)

// outputSizeMin sets the output size to the smallest fitting image.
const outputSizeMin = "min"

func init() {
	buildCmd.Flags().StringP(flagConfig, "c", "", "path or url to a hotspot request file")
	buildCmd.Flags().String(flagCatalog, "", "path or url to a package catalog (defaults to $OFFSPOT_CATALOG or the bundled catalog)")
	buildCmd.Flags().StringP(flagOutput, "o", "", "path to write the manifest to (defaults to <config>-manifest.yaml)")
	buildCmd.Flags().String(flagOutputSize, "", "overrides the output size: auto, min or a size (8GiB)")
	buildCmd.Flags().String(flagCacheDir, "", "cache directory (defaults to $OFFSPOT_CACHE_DIR or the user cache dir)")

	_ = buildCmd.MarkFlagRequired(flagConfig)
	_ = buildCmd.MarkFlagFilename(flagConfig, ".yaml", ".yml", ".json")
	_ = buildCmd.MarkFlagDirname(flagCacheDir)
}

func build(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logr.FromContextOrDiscard(ctx)

	configPath, _ := cmd.Flags().GetString(flagConfig)
	catalogPath, _ := cmd.Flags().GetString(flagCatalog)
	outputPath, _ := cmd.Flags().GetString(flagOutput)
	outputSize, _ := cmd.Flags().GetString(flagOutputSize)
	cacheDir, _ := cmd.Flags().GetString(flagCacheDir)

	s, err := readSettings(ctx)
	if err != nil {
		return err
	}
	if catalogPath == "" {
		catalogPath = s.Catalog
	}
	if cacheDir == "" {
		cacheDir = s.CacheDir
	}
	if outputPath == "" {
		outputPath = manifest.Name(filepath.Base(configPath))
	}

	// read the request
	path, err := localPath(ctx, configPath, cacheDir)
	if err != nil {
		return err
	}
	hotspot, err := readRequest(path)
	if err != nil {
		return err
	}
	log.Info("read hotspot request", "name", hotspot.Name, "features", len(hotspot.Spec.Features))

	cat, err := readCatalog(ctx, catalogPath, cacheDir)
	if err != nil {
		return err
	}
	log.V(1).Info("loaded catalog", "packages", cat.Len())

	fetcher := s.fetcher(ctx)
	b := builder.NewConfigBuilder(ctx, options(hotspot.Spec), cat, fetcher)
	if err := statements.RunAll(ctx, b, hotspot.Spec.Features, statements.Deps{Catalog: cat, Fetcher: fetcher}); err != nil {
		return err
	}

	// sizes must be known before rendering so that
	// they are written to the manifest
	log.Info("computing content size")
	if _, err := b.ContentSize(ctx); err != nil {
		return err
	}
	if err := setOutputSize(b, outputSize); err != nil {
		return err
	}

	data, err := b.Render(ctx)
	if err != nil {
		return err
	}
	m, err := manifest.ParseBytes(ctx, data)
	if err != nil {
		log.Error(err, "rendered manifest is invalid")
		return err
	}
	data, err = fitOutput(ctx, m, outputSize, data)
	if err != nil {
		return err
	}
	contentSize, minSize, err := manifest.Sizes(m)
	if err != nil {
		return err
	}

	if err := fileutil.WriteFile(outputPath, data, 0644); err != nil {
		log.Error(err, "failed to write manifest", "path", outputPath)
		return err
	}
	log.Info("wrote manifest", "path", outputPath, "content", sizes.Format(contentSize), "minImage", sizes.Format(minSize))
	return nil
}

// setOutputSize applies an explicit output size. The minimum is only
// known once the manifest is rendered, see fitOutput.
func setOutputSize(b *builder.ConfigBuilder, directive string) error {
	switch directive {
	case "", outputSizeMin:
	case v1.SizeAuto:
		b.SetOutputSize(0)
	default:
		size, err := sizes.Parse(directive)
		if err != nil {
			return fmt.Errorf("parsing output size: %w", err)
		}
		b.SetOutputSize(v1.OutputSize(size))
	}
	return nil
}

// fitOutput checks the output size of the rendered manifest m against
// everything it holds. With the min directive the size is replaced and
// the manifest marshalled again.
func fitOutput(ctx context.Context, m *v1.Manifest, directive string, data []byte) ([]byte, error) {
	log := logr.FromContextOrDiscard(ctx)
	if directive == outputSizeMin {
		size, err := manifest.FitOutput(m)
		if err != nil {
			return nil, err
		}
		log.V(1).Info("fitted output size", "size", sizes.Format(size))
		return manifest.Marshal(m)
	}
	if m.Output.Size.IsAuto() {
		return data, nil
	}
	_, minSize, err := manifest.Sizes(m)
	if err != nil {
		return nil, err
	}
	if int64(m.Output.Size) < minSize {
		log.Info("output size is smaller than the content", "size", sizes.Format(int64(m.Output.Size)), "min", sizes.Format(minSize))
	}
	return data, nil
}

func options(spec v1.HotspotSpec) builder.Options {
	environ := airutil.Environ()
	for _, e := range spec.Environ {
		environ[e.Name] = e.Value
	}
	return builder.Options{
		Name:        spec.Name,
		Base:        spec.Base,
		Output:      spec.Output.Size,
		Domain:      spec.Domain,
		TLD:         spec.TLD,
		SSID:        spec.SSID,
		Passphrase:  spec.Passphrase,
		AsGateway:   spec.AsGateway,
		Timezone:    spec.Timezone,
		Hostname:    spec.Hostname,
		Ethernet:    spec.Ethernet,
		Environ:     environ,
		WriteConfig: spec.WriteConfig,
	}
}

func readRequest(s string) (v1.Hotspot, error) {
	f, err := os.Open(filepath.Clean(s))
	if err != nil {
		return v1.Hotspot{}, err
	}
	defer f.Close()

	var hotspot v1.Hotspot
	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&hotspot); err != nil {
		return v1.Hotspot{}, err
	}
	return hotspot, nil
}

func readCatalog(ctx context.Context, src, cacheDir string) (*catalog.Catalog, error) {
	if src == "" {
		return catalog.Default(ctx)
	}
	path, err := localPath(ctx, src, cacheDir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.Load(ctx, f)
}

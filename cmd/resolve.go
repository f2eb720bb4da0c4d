package cmd

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/offspot/offspot-config/pkg/fileutil"
	"github.com/offspot/offspot-config/pkg/manifest"
	"github.com/offspot/offspot-config/pkg/sizes"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "fetch the pending checksums and unknown sizes of a manifest",
	RunE:  resolve,
}

const flagManifest = "manifest"

func init() {
	resolveCmd.Flags().StringP(flagManifest, "m", "", "path to a manifest")
	resolveCmd.Flags().StringP(flagOutput, "o", "", "path to write the resolved manifest to (defaults to the manifest itself)")

	_ = resolveCmd.MarkFlagRequired(flagManifest)
	_ = resolveCmd.MarkFlagFilename(flagManifest, ".yaml", ".yml", ".json")
}

func resolve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logr.FromContextOrDiscard(ctx)

	manifestPath, _ := cmd.Flags().GetString(flagManifest)
	outputPath, _ := cmd.Flags().GetString(flagOutput)
	if outputPath == "" {
		outputPath = manifestPath
	}

	s, err := readSettings(ctx)
	if err != nil {
		return err
	}

	m, err := manifest.Read(ctx, manifestPath)
	if err != nil {
		return err
	}
	before, err := manifest.Sha256(manifestPath)
	if err != nil {
		return err
	}

	resolved, err := manifest.Resolve(ctx, m, s.fetcher(ctx))
	if err != nil {
		return err
	}
	contentSize, minSize, err := manifest.Sizes(resolved)
	if err != nil {
		return err
	}

	data, err := manifest.Marshal(resolved)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFile(outputPath, data, 0644); err != nil {
		log.Error(err, "failed to write manifest", "path", outputPath)
		return err
	}
	after, err := manifest.Sha256(outputPath)
	if err != nil {
		return err
	}
	log.Info("resolved manifest", "path", outputPath, "changed", before != after, "content", sizes.Format(contentSize), "minImage", sizes.Format(minSize))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "content size: %s (%d)\nmin image size: %s (%d)\n", sizes.Format(contentSize), contentSize, sizes.Format(minSize), minSize)
	return nil
}

package cmd

import (
	"encoding/json"

	"github.com/offspot/offspot-config/pkg/containerutil"
	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image REF",
	Short: "print the identity and sizes of a container image",
	Args:  cobra.ExactArgs(1),
	RunE:  image,
}

func image(cmd *cobra.Command, args []string) error {
	img, err := containerutil.Probe(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(img)
}

package cmd

import (
	"github.com/offspot/offspot-config/pkg/airutil"
	"github.com/offspot/offspot-config/pkg/archiveutil"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand SRC DST",
	Short: "expand an archive the way files are written to the hotspot",
	Args:  cobra.ExactArgs(2),
	RunE:  expand,
}

const flagVia = "via"

func init() {
	expandCmd.Flags().String(flagVia, string(content.ViaZip), "archive format: zip, tar, gztar, bztar or xztar")
}

func expand(cmd *cobra.Command, args []string) error {
	via, _ := cmd.Flags().GetString(flagVia)
	return archiveutil.Expand(cmd.Context(), airutil.ExpandEnv(args[0]), content.Via(via), airutil.ExpandEnv(args[1]))
}

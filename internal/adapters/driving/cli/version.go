package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadbench/internal/adapters/driving/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("leadbench version %s\n", version)
		if verbose {
			cmd.Printf("mcp server %s\n", mcp.Version)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/trebcfg/internal/cli/render"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var chainID uint64

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks declared in the manifest",
		Long: `List every network declared in the manifest with its chain ID, endpoint
host and number of declared signers. No secrets are read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			// Run use case
			params := usecase.ListNetworksParams{ChainID: chainID}
			result, err := app.ListNetworks.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			// Render output
			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), app.Config.JSON)
			return renderer.Render(result)
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain-id", 0, "Only list networks on this chain")
	return cmd
}

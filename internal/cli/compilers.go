package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/trebcfg/internal/cli/render"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// NewCompilersCmd creates the compilers command
func NewCompilersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compilers",
		Short: "List compiler profiles and source overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListCompilersParams{Target: buildTarget(app.Config)}
			result, err := app.ListCompilers.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewCompilersRenderer(cmd.OutOrStdout(), app.Config.JSON)
			return renderer.Render(result)
		},
	}

	cmd.Flags().String("compiler-version", "", "Mark the profile for this version as active")
	cmd.Flags().String("target", "", "Mark the profile this source file would use")
	return cmd
}

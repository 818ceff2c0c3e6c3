package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/trebcfg/internal/cli/render"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Resolve every declared network and report failures",
		Long: `Validate resolves each network in the manifest with the same build target
and reports every failure instead of stopping at the first one.

The exit code is 2 when any network fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			overrides := config.Overrides{CheckEndpoint: app.Config.CheckEndpoint}
			reports := app.ResolveConfig.ResolveAll(cmd.Context(), buildTarget(app.Config), overrides)

			renderer := render.NewValidateRenderer(cmd.OutOrStdout(), app.Config.JSON)
			if err := renderer.Render(reports); err != nil {
				return err
			}

			failed := lo.FilterMap(reports, func(r usecase.NetworkReport, _ int) (error, bool) {
				return r.Error, r.Error != nil
			})
			if len(failed) > 0 {
				return &ValidationFailedError{Failed: len(failed), Total: len(reports), Errs: failed}
			}
			return nil
		},
	}

	addTargetFlags(cmd)
	return cmd
}

package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/trebcfg/internal/cli/render"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd() *cobra.Command {
	var (
		rpcURL        string
		gasLimit      config.GasValue
		gasPrice      config.GasValue
		optimizerRuns string
	)

	cmd := &cobra.Command{
		Use:   "resolve [network]",
		Short: "Resolve the configuration for one network",
		Long: `Resolve merges the network and compiler profiles with command-line overrides,
reads the declared signers from the secret stores and validates the result.

Nothing is printed unless every check passes. Key material is never printed.`,
		Example: `  trebcfg resolve --network mainnet
  trebcfg resolve mainnet --compiler-version 0.8.4 --gas-price auto --json
  trebcfg resolve mainnet --target contracts/Legacy.sol --check-endpoint`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			network := app.Config.Network
			if len(args) == 1 {
				network = args[0]
			}

			overrides := config.Overrides{CheckEndpoint: app.Config.CheckEndpoint}
			flags := cmd.Flags()
			if flags.Changed("rpc-url") {
				overrides.RPCURL = &rpcURL
			}
			if flags.Changed("gas-limit") {
				overrides.GasLimit = &gasLimit
			}
			if flags.Changed("gas-price") {
				overrides.GasPrice = &gasPrice
			}
			if flags.Changed("optimizer-runs") {
				runs, err := config.ParseRunCount(strings.TrimSpace(optimizerRuns))
				if err != nil {
					return err
				}
				overrides.OptimizerRuns = &runs
			}

			params := usecase.ResolveConfigParams{
				Network:   network,
				Target:    buildTarget(app.Config),
				Overrides: overrides,
			}
			result, err := app.ResolveConfig.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewResolvedRenderer(cmd.OutOrStdout(), app.Config.JSON)
			return renderer.Render(result)
		},
	}

	addTargetFlags(cmd)
	cmd.Flags().StringVar(&rpcURL, "rpc-url", "", "Override the network RPC URL")
	cmd.Flags().Var(&gasLimit, "gas-limit", "Override the gas limit (integer or auto)")
	cmd.Flags().Var(&gasPrice, "gas-price", "Override the gas price in wei (integer or auto)")
	cmd.Flags().StringVar(&optimizerRuns, "optimizer-runs", "", "Override the optimizer run count")

	return cmd
}

// addTargetFlags registers the flags shared by commands that pick a compiler
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("compiler-version", "", "Compiler version to use (must be declared)")
	cmd.Flags().String("target", "", "Source file being built, matched against compiler overrides")
	cmd.Flags().Bool("check-endpoint", false, "Probe the RPC endpoint and compare its chain ID")
}

func buildTarget(cfg *config.RuntimeConfig) config.BuildTarget {
	target := config.BuildTarget{
		Source:          cfg.Target,
		CompilerVersion: cfg.CompilerVersion,
	}
	if target.Source != "" {
		target.Name = strings.TrimSuffix(filepath.Base(target.Source), filepath.Ext(target.Source))
	}
	return target
}

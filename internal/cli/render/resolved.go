package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// ResolvedRenderer renders a resolved configuration
type ResolvedRenderer struct {
	out  io.Writer
	json bool
}

// NewResolvedRenderer creates a new resolved configuration renderer
func NewResolvedRenderer(out io.Writer, json bool) *ResolvedRenderer {
	return &ResolvedRenderer{out: out, json: json}
}

type resolvedOutput struct {
	Configuration *config.ResolvedConfiguration `json:"configuration"`
	Fingerprint   string                        `json:"fingerprint"`
}

// Render prints the configuration. Key material is never part of the output.
func (r *ResolvedRenderer) Render(result *usecase.ResolveConfigResult) error {
	resolved := result.Config.Redacted()
	if r.json {
		return writeJSON(r.out, resolvedOutput{Configuration: resolved, Fingerprint: result.Fingerprint})
	}

	network := resolved.Network()
	compiler := resolved.Compiler()

	t := newTable()
	t.AppendRow(table.Row{labelStyle.Sprint("Network"), fmt.Sprintf("%s %s", nameStyle.Sprint(network.Name), faintStyle.Sprintf("(chain %d, %s)", network.ChainID, networkKind(resolved.Local())))})
	t.AppendRow(table.Row{labelStyle.Sprint("RPC"), rpcDisplay(network)})
	t.AppendRow(table.Row{labelStyle.Sprint("Gas"), fmt.Sprintf("limit %s, price %s", network.GasLimit, network.GasPrice)})
	t.AppendRow(table.Row{labelStyle.Sprint("Compiler"), compilerDisplay(compiler)})
	if target := resolved.Target(); target.Source != "" {
		t.AppendRow(table.Row{labelStyle.Sprint("Target"), target.Source})
	}
	t.AppendRow(table.Row{labelStyle.Sprint("Signers"), signersDisplay(resolved.Signers())})
	t.AppendRow(table.Row{labelStyle.Sprint("Verification"), verificationDisplay(resolved.Verification())})
	if network.ExplorerURL != "" {
		t.AppendRow(table.Row{labelStyle.Sprint("Explorer"), network.ExplorerURL})
	}
	t.AppendRow(table.Row{labelStyle.Sprint("Fingerprint"), faintStyle.Sprint(result.Fingerprint)})

	fmt.Fprintln(r.out, t.Render())
	if !resolved.Local() && !resolved.Verification().Enabled {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Verification disabled for %s: no explorer API key resolved", network.Name)))
	}
	return nil
}

func networkKind(local bool) string {
	if local {
		return "local"
	}
	return "remote"
}

// rpcDisplay hides path and query, where provider API keys live
func rpcDisplay(n config.NetworkProfile) string {
	if n.RPCURL == "" {
		return faintStyle.Sprint("in-process")
	}
	return config.DisplayURL(n.RPCURL)
}

func compilerDisplay(p config.CompilerProfile) string {
	if !p.OptimizerEnabled {
		return fmt.Sprintf("solc %s %s", p.Version, faintStyle.Sprint("(optimizer disabled)"))
	}
	return fmt.Sprintf("solc %s %s", p.Version, faintStyle.Sprintf("(optimizer enabled, %s runs)", p.OptimizerRuns))
}

func signersDisplay(signers []config.Signer) string {
	if len(signers) == 0 {
		return faintStyle.Sprint("none")
	}
	lines := make([]string, 0, len(signers))
	for _, s := range signers {
		line := fmt.Sprintf("[%d] %s", s.Slot, s.Placeholder)
		if s.Address != "" {
			line += " " + addressStyle.Sprint(s.Address)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func verificationDisplay(v config.Verification) string {
	if !v.Enabled {
		return faintStyle.Sprint("disabled")
	}
	if v.APIURL != "" {
		return okStyle.Sprint("enabled") + " " + faintStyle.Sprint(v.APIURL)
	}
	return okStyle.Sprint("enabled")
}

package render

import (
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// ValidateRenderer renders per-network validation reports
type ValidateRenderer struct {
	out  io.Writer
	json bool
}

// NewValidateRenderer creates a new validation report renderer
func NewValidateRenderer(out io.Writer, json bool) *ValidateRenderer {
	return &ValidateRenderer{out: out, json: json}
}

type reportOutput struct {
	Network     string `json:"network"`
	ChainID     uint64 `json:"chainId"`
	Local       bool   `json:"local"`
	OK          bool   `json:"ok"`
	Kind        string `json:"kind,omitempty"`
	Error       string `json:"error,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Render renders the reports
func (r *ValidateRenderer) Render(reports []usecase.NetworkReport) error {
	if r.json {
		return writeJSON(r.out, lo.Map(reports, func(rep usecase.NetworkReport, _ int) reportOutput {
			out := reportOutput{Network: rep.Name, ChainID: rep.ChainID, Local: rep.Local, OK: rep.OK()}
			if rep.Error != nil {
				out.Kind = string(domain.KindOf(rep.Error))
				out.Error = rep.Error.Error()
			} else if fp, err := rep.Config.Fingerprint(); err == nil {
				out.Fingerprint = fp
			}
			return out
		}))
	}

	if len(reports) == 0 {
		fmt.Fprintln(r.out, "No networks declared in the manifest")
		return nil
	}

	for _, rep := range reports {
		if rep.OK() {
			fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s (chain %d)", rep.Name, rep.ChainID)))
			continue
		}
		fmt.Fprintln(r.out, FormatError(rep.Error))
	}

	failed := lo.CountBy(reports, func(rep usecase.NetworkReport) bool { return !rep.OK() })
	fmt.Fprintln(r.out)
	if failed == 0 {
		fmt.Fprintln(r.out, okStyle.Sprintf("All %d networks resolved", len(reports)))
	} else {
		fmt.Fprintln(r.out, failStyle.Sprintf("%d of %d networks failed", failed, len(reports)))
	}
	return nil
}

package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// CompilersRenderer renders compiler profiles and source overrides
type CompilersRenderer struct {
	out  io.Writer
	json bool
}

// NewCompilersRenderer creates a new compilers renderer
func NewCompilersRenderer(out io.Writer, json bool) *CompilersRenderer {
	return &CompilersRenderer{out: out, json: json}
}

type compilersOutput struct {
	Active    string                   `json:"active"`
	Profiles  []config.CompilerProfile `json:"profiles"`
	Overrides map[string]string        `json:"overrides"`
}

// Render renders the compiler profiles
func (r *CompilersRenderer) Render(result *usecase.ListCompilersResult) error {
	if r.json {
		overrides := make(map[string]string, len(result.Overrides))
		for _, o := range result.Overrides {
			overrides[o.Source] = o.Version
		}
		return writeJSON(r.out, compilersOutput{Active: result.Active, Profiles: result.Profiles, Overrides: overrides})
	}

	t := newTable()
	t.AppendHeader(table.Row{"", "VERSION", "OPTIMIZER", "RUNS"})
	for _, p := range result.Profiles {
		marker := " "
		if p.Version == result.Active {
			marker = okStyle.Sprint("●")
		}
		optimizer, runs := faintStyle.Sprint("disabled"), faintStyle.Sprint("-")
		if p.OptimizerEnabled {
			optimizer, runs = "enabled", p.OptimizerRuns.String()
		}
		t.AppendRow(table.Row{marker, nameStyle.Sprint(p.Version), optimizer, runs})
	}
	fmt.Fprintln(r.out, t.Render())

	if len(result.Overrides) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, labelStyle.Sprint("Source overrides:"))
		ot := newTable()
		for _, o := range result.Overrides {
			ot.AppendRow(table.Row{"  " + o.Source, "→ " + o.Version})
		}
		fmt.Fprintln(r.out, ot.Render())
	}
	return nil
}

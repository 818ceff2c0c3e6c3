package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
	"github.com/trebuchet-org/trebcfg/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out  io.Writer
	json bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, json bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:  out,
		json: json,
	}
}

type networkOutput struct {
	config.NetworkProfile
	Local      bool     `json:"local"`
	SharedWith []string `json:"sharedWith,omitempty"`
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if r.json {
		return writeJSON(r.out, lo.Map(result.Networks, func(n usecase.NetworkStatus, _ int) networkOutput {
			return networkOutput{NetworkProfile: n.Profile, Local: n.Local, SharedWith: n.SharedWith}
		}))
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks declared in the manifest")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	title := cases.Title(language.English)
	t := newTable()
	t.AppendHeader(table.Row{"NAME", "CHAIN", "KIND", "RPC", "SIGNERS", ""})
	for _, n := range result.Networks {
		p := n.Profile
		declared := lo.CountBy(p.Accounts, func(ref config.SignerRef) bool { return !ref.IsEmpty() })

		var notes []string
		if p.Alias {
			notes = append(notes, faintStyle.Sprint("alias"))
		}
		if len(n.SharedWith) > 0 {
			notes = append(notes, warnStyle.Sprintf("shares chain with %s", strings.Join(n.SharedWith, ", ")))
		}

		t.AppendRow(table.Row{
			nameStyle.Sprint(p.Name),
			p.ChainID,
			title.String(networkKind(n.Local)),
			rpcDisplay(p),
			declared,
			strings.Join(notes, " "),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// ListCompilersParams contains parameters for listing compiler profiles
type ListCompilersParams struct {
	// Target, when set, marks the profile it would select
	Target config.BuildTarget
}

// ListCompilersResult contains the result of listing compiler profiles
type ListCompilersResult struct {
	Profiles  []config.CompilerProfile
	Active    string
	Overrides []SourceOverride
}

// SourceOverride pins a source file to a compiler version
type SourceOverride struct {
	Source  string
	Version string
}

// ListCompilers is a use case for listing declared compiler profiles
type ListCompilers struct {
	compilers CompilerCatalog
}

// NewListCompilers creates a new ListCompilers use case
func NewListCompilers(compilers CompilerCatalog) *ListCompilers {
	return &ListCompilers{compilers: compilers}
}

// Run executes the use case
func (uc *ListCompilers) Run(ctx context.Context, params ListCompilersParams) (*ListCompilersResult, error) {
	active, err := uc.compilers.Active(params.Target)
	if err != nil {
		return nil, err
	}

	overrides := lo.MapToSlice(uc.compilers.Overrides(), func(source, version string) SourceOverride {
		return SourceOverride{Source: source, Version: version}
	})
	sort.Slice(overrides, func(i, j int) bool {
		return overrides[i].Source < overrides[j].Source
	})

	return &ListCompilersResult{
		Profiles:  uc.compilers.List(),
		Active:    active.Version,
		Overrides: overrides,
	}, nil
}

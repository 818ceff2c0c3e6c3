package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// Candidate is a resolution that has not been validated yet
type Candidate struct {
	Network  config.NetworkProfile
	Compiler config.CompilerProfile
	Signers  []config.Signer
	Local    bool

	// CheckEndpoint enables the UnreachableEndpoint probe
	CheckEndpoint bool

	// SecretErrors holds the causes of Unavailable signer lookups
	SecretErrors []error
}

// ValidateConfig checks a candidate before it may become a ResolvedConfiguration
type ValidateConfig struct {
	networks NetworkCatalog
	checker  EndpointChecker
	progress ProgressSink
}

// NewValidateConfig creates a new ValidateConfig use case
func NewValidateConfig(networks NetworkCatalog, checker EndpointChecker, progress ProgressSink) *ValidateConfig {
	if progress == nil {
		progress = NopProgress{}
	}
	return &ValidateConfig{
		networks: networks,
		checker:  checker,
		progress: progress,
	}
}

// Validate runs the checks in a fixed order and returns the first failure.
// Only the endpoint probe, when enabled, leaves the process.
func (uc *ValidateConfig) Validate(ctx context.Context, c Candidate) error {
	if err := uc.checkSigners(c); err != nil {
		return err
	}
	if err := uc.checkChainID(c); err != nil {
		return err
	}
	if err := checkOptimizer(c.Compiler); err != nil {
		return err
	}
	if c.CheckEndpoint {
		return uc.checkEndpoint(ctx, c.Network)
	}
	return nil
}

func (uc *ValidateConfig) checkSigners(c Candidate) error {
	if c.Local {
		return nil
	}
	if lo.SomeBy(c.Signers, config.Signer.HasMaterial) {
		return nil
	}

	hint := "${" + config.PlaceholderName(c.Network.Name, "PRIVATE_KEY") + "}"
	detail := fmt.Sprintf("no signer resolved to key material; declare accounts = [%q] and set the variable", hint)
	if declared := lo.Reject(c.Network.Accounts, func(ref config.SignerRef, _ int) bool { return ref.IsEmpty() }); len(declared) > 0 {
		placeholders := lo.Map(declared, func(ref config.SignerRef, _ int) string { return ref.Placeholder })
		detail = fmt.Sprintf("no signer resolved to key material (checked %s)", strings.Join(placeholders, ", "))
	}

	err := domain.NewConfigurationError(domain.KindMissingSigner, "%s", detail).ForNetwork(c.Network.Name)
	if len(c.SecretErrors) > 0 {
		return err.Wrap(errors.Join(c.SecretErrors...))
	}
	return err
}

func (uc *ValidateConfig) checkChainID(c Candidate) error {
	if uc.networks == nil {
		return nil
	}

	var owners []string
	if !c.Network.Alias {
		owners = append(owners, c.Network.Name)
	}
	for _, p := range uc.networks.ByChainID(c.Network.ChainID) {
		if !p.Alias && p.Name != c.Network.Name {
			owners = append(owners, p.Name)
		}
	}
	if len(owners) < 2 {
		return nil
	}
	sort.Strings(owners)
	return domain.NewConfigurationError(domain.KindAmbiguousChainID,
		"chain id %d is declared by %s; mark all but one with alias = true",
		c.Network.ChainID, strings.Join(owners, ", ")).ForNetwork(c.Network.Name)
}

func checkOptimizer(p config.CompilerProfile) error {
	if !p.OptimizerEnabled {
		return nil
	}
	if _, ok := p.OptimizerRuns.Uint(); !ok {
		return domain.NewConfigurationError(domain.KindInvalidOptimizerRuns,
			"optimizer runs must be a non-negative integer, got %s", p.OptimizerRuns).ForProfile(p.Version)
	}
	return nil
}

func (uc *ValidateConfig) checkEndpoint(ctx context.Context, n config.NetworkProfile) error {
	// an empty URL names the in-process chain, there is nothing to dial
	if uc.checker == nil || n.RPCURL == "" {
		return nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageProbingEndpoint,
		Message: fmt.Sprintf("Checking %s endpoint", n.Name),
		Spinner: true,
	})
	err := uc.checker.CheckEndpoint(ctx, n.RPCURL, n.ChainID)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDone})
	if err != nil {
		// transport errors quote the full URL
		cause := errors.New(strings.ReplaceAll(err.Error(), n.RPCURL, config.DisplayURL(n.RPCURL)))
		return domain.NewConfigurationError(domain.KindUnreachableEndpoint,
			"endpoint %s failed the chain check", config.DisplayURL(n.RPCURL)).ForNetwork(n.Name).Wrap(cause)
	}
	return nil
}

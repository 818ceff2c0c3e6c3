package usecase

import (
	"context"
	"log/slog"
	"strings"

	internalconfig "github.com/trebuchet-org/trebcfg/internal/config"
	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// ResolveConfigParams contains parameters for resolving one network
type ResolveConfigParams struct {
	Network   string // empty means the manifest default
	Target    config.BuildTarget
	Overrides config.Overrides
}

// ResolveConfigResult contains the resolved configuration
type ResolveConfigResult struct {
	Config      *config.ResolvedConfiguration
	Fingerprint string
}

// NetworkReport is the outcome of resolving a single network in ResolveAll
type NetworkReport struct {
	Name    string
	ChainID uint64
	Local   bool
	Config  *config.ResolvedConfiguration
	Error   error
}

// OK reports whether the network resolved
func (r NetworkReport) OK() bool {
	return r.Error == nil
}

// ResolveConfig merges registry entries, overrides and secrets into a
// ResolvedConfiguration. Each call is independent; nothing is cached here.
type ResolveConfig struct {
	manifest  *internalconfig.Manifest
	networks  NetworkCatalog
	compilers CompilerCatalog
	secrets   SecretSource
	validator *ValidateConfig
	progress  ProgressSink
	log       *slog.Logger
}

// NewResolveConfig creates a new ResolveConfig use case
func NewResolveConfig(
	manifest *internalconfig.Manifest,
	networks NetworkCatalog,
	compilers CompilerCatalog,
	secrets SecretSource,
	validator *ValidateConfig,
	progress ProgressSink,
	log *slog.Logger,
) *ResolveConfig {
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &ResolveConfig{
		manifest:  manifest,
		networks:  networks,
		compilers: compilers,
		secrets:   secrets,
		validator: validator,
		progress:  progress,
		log:       log.With("component", "resolver"),
	}
}

// Run executes the use case
func (uc *ResolveConfig) Run(ctx context.Context, params ResolveConfigParams) (*ResolveConfigResult, error) {
	resolved, err := uc.Resolve(ctx, params.Network, params.Target, params.Overrides)
	if err != nil {
		return nil, err
	}
	fingerprint, err := resolved.Fingerprint()
	if err != nil {
		return nil, err
	}
	return &ResolveConfigResult{Config: resolved, Fingerprint: fingerprint}, nil
}

// Resolve returns a validated configuration for one network and build
// target, or an error and no configuration.
func (uc *ResolveConfig) Resolve(
	ctx context.Context,
	networkName string,
	target config.BuildTarget,
	overrides config.Overrides,
) (*config.ResolvedConfiguration, error) {
	if networkName = strings.TrimSpace(networkName); networkName == "" {
		networkName = uc.defaultNetwork()
	}

	network, err := uc.networks.Get(networkName)
	if err != nil {
		return nil, err
	}
	compiler, err := uc.compilers.Active(target)
	if err != nil {
		return nil, err
	}

	local := uc.networks.IsLocal(network.ChainID)
	if err := applyNetworkOverrides(&network, overrides, local); err != nil {
		return nil, err
	}
	if overrides.OptimizerRuns != nil {
		compiler.OptimizerRuns = *overrides.OptimizerRuns
	}
	target.CompilerVersion = compiler.Version

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageResolving,
		Message: "Resolving " + network.Name,
	})

	signers, secretErrs := uc.resolveSigners(ctx, network)
	candidate := Candidate{
		Network:       network,
		Compiler:      compiler,
		Signers:       signers,
		Local:         local,
		CheckEndpoint: overrides.CheckEndpoint,
		SecretErrors:  secretErrs,
	}
	if err := uc.validator.Validate(ctx, candidate); err != nil {
		uc.log.Debug("resolution rejected", "network", network.Name, "kind", domain.KindOf(err))
		return nil, err
	}

	resolved := config.NewResolvedConfiguration(config.ResolvedParts{
		Network:      network,
		Compiler:     compiler,
		Target:       target,
		Signers:      signers,
		Verification: uc.resolveVerification(ctx, network),
		Local:        local,
	})
	uc.log.Debug("resolved configuration",
		"network", network.Name,
		"chain_id", network.ChainID,
		"compiler", compiler.Version,
		"signers", len(signers),
		"local", local,
	)
	return resolved, nil
}

// ResolveAll resolves every registered network with the same target and
// overrides. Failures are reported per network, never returned.
func (uc *ResolveConfig) ResolveAll(ctx context.Context, target config.BuildTarget, overrides config.Overrides) []NetworkReport {
	profiles := uc.networks.List()
	reports := make([]NetworkReport, 0, len(profiles))
	for i, p := range profiles {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageResolving,
			Current: i + 1,
			Total:   len(profiles),
			Message: p.Name,
		})
		report := NetworkReport{
			Name:    p.Name,
			ChainID: p.ChainID,
			Local:   uc.networks.IsLocal(p.ChainID),
		}
		report.Config, report.Error = uc.Resolve(ctx, p.Name, target, overrides)
		reports = append(reports, report)
	}
	return reports
}

func (uc *ResolveConfig) defaultNetwork() string {
	if uc.manifest != nil && uc.manifest.DefaultNetwork != "" {
		return uc.manifest.DefaultNetwork
	}
	return internalconfig.DefaultNetworkName
}

func applyNetworkOverrides(n *config.NetworkProfile, o config.Overrides, local bool) error {
	invalid := func(err error) error {
		return domain.NewConfigurationError(domain.KindInvalidNetworkProfile, "override: %v", err).ForNetwork(n.Name)
	}

	if o.RPCURL != nil {
		if err := config.ValidateRPCURL(*o.RPCURL, local); err != nil {
			return invalid(err)
		}
		n.RPCURL = *o.RPCURL
	}
	if o.GasLimit != nil {
		n.GasLimit = *o.GasLimit
	}
	if o.GasPrice != nil {
		n.GasPrice = *o.GasPrice
	}
	if err := config.ValidateGas(n.GasLimit, n.GasPrice); err != nil {
		return invalid(err)
	}
	return nil
}

// resolveSigners looks up every declared slot. Only slots with key material
// become signers; the causes of unavailable lookups are returned for context.
func (uc *ResolveConfig) resolveSigners(ctx context.Context, n config.NetworkProfile) ([]config.Signer, []error) {
	var (
		signers []config.Signer
		errs    []error
	)
	for _, ref := range n.Accounts {
		if ref.IsEmpty() {
			continue
		}
		res := uc.secrets.Resolve(ctx, ref.Placeholder)
		switch {
		case res.Present():
			signers = append(signers, config.NewSigner(ref, res.Material))
		case res.Status == config.SecretUnavailable && res.Err != nil:
			errs = append(errs, res.Err)
		}
		uc.log.Debug("signer lookup", "network", n.Name, "slot", ref.Slot, "status", res.Status)
	}
	return signers, errs
}

// resolveVerification prefers the network's own key over the global one.
// A missing key disables verification and is never an error.
func (uc *ResolveConfig) resolveVerification(ctx context.Context, n config.NetworkProfile) config.Verification {
	ref := n.Verification
	if ref.Placeholder == "" && uc.manifest != nil {
		ref.Placeholder = uc.manifest.Verification.Placeholder
		if ref.APIURL == "" {
			ref.APIURL = uc.manifest.Verification.APIURL
		}
	}
	if ref.Placeholder == "" {
		return config.NewVerification(ref, config.KeyMaterial{})
	}

	res := uc.secrets.Resolve(ctx, ref.Placeholder)
	if !res.Present() {
		uc.log.Debug("verification disabled", "network", n.Name, "status", res.Status)
		return config.NewVerification(ref, config.KeyMaterial{})
	}
	return config.NewVerification(ref, res.Material)
}

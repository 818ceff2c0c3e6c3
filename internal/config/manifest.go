package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// DefaultNetworkName is used when the manifest does not set default_network
const DefaultNetworkName = "hardhat"

// DefaultOptimizerRuns applies when the optimizer block omits runs
const DefaultOptimizerRuns = 200

// ManifestNames are searched, in order, in every directory on the way up
var ManifestNames = []string{"trebcfg.toml", "trebcfg.yaml", "trebcfg.yml", "trebcfg.json"}

// Format is a manifest encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the decoder from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported manifest format %q", filepath.Ext(path))
	}
}

// Manifest is the parsed, not yet validated, content of a manifest file
type Manifest struct {
	Path              string
	DefaultNetwork    string
	LocalChainIDs     []uint64
	Compilers         []config.CompilerProfile
	CompilerOverrides map[string]string // source path -> compiler version
	Networks          []config.NetworkProfile
	Verification      config.VerificationRef
}

var (
	chainIDKeys     = []string{"chain_id", "chainId"}
	urlKeys         = []string{"url", "rpc_url", "rpcUrl"}
	gasKeys         = []string{"gas", "gas_limit", "gasLimit"}
	gasPriceKeys    = []string{"gas_price", "gasPrice"}
	accountsKeys    = []string{"accounts"}
	aliasKeys       = []string{"alias"}
	explorerKeys    = []string{"explorer_url", "explorerUrl"}
	verificationKey = []string{"verification"}
	nameKeys        = []string{"name"}

	apiKeyKeys = []string{"api_key", "apiKey"}
	apiURLKeys = []string{"api_url", "apiUrl"}

	networkKeys = keySet(chainIDKeys, urlKeys, gasKeys, gasPriceKeys, accountsKeys,
		aliasKeys, explorerKeys, verificationKey, nameKeys)

	// ${VAR} fragments inside a URL
	urlVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
)

// LoadOption configures manifest loading
type LoadOption func(*loader)

// WithEnv supplies values for ${VAR} references in RPC URLs. The process
// environment is consulted first.
func WithEnv(env map[string]string) LoadOption {
	return func(l *loader) {
		for k, v := range env {
			l.env[k] = v
		}
	}
}

type loader struct {
	env map[string]string
}

func (l *loader) lookup(name string) (string, bool) {
	if v, ok := os.LookupEnv(name); ok {
		return v, true
	}
	v, ok := l.env[name]
	return v, ok
}

// FindManifest walks up from dir until a manifest file is found
func FindManifest(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range ManifestNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding a manifest
			return "", fmt.Errorf("no manifest found (looked for %s)", strings.Join(ManifestNames, ", "))
		}
		dir = parent
	}
}

// LoadManifest reads and parses a manifest file
func LoadManifest(path string, opts ...LoadOption) (*Manifest, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	m.Path = path
	return m, nil
}

// ParseManifest decodes raw manifest bytes
func ParseManifest(data []byte, format Format, opts ...LoadOption) (*Manifest, error) {
	l := &loader{env: make(map[string]string)}
	for _, opt := range opts {
		opt(l)
	}

	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	return l.parse(raw)
}

func decodeRaw(data []byte, format Format) (map[string]any, error) {
	raw := make(map[string]any)
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	return raw, nil
}

func (l *loader) parse(raw map[string]any) (*Manifest, error) {
	m := &Manifest{
		DefaultNetwork:    DefaultNetworkName,
		LocalChainIDs:     []uint64{config.LocalChainID},
		CompilerOverrides: make(map[string]string),
	}

	if name, ok, err := pickString(raw, "default_network", "defaultNetwork"); err != nil {
		return nil, err
	} else if ok && strings.TrimSpace(name) != "" {
		m.DefaultNetwork = strings.TrimSpace(name)
	}

	if v, ok, err := pick(raw, "local_chain_ids", "localChainIds"); err != nil {
		return nil, err
	} else if ok {
		ids, err := parseChainIDList(v)
		if err != nil {
			return nil, err
		}
		m.LocalChainIDs = ids
	}

	if err := l.parseCompilers(raw, m); err != nil {
		return nil, err
	}

	if err := l.parseNetworks(raw, m); err != nil {
		return nil, err
	}

	verification, err := parseGlobalVerification(raw)
	if err != nil {
		return nil, err
	}
	m.Verification = verification

	return m, nil
}

func parseChainIDList(v any) ([]uint64, error) {
	list, ok := asList(v)
	if !ok {
		return nil, fmt.Errorf("local_chain_ids must be a list of chain IDs")
	}
	ids := make([]uint64, 0, len(list))
	for i, item := range list {
		id, ok := asUint64(item)
		if !ok || id == 0 {
			return nil, fmt.Errorf("local_chain_ids[%d] must be a positive integer", i)
		}
		ids = append(ids, id)
	}
	return lo.Uniq(ids), nil
}

// parseCompilers accepts [[compilers]], a hardhat style solidity table
// ({compilers = [...], overrides = {...}}) or a bare solidity = "x.y.z"
func (l *loader) parseCompilers(raw map[string]any, m *Manifest) error {
	var entries []any

	if v, ok := raw["compilers"]; ok {
		list, ok := asList(v)
		if !ok {
			return fmt.Errorf("compilers must be a list")
		}
		entries = append(entries, list...)
	}

	if v, ok := raw["solidity"]; ok {
		switch s := v.(type) {
		case string:
			entries = append(entries, map[string]any{"version": s})
		default:
			table, ok := asMap(v)
			if !ok {
				return fmt.Errorf("solidity must be a version string or a table")
			}
			if list, ok := table["compilers"]; ok {
				items, ok := asList(list)
				if !ok {
					return fmt.Errorf("solidity.compilers must be a list")
				}
				entries = append(entries, items...)
			} else if _, ok := table["version"]; ok {
				entries = append(entries, table)
			}
			if ov, ok := table["overrides"]; ok {
				if err := parseCompilerOverrides(ov, m); err != nil {
					return err
				}
			}
		}
	}

	for i, entry := range entries {
		profile, err := parseCompiler(entry)
		if err != nil {
			return fmt.Errorf("compilers[%d]: %w", i, err)
		}
		m.Compilers = append(m.Compilers, profile)
	}

	if len(m.Compilers) == 0 {
		m.Compilers = []config.CompilerProfile{{
			Version:       config.DefaultSolidityVersion,
			OptimizerRuns: config.NewRunCount(DefaultOptimizerRuns),
		}}
	}

	if ov, ok := raw["compiler_overrides"]; ok {
		if err := parseCompilerOverrides(ov, m); err != nil {
			return err
		}
	}
	return nil
}

func parseCompiler(entry any) (config.CompilerProfile, error) {
	table, ok := asMap(entry)
	if !ok {
		return config.CompilerProfile{}, fmt.Errorf("must be a table")
	}

	version, ok, err := pickString(table, "version")
	if err != nil {
		return config.CompilerProfile{}, err
	}
	version = strings.TrimSpace(version)
	if !ok || version == "" {
		return config.CompilerProfile{}, fmt.Errorf("version is required")
	}

	profile := config.CompilerProfile{
		Version:       version,
		OptimizerRuns: config.NewRunCount(DefaultOptimizerRuns),
	}

	optimizer, hasOptimizer := table["optimizer"]
	if settings, ok := table["settings"]; ok {
		st, ok := asMap(settings)
		if !ok {
			return config.CompilerProfile{}, fmt.Errorf("settings must be a table")
		}
		if o, ok := st["optimizer"]; ok {
			if hasOptimizer {
				return config.CompilerProfile{}, fmt.Errorf("both %q and %q are set", "optimizer", "settings.optimizer")
			}
			optimizer, hasOptimizer = o, true
		}
	}
	if !hasOptimizer {
		return profile, nil
	}

	ot, ok := asMap(optimizer)
	if !ok {
		return config.CompilerProfile{}, fmt.Errorf("optimizer must be a table")
	}
	if enabled, ok, err := pickBool(ot, "enabled"); err != nil {
		return config.CompilerProfile{}, fmt.Errorf("optimizer: %w", err)
	} else if ok {
		profile.OptimizerEnabled = enabled
	}
	if runs, ok := ot["runs"]; ok {
		// raw value kept; validation decides whether it matters
		switch r := runs.(type) {
		case string:
			rc, err := config.ParseRunCount(strings.TrimSpace(r))
			if err != nil {
				return config.CompilerProfile{}, fmt.Errorf("optimizer: %w", err)
			}
			profile.OptimizerRuns = rc
		default:
			f, ok := asFloat(runs)
			if !ok {
				return config.CompilerProfile{}, fmt.Errorf("optimizer: runs must be a number")
			}
			profile.OptimizerRuns = config.RawRunCount(f)
		}
	}
	return profile, nil
}

func parseCompilerOverrides(v any, m *Manifest) error {
	table, ok := asMap(v)
	if !ok {
		return fmt.Errorf("compiler overrides must be a table keyed by source path")
	}
	for source, ov := range table {
		var version string
		switch o := ov.(type) {
		case string:
			version = o
		default:
			ot, ok := asMap(ov)
			if !ok {
				return fmt.Errorf("override for %s must be a version or a table", source)
			}
			if _, ok := ot["settings"]; ok {
				return fmt.Errorf("override for %s: settings are not supported, declare the version under compilers", source)
			}
			version, _, _ = pickString(ot, "version")
		}
		version = strings.TrimSpace(version)
		if version == "" {
			return fmt.Errorf("override for %s has no version", source)
		}
		if existing, ok := m.CompilerOverrides[source]; ok && existing != version {
			return fmt.Errorf("conflicting overrides for %s: %s and %s", source, existing, version)
		}
		m.CompilerOverrides[source] = version
	}
	return nil
}

// parseNetworks accepts a table keyed by network name or a list of tables with
// a name key. Only the list form can express a duplicate name; duplicates are
// kept so the registry can reject them.
func (l *loader) parseNetworks(raw map[string]any, m *Manifest) error {
	v, ok := raw["networks"]
	if !ok {
		return nil
	}

	if table, ok := asMap(v); ok {
		names := lo.Keys(table)
		sort.Strings(names)
		for _, name := range names {
			body, ok := asMap(table[name])
			if !ok {
				if table[name] != nil {
					return invalidNetwork(name, "network definition must be a table")
				}
				body = map[string]any{}
			}
			profile, err := l.parseNetwork(name, body)
			if err != nil {
				return err
			}
			m.Networks = append(m.Networks, profile)
		}
		return nil
	}

	list, ok := asList(v)
	if !ok {
		return fmt.Errorf("networks must be a table or a list")
	}
	for i, item := range list {
		body, ok := asMap(item)
		if !ok {
			return fmt.Errorf("networks[%d] must be a table", i)
		}
		name, _, err := pickString(body, nameKeys...)
		if err != nil {
			return fmt.Errorf("networks[%d]: %w", i, err)
		}
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("networks[%d]: name is required", i)
		}
		profile, err := l.parseNetwork(strings.TrimSpace(name), body)
		if err != nil {
			return err
		}
		m.Networks = append(m.Networks, profile)
	}
	return nil
}

func invalidNetwork(name, format string, args ...any) error {
	return domain.NewConfigurationError(domain.KindInvalidNetworkProfile, format, args...).ForNetwork(name)
}

func (l *loader) parseNetwork(name string, body map[string]any) (config.NetworkProfile, error) {
	profile := config.NetworkProfile{Name: name}

	if unknown := unknownKeys(body, networkKeys); len(unknown) > 0 {
		return profile, invalidNetwork(name, "unknown key(s) %s", strings.Join(unknown, ", "))
	}

	// chain id
	if v, ok, err := pick(body, chainIDKeys...); err != nil {
		return profile, invalidNetwork(name, "%v", err)
	} else if ok {
		id, ok := asUint64(v)
		if !ok {
			return profile, invalidNetwork(name, "chain id must be a positive integer")
		}
		profile.ChainID = id
	} else if name == DefaultNetworkName {
		profile.ChainID = config.LocalChainID
	}

	// rpc url
	url, _, err := pickString(body, urlKeys...)
	if err != nil {
		return profile, invalidNetwork(name, "%v", err)
	}
	url, err = l.expandURL(strings.TrimSpace(url))
	if err != nil {
		return profile, invalidNetwork(name, "%v", err)
	}
	profile.RPCURL = url

	// gas
	if profile.GasLimit, err = parseGas(body, gasKeys); err != nil {
		return profile, invalidNetwork(name, "%v", err)
	}
	if profile.GasPrice, err = parseGas(body, gasPriceKeys); err != nil {
		return profile, invalidNetwork(name, "%v", err)
	}

	// accounts
	if v, ok := body["accounts"]; ok {
		accounts, err := parseAccounts(name, v)
		if err != nil {
			return profile, err
		}
		profile.Accounts = accounts
	}

	if profile.Alias, _, err = pickBool(body, aliasKeys...); err != nil {
		return profile, invalidNetwork(name, "%v", err)
	}

	explorer, _, err := pickString(body, explorerKeys...)
	if err != nil {
		return profile, invalidNetwork(name, "%v", err)
	}
	profile.ExplorerURL = strings.TrimSpace(explorer)
	if profile.ExplorerURL == "" {
		profile.ExplorerURL = ExplorerURL(profile.ChainID)
	}

	if v, ok := body["verification"]; ok {
		table, ok := asMap(v)
		if !ok {
			return profile, invalidNetwork(name, "verification must be a table")
		}
		ref, err := parseVerification(table)
		if err != nil {
			return profile, invalidNetwork(name, "verification: %v", err)
		}
		profile.Verification = ref
	}

	return profile, nil
}

// expandURL substitutes ${VAR} fragments; an unset variable is an error
func (l *loader) expandURL(raw string) (string, error) {
	var missing []string
	expanded := urlVarPattern.ReplaceAllStringFunc(raw, func(ref string) string {
		name := urlVarPattern.FindStringSubmatch(ref)[1]
		v, ok := l.lookup(name)
		if !ok {
			missing = append(missing, name)
			return ref
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("rpc url references unset variable(s) %s", strings.Join(lo.Uniq(missing), ", "))
	}
	return expanded, nil
}

func parseGas(body map[string]any, aliases []string) (config.GasValue, error) {
	v, ok, err := pick(body, aliases...)
	if err != nil || !ok {
		return config.AutoGas(), err
	}
	if s, isString := v.(string); isString {
		return config.ParseGasValue(s)
	}
	n, ok := asInt64(v)
	if !ok {
		return config.GasValue{}, fmt.Errorf("%s must be \"auto\" or an integer", aliases[0])
	}
	return config.FixedGas(n), nil
}

// parseAccounts keeps placeholders and empty slots. Anything else in a slot
// would be key material at rest and is refused without echoing it.
func parseAccounts(network string, v any) ([]config.SignerRef, error) {
	if s, ok := v.(string); ok && s == "remote" {
		return nil, invalidNetwork(network, "node-managed (remote) accounts are not supported")
	}
	if _, ok := asMap(v); ok {
		return nil, invalidNetwork(network, "HD wallet accounts are not supported, list placeholders instead")
	}
	list, ok := asList(v)
	if !ok {
		return nil, invalidNetwork(network, "accounts must be a list of placeholders")
	}

	refs := make([]config.SignerRef, 0, len(list))
	for slot, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, invalidNetwork(network, "account slot %d must be a string", slot)
		}
		s = strings.TrimSpace(s)
		if s != "" && !config.IsPlaceholder(s) {
			return nil, invalidNetwork(network,
				"account slot %d holds a literal value, use a placeholder such as ${%s}",
				slot, config.PlaceholderName(network, "PRIVATE_KEY"))
		}
		refs = append(refs, config.SignerRef{Slot: slot, Placeholder: s})
	}
	return refs, nil
}

func parseVerification(table map[string]any) (config.VerificationRef, error) {
	var ref config.VerificationRef

	key, _, err := pickString(table, apiKeyKeys...)
	if err != nil {
		return ref, err
	}
	key = strings.TrimSpace(key)
	if key != "" && !config.IsPlaceholder(key) {
		return ref, fmt.Errorf("api key holds a literal value, use a placeholder such as ${ETHERSCAN_API_KEY}")
	}
	ref.Placeholder = key

	apiURL, _, err := pickString(table, apiURLKeys...)
	if err != nil {
		return ref, err
	}
	ref.APIURL = strings.TrimSpace(apiURL)
	return ref, nil
}

// parseGlobalVerification reads [verification], or hardhat's [etherscan]
func parseGlobalVerification(raw map[string]any) (config.VerificationRef, error) {
	v, ok, err := pick(raw, "verification", "etherscan")
	if err != nil || !ok {
		return config.VerificationRef{}, err
	}
	table, ok := asMap(v)
	if !ok {
		return config.VerificationRef{}, fmt.Errorf("verification must be a table")
	}
	ref, err := parseVerification(table)
	if err != nil {
		return ref, fmt.Errorf("verification: %w", err)
	}
	return ref, nil
}

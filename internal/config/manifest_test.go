package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

const fullManifest = `
default_network = "bsc-testnet"
local_chain_ids = [31337, 1337]

[[compilers]]
version = "0.8.4"
optimizer = { enabled = true, runs = 200 }

[[compilers]]
version = "0.7.6"

[compiler_overrides]
"contracts/Legacy.sol" = "0.7.6"

[verification]
api_key = "${ETHERSCAN_API_KEY}"

[networks.hardhat]

[networks.ropsten]
accounts = [""]
chainId = 3
url = "https://ropsten.infura.io/v3/${INFURA_KEY}"
gas = 4100000
gasPrice = 50000000000

[networks.bsc-testnet]
accounts = ["${TESTNET_PRIVATE_KEY}"]
chain_id = 97
url = "https://data-seed-prebsc-1-s1.binance.org:8545/"
gas = 2100000
gas_price = 10000000000

[networks.mainnet]
accounts = ["vault(deploy/keys#mainnet)"]
chain_id = 56
url = "https://bsc-dataseed.binance.org/"
gas = "auto"
verification = { api_key = "${BSCSCAN_API_KEY}", api_url = "https://api.bscscan.com/api" }
`

func parseTOML(t *testing.T, src string, opts ...LoadOption) (*Manifest, error) {
	t.Helper()
	return ParseManifest([]byte(src), FormatTOML, opts...)
}

func networkByName(t *testing.T, m *Manifest, name string) config.NetworkProfile {
	t.Helper()
	for _, n := range m.Networks {
		if n.Name == name {
			return n
		}
	}
	t.Fatalf("network %s not in manifest", name)
	return config.NetworkProfile{}
}

func TestParseManifest_Full(t *testing.T) {
	m, err := parseTOML(t, fullManifest, WithEnv(map[string]string{"INFURA_KEY": "abc123"}))
	require.NoError(t, err)

	assert.Equal(t, "bsc-testnet", m.DefaultNetwork)
	assert.Equal(t, []uint64{31337, 1337}, m.LocalChainIDs)

	require.Len(t, m.Compilers, 2)
	assert.Equal(t, "0.8.4", m.Compilers[0].Version)
	assert.True(t, m.Compilers[0].OptimizerEnabled)
	runs, ok := m.Compilers[0].OptimizerRuns.Uint()
	assert.True(t, ok)
	assert.Equal(t, uint64(200), runs)
	assert.Equal(t, "0.7.6", m.Compilers[1].Version)
	assert.False(t, m.Compilers[1].OptimizerEnabled)

	assert.Equal(t, map[string]string{"contracts/Legacy.sol": "0.7.6"}, m.CompilerOverrides)
	assert.Equal(t, "${ETHERSCAN_API_KEY}", m.Verification.Placeholder)

	// table form is sorted by name
	names := make([]string, 0, len(m.Networks))
	for _, n := range m.Networks {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"bsc-testnet", "hardhat", "mainnet", "ropsten"}, names)

	hardhat := networkByName(t, m, "hardhat")
	assert.Equal(t, config.LocalChainID, hardhat.ChainID)
	assert.Empty(t, hardhat.RPCURL)
	assert.Empty(t, hardhat.Accounts)
	assert.True(t, hardhat.GasLimit.IsAuto())

	ropsten := networkByName(t, m, "ropsten")
	assert.Equal(t, uint64(3), ropsten.ChainID)
	assert.Equal(t, "https://ropsten.infura.io/v3/abc123", ropsten.RPCURL)
	assert.Equal(t, int64(4100000), ropsten.GasLimit.Amount())
	assert.Equal(t, int64(50000000000), ropsten.GasPrice.Amount())
	require.Len(t, ropsten.Accounts, 1)
	assert.True(t, ropsten.Accounts[0].IsEmpty())
	assert.Equal(t, "https://ropsten.etherscan.io", ropsten.ExplorerURL)

	mainnet := networkByName(t, m, "mainnet")
	assert.Equal(t, uint64(56), mainnet.ChainID)
	assert.True(t, mainnet.GasLimit.IsAuto())
	assert.Equal(t, []config.SignerRef{{Slot: 0, Placeholder: "vault(deploy/keys#mainnet)"}}, mainnet.Accounts)
	assert.Equal(t, "https://bscscan.com", mainnet.ExplorerURL)
	assert.Equal(t, "${BSCSCAN_API_KEY}", mainnet.Verification.Placeholder)
	assert.Equal(t, "https://api.bscscan.com/api", mainnet.Verification.APIURL)
}

func TestParseManifest_Defaults(t *testing.T) {
	m, err := parseTOML(t, ``)
	require.NoError(t, err)

	assert.Equal(t, DefaultNetworkName, m.DefaultNetwork)
	assert.Equal(t, []uint64{config.LocalChainID}, m.LocalChainIDs)
	require.Len(t, m.Compilers, 1)
	assert.Equal(t, config.DefaultSolidityVersion, m.Compilers[0].Version)
	assert.False(t, m.Compilers[0].OptimizerEnabled)
	assert.Empty(t, m.Networks)
}

func TestParseManifest_HardhatSolidityShapes(t *testing.T) {
	t.Run("solidity table with compilers and overrides", func(t *testing.T) {
		m, err := parseTOML(t, `
[[solidity.compilers]]
version = "0.8.4"
settings = { optimizer = { enabled = true, runs = 999 } }

[solidity.overrides."contracts/Old.sol"]
version = "0.7.0"
`)
		require.NoError(t, err)
		require.Len(t, m.Compilers, 1)
		assert.True(t, m.Compilers[0].OptimizerEnabled)
		assert.Equal(t, "999", m.Compilers[0].OptimizerRuns.String())
		assert.Equal(t, "0.7.0", m.CompilerOverrides["contracts/Old.sol"])
	})

	t.Run("solidity string", func(t *testing.T) {
		m, err := parseTOML(t, `solidity = "0.8.19"`)
		require.NoError(t, err)
		require.Len(t, m.Compilers, 1)
		assert.Equal(t, "0.8.19", m.Compilers[0].Version)
	})

	t.Run("override with settings is refused", func(t *testing.T) {
		_, err := parseTOML(t, `
[solidity.overrides."contracts/Old.sol"]
version = "0.7.0"
settings = { optimizer = { enabled = false } }
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settings are not supported")
	})
}

func TestParseManifest_OptimizerRunsKeptRaw(t *testing.T) {
	m, err := parseTOML(t, `
[[compilers]]
version = "0.8.4"
optimizer = { enabled = false, runs = -5 }

[[compilers]]
version = "0.8.5"
optimizer = { enabled = true, runs = 1.5 }
`)
	require.NoError(t, err)

	_, ok := m.Compilers[0].OptimizerRuns.Uint()
	assert.False(t, ok)
	assert.Equal(t, -5.0, m.Compilers[0].OptimizerRuns.Raw())

	_, ok = m.Compilers[1].OptimizerRuns.Uint()
	assert.False(t, ok)
}

func TestParseManifest_NetworkErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		network string
		want    string
	}{
		{
			name:    "literal private key",
			src:     "[networks.mainnet]\nchain_id = 56\nurl = \"https://x\"\naccounts = [\"0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80\"]",
			network: "mainnet",
			want:    "${MAINNET_PRIVATE_KEY}",
		},
		{
			name:    "remote accounts",
			src:     "[networks.node]\nchain_id = 5\nurl = \"https://x\"\naccounts = \"remote\"",
			network: "node",
			want:    "remote",
		},
		{
			name:    "hd accounts",
			src:     "[networks.hd]\nchain_id = 5\nurl = \"https://x\"\naccounts = { mnemonic = \"test test\" }",
			network: "hd",
			want:    "HD wallet",
		},
		{
			name:    "alias conflict",
			src:     "[networks.a]\nchain_id = 5\nchainId = 5",
			network: "a",
			want:    `both "chain_id" and "chainId" are set`,
		},
		{
			name:    "unknown key",
			src:     "[networks.a]\nchain_id = 5\nrcp_url = \"https://x\"",
			network: "a",
			want:    "rcp_url",
		},
		{
			name:    "fractional gas",
			src:     "[networks.a]\nchain_id = 5\ngas = 1.5",
			network: "a",
			want:    "gas",
		},
		{
			name:    "negative chain id",
			src:     "[networks.a]\nchain_id = -1",
			network: "a",
			want:    "chain id",
		},
		{
			name:    "unset url variable",
			src:     "[networks.a]\nchain_id = 5\nurl = \"https://rpc/${TREBCFG_TEST_UNSET_VAR}\"",
			network: "a",
			want:    "TREBCFG_TEST_UNSET_VAR",
		},
		{
			name:    "literal api key",
			src:     "[networks.a]\nchain_id = 5\nverification = { api_key = \"ABCDEF\" }",
			network: "a",
			want:    "literal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTOML(t, tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidNetworkProfile), "got %v", err)

			var cfgErr *domain.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.network, cfgErr.Network)
			assert.Contains(t, err.Error(), tt.want)
			assert.NotContains(t, err.Error(), "ac0974bec39a17e36ba4a6b4d238ff944bacb478")
		})
	}
}

func TestParseManifest_ListFormKeepsDuplicates(t *testing.T) {
	m, err := parseTOML(t, `
[[networks]]
name = "mainnet"
chain_id = 1
url = "https://eth.example"

[[networks]]
name = "mainnet"
chain_id = 56
url = "https://bsc.example"
`)
	require.NoError(t, err)
	require.Len(t, m.Networks, 2)
	assert.Equal(t, uint64(1), m.Networks[0].ChainID)
	assert.Equal(t, uint64(56), m.Networks[1].ChainID)
}

func TestParseManifest_ProcessEnvWinsOverDotenv(t *testing.T) {
	t.Setenv("TREBCFG_TEST_RPC_HOST", "from-process")
	m, err := parseTOML(t, "[networks.a]\nchain_id = 5\nurl = \"https://${TREBCFG_TEST_RPC_HOST}/rpc\"",
		WithEnv(map[string]string{"TREBCFG_TEST_RPC_HOST": "from-dotenv"}))
	require.NoError(t, err)
	assert.Equal(t, "https://from-process/rpc", m.Networks[0].RPCURL)
}

func TestParseManifest_YAMLAndJSON(t *testing.T) {
	yamlSrc := `
default_network: mainnet
compilers:
  - version: "0.8.4"
    optimizer:
      enabled: true
      runs: 200
networks:
  hardhat:
  mainnet:
    chainId: 56
    url: https://bsc-dataseed.binance.org/
    gas: 2100000
    gasPrice: 10000000000
    accounts: ["${MAINNET_PRIVATE_KEY}"]
`
	jsonSrc := `{
  "default_network": "mainnet",
  "compilers": [{"version": "0.8.4", "optimizer": {"enabled": true, "runs": 200}}],
  "networks": {
    "hardhat": {},
    "mainnet": {
      "chainId": 56,
      "url": "https://bsc-dataseed.binance.org/",
      "gas": 2100000,
      "gasPrice": 10000000000,
      "accounts": ["${MAINNET_PRIVATE_KEY}"]
    }
  }
}`

	for format, src := range map[Format]string{FormatYAML: yamlSrc, FormatJSON: jsonSrc} {
		t.Run(string(format), func(t *testing.T) {
			m, err := ParseManifest([]byte(src), format)
			require.NoError(t, err)

			assert.Equal(t, "mainnet", m.DefaultNetwork)
			require.Len(t, m.Compilers, 1)
			assert.True(t, m.Compilers[0].OptimizerEnabled)
			assert.Equal(t, "200", m.Compilers[0].OptimizerRuns.String())

			require.Len(t, m.Networks, 2)
			assert.Equal(t, config.LocalChainID, m.Networks[0].ChainID)
			mainnet := m.Networks[1]
			assert.Equal(t, uint64(56), mainnet.ChainID)
			assert.Equal(t, int64(2100000), mainnet.GasLimit.Amount())
			assert.Equal(t, int64(10000000000), mainnet.GasPrice.Amount())
			assert.Equal(t, "${MAINNET_PRIVATE_KEY}", mainnet.Accounts[0].Placeholder)
		})
	}
}

func TestParseManifest_EtherscanAlias(t *testing.T) {
	m, err := parseTOML(t, "[etherscan]\napiKey = \"${ETHERSCAN_API_KEY}\"")
	require.NoError(t, err)
	assert.Equal(t, "${ETHERSCAN_API_KEY}", m.Verification.Placeholder)
}

func TestParseManifest_InvalidLocalChainIDs(t *testing.T) {
	_, err := parseTOML(t, "local_chain_ids = [0]")
	require.Error(t, err)

	m, err := parseTOML(t, "local_chain_ids = [1337, 1337]")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1337}, m.LocalChainIDs)
}

func TestParseManifest_MalformedInput(t *testing.T) {
	_, err := ParseManifest([]byte("networks = [unclosed"), FormatTOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOML")

	_, err = ParseManifest([]byte("{"), FormatJSON)
	require.Error(t, err)
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "contracts", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))
	manifest := filepath.Join(root, "trebcfg.toml")
	require.NoError(t, os.WriteFile(manifest, []byte(""), 0644))

	found, err := FindManifest(nested)
	require.NoError(t, err)
	assert.Equal(t, manifest, found)

	_, err = FindManifest(t.TempDir())
	// a stray manifest above the temp dir is unlikely but possible
	if err != nil {
		assert.Contains(t, err.Error(), "no manifest found")
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trebcfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networks:\n  hardhat: {}\n"), 0644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)
	require.Len(t, m.Networks, 1)

	_, err = LoadManifest(filepath.Join(dir, "trebcfg.ini"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest format")

	_, err = LoadManifest(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestExplorerURL(t *testing.T) {
	assert.Equal(t, "https://etherscan.io", ExplorerURL(1))
	assert.Equal(t, "https://bscscan.com", ExplorerURL(56))
	assert.Equal(t, "https://testnet.bscscan.com", ExplorerURL(97))
	assert.Empty(t, ExplorerURL(31337))
}

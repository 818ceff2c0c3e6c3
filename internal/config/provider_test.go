package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("network", "", "")
	cmd.Flags().String("compiler-version", "", "")
	cmd.Flags().Bool("check-endpoint", false, "")
	return cmd
}

func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "trebcfg.toml"), []byte(manifest), 0644))
	return root
}

func TestProvider_Defaults(t *testing.T) {
	root := writeProject(t, "")

	cfg, err := Provider(SetupViper(root, newTestCommand()))
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "trebcfg.toml"), cfg.ManifestPath)
	assert.Equal(t, filepath.Join(root, DataDirName), cfg.DataDir)
	assert.Empty(t, cfg.Network)
	assert.Equal(t, 5*time.Second, cfg.SecretTimeout)
	assert.Equal(t, 10*time.Second, cfg.EndpointTimeout)
	assert.True(t, cfg.MemoizeSecrets)
	assert.Equal(t, []string{filepath.Join(root, ".env"), filepath.Join(root, ".env.local")}, cfg.EnvFiles)
	assert.Equal(t, "secret", cfg.Vault.MountPath)
	assert.False(t, cfg.CheckEndpoint)
}

func TestProvider_Precedence(t *testing.T) {
	root := writeProject(t, "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, DataDirName), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, DataDirName, "config.local.json"),
		[]byte(`{"network": "from-file", "compiler_version": "0.7.6", "vault": {"mount": "kv"}}`),
		0644,
	))

	t.Run("local config file", func(t *testing.T) {
		cfg, err := Provider(SetupViper(root, newTestCommand()))
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Network)
		assert.Equal(t, "0.7.6", cfg.CompilerVersion)
		assert.Equal(t, "kv", cfg.Vault.MountPath)
	})

	t.Run("environment beats file", func(t *testing.T) {
		t.Setenv("TREBCFG_NETWORK", "from-env")
		cfg, err := Provider(SetupViper(root, newTestCommand()))
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Network)
	})

	t.Run("flag beats environment", func(t *testing.T) {
		t.Setenv("TREBCFG_NETWORK", "from-env")
		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Set("network", "from-flag"))
		require.NoError(t, cmd.Flags().Set("check-endpoint", "true"))

		cfg, err := Provider(SetupViper(root, cmd))
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.Network)
		assert.True(t, cfg.CheckEndpoint)
	})
}

func TestProvider_VaultEnvironment(t *testing.T) {
	root := writeProject(t, "")
	t.Setenv("VAULT_ADDR", "http://vault.local:8200")
	t.Setenv("VAULT_TOKEN", "s.token")

	cfg, err := Provider(SetupViper(root, nil))
	require.NoError(t, err)
	assert.Equal(t, "http://vault.local:8200", cfg.Vault.Address)
	assert.Equal(t, "s.token", cfg.Vault.Token)
}

func TestProvider_ExplicitManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networks: {}\n"), 0644))

	v := SetupViper("", nil)
	v.Set("manifest", path)

	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ManifestPath)
	assert.Equal(t, dir, cfg.ProjectRoot)
}

func TestProvideManifest(t *testing.T) {
	root := writeProject(t, `
[networks.sepolia]
chain_id = 11155111
url = "https://sepolia.infura.io/v3/${TREBCFG_TEST_INFURA}"
`)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("TREBCFG_TEST_INFURA=from-dotenv\n"), 0644))

	cfg, err := Provider(SetupViper(root, nil))
	require.NoError(t, err)

	m, err := ProvideManifest(cfg)
	require.NoError(t, err)
	require.Len(t, m.Networks, 1)
	assert.Equal(t, "https://sepolia.infura.io/v3/from-dotenv", m.Networks[0].RPCURL)

	// dotenv values are not exported
	_, exported := os.LookupEnv("TREBCFG_TEST_INFURA")
	assert.False(t, exported)
}

func TestProvideManifest_NoManifest(t *testing.T) {
	_, err := ProvideManifest(&config.RuntimeConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--manifest")
}

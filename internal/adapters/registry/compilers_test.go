package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalconfig "github.com/trebuchet-org/trebcfg/internal/config"
	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

func profile084() config.CompilerProfile {
	return config.CompilerProfile{Version: "0.8.4", OptimizerEnabled: true, OptimizerRuns: config.NewRunCount(200)}
}

func TestCompilerRegistry_Active(t *testing.T) {
	r := NewCompilerRegistry()
	require.NoError(t, r.Register(profile084()))
	require.NoError(t, r.Register(config.CompilerProfile{Version: "0.7.6"}))
	require.NoError(t, r.Override("./contracts/Legacy.sol", "0.7.6"))

	tests := []struct {
		name    string
		target  config.BuildTarget
		want    string
		wantErr error
	}{
		{name: "default is first declared", target: config.BuildTarget{}, want: "0.8.4"},
		{name: "explicit version", target: config.BuildTarget{CompilerVersion: "0.7.6"}, want: "0.7.6"},
		{name: "explicit version beats override", target: config.BuildTarget{Source: "contracts/Legacy.sol", CompilerVersion: "0.8.4"}, want: "0.8.4"},
		{name: "per-source override", target: config.BuildTarget{Source: "contracts/Legacy.sol"}, want: "0.7.6"},
		{name: "source without override", target: config.BuildTarget{Source: "contracts/Token.sol"}, want: "0.8.4"},
		{name: "unknown explicit version", target: config.BuildTarget{CompilerVersion: "0.7.0"}, wantErr: domain.ErrUnknownCompilerVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Active(tt.target)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Version)
		})
	}
}

func TestCompilerRegistry_SingleProfileScenario(t *testing.T) {
	r := NewCompilerRegistry()
	require.NoError(t, r.Register(profile084()))

	got, err := r.Active(config.BuildTarget{})
	require.NoError(t, err)
	assert.Equal(t, profile084(), got)

	_, err = r.Active(config.BuildTarget{CompilerVersion: "0.7.0"})
	require.Error(t, err)
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, domain.KindUnknownCompilerVersion, cfgErr.Kind)
	assert.Equal(t, "0.7.0", cfgErr.Profile)
	assert.Contains(t, cfgErr.Detail, "0.8.4")
}

func TestCompilerRegistry_Empty(t *testing.T) {
	_, err := NewCompilerRegistry().Active(config.BuildTarget{})
	assert.True(t, errors.Is(err, domain.ErrUnknownCompilerVersion))
}

func TestCompilerRegistry_Duplicates(t *testing.T) {
	r := NewCompilerRegistry()
	require.NoError(t, r.Register(profile084()))

	err := r.Register(config.CompilerProfile{Version: "0.8.4"})
	assert.True(t, errors.Is(err, domain.ErrDuplicateProfile))
	assert.Equal(t, []string{"0.8.4"}, r.Versions())

	require.NoError(t, r.Override("a.sol", "0.8.4"))
	require.NoError(t, r.Override("./a.sol", "0.8.4"))
	assert.True(t, errors.Is(r.Override("a.sol", "0.7.6"), domain.ErrDuplicateProfile))
}

func TestCompilerRegistry_OverrideToUndeclaredVersion(t *testing.T) {
	r := NewCompilerRegistry()
	require.NoError(t, r.Register(profile084()))
	require.NoError(t, r.Override("contracts/Old.sol", "0.6.12"))

	_, err := r.Active(config.BuildTarget{Source: "contracts/Old.sol"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownCompilerVersion))
	assert.Contains(t, err.Error(), "0.6.12")
}

func TestCompilerRegistry_Sealed(t *testing.T) {
	r := NewCompilerRegistry()
	r.Seal()
	assert.ErrorIs(t, r.Register(profile084()), domain.ErrRegistrySealed)
	assert.ErrorIs(t, r.Override("a.sol", "0.8.4"), domain.ErrRegistrySealed)
}

func TestCompilerRegistry_ListIsCopy(t *testing.T) {
	r := NewCompilerRegistry()
	require.NoError(t, r.Register(profile084()))
	list := r.List()
	list[0].Version = "9.9.9"
	assert.Equal(t, []string{"0.8.4"}, r.Versions())

	overrides := r.Overrides()
	overrides["x.sol"] = "0.8.4"
	assert.Empty(t, r.Overrides())
}

func TestProvideCompilerRegistry(t *testing.T) {
	m, err := internalconfig.ParseManifest([]byte(`
[[compilers]]
version = "0.8.4"
optimizer = { enabled = true, runs = 200 }

[compiler_overrides]
"contracts/Legacy.sol" = "0.8.4"
`), internalconfig.FormatTOML)
	require.NoError(t, err)

	r, err := ProvideCompilerRegistry(m)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"contracts/Legacy.sol": "0.8.4"}, r.Overrides())
	assert.ErrorIs(t, r.Register(config.CompilerProfile{Version: "0.8.5"}), domain.ErrRegistrySealed)
}

func TestProvideCompilerRegistry_ConflictingOverridesReportedInOrder(t *testing.T) {
	m := &internalconfig.Manifest{
		Compilers: []config.CompilerProfile{profile084()},
		CompilerOverrides: map[string]string{
			"contracts/Token.sol":   "0.8.4",
			"./contracts/Token.sol": "0.7.6",
			"contracts/Vault.sol":   "0.8.4",
			"./contracts/Vault.sol": "0.6.12",
		},
	}

	for i := 0; i < 10; i++ {
		_, err := ProvideCompilerRegistry(m)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDuplicateProfile))
		assert.Equal(t, "source contracts/Token.sol is pinned to both 0.7.6 and 0.8.4", err.(*domain.ConfigurationError).Detail)
	}
}

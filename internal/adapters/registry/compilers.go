package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// CompilerRegistry stores compiler profiles in declared order plus
// per-source version overrides. Register must not be called concurrently.
type CompilerRegistry struct {
	profiles  []config.CompilerProfile
	overrides map[string]string // cleaned source path -> version
	sealed    bool
}

// NewCompilerRegistry creates an empty registry
func NewCompilerRegistry() *CompilerRegistry {
	return &CompilerRegistry{overrides: make(map[string]string)}
}

// Register appends a profile. A version may only be registered once.
func (r *CompilerRegistry) Register(profile config.CompilerProfile) error {
	if r.sealed {
		return domain.ErrRegistrySealed
	}
	profile.Version = strings.TrimSpace(profile.Version)
	if profile.Version == "" {
		return domain.NewConfigurationError(domain.KindUnknownCompilerVersion, "compiler version is required")
	}
	if _, ok := r.find(profile.Version); ok {
		return domain.NewConfigurationError(domain.KindDuplicateProfile,
			"compiler version %s is declared more than once", profile.Version).ForProfile(profile.Version)
	}
	r.profiles = append(r.profiles, profile)
	return nil
}

// Override pins a source file to a compiler version. The version must be
// registered by the time the override is used.
func (r *CompilerRegistry) Override(source, version string) error {
	if r.sealed {
		return domain.ErrRegistrySealed
	}
	key := cleanSource(source)
	if existing, ok := r.overrides[key]; ok && existing != version {
		return domain.NewConfigurationError(domain.KindDuplicateProfile,
			"source %s is pinned to both %s and %s", source, existing, version).ForProfile(version)
	}
	r.overrides[key] = strings.TrimSpace(version)
	return nil
}

// Active selects the profile for a build target: an explicit version must
// match exactly, then a per-source override applies, then the first
// declared profile.
func (r *CompilerRegistry) Active(target config.BuildTarget) (config.CompilerProfile, error) {
	if v := strings.TrimSpace(target.CompilerVersion); v != "" {
		return r.Get(v)
	}

	if target.Source != "" {
		if v, ok := r.overrides[cleanSource(target.Source)]; ok {
			profile, err := r.Get(v)
			if err != nil {
				return config.CompilerProfile{}, domain.NewConfigurationError(domain.KindUnknownCompilerVersion,
					"override for %s names an undeclared version", target.Source).ForProfile(v)
			}
			return profile, nil
		}
	}

	if len(r.profiles) == 0 {
		return config.CompilerProfile{}, domain.NewConfigurationError(domain.KindUnknownCompilerVersion,
			"no compiler profiles are declared")
	}
	return r.profiles[0], nil
}

// Get returns the profile for an exact version
func (r *CompilerRegistry) Get(version string) (config.CompilerProfile, error) {
	if p, ok := r.find(version); ok {
		return p, nil
	}
	return config.CompilerProfile{}, domain.NewConfigurationError(domain.KindUnknownCompilerVersion,
		"version is not declared (declared: %s)", strings.Join(r.Versions(), ", ")).ForProfile(version)
}

func (r *CompilerRegistry) find(version string) (config.CompilerProfile, bool) {
	return lo.Find(r.profiles, func(p config.CompilerProfile) bool {
		return p.Version == version
	})
}

// List returns all profiles in declared order
func (r *CompilerRegistry) List() []config.CompilerProfile {
	return slices.Clone(r.profiles)
}

// Versions returns declared versions in order
func (r *CompilerRegistry) Versions() []string {
	return lo.Map(r.profiles, func(p config.CompilerProfile, _ int) string {
		return p.Version
	})
}

// Overrides returns a copy of the per-source overrides
func (r *CompilerRegistry) Overrides() map[string]string {
	return lo.Assign(map[string]string{}, r.overrides)
}

// Seal freezes the registry
func (r *CompilerRegistry) Seal() {
	r.sealed = true
}

func cleanSource(source string) string {
	return filepath.ToSlash(filepath.Clean(strings.TrimSpace(source)))
}

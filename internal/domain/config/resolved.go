package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// Signer is a resolved signer slot. The key material never leaves the process
// through serialization; only the placeholder and derived address do.
type Signer struct {
	Slot        int    `json:"slot"`
	Placeholder string `json:"placeholder"`
	Address     string `json:"address,omitempty"`

	material KeyMaterial
}

// NewSigner builds a resolved signer
func NewSigner(ref SignerRef, material KeyMaterial) Signer {
	s := Signer{
		Slot:        ref.Slot,
		Placeholder: ref.Placeholder,
		material:    material,
	}
	if addr, ok := material.Address(); ok {
		s.Address = addr.Hex()
	}
	return s
}

// Material returns the key material handle
func (s Signer) Material() KeyMaterial {
	return s.material
}

// HasMaterial reports whether the slot resolved to non-empty key material
func (s Signer) HasMaterial() bool {
	return !s.material.IsEmpty()
}

func (s Signer) String() string {
	if s.Address != "" {
		return fmt.Sprintf("signer[%d] %s (%s)", s.Slot, s.Placeholder, s.Address)
	}
	return fmt.Sprintf("signer[%d] %s", s.Slot, s.Placeholder)
}

func (s Signer) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(s.String()))
}

// Verification is the resolved explorer verification setting
type Verification struct {
	Enabled     bool   `json:"enabled"`
	APIURL      string `json:"apiUrl,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`

	apiKey KeyMaterial
}

// NewVerification builds a verification setting; it is enabled only with a non-empty key
func NewVerification(ref VerificationRef, apiKey KeyMaterial) Verification {
	return Verification{
		Enabled:     !apiKey.IsEmpty(),
		APIURL:      ref.APIURL,
		Placeholder: ref.Placeholder,
		apiKey:      apiKey,
	}
}

// APIKey returns the explorer API key handle
func (v Verification) APIKey() KeyMaterial {
	return v.apiKey
}

func (v Verification) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, "verification{enabled=%t url=%s}", v.Enabled, v.APIURL)
}

// ResolvedConfiguration is the validated bundle handed to compile and deploy stages.
// It is immutable: accessors return copies.
type ResolvedConfiguration struct {
	network      NetworkProfile
	compiler     CompilerProfile
	target       BuildTarget
	signers      []Signer
	verification Verification
	local        bool
}

// ResolvedParts are the inputs of NewResolvedConfiguration
type ResolvedParts struct {
	Network      NetworkProfile
	Compiler     CompilerProfile
	Target       BuildTarget
	Signers      []Signer
	Verification Verification
	Local        bool
}

// NewResolvedConfiguration assembles a configuration from validated parts
func NewResolvedConfiguration(p ResolvedParts) *ResolvedConfiguration {
	return &ResolvedConfiguration{
		network:      p.Network.Clone(),
		compiler:     p.Compiler,
		target:       p.Target,
		signers:      slices.Clone(p.Signers),
		verification: p.Verification,
		local:        p.Local,
	}
}

func (c *ResolvedConfiguration) Network() NetworkProfile   { return c.network.Clone() }
func (c *ResolvedConfiguration) Compiler() CompilerProfile { return c.compiler }
func (c *ResolvedConfiguration) Target() BuildTarget       { return c.target }
func (c *ResolvedConfiguration) Signers() []Signer         { return slices.Clone(c.signers) }
func (c *ResolvedConfiguration) Verification() Verification {
	return c.verification
}

// Local reports whether the network is a local or simulation chain
func (c *ResolvedConfiguration) Local() bool {
	return c.local
}

// Redacted returns a copy with every piece of key material dropped
func (c *ResolvedConfiguration) Redacted() *ResolvedConfiguration {
	out := NewResolvedConfiguration(c.parts())
	for i := range out.signers {
		out.signers[i].material = KeyMaterial{}
	}
	out.verification.apiKey = KeyMaterial{}
	return out
}

// Fingerprint is a stable digest of the serialized configuration
func (c *ResolvedConfiguration) Fingerprint() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode configuration: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (c *ResolvedConfiguration) String() string {
	return fmt.Sprintf("%s (chain %d) compiler %s, %d signer(s)",
		c.network.Name, c.network.ChainID, c.compiler.Version, len(c.signers))
}

func (c *ResolvedConfiguration) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(c.String()))
}

func (c *ResolvedConfiguration) parts() ResolvedParts {
	return ResolvedParts{
		Network:      c.network,
		Compiler:     c.compiler,
		Target:       c.target,
		Signers:      c.signers,
		Verification: c.verification,
		Local:        c.local,
	}
}

type resolvedJSON struct {
	Network      NetworkProfile  `json:"network"`
	Compiler     CompilerProfile `json:"compiler"`
	Target       BuildTarget     `json:"target"`
	Signers      []Signer        `json:"signers"`
	Verification Verification    `json:"verification"`
	Local        bool            `json:"local"`
}

func (c *ResolvedConfiguration) MarshalJSON() ([]byte, error) {
	return json.Marshal(resolvedJSON(c.parts()))
}

func (c *ResolvedConfiguration) UnmarshalJSON(data []byte) error {
	var raw resolvedJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = *NewResolvedConfiguration(ResolvedParts(raw))
	return nil
}

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const redacted = "[REDACTED]"

// KeyMaterial is an opaque handle over a resolved secret.
// Every formatting and encoding path prints a placeholder; Reveal is the only accessor.
type KeyMaterial struct {
	secret string
}

// NewKeyMaterial wraps a raw secret
func NewKeyMaterial(secret string) KeyMaterial {
	return KeyMaterial{secret: strings.TrimSpace(secret)}
}

// IsEmpty reports whether the handle holds no usable material
func (k KeyMaterial) IsEmpty() bool {
	return k.secret == ""
}

// Reveal returns the raw secret for the signing stage
func (k KeyMaterial) Reveal() string {
	return k.secret
}

// Address derives the account address when the material is a hex private key
func (k KeyMaterial) Address() (common.Address, bool) {
	hexKey := strings.TrimPrefix(k.secret, "0x")
	if len(hexKey) != 64 {
		return common.Address{}, false
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return common.Address{}, false
	}
	return crypto.PubkeyToAddress(key.PublicKey), true
}

func (k KeyMaterial) String() string {
	if k.IsEmpty() {
		return ""
	}
	return redacted
}

func (k KeyMaterial) GoString() string {
	return "config.KeyMaterial{" + redacted + "}"
}

// Format keeps %x, %q and friends from printing the secret
func (k KeyMaterial) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(k.String()))
}

func (k KeyMaterial) LogValue() slog.Value {
	return slog.StringValue(k.String())
}

func (k KeyMaterial) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SecretStatus is the outcome of resolving a placeholder
type SecretStatus int

const (
	SecretAbsent SecretStatus = iota
	SecretPresent
	SecretUnavailable
)

func (s SecretStatus) String() string {
	switch s {
	case SecretPresent:
		return "present"
	case SecretUnavailable:
		return "unavailable"
	default:
		return "absent"
	}
}

// SecretResolution is the result of looking up one placeholder. Err is set
// only for SecretUnavailable and never embeds secret values.
type SecretResolution struct {
	Status   SecretStatus
	Material KeyMaterial
	Err      error
}

// Present reports whether non-empty key material was found
func (r SecretResolution) Present() bool {
	return r.Status == SecretPresent && !r.Material.IsEmpty()
}

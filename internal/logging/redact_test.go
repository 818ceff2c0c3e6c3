package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

func newBufferLogger() (*bytes.Buffer, *RedactHandler, *slog.Logger) {
	buf := &bytes.Buffer{}
	h := NewRedactFilter(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return buf, h, slog.New(h)
}

func TestRedactHandler_ScrubsRegisteredSecrets(t *testing.T) {
	buf, h, log := newBufferLogger()
	h.AddSecret("0xdeadbeef")

	log.Info("signer 0xdeadbeef loaded",
		"key", "0xdeadbeef",
		"err", errors.New("bad key 0xdeadbeef"),
		slog.Group("signer", "material", "prefix-0xdeadbeef"),
		"slot", 0,
	)

	out := buf.String()
	assert.NotContains(t, out, "0xdeadbeef")
	assert.Contains(t, out, Redacted)
	assert.Contains(t, out, "slot=0")
	assert.Contains(t, out, "signer.material=prefix-"+Redacted)
}

func TestRedactHandler_PassThroughWithoutSecrets(t *testing.T) {
	buf, _, log := newBufferLogger()
	log.Info("hello", "network", "mainnet")
	assert.Contains(t, buf.String(), "network=mainnet")
}

func TestRedactHandler_ChildrenShareSecrets(t *testing.T) {
	buf, h, log := newBufferLogger()
	child := log.With("component", "resolver").WithGroup("resolve")

	// registered after the child was created
	h.AddSecret("supersecret")
	child.Info("value", "v", "supersecret")

	assert.NotContains(t, buf.String(), "supersecret")
	assert.Contains(t, buf.String(), "component=resolver")
}

func TestRedactHandler_IgnoresBlank(t *testing.T) {
	_, h, _ := newBufferLogger()
	h.AddSecret("")
	h.AddSecret("   ")
	assert.Equal(t, "a b", h.RedactString("a b"))
}

func TestRedactHandler_KeyMaterialNeverLogged(t *testing.T) {
	buf, _, log := newBufferLogger()
	material := config.NewKeyMaterial("0x1111")
	log.Info("material", "m", material)
	assert.NotContains(t, buf.String(), "0x1111")
}

func TestRedactHandler_Concurrent(t *testing.T) {
	_, h, log := newBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.AddSecret("s3cr3t")
		}()
		go func() {
			defer wg.Done()
			log.Info("x", "v", "s3cr3t")
		}()
	}
	wg.Wait()
	assert.Equal(t, Redacted, h.RedactString("s3cr3t"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelWarn},
		{"", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in, slog.LevelWarn))
		})
	}
}

func TestNewTextHandler_DebugFlag(t *testing.T) {
	t.Setenv("TREBCFG_LOG_LEVEL", "")
	buf := &bytes.Buffer{}

	quiet := slog.New(newTextHandler(buf, &config.RuntimeConfig{}))
	quiet.Debug("hidden")
	assert.Empty(t, buf.String())

	loud := slog.New(newTextHandler(buf, &config.RuntimeConfig{Debug: true}))
	loud.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "time=")
}

package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Redacted replaces every registered secret in log output
const Redacted = "[REDACTED]"

// RedactHandler wraps a slog handler and scrubs registered secret values from
// messages and string attributes, including attributes nested in groups.
type RedactHandler struct {
	inner   slog.Handler
	mu      *sync.RWMutex
	secrets map[string]struct{}
}

// NewRedactFilter wraps inner
func NewRedactFilter(inner slog.Handler) *RedactHandler {
	return &RedactHandler{
		inner:   inner,
		mu:      &sync.RWMutex{},
		secrets: make(map[string]struct{}),
	}
}

// AddSecret registers a value to be redacted
func (h *RedactHandler) AddSecret(value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.secrets[value] = struct{}{}
}

func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RedactHandler) Handle(ctx context.Context, record slog.Record) error {
	secrets := h.snapshot()
	if len(secrets) == 0 {
		return h.inner.Handle(ctx, record)
	}

	redacted := slog.NewRecord(record.Time, record.Level, scrub(record.Message, secrets), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a, secrets))
		return true
	})
	return h.inner.Handle(ctx, redacted)
}

// WithAttrs shares the secret set with the parent
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	secrets := h.snapshot()
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = redactAttr(a, secrets)
	}
	return &RedactHandler{inner: h.inner.WithAttrs(scrubbed), mu: h.mu, secrets: h.secrets}
}

// WithGroup shares the secret set with the parent
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{inner: h.inner.WithGroup(name), mu: h.mu, secrets: h.secrets}
}

// RedactString replaces registered secrets in s
func (h *RedactHandler) RedactString(s string) string {
	return scrub(s, h.snapshot())
}

func (h *RedactHandler) snapshot() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.secrets))
	for s := range h.secrets {
		out = append(out, s)
	}
	return out
}

func redactAttr(a slog.Attr, secrets []string) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, scrub(v.String(), secrets))
	case slog.KindGroup:
		group := v.Group()
		out := make([]any, len(group))
		for i, ga := range group {
			out[i] = redactAttr(ga, secrets)
		}
		return slog.Group(a.Key, out...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, scrub(err.Error(), secrets))
		}
		return slog.Attr{Key: a.Key, Value: v}
	default:
		return slog.Attr{Key: a.Key, Value: v}
	}
}

func scrub(s string, secrets []string) string {
	for _, secret := range secrets {
		s = strings.ReplaceAll(s, secret, Redacted)
	}
	return s
}

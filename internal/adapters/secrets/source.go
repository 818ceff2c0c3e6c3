package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trebuchet-org/trebcfg/internal/domain"
	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

// DefaultTimeout bounds a single store lookup
const DefaultTimeout = 5 * time.Second

// Status is the outcome of resolving a placeholder
type Status = config.SecretStatus

const (
	StatusAbsent      = config.SecretAbsent
	StatusPresent     = config.SecretPresent
	StatusUnavailable = config.SecretUnavailable
)

// Resolution is the result of Source.Resolve
type Resolution = config.SecretResolution

// Redactor is told about every resolved secret so log output can scrub it
type Redactor interface {
	AddSecret(value string)
}

// Option configures a Source
type Option func(*Source)

// WithTimeout sets the per-lookup timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMemoization caches present and absent answers per placeholder
func WithMemoization() Option {
	return func(s *Source) {
		s.memoize = true
	}
}

// WithRedactor registers resolved material with a log redactor
func WithRedactor(r Redactor) Option {
	return func(s *Source) {
		s.redactor = r
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// Source resolves placeholders lazily. It is safe for concurrent use.
type Source struct {
	stores   map[config.Scheme]Store
	timeout  time.Duration
	memoize  bool
	redactor Redactor
	log      *slog.Logger

	cache sync.Map // placeholder -> Resolution
	group singleflight.Group
}

// NewSource creates a Source; nil stores are ignored
func NewSource(stores map[config.Scheme]Store, opts ...Option) *Source {
	s := &Source{
		stores:  make(map[config.Scheme]Store, len(stores)),
		timeout: DefaultTimeout,
		log:     slog.New(slog.DiscardHandler),
	}
	for scheme, store := range stores {
		if store != nil {
			s.stores[scheme] = store
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve looks up a placeholder. Unknown placeholders and missing secrets are
// StatusAbsent; timeouts and store failures are StatusUnavailable.
func (s *Source) Resolve(ctx context.Context, placeholder string) Resolution {
	if !s.memoize {
		return s.resolve(ctx, placeholder)
	}

	if cached, ok := s.cache.Load(placeholder); ok {
		return cached.(Resolution)
	}

	// the shared lookup outlives any single caller; only the timeout bounds it
	flight := context.WithoutCancel(ctx)
	ch := s.group.DoChan(placeholder, func() (any, error) {
		if cached, ok := s.cache.Load(placeholder); ok {
			return cached, nil
		}
		res := s.resolve(flight, placeholder)
		if res.Status != StatusUnavailable {
			s.cache.Store(placeholder, res)
		}
		return res, nil
	})

	select {
	case r := <-ch:
		return r.Val.(Resolution)
	case <-ctx.Done():
		return unavailable(placeholder, ctx.Err())
	}
}

func unavailable(placeholder string, err error) Resolution {
	return Resolution{
		Status: StatusUnavailable,
		Err:    domain.NewConfigurationError(domain.KindSecretUnavailable, "%s", placeholder).Wrap(err),
	}
}

func (s *Source) resolve(ctx context.Context, placeholder string) Resolution {
	ref, ok := config.ParsePlaceholder(placeholder)
	if !ok {
		s.log.Debug("not a secret placeholder", "placeholder", placeholder)
		return Resolution{Status: StatusAbsent}
	}

	store, ok := s.stores[ref.Scheme]
	if !ok {
		s.log.Debug("no store configured for placeholder", "placeholder", placeholder, "scheme", ref.Scheme)
		return Resolution{Status: StatusAbsent}
	}

	value, found, err := s.lookup(ctx, store, ref.Name)
	if err != nil {
		s.log.Warn("secret unavailable", "placeholder", placeholder, "error", err)
		return unavailable(placeholder, err)
	}

	material := config.NewKeyMaterial(value)
	if !found || material.IsEmpty() {
		s.log.Debug("secret absent", "placeholder", placeholder)
		return Resolution{Status: StatusAbsent}
	}

	if s.redactor != nil {
		s.redactor.AddSecret(material.Reveal())
	}
	s.log.Debug("secret resolved", "placeholder", placeholder)
	return Resolution{Status: StatusPresent, Material: material}
}

type lookupResult struct {
	value string
	found bool
	err   error
}

// lookup runs the store call under the timeout even if the store ignores ctx
func (s *Source) lookup(ctx context.Context, store Store, name string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan lookupResult, 1)
	go func() {
		v, ok, err := store.Lookup(ctx, name)
		ch <- lookupResult{value: v, found: ok, err: err}
	}()

	select {
	case r := <-ch:
		return r.value, r.found, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", false, fmt.Errorf("lookup timed out after %s", s.timeout)
		}
		return "", false, ctx.Err()
	}
}

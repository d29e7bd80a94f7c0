package spell

import (
	"github.com/rs/zerolog"

	"github.com/roach88/spell/internal/auth"
	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/metrics"
	"github.com/roach88/spell/internal/store"
)

// Service exposes the spell operations over one store.
//
// Calls are expected to be serialized by the host, but nothing breaks if
// they are not: the store runs every mutation in its own transaction.
type Service struct {
	store   *store.Store
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. Default: disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithMetrics sets the collectors operations report to. Default: none.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a Service backed by st.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the backing store.
func (s *Service) Store() *store.Store {
	return s.store
}

// done finishes an operation that always yields a value on success.
func done[T any](s *Service, op string, v T, err error) Result[T] {
	if err != nil {
		return fail[T](s, op, err)
	}
	s.metrics.ObserveOperation(op, metrics.OutcomeOK)
	return Ok(v)
}

// lookup finishes a read that may find nothing.
func lookup[T any](s *Service, op string, v T, found bool, err error) Result[T] {
	if err != nil {
		return fail[T](s, op, err)
	}
	if !found {
		s.metrics.ObserveOperation(op, metrics.OutcomeAbsent)
		return Absent[T]()
	}
	s.metrics.ObserveOperation(op, metrics.OutcomeOK)
	return Ok(v)
}

func fail[T any](s *Service, op string, err error) Result[T] {
	e := AsError(err)
	switch e.Code {
	case CodeForbidden:
		s.metrics.ObserveOperation(op, metrics.OutcomeForbidden)
	case CodeStorage:
		s.log.Error().Err(err).Str("op", op).Msg("storage failure")
		s.metrics.ObserveOperation(op, metrics.OutcomeError)
	default:
		s.log.Debug().Str("op", op).Str("code", string(e.Code)).Msg(e.Message)
		s.metrics.ObserveOperation(op, metrics.OutcomeError)
	}
	return Fail[T](e)
}

// guardWrite checks a key write for the caller.
func (s *Service) guardWrite(op, key string, cc ir.CallContext) error {
	roles := auth.Resolve(cc)
	if err := auth.CheckWrite(key, roles); err != nil {
		s.denied(roles)
		s.log.Debug().Str("op", op).Str("key", key).Stringer("roles", roles).Msg("write denied")
		return err
	}
	return nil
}

// requireSpell admits only the spell itself.
func (s *Service) requireSpell(op string, cc ir.CallContext) error {
	if auth.IsSpell(cc) {
		return nil
	}
	roles := auth.Resolve(cc)
	s.denied(roles)
	s.log.Debug().Str("op", op).Stringer("roles", roles).Msg("spell-only operation denied")
	return forbidden("%s is allowed only for the spell itself, caller has role %s", op, roles)
}

// requireCreator admits only the peer that created the service.
func (s *Service) requireCreator(op string, cc ir.CallContext) error {
	if auth.IsCreator(cc) {
		return nil
	}
	roles := auth.Resolve(cc)
	s.denied(roles)
	s.log.Debug().Str("op", op).Str("caller", cc.CallerPeerID).Msg("creator-only operation denied")
	return forbidden("%s is allowed only for the service creator", op)
}

func (s *Service) denied(roles ir.RoleSet) {
	s.metrics.ObserveDenied(roles.String())
}

func (s *Service) evicted(j store.Journal, n int) {
	if n == 0 {
		return
	}
	s.metrics.ObserveEvictions(string(j), n)
	s.log.Debug().Str("journal", string(j)).Int("evicted", n).Msg("journal evicted")
}

package community

import "time"

// PasswordHasher abstracts credential hashing so the core never depends on a
// concrete algorithm. The production implementation lives in internal/auth.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Service is the application core. It validates input, enforces the
// authorization rules through its Resolver, and delegates persistence to the
// Store. All methods return the package's sentinel errors (wrapped) so
// transports can map them uniformly.
type Service struct {
	store    Store
	resolver *Resolver
	hasher   PasswordHasher
	now      func() time.Time
}

// Option customizes Service construction.
type Option func(*Service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a Service over the given store and hasher.
func NewService(store Store, hasher PasswordHasher, opts ...Option) *Service {
	s := &Service{
		store:    store,
		resolver: NewResolver(store),
		hasher:   hasher,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolver exposes the authorization resolver for callers that only need
// permission checks.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

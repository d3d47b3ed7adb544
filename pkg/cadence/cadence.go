// Package cadence opens a persistent Cadence session: a Scheduling Store
// hydrated from the data directory and wired to write every mutation back.
//
// Example:
//
//	s, err := cadence.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".cadence-db",
//	})
//	if err != nil { ... }
//	defer s.Close()
//	s.Store.AddCompany(c)
package cadence

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/cadence/internal/sqlite"
	"github.com/mesh-intelligence/cadence/internal/store"
	"github.com/mesh-intelligence/cadence/pkg/types"
)

// Version is the Cadence release version.
const Version = "0.1.0"

// Option configures Open.
type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

// WithLogger sets the logger passed to the backend.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock overrides the store's source of "now".
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Session is an open store bound to its backend.
type Session struct {
	Store *store.Store

	backend     *sqlite.Backend
	unsubscribe func()
}

// Open attaches the backend described by cfg and returns a session whose
// store reflects the persisted state. A fresh data directory is seeded with
// the default communication methods, which are saved immediately.
func Open(cfg types.Config, opts ...Option) (*Session, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	backend := sqlite.NewBackend(sqlite.WithLogger(o.logger))
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	snap, ok, err := backend.Load()
	if err != nil {
		_ = backend.Detach()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	storeOpts := []store.Option{store.WithClock(o.now)}
	if ok {
		storeOpts = append(storeOpts, store.WithSnapshot(snap))
	}
	st := store.New(storeOpts...)

	if !ok {
		if err := backend.Save(st.Snapshot()); err != nil {
			_ = backend.Detach()
			return nil, fmt.Errorf("save seeded snapshot: %w", err)
		}
	}

	return &Session{
		Store:       st,
		backend:     backend,
		unsubscribe: st.Subscribe(backend.Observe),
	}, nil
}

// DataDir returns the attached data directory.
func (s *Session) DataDir() string {
	return s.backend.DataDir()
}

// Err returns any error from persisting mutations since Open.
func (s *Session) Err() error {
	return s.backend.Err()
}

// Close stops persisting mutations and detaches the backend, flushing any
// deferred write. It returns persistence errors recorded since Open.
func (s *Session) Close() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	return s.backend.Detach()
}

// Package store implements the Scheduling Store: the sole owner of the
// company, communication method, and communication collections, and the home
// of the next-contact scheduling rules.
//
// The store performs no validation. Records must arrive fully formed, with
// fresh unique IDs, existing cross-references, and a positive periodicity;
// internal/validate implements those checks for callers.
package store

import (
	"slices"
	"sync"
	"time"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// lastCommunicationsLimit caps LastFiveCommunications.
const lastCommunicationsLimit = 5

// Observer receives a post-mutation snapshot.
type Observer func(types.Snapshot)

type subscription struct {
	id int
	fn Observer
}

// Store holds the three collections in insertion order. Each mutation
// replaces the affected collection with a new slice, so snapshots returned
// earlier never change.
type Store struct {
	mu sync.RWMutex

	companies      []types.Company
	methods        []types.CommunicationMethod
	communications []types.Communication

	now func() time.Time

	subMu     sync.Mutex
	subs      []subscription
	nextSubID int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the source of "now".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSnapshot hydrates the store from a previously saved snapshot instead of
// seeding the default communication methods.
func WithSnapshot(snap types.Snapshot) Option {
	return func(s *Store) {
		snap = snap.Clone()
		s.companies = snap.Companies
		s.methods = snap.CommunicationMethods
		s.communications = snap.Communications
	}
}

// New creates a store seeded with the default communication methods and no
// companies or communications.
func New(opts ...Option) *Store {
	s := &Store{
		methods: types.DefaultCommunicationMethods(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to receive a snapshot after every mutation.
// Observers run synchronously, in subscription order, outside the store lock.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
	}
}

// publish broadcasts snap to all current observers.
func (s *Store) publish(snap types.Snapshot) {
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(snap.Clone())
	}
}

// mutate applies fn under the write lock and broadcasts the resulting state.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// Company mutations.

// AddCompany appends c.
func (s *Store) AddCompany(c types.Company) {
	s.mutate(func() {
		s.companies = append(slices.Clip(s.companies), c)
	})
}

// UpdateCompany replaces every company whose ID matches c.ID. An unmatched ID
// leaves the collection unchanged.
func (s *Store) UpdateCompany(c types.Company) {
	s.mutate(func() {
		s.companies = replaceByID(s.companies, c, func(x types.Company) string { return x.ID })
	})
}

// DeleteCompany removes the company with the given ID, preserving the order
// of the rest. Communications referencing it are kept.
func (s *Store) DeleteCompany(id string) {
	s.mutate(func() {
		s.companies = removeByID(s.companies, id, func(x types.Company) string { return x.ID })
	})
}

// Communication method mutations.

// AddCommunicationMethod appends m.
func (s *Store) AddCommunicationMethod(m types.CommunicationMethod) {
	s.mutate(func() {
		s.methods = append(slices.Clip(s.methods), m)
	})
}

// UpdateCommunicationMethod replaces every method whose ID matches m.ID.
func (s *Store) UpdateCommunicationMethod(m types.CommunicationMethod) {
	s.mutate(func() {
		s.methods = replaceByID(s.methods, m, func(x types.CommunicationMethod) string { return x.ID })
	})
}

// DeleteCommunicationMethod removes the method with the given ID.
func (s *Store) DeleteCommunicationMethod(id string) {
	s.mutate(func() {
		s.methods = removeByID(s.methods, id, func(x types.CommunicationMethod) string { return x.ID })
	})
}

// AddCommunication appends c. Communications cannot be updated or deleted.
func (s *Store) AddCommunication(c types.Communication) {
	s.mutate(func() {
		s.communications = append(slices.Clip(s.communications), c)
	})
}

// replaceByID returns a copy of items with every element whose key matches
// item's key replaced by item.
func replaceByID[T any](items []T, item T, key func(T) string) []T {
	id := key(item)
	out := slices.Clone(items)
	for i := range out {
		if key(out[i]) == id {
			out[i] = item
		}
	}
	return out
}

// removeByID returns a copy of items without the elements whose key is id.
func removeByID[T any](items []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, x := range items {
		if key(x) != id {
			out = append(out, x)
		}
	}
	return out
}

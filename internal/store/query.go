package store

import (
	"slices"
	"time"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// Companies returns the companies in insertion order.
func (s *Store) Companies() []types.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.companies)
}

// CommunicationMethods returns the communication methods in insertion order.
func (s *Store) CommunicationMethods() []types.CommunicationMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.methods)
}

// Communications returns every logged communication in insertion order.
func (s *Store) Communications() []types.Communication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.communications)
}

// Snapshot returns all three collections at once.
func (s *Store) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() types.Snapshot {
	return types.Snapshot{
		Companies:            slices.Clone(s.companies),
		CommunicationMethods: slices.Clone(s.methods),
		Communications:       slices.Clone(s.communications),
	}
}

// Company returns the first company with the given ID.
func (s *Store) Company(id string) (types.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.companyLocked(id)
}

func (s *Store) companyLocked(id string) (types.Company, bool) {
	i := slices.IndexFunc(s.companies, func(c types.Company) bool { return c.ID == id })
	if i < 0 {
		return types.Company{}, false
	}
	return s.companies[i], true
}

// Method returns the first communication method with the given ID.
func (s *Store) Method(id string) (types.CommunicationMethod, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.methods, func(m types.CommunicationMethod) bool { return m.ID == id })
	if i < 0 {
		return types.CommunicationMethod{}, false
	}
	return s.methods[i], true
}

// LastFiveCommunications returns up to five communications for companyID,
// most recent first. Equal dates keep insertion order. The company need not
// exist.
func (s *Store) LastFiveCommunications(companyID string) []types.Communication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := s.recentLocked(companyID)
	if len(recent) > lastCommunicationsLimit {
		recent = recent[:lastCommunicationsLimit]
	}
	return recent
}

// NextScheduledCommunication returns the date the next communication with
// companyID is due: the most recent communication's date plus the company's
// periodicity in calendar days. A company with no communications is due now.
// The boolean is false only when the company does not exist.
func (s *Store) NextScheduledCommunication(companyID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companyLocked(companyID)
	if !ok {
		return time.Time{}, false
	}

	recent := s.recentLocked(companyID)
	if len(recent) == 0 {
		return s.now(), true
	}
	return recent[0].Date.AddDate(0, 0, company.CommunicationPeriodicity), true
}

// recentLocked returns the company's communications sorted by date,
// descending, with a stable sort.
func (s *Store) recentLocked(companyID string) []types.Communication {
	var matched []types.Communication
	for _, c := range s.communications {
		if c.CompanyID == companyID {
			matched = append(matched, c)
		}
	}
	slices.SortStableFunc(matched, func(a, b types.Communication) int {
		return b.Date.Compare(a.Date)
	})
	return matched
}

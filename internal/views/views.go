// Package views derives the read models shown by the presentation commands:
// dashboard rows, the notification panel, and the calendar month grid.
// Views hold no state; they are recomputed from the store on every render.
package views

import (
	"time"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// Source is the subset of the Scheduling Store the views read from.
type Source interface {
	Snapshot() types.Snapshot
	LastFiveCommunications(companyID string) []types.Communication
	NextScheduledCommunication(companyID string) (time.Time, bool)
}

// Entry is a logged communication with its names resolved. Names are empty
// when the referenced record no longer exists.
type Entry struct {
	Communication types.Communication `json:"communication"`
	CompanyName   string              `json:"company_name"`
	MethodName    string              `json:"method_name"`
}

type names struct {
	companies map[string]string
	methods   map[string]string
}

func newNames(snap types.Snapshot) names {
	n := names{
		companies: make(map[string]string, len(snap.Companies)),
		methods:   make(map[string]string, len(snap.CommunicationMethods)),
	}
	// First record wins when ids repeat, matching find-first lookups.
	for _, c := range snap.Companies {
		if _, ok := n.companies[c.ID]; !ok {
			n.companies[c.ID] = c.Name
		}
	}
	for _, m := range snap.CommunicationMethods {
		if _, ok := n.methods[m.ID]; !ok {
			n.methods[m.ID] = m.Name
		}
	}
	return n
}

func (n names) entry(c types.Communication) Entry {
	return Entry{
		Communication: c,
		CompanyName:   n.companies[c.CompanyID],
		MethodName:    n.methods[c.MethodID],
	}
}

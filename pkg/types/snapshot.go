package types

import "slices"

// Snapshot is a read-only view of all three store collections, each in
// insertion order.
type Snapshot struct {
	Companies            []Company             `json:"companies"`
	CommunicationMethods []CommunicationMethod `json:"communication_methods"`
	Communications       []Communication       `json:"communications"`
}

// Clone returns a copy whose slices do not alias s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Companies:            slices.Clone(s.Companies),
		CommunicationMethods: slices.Clone(s.CommunicationMethods),
		Communications:       slices.Clone(s.Communications),
	}
}

package types

// CommunicationMethod is a channel used to reach a company. Sequence orders
// methods for display; Mandatory is stored but not enforced.
type CommunicationMethod struct {
	ID          string `json:"method_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Sequence    int    `json:"sequence"`
	Mandatory   bool   `json:"mandatory"`
}

// DefaultCommunicationMethods returns the methods every new store starts with.
// A fresh slice is returned on each call.
func DefaultCommunicationMethods() []CommunicationMethod {
	return []CommunicationMethod{
		{ID: "1", Name: "LinkedIn Post", Description: "Post on LinkedIn", Sequence: 1, Mandatory: true},
		{ID: "2", Name: "LinkedIn Message", Description: "Direct message on LinkedIn", Sequence: 2, Mandatory: true},
		{ID: "3", Name: "Email", Description: "Email communication", Sequence: 3, Mandatory: true},
		{ID: "4", Name: "Phone Call", Description: "Phone call communication", Sequence: 4, Mandatory: true},
		{ID: "5", Name: "Other", Description: "Other forms of communication", Sequence: 5, Mandatory: false},
	}
}

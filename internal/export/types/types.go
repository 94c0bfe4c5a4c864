// Package types holds the rows written by every export format.
package types

// ProjectRecord is the settlement summary of one completed project.
type ProjectRecord struct {
	ID                 int64
	Title              string
	EstimatedTotalHH   float64
	FinalMonetaryValue string
	Distributed        string
	CompletedAt        string
}

// TaskRecord is one task of an exported project.
type TaskRecord struct {
	ProjectID int64
	ID        int64
	Title     string
	Status    string
	HHBudget  float64
	Assignee  string
	IsPool    bool
}

// PayoutRecord is one member's share of an exported project. Member holds the
// identity or its hash when pseudonymized.
type PayoutRecord struct {
	ProjectID   int64
	Member      string
	ConfirmedHH float64
	Share       float64
	Amount      string
}

// Settlement groups every record written by one export run.
type Settlement struct {
	Projects []*ProjectRecord
	Tasks    []*TaskRecord
	Payouts  []*PayoutRecord
}

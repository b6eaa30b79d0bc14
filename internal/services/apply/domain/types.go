// Package domain holds apply service types and ports
package domain

// TargetType says what kind of record an update touched
type TargetType string

// Target types
const (
	TargetCompany TargetType = "company"
	TargetContact TargetType = "contact"
)

// UpdateStatus is the terminal state of one attempted update
type UpdateStatus string

// Update statuses
// already_set means the read-before-write found the target value in place,
// so nothing was written and the update still counts as a success
const (
	StatusUpdated    UpdateStatus = "updated"
	StatusAlreadySet UpdateStatus = "already_set"
	StatusFailed     UpdateStatus = "failed"
)

// UpdateResult records one attempted update against the record store
type UpdateResult struct {
	TargetID    string       `json:"target_id"`
	TargetType  TargetType   `json:"target_type"`
	Status      UpdateStatus `json:"status"`
	ErrorDetail string       `json:"error_detail,omitempty"`
}

// Outcome aggregates everything the orchestrator did in one run
type Outcome struct {
	Results []UpdateResult

	CompaniesUpdated    int
	CompaniesAlreadySet int
	CompaniesFailed     int

	ContactsUpdated    int
	ContactsAlreadySet int
	ContactsFailed     int
}

func (o *Outcome) record(r UpdateResult) {
	o.Results = append(o.Results, r)
	switch {
	case r.TargetType == TargetCompany && r.Status == StatusUpdated:
		o.CompaniesUpdated++
	case r.TargetType == TargetCompany && r.Status == StatusAlreadySet:
		o.CompaniesAlreadySet++
	case r.TargetType == TargetCompany && r.Status == StatusFailed:
		o.CompaniesFailed++
	case r.TargetType == TargetContact && r.Status == StatusUpdated:
		o.ContactsUpdated++
	case r.TargetType == TargetContact && r.Status == StatusAlreadySet:
		o.ContactsAlreadySet++
	case r.TargetType == TargetContact && r.Status == StatusFailed:
		o.ContactsFailed++
	}
}

// Record appends a result and bumps the matching counter
func (o *Outcome) Record(r UpdateResult) { o.record(r) }

package eligibility

import "time"

// Record is a persisted evaluation, stored alongside the loan request.
type Record struct {
	ID            string
	PolicyVersion string
	CreatedAt     time.Time
	Result
}

package models

import "time"

// InvoiceSequence is one gapless counter row, keyed by company and issue
// year. The current value is the last sequence handed out.
type InvoiceSequence struct {
	CompanyProfileID string    `json:"companyProfileID" db:"company_profile_id"` // Composite PK
	Year             int       `json:"year" db:"year"`                           // Composite PK
	CurrentValue     int64     `json:"currentValue" db:"current_value"`
	LastUpdatedAt    time.Time `json:"lastUpdatedAt" db:"last_updated_at"`
}

package company

import "time"

// Company statuses.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusDormant   = "dormant"
	StatusSuspended = "suspended"
	StatusBankrupt  = "bankrupt"
)

// Company represents a company record. Soft-deleted rows keep their data
// and carry a deleted_at timestamp; the default repository scope hides
// them.
type Company struct {
	ID                       int64      `json:"id"`
	Name                     string     `json:"name"`
	Address                  *string    `json:"address"`
	Email                    string     `json:"email"`
	Website                  *string    `json:"website"`
	Phone                    *string    `json:"phone"`
	Note                     *string    `json:"note"`
	Status                   string     `json:"status"`
	HasMultipleSubscriptions bool       `json:"has_multiple_subscriptions"`
	OriginalAdminID          int64      `json:"original_admin_id"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
	DeletedAt                *time.Time `json:"deleted_at,omitempty"`
}

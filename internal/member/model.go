package member

import "time"

// Member roles within a company.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleGuest  = "guest"
	RoleOwner  = "owner"
	RoleVendor = "vendor"
)

// Member links a user to a company. Member emails are unique across all
// live members. Soft-deleted rows stay recoverable until purged.
type Member struct {
	ID        int64      `json:"id"`
	CompanyID int64      `json:"company_id"`
	UserID    int64      `json:"user_id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

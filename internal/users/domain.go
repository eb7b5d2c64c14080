// Package users keeps a local mirror of accounts owned by the
// user-management service. Rows are written by the token gateway on
// fresh verifications and read by validation (admin and member user
// references must point at known accounts).
package users

import "time"

// User is the locally mirrored account record.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

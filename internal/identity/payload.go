// Package identity implements the inbound token verification gateway:
// bearer extraction, cached verification against the upstream
// user-management service, payload normalization and the permission
// guard consumed by resource handlers.
package identity

import (
	"encoding/json"
	"errors"
)

// Account statuses reported by the user-management service.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBanned   = "banned"
	StatusPending  = "pending"
)

// ErrMalformedPayload indicates the upstream response did not contain a
// usable identity payload.
var ErrMalformedPayload = errors.New("identity: malformed payload")

// Payload is the normalized identity attached to authenticated requests.
type Payload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Status      string   `json:"status"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Active reports whether the account may continue past the gateway.
func (p *Payload) Active() bool {
	return p != nil && p.Status == StatusActive
}

// RolePermissions maps a role name to the permissions granted when the
// upstream payload carries no explicit permission set.
type RolePermissions map[string][]string

// DefaultRolePermissions is the fallback grant table applied when the
// upstream service omits permissions. Roles mirror the user-management
// service; only permissions this service enforces are listed.
func DefaultRolePermissions() RolePermissions {
	return RolePermissions{
		"super-admin": {
			"view company", "create company", "update company", "delete company",
			"view companygroup", "create companygroup", "update companygroup", "delete companygroup",
		},
		"admin": {
			"view companygroup", "create companygroup", "update companygroup", "delete companygroup",
		},
		"moderator": {},
		"user":      {"view company", "view companygroup"},
	}
}

// rawPayload mirrors the upstream wire shape before normalization.
// The legacy access_level field predates the roles array.
type rawPayload struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Status      string          `json:"status"`
	Roles       []string        `json:"roles"`
	Permissions []string        `json:"permissions"`
	AccessLevel string          `json:"access_level"`
}

// NormalizePayload turns an upstream verification response into the
// canonical Payload shape. It wraps a legacy access_level into a
// one-element roles set, derives permissions from the grant table when
// absent, and rejects payloads missing id, status, roles or permissions.
func NormalizePayload(body []byte, grants RolePermissions) (*Payload, error) {
	var raw rawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrMalformedPayload
	}

	p := &Payload{
		ID:          decodeID(raw.ID),
		Name:        raw.Name,
		Email:       raw.Email,
		Status:      raw.Status,
		Roles:       raw.Roles,
		Permissions: raw.Permissions,
	}

	if p.Roles == nil && raw.AccessLevel != "" {
		p.Roles = []string{raw.AccessLevel}
	}
	if p.Permissions == nil {
		p.Permissions = derivePermissions(p.Roles, grants)
	}

	if p.ID == "" || p.Status == "" || p.Roles == nil || p.Permissions == nil {
		return nil, ErrMalformedPayload
	}
	return p, nil
}

// decodeID accepts the upstream id as either a JSON string or number.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func derivePermissions(roles []string, grants RolePermissions) []string {
	if grants == nil {
		grants = DefaultRolePermissions()
	}
	perms := make([]string, 0)
	seen := make(map[string]struct{})
	for _, role := range roles {
		for _, perm := range grants[role] {
			if _, ok := seen[perm]; ok {
				continue
			}
			seen[perm] = struct{}{}
			perms = append(perms, perm)
		}
	}
	return perms
}

package identity

import (
	"net/http"

	"github.com/subcore/company-service/internal/platform/httpx"
)

// Required permissions per resource operation. Strings must match the
// grants issued by the user-management service exactly.
const (
	PermViewCompany   = "view company"
	PermCreateCompany = "create company"
	PermUpdateCompany = "update company"
	PermDeleteCompany = "delete company"

	PermViewCompanyGroup   = "view companygroup"
	PermCreateCompanyGroup = "create companygroup"
	PermUpdateCompanyGroup = "update companygroup"
	PermDeleteCompanyGroup = "delete companygroup"
)

// HasPermission reports whether the payload grants the permission. Pure
// membership check; a nil payload never panics and grants nothing.
func HasPermission(p *Payload, permission string) bool {
	if p == nil {
		return false
	}
	for _, granted := range p.Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}

// Authorize pulls the verified identity from the request and enforces the
// required permission, writing the rejection response itself. Handlers
// bail out without touching storage when ok is false.
func Authorize(w http.ResponseWriter, r *http.Request, permission string) (*Payload, bool) {
	payload := FromContext(r.Context())
	if payload == nil {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized access", nil)
		return nil, false
	}
	if !HasPermission(payload, permission) {
		httpx.Error(w, http.StatusForbidden, "This action is unauthorized.", nil)
		return nil, false
	}
	return payload, true
}

package member

// Input is the request payload for creating or updating a member.
type Input struct {
	CompanyID int64  `json:"company_id" validate:"required"`
	UserID    int64  `json:"user_id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required,oneof=admin member guest owner vendor"`
}

func (in Input) apply(m Member) Member {
	m.CompanyID = in.CompanyID
	m.UserID = in.UserID
	m.Email = in.Email
	m.Role = in.Role
	return m
}

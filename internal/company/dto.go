package company

// Input is the request payload for creating or updating a company.
type Input struct {
	Name                     string  `json:"name" validate:"required,max=255"`
	Email                    string  `json:"email" validate:"required,email,max=255"`
	Status                   string  `json:"status" validate:"required,oneof=active inactive"`
	HasMultipleSubscriptions *bool   `json:"has_multiple_subscriptions" validate:"required"`
	OriginalAdminID          int64   `json:"original_admin_id" validate:"required"`
	Address                  *string `json:"address" validate:"omitempty,max=255"`
	Website                  *string `json:"website" validate:"omitempty,url,max=255"`
	Phone                    *string `json:"phone" validate:"omitempty,max=15"`
	Note                     *string `json:"note"`
}

// apply copies the input over an existing record, leaving identity and
// lifecycle columns untouched.
func (in Input) apply(c Company) Company {
	c.Name = in.Name
	c.Email = in.Email
	c.Status = in.Status
	if in.HasMultipleSubscriptions != nil {
		c.HasMultipleSubscriptions = *in.HasMultipleSubscriptions
	}
	c.OriginalAdminID = in.OriginalAdminID
	c.Address = in.Address
	c.Website = in.Website
	c.Phone = in.Phone
	c.Note = in.Note
	return c
}

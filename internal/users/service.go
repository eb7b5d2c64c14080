package users

import (
	"context"
	"strconv"

	"github.com/subcore/company-service/internal/identity"
)

// Store abstracts user persistence for the service.
type Store interface {
	Upsert(ctx context.Context, u User) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service mirrors verified identities and answers existence checks.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Sync upserts the mirrored row for a freshly verified identity.
// Identities with non-numeric ids have no local row to maintain.
func (s *Service) Sync(ctx context.Context, p *identity.Payload) error {
	if p == nil {
		return nil
	}
	id, err := strconv.ParseInt(p.ID, 10, 64)
	if err != nil {
		return nil
	}
	role := ""
	if len(p.Roles) > 0 {
		role = p.Roles[0]
	}
	return s.store.Upsert(ctx, User{
		ID:     id,
		Name:   p.Name,
		Email:  p.Email,
		Status: p.Status,
		Role:   role,
	})
}

// Exists reports whether the account id is known locally.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return s.store.Exists(ctx, id)
}

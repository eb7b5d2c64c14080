package member

import (
	"context"
	"fmt"

	"github.com/subcore/company-service/internal/platform/httpx"
)

// UserDirectory answers whether an account id is known locally.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service implements member business rules on top of the repository.
type Service struct {
	repo  Repository
	users UserDirectory
}

// NewService constructs a Service.
func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// List returns all live members.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

// ListByCompany returns the live members of a company.
func (s *Service) ListByCompany(ctx context.Context, companyID int64) ([]Member, error) {
	if companyID <= 0 {
		return nil, httpx.ErrNotFound
	}
	exists, err := s.repo.CompanyExists(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, httpx.ErrNotFound
	}
	return s.repo.ListByCompany(ctx, companyID)
}

// Get returns a live member by id.
func (s *Service) Get(ctx context.Context, id int64) (Member, error) {
	if id <= 0 {
		return Member{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new member.
func (s *Service) Create(ctx context.Context, in Input) (Member, error) {
	if err := s.checkRules(ctx, in, 0); err != nil {
		return Member{}, err
	}
	return s.repo.Create(ctx, in.apply(Member{}))
}

// Update snapshots the current record, writes the new attributes and
// reloads; failures trigger a compensating write of the snapshot.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Member, error) {
	snapshot, err := s.repo.Get(ctx, id)
	if err != nil {
		return Member{}, err
	}
	if err := s.checkRules(ctx, in, id); err != nil {
		return Member{}, err
	}

	if err := s.repo.Update(ctx, id, in.apply(snapshot)); err != nil {
		return Member{}, s.rollback(ctx, id, snapshot, err)
	}

	reloaded, err := s.repo.Get(ctx, id)
	if err != nil {
		return Member{}, s.rollback(ctx, id, snapshot, err)
	}
	return reloaded, nil
}

// Delete soft-deletes the member; the record stays recoverable.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

// Restore reverses a soft delete and returns the member to the default
// query set with all fields unchanged.
func (s *Service) Restore(ctx context.Context, id int64) (Member, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return Member{}, err
	}
	return s.repo.Get(ctx, id)
}

// Purge removes the member permanently. Irreversible.
func (s *Service) Purge(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.Purge(ctx, id)
}

func (s *Service) rollback(ctx context.Context, id int64, snapshot Member, cause error) error {
	if rbErr := s.repo.Update(ctx, id, snapshot); rbErr != nil {
		return fmt.Errorf("update failed: %w; rollback failed: %v", cause, rbErr)
	}
	return cause
}

func (s *Service) checkRules(ctx context.Context, in Input, excludeID int64) error {
	fields := make(map[string]string)

	companyOK, err := s.repo.CompanyExists(ctx, in.CompanyID)
	if err != nil {
		return err
	}
	if !companyOK {
		fields["company_id"] = "The selected company_id is invalid."
	}

	userOK, err := s.users.Exists(ctx, in.UserID)
	if err != nil {
		return err
	}
	if !userOK {
		fields["user_id"] = "The selected user_id is invalid."
	}

	taken, err := s.repo.EmailInUse(ctx, in.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		fields["email"] = "The email has already been taken."
	}

	if len(fields) > 0 {
		return httpx.NewValidationError(fields)
	}
	return nil
}

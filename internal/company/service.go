package company

import (
	"context"
	"fmt"

	"github.com/subcore/company-service/internal/platform/httpx"
)

// UserDirectory answers whether an account id is known locally.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service implements company business rules on top of the repository.
type Service struct {
	repo  Repository
	users UserDirectory
}

// NewService constructs a Service.
func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// List returns all live companies.
func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.repo.List(ctx)
}

// Get returns a live company by id.
func (s *Service) Get(ctx context.Context, id int64) (Company, error) {
	if id <= 0 {
		return Company{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new company.
func (s *Service) Create(ctx context.Context, in Input) (Company, error) {
	if err := s.checkRules(ctx, in, 0); err != nil {
		return Company{}, err
	}
	return s.repo.Create(ctx, in.apply(Company{}))
}

// Update validates the input, snapshots the current record, writes the
// new attributes and reloads. If the write or the reload fails, the
// snapshot is written back as a compensating action; a rollback failure
// propagates alongside the original error.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Company, error) {
	snapshot, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, err
	}
	if err := s.checkRules(ctx, in, id); err != nil {
		return Company{}, err
	}

	if err := s.repo.Update(ctx, id, in.apply(snapshot)); err != nil {
		return Company{}, s.rollback(ctx, id, snapshot, err)
	}

	reloaded, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, s.rollback(ctx, id, snapshot, err)
	}
	return reloaded, nil
}

// Delete soft-deletes the company; the record stays recoverable.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

// Restore reverses a soft delete.
func (s *Service) Restore(ctx context.Context, id int64) (Company, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return Company{}, err
	}
	return s.repo.Get(ctx, id)
}

// Purge removes the company permanently. Irreversible.
func (s *Service) Purge(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	return s.repo.Purge(ctx, id)
}

func (s *Service) rollback(ctx context.Context, id int64, snapshot Company, cause error) error {
	if rbErr := s.repo.Update(ctx, id, snapshot); rbErr != nil {
		return fmt.Errorf("update failed: %w; rollback failed: %v", cause, rbErr)
	}
	return cause
}

// checkRules enforces the constraints that need storage: email
// uniqueness among live companies and existence of the admin account.
func (s *Service) checkRules(ctx context.Context, in Input, excludeID int64) error {
	fields := make(map[string]string)

	taken, err := s.repo.EmailInUse(ctx, in.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		fields["email"] = "The email has already been taken."
	}

	known, err := s.users.Exists(ctx, in.OriginalAdminID)
	if err != nil {
		return err
	}
	if !known {
		fields["original_admin_id"] = "The selected original_admin_id is invalid."
	}

	if len(fields) > 0 {
		return httpx.NewValidationError(fields)
	}
	return nil
}

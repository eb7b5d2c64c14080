package company

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subcore/company-service/internal/platform/httpx"
)

// Repository abstracts company persistence.
type Repository interface {
	List(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, id int64) (Company, error)
	Create(ctx context.Context, c Company) (Company, error)
	Update(ctx context.Context, id int64, c Company) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Purge(ctx context.Context, id int64) error
	EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const companyColumns = `id, name, address, email, website, phone, note, status,
	has_multiple_subscriptions, original_admin_id, created_at, updated_at, deleted_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Website, &c.Phone, &c.Note,
		&c.Status, &c.HasMultipleSubscriptions, &c.OriginalAdminID,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, httpx.ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

// List returns all live companies, newest first.
func (r *repository) List(ctx context.Context) ([]Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE deleted_at IS NULL
		ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// Get returns a live company by id. Soft-deleted rows are not visible.
func (r *repository) Get(ctx context.Context, id int64) (Company, error) {
	return scanCompany(r.pool.QueryRow(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *repository) Create(ctx context.Context, c Company) (Company, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO companies
			(name, address, email, website, phone, note, status,
			 has_multiple_subscriptions, original_admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING `+companyColumns,
		c.Name, c.Address, c.Email, c.Website, c.Phone, c.Note,
		c.Status, c.HasMultipleSubscriptions, c.OriginalAdminID)
	created, err := scanCompany(row)
	if err != nil {
		return Company{}, translateError(err)
	}
	return created, nil
}

// Update writes the full attribute set of a live company.
func (r *repository) Update(ctx context.Context, id int64, c Company) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE companies
		SET name = $1, address = $2, email = $3, website = $4, phone = $5,
		    note = $6, status = $7, has_multiple_subscriptions = $8,
		    original_admin_id = $9, updated_at = NOW()
		WHERE id = $10 AND deleted_at IS NULL`,
		c.Name, c.Address, c.Email, c.Website, c.Phone, c.Note,
		c.Status, c.HasMultipleSubscriptions, c.OriginalAdminID, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// SoftDelete hides the company from default queries, keeping the row.
func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE companies SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Restore reverses a soft delete.
func (r *repository) Restore(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE companies SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Purge removes the row permanently, trashed or not.
func (r *repository) Purge(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// EmailInUse reports whether another live company already uses the email.
func (r *repository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM companies
			WHERE email = $1 AND id <> $2 AND deleted_at IS NULL
		)`, email, excludeID).Scan(&found)
	return found, err
}

// translateError maps PostgreSQL constraint failures to domain errors.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

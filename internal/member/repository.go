package member

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subcore/company-service/internal/platform/httpx"
)

// Repository abstracts member persistence.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	ListByCompany(ctx context.Context, companyID int64) ([]Member, error)
	Get(ctx context.Context, id int64) (Member, error)
	Create(ctx context.Context, m Member) (Member, error)
	Update(ctx context.Context, id int64, m Member) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Purge(ctx context.Context, id int64) error
	EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error)
	CompanyExists(ctx context.Context, companyID int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const memberColumns = `id, company_id, user_id, email, role, created_at, updated_at, deleted_at`

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.CompanyID, &m.UserID, &m.Email, &m.Role,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, httpx.ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}

func (r *repository) List(ctx context.Context) ([]Member, error) {
	return r.listWhere(ctx, `deleted_at IS NULL`, nil)
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Member, error) {
	return r.listWhere(ctx, `company_id = $1 AND deleted_at IS NULL`, []any{companyID})
}

func (r *repository) listWhere(ctx context.Context, where string, args []any) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM company_members
		WHERE `+where+`
		ORDER BY id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM company_members
		WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *repository) Create(ctx context.Context, m Member) (Member, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO company_members (company_id, user_id, email, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING `+memberColumns,
		m.CompanyID, m.UserID, m.Email, m.Role)
	created, err := scanMember(row)
	if err != nil {
		return Member{}, translateError(err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, m Member) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE company_members
		SET company_id = $1, user_id = $2, email = $3, role = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL`,
		m.CompanyID, m.UserID, m.Email, m.Role, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE company_members SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE company_members SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Purge(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM company_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM company_members
			WHERE email = $1 AND id <> $2 AND deleted_at IS NULL
		)`, email, excludeID).Scan(&found)
	return found, err
}

func (r *repository) CompanyExists(ctx context.Context, companyID int64) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM companies WHERE id = $1 AND deleted_at IS NULL
		)`, companyID).Scan(&found)
	return found, err
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

package member

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subcore/company-service/internal/platform/httpx"
)

type mockRepository struct {
	members   map[int64]Member
	trashed   map[int64]Member
	companies map[int64]bool
	nextID    int64

	updateErrs []error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		members:   make(map[int64]Member),
		trashed:   make(map[int64]Member),
		companies: map[int64]bool{1: true},
		nextID:    1,
	}
}

func (m *mockRepository) seed(member Member) Member {
	member.ID = m.nextID
	m.nextID++
	m.members[member.ID] = member
	return member
}

func (m *mockRepository) List(ctx context.Context) ([]Member, error) {
	out := make([]Member, 0, len(m.members))
	for _, member := range m.members {
		out = append(out, member)
	}
	return out, nil
}

func (m *mockRepository) ListByCompany(ctx context.Context, companyID int64) ([]Member, error) {
	out := make([]Member, 0)
	for _, member := range m.members {
		if member.CompanyID == companyID {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Member, error) {
	member, ok := m.members[id]
	if !ok {
		return Member{}, httpx.ErrNotFound
	}
	return member, nil
}

func (m *mockRepository) Create(ctx context.Context, member Member) (Member, error) {
	return m.seed(member), nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, member Member) error {
	if len(m.updateErrs) > 0 {
		err := m.updateErrs[0]
		m.updateErrs = m.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := m.members[id]; !ok {
		return httpx.ErrNotFound
	}
	member.ID = id
	m.members[id] = member
	return nil
}

func (m *mockRepository) SoftDelete(ctx context.Context, id int64) error {
	member, ok := m.members[id]
	if !ok {
		return httpx.ErrNotFound
	}
	delete(m.members, id)
	m.trashed[id] = member
	return nil
}

func (m *mockRepository) Restore(ctx context.Context, id int64) error {
	member, ok := m.trashed[id]
	if !ok {
		return httpx.ErrNotFound
	}
	delete(m.trashed, id)
	m.members[id] = member
	return nil
}

func (m *mockRepository) Purge(ctx context.Context, id int64) error {
	if _, ok := m.members[id]; ok {
		delete(m.members, id)
		return nil
	}
	if _, ok := m.trashed[id]; ok {
		delete(m.trashed, id)
		return nil
	}
	return httpx.ErrNotFound
}

func (m *mockRepository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	for id, member := range m.members {
		if member.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) CompanyExists(ctx context.Context, companyID int64) (bool, error) {
	return m.companies[companyID], nil
}

type allowAllUsers struct{}

func (allowAllUsers) Exists(ctx context.Context, id int64) (bool, error) { return id > 0, nil }

func validInput() Input {
	return Input{CompanyID: 1, UserID: 7, Email: "member@test.local", Role: RoleMember}
}

func TestServiceCreate(t *testing.T) {
	svc := NewService(newMockRepository(), allowAllUsers{})

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, RoleMember, created.Role)
}

func TestServiceCreateRuleFailures(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Member{CompanyID: 1, UserID: 2, Email: "member@test.local", Role: RoleAdmin})
	svc := NewService(repo, allowAllUsers{})

	in := validInput()
	in.CompanyID = 99
	in.UserID = 0
	_, err := svc.Create(context.Background(), in)

	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "The selected company_id is invalid.", verr.Fields["company_id"])
	assert.Equal(t, "The selected user_id is invalid.", verr.Fields["user_id"])
	assert.Equal(t, "The email has already been taken.", verr.Fields["email"])
}

func TestServiceListByCompany(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Member{CompanyID: 1, UserID: 2, Email: "a@test.local", Role: RoleAdmin})
	svc := NewService(repo, allowAllUsers{})

	members, err := svc.ListByCompany(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = svc.ListByCompany(context.Background(), 99)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestServiceUpdateRollsBackOnWriteFailure(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(Member{CompanyID: 1, UserID: 2, Email: "a@test.local", Role: RoleAdmin})
	repo.updateErrs = []error{errors.New("write failed")}
	svc := NewService(repo, allowAllUsers{})

	in := validInput()
	_, err := svc.Update(context.Background(), seeded.ID, in)
	require.Error(t, err)
	assert.Equal(t, RoleAdmin, repo.members[seeded.ID].Role)
	assert.Equal(t, "a@test.local", repo.members[seeded.ID].Email)
}

func TestServiceSoftDeleteRestoreKeepsFields(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(Member{CompanyID: 1, UserID: 2, Email: "a@test.local", Role: RoleOwner})
	svc := NewService(repo, allowAllUsers{})
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, seeded.ID))
	_, err := svc.Get(ctx, seeded.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	restored, err := svc.Restore(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Email, restored.Email)
	assert.Equal(t, seeded.Role, restored.Role)
	assert.Equal(t, seeded.CompanyID, restored.CompanyID)
}

func TestServiceDeletedEmailReusable(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(Member{CompanyID: 1, UserID: 2, Email: "member@test.local", Role: RoleAdmin})
	svc := NewService(repo, allowAllUsers{})
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, seeded.ID))
	_, err := svc.Create(ctx, validInput())
	assert.NoError(t, err)
}

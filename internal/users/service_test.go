package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subcore/company-service/internal/identity"
)

type stubStore struct {
	upserts []User
	known   map[int64]bool
	err     error
}

func (s *stubStore) Upsert(ctx context.Context, u User) error {
	if s.err != nil {
		return s.err
	}
	s.upserts = append(s.upserts, u)
	return nil
}

func (s *stubStore) Exists(ctx context.Context, id int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.known[id], nil
}

func TestSyncMirrorsNumericIdentity(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store)

	err := svc.Sync(context.Background(), &identity.Payload{
		ID:     "42",
		Name:   "Jane",
		Email:  "jane@test.local",
		Status: identity.StatusActive,
		Roles:  []string{"admin", "user"},
	})
	require.NoError(t, err)
	require.Len(t, store.upserts, 1)

	got := store.upserts[0]
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "Jane", got.Name)
	assert.Equal(t, "admin", got.Role)
}

func TestSyncSkipsNonNumericIdentity(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store)

	err := svc.Sync(context.Background(), &identity.Payload{ID: "urn:acct:42", Status: identity.StatusActive})
	require.NoError(t, err)
	assert.Empty(t, store.upserts)
}

func TestSyncNilPayload(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store)

	assert.NoError(t, svc.Sync(context.Background(), nil))
	assert.Empty(t, store.upserts)
}

func TestSyncPropagatesStoreError(t *testing.T) {
	store := &stubStore{err: errors.New("storage offline")}
	svc := NewService(store)

	err := svc.Sync(context.Background(), &identity.Payload{ID: "1", Status: identity.StatusActive})
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	store := &stubStore{known: map[int64]bool{7: true}}
	svc := NewService(store)
	ctx := context.Background()

	ok, err := svc.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Exists(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

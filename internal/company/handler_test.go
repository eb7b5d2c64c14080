package company

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subcore/company-service/internal/identity"
	_ "github.com/subcore/company-service/testing"
)

func newTestRouter(repo Repository, perms []string) http.Handler {
	handler := NewHandler(nil, NewService(repo, allowAllUsers{}))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			payload := &identity.Payload{
				ID:          "1",
				Status:      identity.StatusActive,
				Roles:       []string{"admin"},
				Permissions: perms,
			}
			next.ServeHTTP(w, req.WithContext(identity.ContextWithPayload(req.Context(), payload)))
		})
	})
	handler.MountRoutes(r)
	return r
}

func allPerms() []string {
	return []string{
		identity.PermViewCompany, identity.PermCreateCompany,
		identity.PermUpdateCompany, identity.PermDeleteCompany,
	}
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	return out
}

func TestHandlerIndex(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Company{Name: "Acme", Email: "acme@test.local", Status: StatusActive, OriginalAdminID: 1})
	router := newTestRouter(repo, allPerms())

	res := doJSON(t, router, http.MethodGet, "/companies", nil)
	require.Equal(t, http.StatusOK, res.Code)

	body := decodeBody(t, res)
	assert.Equal(t, "Companies fetched successfully", body["message"])
	assert.Len(t, body["data"], 1)
}

func TestHandlerStore(t *testing.T) {
	router := newTestRouter(newMockRepository(), allPerms())

	res := doJSON(t, router, http.MethodPost, "/companies", validInput())
	require.Equal(t, http.StatusCreated, res.Code)

	body := decodeBody(t, res)
	assert.Equal(t, "Company created successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Acme", data["name"])
}

func TestHandlerStoreValidation(t *testing.T) {
	router := newTestRouter(newMockRepository(), allPerms())

	res := doJSON(t, router, http.MethodPost, "/companies", map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)

	body := decodeBody(t, res)
	assert.Equal(t, "Validation failed", body["error"])
	details := body["details"].(map[string]any)
	for _, field := range []string{"name", "email", "status", "has_multiple_subscriptions", "original_admin_id"} {
		assert.Contains(t, details, field)
	}
}

func TestHandlerStoreInvalidStatus(t *testing.T) {
	router := newTestRouter(newMockRepository(), allPerms())

	in := validInput()
	in.Status = "dormant"
	res := doJSON(t, router, http.MethodPost, "/companies", in)
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)

	details := decodeBody(t, res)["details"].(map[string]any)
	assert.Equal(t, "The selected status is invalid.", details["status"])
}

func TestHandlerStoreBadBody(t *testing.T) {
	router := newTestRouter(newMockRepository(), allPerms())

	req := httptest.NewRequest(http.MethodPost, "/companies", bytes.NewBufferString("{{"))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestHandlerStoreForbidden(t *testing.T) {
	router := newTestRouter(newMockRepository(), []string{identity.PermViewCompany})

	res := doJSON(t, router, http.MethodPost, "/companies", validInput())
	require.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "This action is unauthorized.", decodeBody(t, res)["error"])
}

func TestHandlerShow(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(Company{Name: "Acme", Email: "acme@test.local", Status: StatusActive, OriginalAdminID: 1})
	router := newTestRouter(repo, allPerms())

	res := doJSON(t, router, http.MethodGet, "/companies/1", nil)
	require.Equal(t, http.StatusOK, res.Code)
	data := decodeBody(t, res)["data"].(map[string]any)
	assert.Equal(t, float64(seeded.ID), data["id"])
}

func TestHandlerShowInactiveCompany(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Company{Name: "Acme", Email: "acme@test.local", Status: StatusInactive, OriginalAdminID: 1})
	router := newTestRouter(repo, allPerms())

	res := doJSON(t, router, http.MethodGet, "/companies/1", nil)
	require.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Company is inactive", decodeBody(t, res)["error"])
}

func TestHandlerShowNotFound(t *testing.T) {
	router := newTestRouter(newMockRepository(), allPerms())

	for _, target := range []string{"/companies/99", "/companies/abc", "/companies/0"} {
		res := doJSON(t, router, http.MethodGet, target, nil)
		require.Equal(t, http.StatusNotFound, res.Code, "target %s", target)
		assert.Equal(t, "Company not found", decodeBody(t, res)["error"])
	}
}

func TestHandlerUpdate(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Company{Name: "Acme", Email: "acme@test.local", Status: StatusActive, OriginalAdminID: 1})
	router := newTestRouter(repo, allPerms())

	in := validInput()
	in.Name = "Acme Renamed"
	res := doJSON(t, router, http.MethodPut, "/companies/1", in)
	require.Equal(t, http.StatusOK, res.Code)

	body := decodeBody(t, res)
	assert.Equal(t, "Company updated successfully", body["message"])
	assert.Equal(t, "Acme Renamed", body["data"].(map[string]any)["name"])
}

func TestHandlerUpdateDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Company{Name: "Acme", Email: "acme@test.local", Status: StatusActive, OriginalAdminID: 1})
	repo.seed(Company{Name: "Other", Email: "other@test.local", Status: StatusActive, OriginalAdminID: 1})
	router := newTestRouter(repo, allPerms())

	in := validInput()
	res := doJSON(t, router, http.MethodPut, "/companies/2", in)
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)

	details := decodeBody(t, res)["details"].(map[string]any)
	assert.Equal(t, "The email has already been taken.", details["email"])
}

func TestHandlerDestroyThenShow(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Company{Name: "Acme", Email: "acme@test.local", Status: StatusActive, OriginalAdminID: 1})
	router := newTestRouter(repo, allPerms())

	res := doJSON(t, router, http.MethodDelete, "/companies/1", nil)
	require.Equal(t, http.StatusNoContent, res.Code)
	assert.Empty(t, res.Body.Bytes())

	res = doJSON(t, router, http.MethodGet, "/companies/1", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestHandlerRestore(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Company{Name: "Acme", Email: "acme@test.local", Status: StatusActive, OriginalAdminID: 1})
	router := newTestRouter(repo, allPerms())

	doJSON(t, router, http.MethodDelete, "/companies/1", nil)
	res := doJSON(t, router, http.MethodPost, "/companies/1/restore", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Company restored successfully", decodeBody(t, res)["message"])

	res = doJSON(t, router, http.MethodGet, "/companies/1", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestHandlerPurge(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Company{Name: "Acme", Email: "acme@test.local", Status: StatusActive, OriginalAdminID: 1})
	router := newTestRouter(repo, allPerms())

	doJSON(t, router, http.MethodDelete, "/companies/1", nil)
	res := doJSON(t, router, http.MethodDelete, "/companies/1/purge", nil)
	require.Equal(t, http.StatusNoContent, res.Code)

	res = doJSON(t, router, http.MethodPost, "/companies/1/restore", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

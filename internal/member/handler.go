package member

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/subcore/company-service/internal/identity"
	"github.com/subcore/company-service/internal/platform/httpx"
)

// Handler wires HTTP endpoints for company member CRUD. Member responses
// are bare entities, unlike the enveloped company responses.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: httpx.NewValidator(),
	}
}

// MountRoutes registers member routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/company-members", h.index)
	r.Post("/company-members", h.store)
	r.Get("/company-members/{id}", h.show)
	r.Put("/company-members/{id}", h.update)
	r.Delete("/company-members/{id}", h.destroy)
	r.Post("/company-members/{id}/restore", h.restore)
	r.Delete("/company-members/{id}/purge", h.purge)
	r.Get("/companies/{id}/members", h.listByCompany)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity.Authorize(w, r, identity.PermViewCompanyGroup); !ok {
		return
	}

	members, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list members failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to retrieve company members", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, members)
}

func (h *Handler) listByCompany(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity.Authorize(w, r, identity.PermViewCompanyGroup); !ok {
		return
	}
	id, ok := h.memberID(w, r, "Company not found")
	if !ok {
		return
	}

	members, err := h.service.ListByCompany(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company not found", nil)
			return
		}
		h.logger.Error("list company members failed", slog.Any("error", err), slog.Int64("company_id", id))
		httpx.Error(w, http.StatusInternalServerError, "Failed to retrieve company members", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, members)
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermCreateCompanyGroup)
	if !ok {
		return
	}

	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "Validation failed", httpx.FieldErrors(err))
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, "create member failed", err, slog.String("user_id", payload.ID))
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity.Authorize(w, r, identity.PermViewCompanyGroup); !ok {
		return
	}
	id, ok := h.memberID(w, r, "Company member not found")
	if !ok {
		return
	}

	member, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company member not found", nil)
			return
		}
		h.logger.Error("get member failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.Error(w, http.StatusInternalServerError, "Failed to retrieve company member", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, member)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermUpdateCompanyGroup)
	if !ok {
		return
	}
	id, ok := h.memberID(w, r, "Company member not found")
	if !ok {
		return
	}

	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "Validation failed", httpx.FieldErrors(err))
		return
	}

	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company member not found", nil)
			return
		}
		h.respondError(w, "update member failed", err, slog.String("user_id", payload.ID), slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) destroy(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermDeleteCompanyGroup)
	if !ok {
		return
	}
	id, ok := h.memberID(w, r, "Company member not found")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company member not found", nil)
			return
		}
		h.respondError(w, "delete member failed", err, slog.String("user_id", payload.ID), slog.Int64("id", id))
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermUpdateCompanyGroup)
	if !ok {
		return
	}
	id, ok := h.memberID(w, r, "Company member not found")
	if !ok {
		return
	}

	restored, err := h.service.Restore(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company member not found", nil)
			return
		}
		h.respondError(w, "restore member failed", err, slog.String("user_id", payload.ID), slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, restored)
}

func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermDeleteCompanyGroup)
	if !ok {
		return
	}
	id, ok := h.memberID(w, r, "Company member not found")
	if !ok {
		return
	}

	if err := h.service.Purge(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company member not found", nil)
			return
		}
		h.respondError(w, "purge member failed", err, slog.String("user_id", payload.ID), slog.Int64("id", id))
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) memberID(w http.ResponseWriter, r *http.Request, notFound string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusNotFound, notFound, nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	var verr *httpx.ValidationError
	if errors.As(err, &verr) {
		httpx.Error(w, http.StatusUnprocessableEntity, "Validation failed", verr.Fields)
		return
	}
	h.logger.Error(msg, append([]any{slog.Any("error", err)}, attrs...)...)
	httpx.RespondError(w, err)
}

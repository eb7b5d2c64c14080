package company

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

// Handler wires HTTP endpoints for company CRUD.
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

// MountRoutes registers company routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/companies", h.index)
	r.Post("/companies", h.store)
	r.Get("/companies/{id}", h.show)
	r.Put("/companies/{id}", h.update)
	r.Delete("/companies/{id}", h.destroy)
	r.Post("/companies/{id}/restore", h.restore)
	r.Delete("/companies/{id}/purge", h.purge)
}

type envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity.Authorize(w, r, identity.PermViewCompany); !ok {
		return
	}

	companies, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list companies failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch companies", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{Data: companies, Message: "Companies fetched successfully"})
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermCreateCompany)
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
		h.respondError(w, "create company failed", err, slog.String("user_id", payload.ID))
		return
	}
	httpx.JSON(w, http.StatusCreated, envelope{Data: created, Message: "Company created successfully"})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity.Authorize(w, r, identity.PermViewCompany); !ok {
		return
	}
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	company, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company not found", nil)
			return
		}
		h.logger.Error("get company failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch company", nil)
		return
	}
	if company.Status == StatusInactive {
		httpx.Error(w, http.StatusForbidden, "Company is inactive", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{Data: company, Message: "Company fetched successfully"})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermUpdateCompany)
	if !ok {
		return
	}
	id, ok := h.companyID(w, r)
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
			httpx.Error(w, http.StatusNotFound, "Company not found", nil)
			return
		}
		h.respondError(w, "update company failed", err, slog.String("user_id", payload.ID), slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{Data: updated, Message: "Company updated successfully"})
}

func (h *Handler) destroy(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermDeleteCompany)
	if !ok {
		return
	}
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company not found", nil)
			return
		}
		h.respondError(w, "delete company failed", err, slog.String("user_id", payload.ID), slog.Int64("id", id))
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermUpdateCompany)
	if !ok {
		return
	}
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	restored, err := h.service.Restore(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company not found", nil)
			return
		}
		h.respondError(w, "restore company failed", err, slog.String("user_id", payload.ID), slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{Data: restored, Message: "Company restored successfully"})
}

func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	payload, ok := identity.Authorize(w, r, identity.PermDeleteCompany)
	if !ok {
		return
	}
	id, ok := h.companyID(w, r)
	if !ok {
		return
	}

	if err := h.service.Purge(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Company not found", nil)
			return
		}
		h.respondError(w, "purge company failed", err, slog.String("user_id", payload.ID), slog.Int64("id", id))
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) companyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusNotFound, "Company not found", nil)
		return 0, false
	}
	return id, true
}

// respondError handles service failures other than not-found: validation
// details become 422, everything else is logged and returned as 500
// without internals.
func (h *Handler) respondError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	var verr *httpx.ValidationError
	if errors.As(err, &verr) {
		httpx.Error(w, http.StatusUnprocessableEntity, "Validation failed", verr.Fields)
		return
	}
	h.logger.Error(msg, append([]any{slog.Any("error", err)}, attrs...)...)
	httpx.RespondError(w, err)
}

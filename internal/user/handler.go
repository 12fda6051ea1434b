package user

import (
	"net/http"

	"github.com/frahmantamala/epic-crm/internal/auth"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/frahmantamala/epic-crm/internal/transport"
	"github.com/frahmantamala/epic-crm/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

// List handles GET /users, optionally filtered with ?role=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var users []*userDatamodel.User
	if role := r.URL.Query().Get("role"); role != "" {
		parsed, perr := userDatamodel.ParseRole(role)
		if perr != nil {
			h.HandleServiceError(w, r, validRole(role))
			return
		}
		users, err = h.Service.ByRole(r.Context(), id, parsed)
	} else {
		users, err = h.Service.List(r.Context(), id)
	}
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.Me(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	userID, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.Find(r.Context(), id, userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// Cascade handles GET /users/{id}/cascade.
func (h *Handler) Cascade(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	userID, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	groups, err := h.Service.PreviewDelete(r.Context(), id, crud.ByID(userID))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, groups)
}

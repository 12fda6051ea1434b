package client

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/epic-crm/internal/auth"
	clientDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
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

// List handles GET /clients. ?scope=mine restricts to the caller's clients
// and ?name= filters on the client name.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var clients []*clientDatamodel.Client
	query := r.URL.Query()
	switch {
	case query.Get("scope") == "mine":
		clients, err = h.Service.Mine(r.Context(), id)
	case query.Get("name") != "":
		clients, err = h.Service.FilterByName(r.Context(), id, query.Get("name"))
	default:
		clients, err = h.Service.List(r.Context(), id)
	}
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, clients)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CreateClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	clientID, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	c, err := h.Service.Find(r.Context(), id, clientID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// Cascade handles GET /clients/{id}/cascade.
func (h *Handler) Cascade(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	clientID, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	groups, err := h.Service.PreviewDelete(r.Context(), id, crud.ByID(clientID))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, groups)
}

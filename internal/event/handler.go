package event

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/epic-crm/internal/auth"
	eventDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
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

// List handles GET /events?scope=mine|unassigned.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var evts []*eventDatamodel.Event
	switch r.URL.Query().Get("scope") {
	case "mine":
		evts, err = h.Service.Mine(r.Context(), id)
	case "unassigned":
		evts, err = h.Service.Unassigned(r.Context(), id)
	default:
		evts, err = h.Service.List(r.Context(), id)
	}
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, evts)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CreateEventDTO
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
	eventID, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	e, err := h.Service.Find(r.Context(), id, eventID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Cascade(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	eventID, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	groups, err := h.Service.PreviewDelete(r.Context(), id, crud.ByID(eventID))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, groups)
}

package contract

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/epic-crm/internal/auth"
	contractDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
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

// List handles GET /contracts?scope=mine|unsigned|unpaid.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var contracts []*contractDatamodel.Contract
	switch r.URL.Query().Get("scope") {
	case "mine":
		contracts, err = h.Service.Mine(r.Context(), id)
	case "unsigned":
		contracts, err = h.Service.Unsigned(r.Context(), id)
	case "unpaid":
		contracts, err = h.Service.Unpaid(r.Context(), id)
	default:
		contracts, err = h.Service.List(r.Context(), id)
	}
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, contracts)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CreateContractDTO
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
	contractID, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	k, err := h.Service.Find(r.Context(), id, contractID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, k)
}

func (h *Handler) Cascade(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequestIdentity(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	contractID, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	groups, err := h.Service.PreviewDelete(r.Context(), id, crud.ByID(contractID))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, groups)
}

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/epic-crm/internal"
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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// AuthMiddleware verifies the bearer token and stores the identity in the
// request context. Role checks happen later, per operation.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, internal.ErrTokenMissing)
			return
		}

		id, err := h.Service.Verify(token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := ContextWithIdentity(r.Context(), id)
		ctx = internal.ContextWithUserID(ctx, id.UserID)
		ctx = logger.With(ctx, "user_id", id.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIdentity is used by handlers behind AuthMiddleware.
func RequestIdentity(r *http.Request) (Identity, error) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		return Identity{}, internal.ErrTokenMissing
	}
	return id, nil
}

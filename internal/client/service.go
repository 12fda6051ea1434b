package client

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	clientDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/internal/crud"
)

const kind = "client"

var (
	readRoles  = auth.AllRoles()
	salesRoles = auth.Only(user.RoleSales)
)

type Service struct {
	store     *crud.Manager[clientDatamodel.Client]
	gate      *auth.Gate
	resolver  *cascade.Resolver
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(store *crud.Manager[clientDatamodel.Client], gate *auth.Gate, resolver *cascade.Resolver, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		gate:      gate,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a client owned by the calling sales user.
func (s *Service) Create(ctx context.Context, id auth.Identity, dto CreateClientDTO) (*clientDatamodel.Client, error) {
	return auth.Authorize(ctx, s.gate, salesRoles, id, func(ctx context.Context, caller auth.Caller) (*clientDatamodel.Client, error) {
		if err := dto.Validate(); err != nil {
			return nil, err
		}

		created, err := s.store.Create(ctx, &clientDatamodel.Client{
			FullName:       dto.FullName,
			Email:          dto.Email,
			Phone:          dto.Phone,
			CompanyName:    dto.CompanyName,
			SalesContactID: caller.ID,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to create client", "error", err, "sales_contact_id", caller.ID)
			return nil, err
		}

		s.logger.InfoContext(ctx, "client created", "client_id", created.ID, "sales_contact_id", caller.ID)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionCreated, caller.ID, []int64{created.ID}, nil))
		return created, nil
	})
}

func (s *Service) List(ctx context.Context, id auth.Identity) ([]*clientDatamodel.Client, error) {
	return s.Get(ctx, id, nil)
}

func (s *Service) Get(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]*clientDatamodel.Client, error) {
	return auth.Authorize(ctx, s.gate, readRoles, id, func(ctx context.Context, _ auth.Caller) ([]*clientDatamodel.Client, error) {
		return s.store.Get(ctx, pred)
	})
}

func (s *Service) Find(ctx context.Context, id auth.Identity, clientID int64) (*clientDatamodel.Client, error) {
	return auth.Authorize(ctx, s.gate, readRoles, id, func(ctx context.Context, _ auth.Caller) (*clientDatamodel.Client, error) {
		c, err := s.store.Lookup(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, NotFound(clientID)
		}
		return c, nil
	})
}

// Mine lists the clients owned by the calling sales user.
func (s *Service) Mine(ctx context.Context, id auth.Identity) ([]*clientDatamodel.Client, error) {
	return auth.Authorize(ctx, s.gate, salesRoles, id, func(ctx context.Context, caller auth.Caller) ([]*clientDatamodel.Client, error) {
		return s.store.Get(ctx, crud.Where("sales_contact_id = ?", caller.ID))
	})
}

// FilterByName matches a case-insensitive fragment of the client's name.
func (s *Service) FilterByName(ctx context.Context, id auth.Identity, name string) ([]*clientDatamodel.Client, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	return s.Get(ctx, id, crud.Where("LOWER(full_name) LIKE ?", pattern))
}

func (s *Service) Update(ctx context.Context, id auth.Identity, pred crud.Predicate, dto UpdateClientDTO) error {
	return auth.AuthorizeAction(ctx, s.gate, salesRoles, id, func(ctx context.Context, caller auth.Caller) error {
		if err := dto.Validate(); err != nil {
			return err
		}

		var ids []int64
		err := s.store.UpdateChecked(ctx, pred, func(clients []*clientDatamodel.Client) error {
			ids = recordIDs(clients)
			return checkOwned(caller, clients)
		}, crud.Fields{
			"full_name":    dto.FullName,
			"email":        dto.Email,
			"phone":        dto.Phone,
			"company_name": dto.CompanyName,
		})
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "clients updated", "client_ids", ids)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionUpdated, caller.ID, ids, nil))
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, pred crud.Predicate) error {
	return auth.AuthorizeAction(ctx, s.gate, salesRoles, id, func(ctx context.Context, caller auth.Caller) error {
		var ids []int64
		err := s.store.DeleteChecked(ctx, pred, func(clients []*clientDatamodel.Client) error {
			ids = recordIDs(clients)
			return checkOwned(caller, clients)
		})
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "clients deleted", "client_ids", ids)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionDeleted, caller.ID, ids, nil))
		return nil
	})
}

// PreviewDelete applies the same checks as Delete and reports the cascade
// instead of deleting.
func (s *Service) PreviewDelete(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]cascade.Group, error) {
	return auth.Authorize(ctx, s.gate, salesRoles, id, func(ctx context.Context, caller auth.Caller) ([]cascade.Group, error) {
		clients, err := s.store.Get(ctx, pred)
		if err != nil {
			return nil, err
		}
		if err := checkOwned(caller, clients); err != nil {
			return nil, err
		}
		return s.ResolveCascade(ctx, clients)
	})
}

func (s *Service) ResolveCascade(ctx context.Context, clients []*clientDatamodel.Client) ([]cascade.Group, error) {
	return s.resolver.ResolveClients(ctx, clients)
}

var _ cascade.Hook[clientDatamodel.Client] = (*Service)(nil)

func NotFound(clientID int64) *internal.AppError {
	return internal.NewNotFoundError("Client not found", internal.ErrCodeClientNotFound).
		WithDetails(internal.RecordRef{Kind: kind, ID: clientID})
}

func checkOwned(caller auth.Caller, clients []*clientDatamodel.Client) error {
	return auth.CheckOwnership(caller, kind, clients, func(c *clientDatamodel.Client) *int64 {
		return &c.SalesContactID
	})
}

func recordIDs(clients []*clientDatamodel.Client) []int64 {
	ids := make([]int64, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	return ids
}

package contract

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	clientDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	contractDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/internal/crud"
)

const kind = "contract"

var (
	readRoles  = auth.AllRoles()
	salesRoles = auth.Only(user.RoleSales)
	writeRoles = auth.Only(user.RoleSales, user.RoleAccounting)
)

type Service struct {
	store     *crud.Manager[contractDatamodel.Contract]
	clients   *crud.Manager[clientDatamodel.Client]
	gate      *auth.Gate
	resolver  *cascade.Resolver
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(
	store *crud.Manager[contractDatamodel.Contract],
	clients *crud.Manager[clientDatamodel.Client],
	gate *auth.Gate,
	resolver *cascade.Resolver,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:     store,
		clients:   clients,
		gate:      gate,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
	}
}

// Create opens a contract for an existing client. A sales caller must own
// the client; accounting may open one for any client. The contract always
// inherits the client's sales contact.
func (s *Service) Create(ctx context.Context, id auth.Identity, dto CreateContractDTO) (*contractDatamodel.Contract, error) {
	return auth.Authorize(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) (*contractDatamodel.Contract, error) {
		if err := dto.Validate(); err != nil {
			return nil, err
		}

		c, err := s.clients.Lookup(ctx, dto.ClientID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, internal.NewNotFoundError("Client not found", internal.ErrCodeClientNotFound).
				WithDetails(internal.RecordRef{Kind: "client", ID: dto.ClientID})
		}

		if caller.Is(user.RoleSales) {
			err := auth.CheckOwnership(caller, "client", []*clientDatamodel.Client{c}, func(c *clientDatamodel.Client) *int64 {
				return &c.SalesContactID
			})
			if err != nil {
				return nil, err
			}
		}

		created, err := s.store.Create(ctx, &contractDatamodel.Contract{
			TotalAmount:    dto.TotalAmount,
			AmountDue:      dto.amountDue(),
			IsSigned:       dto.IsSigned,
			ClientID:       c.ID,
			SalesContactID: c.SalesContactID,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to create contract", "error", err, "client_id", c.ID)
			return nil, err
		}

		s.logger.InfoContext(ctx, "contract created", "contract_id", created.ID, "client_id", c.ID)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionCreated, caller.ID, []int64{created.ID}, nil))
		return created, nil
	})
}

func (s *Service) List(ctx context.Context, id auth.Identity) ([]*contractDatamodel.Contract, error) {
	return s.Get(ctx, id, nil)
}

func (s *Service) Get(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]*contractDatamodel.Contract, error) {
	return auth.Authorize(ctx, s.gate, readRoles, id, func(ctx context.Context, _ auth.Caller) ([]*contractDatamodel.Contract, error) {
		return s.store.Get(ctx, pred)
	})
}

func (s *Service) Find(ctx context.Context, id auth.Identity, contractID int64) (*contractDatamodel.Contract, error) {
	return auth.Authorize(ctx, s.gate, readRoles, id, func(ctx context.Context, _ auth.Caller) (*contractDatamodel.Contract, error) {
		k, err := s.store.Lookup(ctx, contractID)
		if err != nil {
			return nil, err
		}
		if k == nil {
			return nil, NotFound(contractID)
		}
		return k, nil
	})
}

func (s *Service) Mine(ctx context.Context, id auth.Identity) ([]*contractDatamodel.Contract, error) {
	return auth.Authorize(ctx, s.gate, salesRoles, id, func(ctx context.Context, caller auth.Caller) ([]*contractDatamodel.Contract, error) {
		return s.store.Get(ctx, crud.Where("sales_contact_id = ?", caller.ID))
	})
}

func (s *Service) Unsigned(ctx context.Context, id auth.Identity) ([]*contractDatamodel.Contract, error) {
	return s.filtered(ctx, id, crud.Where("is_signed = ?", false))
}

// Unpaid lists contracts with a positive amount due.
func (s *Service) Unpaid(ctx context.Context, id auth.Identity) ([]*contractDatamodel.Contract, error) {
	return s.filtered(ctx, id, crud.Where("amount_due > 0"))
}

func (s *Service) filtered(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]*contractDatamodel.Contract, error) {
	return auth.Authorize(ctx, s.gate, writeRoles, id, func(ctx context.Context, _ auth.Caller) ([]*contractDatamodel.Contract, error) {
		return s.store.Get(ctx, pred)
	})
}

func (s *Service) Update(ctx context.Context, id auth.Identity, pred crud.Predicate, dto UpdateContractDTO) error {
	return auth.AuthorizeAction(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) error {
		if err := dto.Validate(); err != nil {
			return err
		}

		fields := crud.Fields{
			"total_amount": dto.TotalAmount,
			"amount_due":   dto.AmountDue,
			"is_signed":    dto.IsSigned,
		}
		var ids []int64
		err := s.store.UpdateChecked(ctx, pred, func(contracts []*contractDatamodel.Contract) error {
			ids = recordIDs(contracts)
			if err := checkOwned(caller, contracts); err != nil {
				return err
			}
			return dto.checkAmounts(contracts)
		}, fields)
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "contracts updated", "contract_ids", ids)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionUpdated, caller.ID, ids, nil))
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, pred crud.Predicate) error {
	return auth.AuthorizeAction(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) error {
		var ids []int64
		err := s.store.DeleteChecked(ctx, pred, func(contracts []*contractDatamodel.Contract) error {
			ids = recordIDs(contracts)
			return checkOwned(caller, contracts)
		})
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "contracts deleted", "contract_ids", ids)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionDeleted, caller.ID, ids, nil))
		return nil
	})
}

func (s *Service) PreviewDelete(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]cascade.Group, error) {
	return auth.Authorize(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) ([]cascade.Group, error) {
		contracts, err := s.store.Get(ctx, pred)
		if err != nil {
			return nil, err
		}
		if err := checkOwned(caller, contracts); err != nil {
			return nil, err
		}
		return s.ResolveCascade(ctx, contracts)
	})
}

func (s *Service) ResolveCascade(ctx context.Context, contracts []*contractDatamodel.Contract) ([]cascade.Group, error) {
	return s.resolver.ResolveContracts(ctx, contracts)
}

var _ cascade.Hook[contractDatamodel.Contract] = (*Service)(nil)

func NotFound(contractID int64) *internal.AppError {
	return internal.NewNotFoundError("Contract not found", internal.ErrCodeContractNotFound).
		WithDetails(internal.RecordRef{Kind: kind, ID: contractID})
}

// checkOwned restricts sales callers to their own contracts. Accounting
// manages every contract.
func checkOwned(caller auth.Caller, contracts []*contractDatamodel.Contract) error {
	if !caller.Is(user.RoleSales) {
		return nil
	}
	return auth.CheckOwnership(caller, kind, contracts, func(k *contractDatamodel.Contract) *int64 {
		return &k.SalesContactID
	})
}

func recordIDs(contracts []*contractDatamodel.Contract) []int64 {
	ids := make([]int64, len(contracts))
	for i, k := range contracts {
		ids[i] = k.ID
	}
	return ids
}

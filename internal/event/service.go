package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	contractDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	eventDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/internal/crud"
)

const kind = "event"

var (
	readRoles    = auth.AllRoles()
	createRoles  = auth.Only(user.RoleSales)
	supportRoles = auth.Only(user.RoleSupport)
	writeRoles   = auth.Only(user.RoleAccounting, user.RoleSupport)
)

type Service struct {
	store     *crud.Manager[eventDatamodel.Event]
	contracts *crud.Manager[contractDatamodel.Contract]
	users     *crud.Manager[user.User]
	gate      *auth.Gate
	resolver  *cascade.Resolver
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(
	store *crud.Manager[eventDatamodel.Event],
	contracts *crud.Manager[contractDatamodel.Contract],
	users *crud.Manager[user.User],
	gate *auth.Gate,
	resolver *cascade.Resolver,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:     store,
		contracts: contracts,
		users:     users,
		gate:      gate,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
	}
}

// Create schedules an event under a signed contract owned by the caller.
// The support assignee is checked first, then the contract, then
// ownership, so the reported error does not depend on store order.
func (s *Service) Create(ctx context.Context, id auth.Identity, dto CreateEventDTO) (*eventDatamodel.Event, error) {
	return auth.Authorize(ctx, s.gate, createRoles, id, func(ctx context.Context, caller auth.Caller) (*eventDatamodel.Event, error) {
		if err := dto.Validate(); err != nil {
			return nil, err
		}

		if err := s.checkSupportContact(ctx, dto.SupportContactID); err != nil {
			return nil, err
		}

		k, err := s.contracts.Lookup(ctx, dto.ContractID)
		if err != nil {
			return nil, err
		}
		if k == nil {
			return nil, internal.NewValidationError(
				fmt.Sprintf("Contract %d does not exist", dto.ContractID),
				internal.ErrCodeContractNotFound,
			).WithDetails(internal.RecordRef{Kind: "contract", ID: dto.ContractID})
		}
		if !k.IsSigned {
			return nil, internal.NewValidationError(
				fmt.Sprintf("Contract %d is not signed yet", k.ID),
				internal.ErrCodeContractNotSigned,
			).WithDetails(internal.RecordRef{Kind: "contract", ID: k.ID})
		}

		err = auth.CheckOwnership(caller, "contract", []*contractDatamodel.Contract{k}, func(k *contractDatamodel.Contract) *int64 {
			return &k.SalesContactID
		})
		if err != nil {
			return nil, err
		}

		created, err := s.store.Create(ctx, &eventDatamodel.Event{
			Name:             dto.Name,
			StartDate:        dto.StartDate,
			EndDate:          dto.EndDate,
			Location:         dto.Location,
			Attendees:        dto.Attendees,
			Notes:            dto.Notes,
			ContractID:       k.ID,
			ClientID:         k.ClientID,
			SupportContactID: dto.SupportContactID,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to create event", "error", err, "contract_id", k.ID)
			return nil, err
		}

		s.logger.InfoContext(ctx, "event created", "event_id", created.ID, "contract_id", k.ID)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionCreated, caller.ID, []int64{created.ID}, nil))
		return created, nil
	})
}

// checkSupportContact accepts an empty assignee or an existing support user.
func (s *Service) checkSupportContact(ctx context.Context, supportID *int64) error {
	if supportID == nil {
		return nil
	}
	u, err := s.users.Lookup(ctx, *supportID)
	if err != nil {
		return err
	}
	if u == nil || u.Role != user.RoleSupport {
		return internal.NewValidationFieldError("support_contact_id",
			fmt.Sprintf("User %d is not a support user", *supportID),
			internal.ErrCodeInvalidSupportContact)
	}
	return nil
}

func (s *Service) List(ctx context.Context, id auth.Identity) ([]*eventDatamodel.Event, error) {
	return s.Get(ctx, id, nil)
}

func (s *Service) Get(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]*eventDatamodel.Event, error) {
	return auth.Authorize(ctx, s.gate, readRoles, id, func(ctx context.Context, _ auth.Caller) ([]*eventDatamodel.Event, error) {
		return s.store.Get(ctx, pred)
	})
}

func (s *Service) Find(ctx context.Context, id auth.Identity, eventID int64) (*eventDatamodel.Event, error) {
	return auth.Authorize(ctx, s.gate, readRoles, id, func(ctx context.Context, _ auth.Caller) (*eventDatamodel.Event, error) {
		e, err := s.store.Lookup(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, internal.NewNotFoundError("Event not found", internal.ErrCodeEventNotFound).
				WithDetails(internal.RecordRef{Kind: kind, ID: eventID})
		}
		return e, nil
	})
}

// Mine lists the events assigned to the calling support user.
func (s *Service) Mine(ctx context.Context, id auth.Identity) ([]*eventDatamodel.Event, error) {
	return auth.Authorize(ctx, s.gate, supportRoles, id, func(ctx context.Context, caller auth.Caller) ([]*eventDatamodel.Event, error) {
		return s.store.Get(ctx, crud.Where("support_contact_id = ?", caller.ID))
	})
}

func (s *Service) Unassigned(ctx context.Context, id auth.Identity) ([]*eventDatamodel.Event, error) {
	return s.Get(ctx, id, crud.IsNull("support_contact_id"))
}

func (s *Service) Update(ctx context.Context, id auth.Identity, pred crud.Predicate, dto UpdateEventDTO) error {
	return auth.AuthorizeAction(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) error {
		if err := dto.Validate(); err != nil {
			return err
		}
		if err := s.checkSupportContact(ctx, dto.SupportContactID); err != nil {
			return err
		}

		fields := crud.Fields{
			"name":               dto.Name,
			"start_date":         dto.StartDate,
			"end_date":           dto.EndDate,
			"location":           dto.Location,
			"attendees":          dto.Attendees,
			"notes":              dto.Notes,
			"support_contact_id": dto.SupportContactID,
		}
		var ids []int64
		err := s.store.UpdateChecked(ctx, pred, func(evts []*eventDatamodel.Event) error {
			ids = recordIDs(evts)
			if err := checkAssigned(caller, evts); err != nil {
				return err
			}
			return dto.checkDates(evts)
		}, fields)
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "events updated", "event_ids", ids)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionUpdated, caller.ID, ids, nil))
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, pred crud.Predicate) error {
	return auth.AuthorizeAction(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) error {
		var ids []int64
		err := s.store.DeleteChecked(ctx, pred, func(evts []*eventDatamodel.Event) error {
			ids = recordIDs(evts)
			return checkAssigned(caller, evts)
		})
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "events deleted", "event_ids", ids)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionDeleted, caller.ID, ids, nil))
		return nil
	})
}

func (s *Service) PreviewDelete(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]cascade.Group, error) {
	return auth.Authorize(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) ([]cascade.Group, error) {
		evts, err := s.store.Get(ctx, pred)
		if err != nil {
			return nil, err
		}
		if err := checkAssigned(caller, evts); err != nil {
			return nil, err
		}
		return s.ResolveCascade(ctx, evts)
	})
}

func (s *Service) ResolveCascade(ctx context.Context, evts []*eventDatamodel.Event) ([]cascade.Group, error) {
	return s.resolver.ResolveEvents(ctx, evts)
}

var _ cascade.Hook[eventDatamodel.Event] = (*Service)(nil)

// checkAssigned restricts support callers to the events assigned to them.
func checkAssigned(caller auth.Caller, evts []*eventDatamodel.Event) error {
	if !caller.Is(user.RoleSupport) {
		return nil
	}
	return auth.CheckOwnership(caller, kind, evts, func(e *eventDatamodel.Event) *int64 {
		return e.SupportContactID
	})
}

func recordIDs(evts []*eventDatamodel.Event) []int64 {
	ids := make([]int64, len(evts))
	for i, e := range evts {
		ids[i] = e.ID
	}
	return ids
}

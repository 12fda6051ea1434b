package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/internal/crud"
)

const kind = "user"

var (
	readRoles  = auth.AllRoles()
	writeRoles = auth.Only(userDatamodel.RoleAccounting)
)

type Service struct {
	store      *crud.Manager[userDatamodel.User]
	gate       *auth.Gate
	resolver   *cascade.Resolver
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
}

func NewService(store *crud.Manager[userDatamodel.User], gate *auth.Gate, resolver *cascade.Resolver, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		gate:       gate,
		resolver:   resolver,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, id auth.Identity, dto CreateUserDTO) (*userDatamodel.User, error) {
	return auth.Authorize(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) (*userDatamodel.User, error) {
		return s.create(ctx, caller.ID, dto)
	})
}

// CreateAdmin creates an Accounting user without a role check. It is only
// reachable through the master password gate.
func (s *Service) CreateAdmin(ctx context.Context, dto CreateUserDTO) (*userDatamodel.User, error) {
	dto.Role = string(userDatamodel.RoleAccounting)
	return s.create(ctx, 0, dto)
}

func (s *Service) create(ctx context.Context, actorID int64, dto CreateUserDTO) (*userDatamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, _ := userDatamodel.ParseRole(dto.Role)
	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	created, err := s.store.Create(ctx, &userDatamodel.User{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", "user_id", created.ID, "role", created.Role)
	events.Emit(ctx, s.publisher, s.logger,
		events.NewRecordChangedEvent(kind, events.ActionCreated, actorID, []int64{created.ID}, map[string]interface{}{"role": created.Role}))
	return created, nil
}

func (s *Service) List(ctx context.Context, id auth.Identity) ([]*userDatamodel.User, error) {
	return s.Get(ctx, id, nil)
}

func (s *Service) Get(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]*userDatamodel.User, error) {
	return auth.Authorize(ctx, s.gate, readRoles, id, func(ctx context.Context, _ auth.Caller) ([]*userDatamodel.User, error) {
		return s.store.Get(ctx, pred)
	})
}

// Find returns a single user or USER_NOT_FOUND.
func (s *Service) Find(ctx context.Context, id auth.Identity, userID int64) (*userDatamodel.User, error) {
	return auth.Authorize(ctx, s.gate, readRoles, id, func(ctx context.Context, _ auth.Caller) (*userDatamodel.User, error) {
		return s.lookup(ctx, userID)
	})
}

// Me returns the stored record behind the identity.
func (s *Service) Me(ctx context.Context, id auth.Identity) (*userDatamodel.User, error) {
	return s.Find(ctx, id, id.UserID)
}

func (s *Service) ByRole(ctx context.Context, id auth.Identity, role userDatamodel.Role) ([]*userDatamodel.User, error) {
	return s.Get(ctx, id, crud.Where("role = ?", role))
}

func (s *Service) lookup(ctx context.Context, userID int64) (*userDatamodel.User, error) {
	u, err := s.store.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound).
			WithDetails(internal.RecordRef{Kind: kind, ID: userID})
	}
	return u, nil
}

// Update re-validates the email and re-hashes a new password before
// writing.
func (s *Service) Update(ctx context.Context, id auth.Identity, pred crud.Predicate, dto UpdateUserDTO) error {
	return auth.AuthorizeAction(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) error {
		if err := dto.Validate(); err != nil {
			return err
		}

		fields := crud.Fields{
			"first_name": dto.FirstName,
			"last_name":  dto.LastName,
			"email":      dto.Email,
		}
		if dto.Role != nil {
			role, _ := userDatamodel.ParseRole(*dto.Role)
			fields["role"] = role
		}
		if dto.Password != nil {
			hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
			if err != nil {
				return internal.NewInternalError("failed to hash password", err)
			}
			fields["password_hash"] = hash
		}

		var ids []int64
		err := s.store.UpdateChecked(ctx, pred, func(users []*userDatamodel.User) error {
			ids = recordIDs(users)
			return nil
		}, fields)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to update users", "error", err)
			return err
		}

		s.logger.InfoContext(ctx, "users updated", "user_ids", ids)
		events.Emit(ctx, s.publisher, s.logger,
			events.NewRecordChangedEvent(kind, events.ActionUpdated, caller.ID, ids, changedColumns(fields)))
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, pred crud.Predicate) error {
	return auth.AuthorizeAction(ctx, s.gate, writeRoles, id, func(ctx context.Context, caller auth.Caller) error {
		return s.delete(ctx, caller.ID, pred)
	})
}

// DeleteAll removes every user and, through the foreign keys, every
// client, contract and event. Master password gate only.
func (s *Service) DeleteAll(ctx context.Context) error {
	return s.delete(ctx, 0, crud.Where("1 = 1"))
}

func (s *Service) delete(ctx context.Context, actorID int64, pred crud.Predicate) error {
	var ids []int64
	err := s.store.DeleteChecked(ctx, pred, func(users []*userDatamodel.User) error {
		ids = recordIDs(users)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete users", "error", err)
		return err
	}

	s.logger.InfoContext(ctx, "users deleted", "user_ids", ids)
	events.Emit(ctx, s.publisher, s.logger,
		events.NewRecordChangedEvent(kind, events.ActionDeleted, actorID, ids, nil))
	return nil
}

// PreviewDelete lists what deleting the matching users would take with it.
func (s *Service) PreviewDelete(ctx context.Context, id auth.Identity, pred crud.Predicate) ([]cascade.Group, error) {
	return auth.Authorize(ctx, s.gate, writeRoles, id, func(ctx context.Context, _ auth.Caller) ([]cascade.Group, error) {
		users, err := s.store.Get(ctx, pred)
		if err != nil {
			return nil, err
		}
		return s.ResolveCascade(ctx, users)
	})
}

func (s *Service) ResolveCascade(ctx context.Context, users []*userDatamodel.User) ([]cascade.Group, error) {
	return s.resolver.ResolveUsers(ctx, users)
}

var _ cascade.Hook[userDatamodel.User] = (*Service)(nil)

func recordIDs(users []*userDatamodel.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

// changedColumns lists the columns an update touches, never their values.
func changedColumns(fields crud.Fields) map[string]interface{} {
	columns := make([]string, 0, len(fields))
	for column := range fields.Compact() {
		columns = append(columns, column)
	}
	return map[string]interface{}{"columns": columns}
}

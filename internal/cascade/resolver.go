package cascade

import (
	"context"

	"github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"gorm.io/gorm"
)

// Resolver walks the fixed ownership graph users -> clients -> contracts ->
// events. It only reads; deletion itself relies on the foreign keys.
type Resolver struct {
	clients   *crud.Manager[client.Client]
	contracts *crud.Manager[contract.Contract]
	events    *crud.Manager[event.Event]
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{
		clients:   crud.NewManager[client.Client](db, "client"),
		contracts: crud.NewManager[contract.Contract](db, "contract"),
		events:    crud.NewManager[event.Event](db, "event"),
	}
}

// ResolveUsers reports the clients and contracts the users own, the events
// they support, and everything hanging off those clients and contracts.
func (r *Resolver) ResolveUsers(ctx context.Context, users []*user.User) ([]Group, error) {
	userIDs := idsOf(users)

	clients, err := fetch(ctx, r.clients, "sales_contact_id", userIDs)
	if err != nil {
		return nil, err
	}
	ownedContracts, err := fetch(ctx, r.contracts, "sales_contact_id", userIDs)
	if err != nil {
		return nil, err
	}
	clientContracts, err := fetch(ctx, r.contracts, "client_id", idsOf(clients))
	if err != nil {
		return nil, err
	}
	contracts := newGroup(TitleContracts, contract.Headers, ownedContracts, clientContracts)

	supportedEvents, err := fetch(ctx, r.events, "support_contact_id", userIDs)
	if err != nil {
		return nil, err
	}
	contractEvents, err := fetch(ctx, r.events, "contract_id", contracts.IDs())
	if err != nil {
		return nil, err
	}

	return []Group{
		newGroup(TitleUsers, user.Headers, users),
		newGroup(TitleClients, client.Headers, clients),
		contracts,
		newGroup(TitleEvents, event.Headers, supportedEvents, contractEvents),
	}, nil
}

func (r *Resolver) ResolveClients(ctx context.Context, clients []*client.Client) ([]Group, error) {
	contracts, err := fetch(ctx, r.contracts, "client_id", idsOf(clients))
	if err != nil {
		return nil, err
	}
	contractEvents, err := fetch(ctx, r.events, "contract_id", idsOf(contracts))
	if err != nil {
		return nil, err
	}
	clientEvents, err := fetch(ctx, r.events, "client_id", idsOf(clients))
	if err != nil {
		return nil, err
	}

	return []Group{
		newGroup(TitleClients, client.Headers, clients),
		newGroup(TitleContracts, contract.Headers, contracts),
		newGroup(TitleEvents, event.Headers, contractEvents, clientEvents),
	}, nil
}

func (r *Resolver) ResolveContracts(ctx context.Context, contracts []*contract.Contract) ([]Group, error) {
	events, err := fetch(ctx, r.events, "contract_id", idsOf(contracts))
	if err != nil {
		return nil, err
	}

	return []Group{
		newGroup(TitleContracts, contract.Headers, contracts),
		newGroup(TitleEvents, event.Headers, events),
	}, nil
}

// ResolveEvents has nothing downstream; the preview lists the events only.
func (r *Resolver) ResolveEvents(_ context.Context, events []*event.Event) ([]Group, error) {
	return []Group{newGroup(TitleEvents, event.Headers, events)}, nil
}

func fetch[T any](ctx context.Context, m *crud.Manager[T], column string, ids []int64) ([]*T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return m.Get(ctx, crud.In(column, ids))
}

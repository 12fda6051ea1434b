// Package app wires the store, the permission gate and the entity services
// into one set of dependencies shared by the CLI and the HTTP server.
package app

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/auth"
	authPostgres "github.com/frahmantamala/epic-crm/internal/auth/postgres"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	"github.com/frahmantamala/epic-crm/internal/client"
	"github.com/frahmantamala/epic-crm/internal/contract"
	clientDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	contractDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	eventDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/frahmantamala/epic-crm/internal/event"
	"github.com/frahmantamala/epic-crm/internal/storage"
	"github.com/frahmantamala/epic-crm/internal/transport/rest"
	"github.com/frahmantamala/epic-crm/internal/user"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	Bus    *events.EventBus
	Logger *slog.Logger

	Gate      *auth.Gate
	Auth      *auth.Service
	Tokens    *auth.FileTokenStore
	Users     *user.Service
	Clients   *client.Service
	Contracts *contract.Service
	Events    *event.Service
}

// New builds every service on top of db. The caller keeps ownership of db
// and releases it with Close.
func New(cfg *internal.Config, db *gorm.DB, logger *slog.Logger) *Dependencies {
	bus := events.NewEventBus(logger)
	events.RegisterLogSink(bus, logger)

	credentials := authPostgres.NewRepository(db)
	gate := auth.NewGate(credentials, logger)
	resolver := cascade.NewResolver(db)

	users := crud.NewManager[userDatamodel.User](db, "user")
	clients := crud.NewManager[clientDatamodel.Client](db, "client")
	contracts := crud.NewManager[contractDatamodel.Contract](db, "contract")
	evts := crud.NewManager[eventDatamodel.Event](db, "event")

	tokenGen := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)

	return &Dependencies{
		Config: cfg,
		DB:     db,
		Bus:    bus,
		Logger: logger,

		Gate:      gate,
		Auth:      auth.NewService(credentials, tokenGen, logger),
		Tokens:    auth.NewFileTokenStore(cfg.Security.TokenFile),
		Users:     user.NewService(users, gate, resolver, bus, cfg.Security.BCryptCost, logger),
		Clients:   client.NewService(clients, gate, resolver, bus, logger),
		Contracts: contract.NewService(contracts, clients, gate, resolver, bus, logger),
		Events:    event.NewService(evts, contracts, users, gate, resolver, bus, logger),
	}
}

// Open connects to the configured database and builds the dependencies.
func Open(cfg *internal.Config, logger *slog.Logger) (*Dependencies, error) {
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return New(cfg, db, logger), nil
}

func (d *Dependencies) Handlers() rest.Handlers {
	return rest.Handlers{
		Auth:     auth.NewHandler(d.Auth),
		User:     user.NewHandler(d.Users),
		Client:   client.NewHandler(d.Clients),
		Contract: contract.NewHandler(d.Contracts),
		Event:    event.NewHandler(d.Events),
	}
}

func (d *Dependencies) Close() error {
	return storage.Close(d.DB)
}

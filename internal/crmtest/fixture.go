// Package crmtest wires an in-memory store, a real permission gate and an
// event recorder for service tests.
package crmtest

import (
	"context"
	"sync"
	"time"

	"github.com/frahmantamala/epic-crm/internal/auth"
	authPostgres "github.com/frahmantamala/epic-crm/internal/auth/postgres"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/internal/storage"
	"github.com/frahmantamala/epic-crm/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Fixture struct {
	DB       *gorm.DB
	Gate     *auth.Gate
	Resolver *cascade.Resolver
	Events   *Recorder
}

func New() (*Fixture, error) {
	db, err := storage.OpenMemory()
	if err != nil {
		return nil, err
	}
	if err := datamodel.Migrate(db); err != nil {
		_ = storage.Close(db)
		return nil, err
	}
	return &Fixture{
		DB:       db,
		Gate:     auth.NewGate(authPostgres.NewRepository(db), logger.Discard()),
		Resolver: cascade.NewResolver(db),
		Events:   &Recorder{},
	}, nil
}

func (f *Fixture) Close() error {
	return storage.Close(f.DB)
}

// User inserts a user directly, bypassing the gate.
func (f *Fixture) User(email string, role user.Role) (*user.User, error) {
	u := &user.User{FirstName: "Test", LastName: string(role), Email: email, PasswordHash: "x", Role: role}
	return u, f.DB.Create(u).Error
}

func (f *Fixture) Client(email, phone string, owner *user.User) (*client.Client, error) {
	c := &client.Client{FullName: "Client " + email, Email: email, Phone: phone, CompanyName: "Co", SalesContactID: owner.ID}
	return c, f.DB.Create(c).Error
}

func (f *Fixture) Contract(c *client.Client, signed bool) (*contract.Contract, error) {
	k := &contract.Contract{
		TotalAmount:    decimal.NewFromInt(1000),
		AmountDue:      decimal.NewFromInt(1000),
		IsSigned:       signed,
		ClientID:       c.ID,
		SalesContactID: c.SalesContactID,
	}
	return k, f.DB.Create(k).Error
}

func (f *Fixture) Event(k *contract.Contract, support *user.User) (*event.Event, error) {
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	e := &event.Event{
		Name:       "Event",
		StartDate:  start,
		EndDate:    start.Add(4 * time.Hour),
		Location:   "Paris",
		Attendees:  50,
		ContractID: k.ID,
		ClientID:   k.ClientID,
	}
	if support != nil {
		e.SupportContactID = &support.ID
	}
	return e, f.DB.Create(e).Error
}

// As returns the identity a logged in u would present.
func As(u *user.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// Recorder is a Publisher that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *Recorder) PublishSync(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

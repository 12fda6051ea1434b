package main_test

import (
	"context"
	"path/filepath"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/client"
	"github.com/frahmantamala/epic-crm/internal/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/frahmantamala/epic-crm/internal/event"
	"github.com/frahmantamala/epic-crm/internal/storage"
	"github.com/frahmantamala/epic-crm/internal/user"
	"github.com/frahmantamala/epic-crm/pkg/logger"
	"github.com/shopspring/decimal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Epic Events workflow", func() {
	var (
		ctx  context.Context
		deps *app.Dependencies
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := storage.OpenMemory()
		Expect(err).NotTo(HaveOccurred())
		Expect(datamodel.Migrate(db)).To(Succeed())

		cfg := &internal.Config{
			Security: internal.SecurityConfig{
				JWTSecret:           "0123456789abcdef0123456789abcdef",
				AccessTokenDuration: time.Hour,
				BCryptCost:          bcrypt.MinCost,
				MasterPassword:      "master",
				TokenFile:           filepath.Join(GinkgoT().TempDir(), "token"),
			},
		}
		deps = app.New(cfg, db, logger.Discard())
		DeferCleanup(deps.Close)
	})

	login := func(email, password string) auth.Identity {
		result, err := deps.Auth.Authenticate(ctx, auth.LoginDTO{Email: email, Password: password})
		Expect(err).NotTo(HaveOccurred())
		Expect(deps.Tokens.Save(result.AccessToken)).To(Succeed())

		id, err := deps.Auth.CurrentIdentity(deps.Tokens)
		Expect(err).NotTo(HaveOccurred())
		return id
	}

	It("takes a client from first contact to a staffed event", func() {
		_, err := deps.Users.CreateAdmin(ctx, user.CreateUserDTO{
			FirstName: "Ada", LastName: "Admin", Email: "admin@epic.events", Password: "password1",
		})
		Expect(err).NotTo(HaveOccurred())
		admin := login("admin@epic.events", "password1")
		Expect(admin.Role).To(Equal(userDatamodel.RoleAccounting))

		_, err = deps.Users.Create(ctx, admin, user.CreateUserDTO{
			FirstName: "Sam", LastName: "Sales", Email: "a@epic.events", Password: "password1", Role: "sales",
		})
		Expect(err).NotTo(HaveOccurred())
		support, err := deps.Users.Create(ctx, admin, user.CreateUserDTO{
			FirstName: "Sue", LastName: "Support", Email: "b@epic.events", Password: "password1", Role: "support",
		})
		Expect(err).NotTo(HaveOccurred())

		sales := login("a@epic.events", "password1")
		c, err := deps.Clients.Create(ctx, sales, client.CreateClientDTO{
			FullName: "Kevin Casey", Email: "kevin@startup.io", Phone: "+678 123 456 78", CompanyName: "Cool Startup LLC",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.SalesContactID).To(Equal(sales.UserID))

		k, err := deps.Contracts.Create(ctx, sales, contract.CreateContractDTO{
			ClientID: c.ID, TotalAmount: decimal.NewFromInt(5000), IsSigned: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(k.SalesContactID).To(Equal(sales.UserID))

		start := time.Date(2026, 11, 20, 18, 0, 0, 0, time.UTC)
		e, err := deps.Events.Create(ctx, sales, event.CreateEventDTO{
			ContractID:       k.ID,
			Name:             "Launch party",
			StartDate:        start,
			EndDate:          start.Add(5 * time.Hour),
			Attendees:        75,
			SupportContactID: &support.ID,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.ClientID).To(Equal(c.ID))

		staff := login("b@epic.events", "password1")
		mine, err := deps.Events.Mine(ctx, staff)
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
		Expect(mine[0].ID).To(Equal(e.ID))

		_, err = deps.Clients.Create(ctx, staff, client.CreateClientDTO{
			FullName: "Other", Email: "other@corp.io", Phone: "+1 555", CompanyName: "Corp",
		})
		Expect(internal.HasErrorCode(err, internal.ErrCodeRoleNotAllowed)).To(BeTrue())

		groups, err := deps.Users.PreviewDelete(ctx, admin, crud.ByID(sales.UserID))
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(HaveLen(4))
		Expect(deps.Users.Delete(ctx, admin, crud.ByID(sales.UserID))).To(Succeed())

		remaining, err := deps.Events.List(ctx, staff)
		Expect(err).NotTo(HaveOccurred())
		Expect(remaining).To(BeEmpty())
	})

	It("forgets the identity on logout", func() {
		_, err := deps.Users.CreateAdmin(ctx, user.CreateUserDTO{
			FirstName: "Ada", LastName: "Admin", Email: "admin@epic.events", Password: "password1",
		})
		Expect(err).NotTo(HaveOccurred())
		login("admin@epic.events", "password1")

		Expect(deps.Tokens.Clear()).To(Succeed())
		_, err = deps.Auth.CurrentIdentity(deps.Tokens)
		Expect(internal.HasErrorCode(err, internal.ErrCodeTokenMissing)).To(BeTrue())
	})
})

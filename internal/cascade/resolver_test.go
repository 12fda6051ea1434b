package cascade_test

import (
	"bytes"
	"context"
	"time"

	"github.com/frahmantamala/epic-crm/internal/cascade"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ = Describe("Resolver", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		resolver *cascade.Resolver

		owner     *user.User
		other     *user.User
		acme      *client.Client
		unrelated *client.Client
		deal      *contract.Contract
		launch    *event.Event
	)

	insert := func(v any) {
		Expect(db.Create(v).Error).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = storage.OpenMemory()
		Expect(err).NotTo(HaveOccurred())
		Expect(datamodel.Migrate(db)).To(Succeed())
		resolver = cascade.NewResolver(db)

		owner = &user.User{FirstName: "Sam", LastName: "Sales", Email: "sam@epic.io", PasswordHash: "x", Role: user.RoleSales}
		other = &user.User{FirstName: "Otto", LastName: "Other", Email: "otto@epic.io", PasswordHash: "x", Role: user.RoleSales}
		insert(owner)
		insert(other)

		acme = &client.Client{FullName: "Ada Acme", Email: "ada@acme.io", Phone: "+100", CompanyName: "Acme", SalesContactID: owner.ID}
		unrelated = &client.Client{FullName: "Bob Beta", Email: "bob@beta.io", Phone: "+200", CompanyName: "Beta", SalesContactID: other.ID}
		insert(acme)
		insert(unrelated)

		deal = &contract.Contract{
			TotalAmount:    decimal.NewFromInt(1000),
			AmountDue:      decimal.NewFromInt(250),
			IsSigned:       true,
			ClientID:       acme.ID,
			SalesContactID: owner.ID,
		}
		insert(deal)

		start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
		launch = &event.Event{
			Name:             "Launch",
			StartDate:        start,
			EndDate:          start.Add(4 * time.Hour),
			ContractID:       deal.ID,
			ClientID:         acme.ID,
			SupportContactID: &owner.ID,
		}
		insert(launch)
	})

	AfterEach(func() {
		Expect(storage.Close(db)).To(Succeed())
	})

	Describe("ResolveUsers", func() {
		It("returns one non-empty group per type with the expected record", func() {
			groups, err := resolver.ResolveUsers(ctx, []*user.User{owner})
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(4))

			titles := []string{groups[0].Title, groups[1].Title, groups[2].Title, groups[3].Title}
			Expect(titles).To(Equal([]string{cascade.TitleUsers, cascade.TitleClients, cascade.TitleContracts, cascade.TitleEvents}))

			Expect(groups[0].IDs()).To(Equal([]int64{owner.ID}))
			Expect(groups[1].IDs()).To(Equal([]int64{acme.ID}))
			Expect(groups[2].IDs()).To(Equal([]int64{deal.ID}))
			Expect(groups[3].IDs()).To(Equal([]int64{launch.ID}))

			for _, g := range groups {
				for _, m := range g.Members {
					Expect(m).NotTo(BeNil())
				}
			}
		})

		It("filters nil roots", func() {
			groups, err := resolver.ResolveUsers(ctx, []*user.User{nil, owner, nil})
			Expect(err).NotTo(HaveOccurred())
			Expect(groups[0].IDs()).To(Equal([]int64{owner.ID}))
		})

		It("does not pick up records of other users", func() {
			groups, err := resolver.ResolveUsers(ctx, []*user.User{other})
			Expect(err).NotTo(HaveOccurred())
			Expect(groups[1].IDs()).To(Equal([]int64{unrelated.ID}))
			Expect(groups[2].Len()).To(BeZero())
			Expect(groups[3].Len()).To(BeZero())
		})

		It("follows contracts owned through a client even when the contract owner differs", func() {
			transferred := &contract.Contract{
				TotalAmount:    decimal.NewFromInt(10),
				AmountDue:      decimal.Zero,
				ClientID:       acme.ID,
				SalesContactID: other.ID,
			}
			insert(transferred)

			groups, err := resolver.ResolveUsers(ctx, []*user.User{owner})
			Expect(err).NotTo(HaveOccurred())
			Expect(groups[2].IDs()).To(ConsistOf(deal.ID, transferred.ID))
		})
	})

	Describe("empty roots", func() {
		It("yields empty groups at every level without error", func() {
			groups, err := resolver.ResolveUsers(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(4))
			for _, g := range groups {
				Expect(g.Members).To(BeEmpty())
			}

			groups, err = resolver.ResolveClients(ctx, []*client.Client{})
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(3))
			for _, g := range groups {
				Expect(g.Members).To(BeEmpty())
			}
		})
	})

	Describe("ResolveClients", func() {
		It("reports contracts and their events", func() {
			groups, err := resolver.ResolveClients(ctx, []*client.Client{acme})
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(3))
			Expect(groups[0].IDs()).To(Equal([]int64{acme.ID}))
			Expect(groups[1].IDs()).To(Equal([]int64{deal.ID}))
			Expect(groups[2].IDs()).To(Equal([]int64{launch.ID}))
		})
	})

	Describe("ResolveContracts", func() {
		It("reports the events under the contracts", func() {
			groups, err := resolver.ResolveContracts(ctx, []*contract.Contract{deal})
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(2))
			Expect(groups[1].Title).To(Equal(cascade.TitleEvents))
			Expect(groups[1].IDs()).To(Equal([]int64{launch.ID}))
		})
	})

	Describe("Render", func() {
		It("prints titles, headers and rows", func() {
			groups, err := resolver.ResolveContracts(ctx, []*contract.Contract{deal})
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(cascade.Render(&buf, groups)).To(Succeed())
			out := buf.String()
			Expect(out).To(ContainSubstring("CONTRACTS (1)"))
			Expect(out).To(ContainSubstring("EVENTS (1)"))
			Expect(out).To(ContainSubstring("Launch"))
			Expect(out).To(ContainSubstring("1000.00"))
			Expect(cascade.Total(groups)).To(Equal(1))
		})

		It("marks empty groups", func() {
			groups, err := resolver.ResolveEvents(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(cascade.Render(&buf, groups)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("EVENTS (0)"))
			Expect(buf.String()).To(ContainSubstring("none"))
		})
	})
})

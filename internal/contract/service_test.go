package contract_test

import (
	"context"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/contract"
	clientDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	contractDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/crmtest"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/frahmantamala/epic-crm/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Service", func() {
	var (
		ctx        context.Context
		fx         *crmtest.Fixture
		svc        *contract.Service
		salesA     *user.User
		salesB     *user.User
		accounting *user.User
		support    *user.User
		clientA    *clientDatamodel.Client
		clientB    *clientDatamodel.Client
	)

	amount := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		fx, err = crmtest.New()
		Expect(err).NotTo(HaveOccurred())

		svc = contract.NewService(
			crud.NewManager[contractDatamodel.Contract](fx.DB, "contract"),
			crud.NewManager[clientDatamodel.Client](fx.DB, "client"),
			fx.Gate, fx.Resolver, fx.Events, logger.Discard())

		salesA, err = fx.User("a@epic.io", user.RoleSales)
		Expect(err).NotTo(HaveOccurred())
		salesB, err = fx.User("b@epic.io", user.RoleSales)
		Expect(err).NotTo(HaveOccurred())
		accounting, err = fx.User("acc@epic.io", user.RoleAccounting)
		Expect(err).NotTo(HaveOccurred())
		support, err = fx.User("sup@epic.io", user.RoleSupport)
		Expect(err).NotTo(HaveOccurred())
		clientA, err = fx.Client("ca@co.io", "+1", salesA)
		Expect(err).NotTo(HaveOccurred())
		clientB, err = fx.Client("cb@co.io", "+2", salesB)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(fx.Close()).To(Succeed())
	})

	Describe("Create", func() {
		It("copies the sales contact from the client", func() {
			created, err := svc.Create(ctx, crmtest.As(accounting), contract.CreateContractDTO{
				ClientID:    clientB.ID,
				TotalAmount: amount("1500.50"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.SalesContactID).To(Equal(salesB.ID))
			Expect(created.AmountDue.Equal(amount("1500.50"))).To(BeTrue())
			Expect(fx.Events.Types()).To(Equal([]string{"crm.contract.created"}))
		})

		It("lets a sales user open a contract on an owned client", func() {
			due := amount("200")
			created, err := svc.Create(ctx, crmtest.As(salesA), contract.CreateContractDTO{
				ClientID:    clientA.ID,
				TotalAmount: amount("1000"),
				AmountDue:   &due,
				IsSigned:    true,
			})
			Expect(err).NotTo(HaveOccurred())

			found, err := svc.Find(ctx, crmtest.As(support), created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.IsSigned).To(BeTrue())
			Expect(found.AmountDue.Equal(due)).To(BeTrue())
		})

		It("refuses a sales user on another seller's client", func() {
			_, err := svc.Create(ctx, crmtest.As(salesA), contract.CreateContractDTO{
				ClientID:    clientB.ID,
				TotalAmount: amount("10"),
			})
			Expect(internal.HasErrorCode(err, internal.ErrCodeNotOwner)).To(BeTrue())

			contracts, err := svc.List(ctx, crmtest.As(accounting))
			Expect(err).NotTo(HaveOccurred())
			Expect(contracts).To(BeEmpty())
		})

		It("reports a missing client as not found", func() {
			_, err := svc.Create(ctx, crmtest.As(accounting), contract.CreateContractDTO{
				ClientID:    999,
				TotalAmount: amount("10"),
			})
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
			Expect(internal.HasErrorCode(err, internal.ErrCodeClientNotFound)).To(BeTrue())
		})

		It("is denied to support", func() {
			_, err := svc.Create(ctx, crmtest.As(support), contract.CreateContractDTO{
				ClientID:    clientA.ID,
				TotalAmount: amount("10"),
			})
			Expect(internal.HasErrorCode(err, internal.ErrCodeRoleNotAllowed)).To(BeTrue())
		})

		It("rejects negative amounts and a due above the total", func() {
			due := amount("20")
			_, err := svc.Create(ctx, crmtest.As(accounting), contract.CreateContractDTO{
				ClientID:    clientA.ID,
				TotalAmount: amount("10"),
				AmountDue:   &due,
			})
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())

			_, err = svc.Create(ctx, crmtest.As(accounting), contract.CreateContractDTO{
				ClientID:    clientA.ID,
				TotalAmount: amount("-1"),
			})
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})
	})

	Describe("filters", func() {
		var signedPaid, unsignedOwed *contractDatamodel.Contract

		BeforeEach(func() {
			var err error
			signedPaid, err = fx.Contract(clientA, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(fx.DB.Model(signedPaid).Update("amount_due", decimal.Zero).Error).To(Succeed())
			unsignedOwed, err = fx.Contract(clientB, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists unsigned contracts", func() {
			contracts, err := svc.Unsigned(ctx, crmtest.As(accounting))
			Expect(err).NotTo(HaveOccurred())
			Expect(contracts).To(HaveLen(1))
			Expect(contracts[0].ID).To(Equal(unsignedOwed.ID))
		})

		It("lists unpaid contracts", func() {
			contracts, err := svc.Unpaid(ctx, crmtest.As(salesA))
			Expect(err).NotTo(HaveOccurred())
			Expect(contracts).To(HaveLen(1))
			Expect(contracts[0].ID).To(Equal(unsignedOwed.ID))
		})

		It("lists the caller's own contracts", func() {
			contracts, err := svc.Mine(ctx, crmtest.As(salesA))
			Expect(err).NotTo(HaveOccurred())
			Expect(contracts).To(HaveLen(1))
			Expect(contracts[0].ID).To(Equal(signedPaid.ID))
		})

		It("keeps the filters away from support", func() {
			_, err := svc.Unsigned(ctx, crmtest.As(support))
			Expect(internal.HasErrorCode(err, internal.ErrCodeRoleNotAllowed)).To(BeTrue())
		})
	})

	Describe("Update and Delete", func() {
		var owned, foreign *contractDatamodel.Contract

		BeforeEach(func() {
			var err error
			owned, err = fx.Contract(clientA, false)
			Expect(err).NotTo(HaveOccurred())
			foreign, err = fx.Contract(clientB, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets the owner sign a contract", func() {
			signed := true
			Expect(svc.Update(ctx, crmtest.As(salesA), crud.ByID(owned.ID), contract.UpdateContractDTO{IsSigned: &signed})).To(Succeed())

			found, err := svc.Find(ctx, crmtest.As(salesA), owned.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.IsSigned).To(BeTrue())
		})

		It("leaves another seller's contract untouched", func() {
			signed := true
			err := svc.Update(ctx, crmtest.As(salesA), crud.ByID(foreign.ID), contract.UpdateContractDTO{IsSigned: &signed})
			Expect(internal.HasErrorCode(err, internal.ErrCodeNotOwner)).To(BeTrue())

			found, err := svc.Find(ctx, crmtest.As(salesB), foreign.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.IsSigned).To(BeFalse())
			Expect(fx.Events.Types()).To(BeEmpty())
		})

		It("lets accounting record a payment on any contract", func() {
			due := amount("0")
			Expect(svc.Update(ctx, crmtest.As(accounting), crud.ByID(foreign.ID), contract.UpdateContractDTO{AmountDue: &due})).To(Succeed())

			found, err := svc.Find(ctx, crmtest.As(accounting), foreign.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.IsFullyPaid()).To(BeTrue())
		})

		It("refuses a due above the stored total", func() {
			due := amount("5000")
			err := svc.Update(ctx, crmtest.As(accounting), crud.ByID(owned.ID), contract.UpdateContractDTO{AmountDue: &due})
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("deletes a contract with its events", func() {
			_, err := fx.Event(owned, support)
			Expect(err).NotTo(HaveOccurred())

			groups, err := svc.PreviewDelete(ctx, crmtest.As(salesA), crud.ByID(owned.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(2))
			Expect(groups[1].Len()).To(Equal(1))

			Expect(svc.Delete(ctx, crmtest.As(salesA), crud.ByID(owned.ID))).To(Succeed())
			_, err = svc.Find(ctx, crmtest.As(salesA), owned.ID)
			Expect(internal.HasErrorCode(err, internal.ErrCodeContractNotFound)).To(BeTrue())
		})

		It("refuses to delete another seller's contract", func() {
			err := svc.Delete(ctx, crmtest.As(salesA), crud.ByID(foreign.ID))
			Expect(internal.HasErrorCode(err, internal.ErrCodeNotOwner)).To(BeTrue())
		})
	})
})

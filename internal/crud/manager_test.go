package crud_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/frahmantamala/epic-crm/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Manager", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		manager *crud.Manager[userDatamodel.User]
	)

	newUser := func(email string, role userDatamodel.Role) *userDatamodel.User {
		return &userDatamodel.User{
			FirstName:    "Test",
			LastName:     "User",
			Email:        email,
			PasswordHash: "hash",
			Role:         role,
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = storage.OpenMemory()
		Expect(err).NotTo(HaveOccurred())
		Expect(datamodel.Migrate(db)).To(Succeed())
		manager = crud.NewManager[userDatamodel.User](db, "user")
	})

	AfterEach(func() {
		Expect(storage.Close(db)).To(Succeed())
	})

	Describe("Create and Lookup", func() {
		It("returns the persisted record with an assigned id", func() {
			created, err := manager.Create(ctx, newUser("anna@epic.io", userDatamodel.RoleSales))
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))

			found, err := manager.Lookup(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found.Email).To(Equal("anna@epic.io"))
			Expect(found.Role).To(Equal(userDatamodel.RoleSales))
		})

		It("returns nil without error for an unknown id", func() {
			found, err := manager.Lookup(ctx, 404)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("reports a duplicate unique value as an integrity violation", func() {
			_, err := manager.Create(ctx, newUser("dup@epic.io", userDatamodel.RoleSales))
			Expect(err).NotTo(HaveOccurred())

			_, err = manager.Create(ctx, newUser("dup@epic.io", userDatamodel.RoleSupport))
			Expect(err).To(HaveOccurred())
			Expect(internal.IsErrorType(err, internal.ErrorTypeConflict)).To(BeTrue())
			Expect(internal.HasErrorCode(err, internal.ErrCodeIntegrityViolation)).To(BeTrue())
		})
	})

	Describe("Get", func() {
		BeforeEach(func() {
			for _, u := range []*userDatamodel.User{
				newUser("a@epic.io", userDatamodel.RoleSales),
				newUser("b@epic.io", userDatamodel.RoleSupport),
				newUser("c@epic.io", userDatamodel.RoleSales),
			} {
				_, err := manager.Create(ctx, u)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("filters by predicate in id order", func() {
			sales, err := manager.Get(ctx, crud.Where("role = ?", userDatamodel.RoleSales))
			Expect(err).NotTo(HaveOccurred())
			Expect(sales).To(HaveLen(2))
			Expect(sales[0].Email).To(Equal("a@epic.io"))
			Expect(sales[1].Email).To(Equal("c@epic.io"))
		})

		It("returns an empty slice when nothing matches", func() {
			none, err := manager.Get(ctx, crud.Where("role = ?", userDatamodel.RoleAccounting))
			Expect(err).NotTo(HaveOccurred())
			Expect(none).NotTo(BeNil())
			Expect(none).To(BeEmpty())
		})

		It("matches nothing for an empty id list", func() {
			none, err := manager.Get(ctx, crud.In("id", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(none).To(BeEmpty())
		})

		It("returns everything from GetAll", func() {
			all, err := manager.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
		})
	})

	Describe("Update", func() {
		var id int64

		BeforeEach(func() {
			created, err := manager.Create(ctx, newUser("u@epic.io", userDatamodel.RoleSales))
			Expect(err).NotTo(HaveOccurred())
			id = created.ID
		})

		It("leaves nil fields untouched", func() {
			var missing *string
			first := "Renamed"
			Expect(manager.Update(ctx, crud.ByID(id), crud.Fields{
				"first_name": &first,
				"last_name":  missing,
				"email":      nil,
			})).To(Succeed())

			found, err := manager.Lookup(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.FirstName).To(Equal("Renamed"))
			Expect(found.LastName).To(Equal("User"))
			Expect(found.Email).To(Equal("u@epic.io"))
		})

		It("is a no-op when every field is nil", func() {
			Expect(manager.Update(ctx, crud.ByID(id), crud.Fields{"email": nil})).To(Succeed())
		})

		It("does not write when the check fails", func() {
			denied := errors.New("denied")
			err := manager.UpdateChecked(ctx, crud.ByID(id), func([]*userDatamodel.User) error {
				return denied
			}, crud.Fields{"first_name": "Nope"})
			Expect(err).To(HaveOccurred())

			found, err := manager.Lookup(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.FirstName).To(Equal("Test"))
		})

		It("passes application errors from the check through unchanged", func() {
			notOwner := internal.NewForbiddenError("not yours", internal.ErrCodeNotOwner)
			err := manager.UpdateChecked(ctx, crud.ByID(id), func([]*userDatamodel.User) error {
				return notOwner
			}, crud.Fields{"first_name": "Nope"})
			Expect(internal.HasErrorCode(err, internal.ErrCodeNotOwner)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("is idempotent", func() {
			created, err := manager.Create(ctx, newUser("gone@epic.io", userDatamodel.RoleSupport))
			Expect(err).NotTo(HaveOccurred())

			Expect(manager.Delete(ctx, crud.ByID(created.ID))).To(Succeed())
			Expect(manager.Delete(ctx, crud.ByID(created.ID))).To(Succeed())

			found, err := manager.Lookup(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("keeps records when the check fails", func() {
			created, err := manager.Create(ctx, newUser("kept@epic.io", userDatamodel.RoleSupport))
			Expect(err).NotTo(HaveOccurred())

			err = manager.DeleteChecked(ctx, crud.ByID(created.ID), func(records []*userDatamodel.User) error {
				Expect(records).To(HaveLen(1))
				return errors.New("denied")
			})
			Expect(err).To(HaveOccurred())

			all, err := manager.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
		})
	})
})

var _ = Describe("Fields", func() {
	It("drops nil values and dereferences pointers", func() {
		var nilName *string
		name := "Ada"
		compact := crud.Fields{"a": nil, "b": nilName, "c": &name, "d": 3}.Compact()
		Expect(compact).To(Equal(map[string]any{"c": "Ada", "d": 3}))
	})

	It("is empty when nothing is set", func() {
		var nilName *string
		Expect(crud.Fields{"a": nilName}.IsEmpty()).To(BeTrue())
	})
})

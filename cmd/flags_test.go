package cmd

import (
	"bytes"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	clientDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Flag parsing", func() {
	It("accepts positive ids only", func() {
		id, err := parseID("42")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(int64(42)))

		for _, arg := range []string{"0", "-3", "abc"} {
			_, err := parseID(arg)
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue(), arg)
		}
	})

	It("leaves unset amounts alone", func() {
		amount, err := parseAmount("total", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(amount).To(BeNil())

		amount, err = parseAmount("total", "1500.50")
		Expect(err).NotTo(HaveOccurred())
		Expect(amount.Equal(decimal.RequireFromString("1500.5"))).To(BeTrue())

		_, err = parseAmount("total", "lots")
		Expect(err).To(HaveOccurred())
		appErr, ok := internal.AsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details).To(Equal(internal.ValidationErrors{Errors: []internal.ValidationError{
			{Field: "total", Message: `"lots" is not an amount`, Code: string(internal.ErrCodeInvalidAmount)},
		}}))
	})

	It("reads dates as local wall clock", func() {
		when, err := parseDate("start", "2026-06-01 18:30")
		Expect(err).NotTo(HaveOccurred())
		Expect(*when).To(Equal(time.Date(2026, 6, 1, 18, 30, 0, 0, time.Local)))

		when, err = parseDate("start", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(when).To(BeNil())

		_, err = parseDate("start", "01/06/2026")
		Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
	})

	It("maps empty strings to untouched fields", func() {
		Expect(optional("")).To(BeNil())
		Expect(*optional("x")).To(Equal("x"))
	})
})

var _ = Describe("confirmDelete", func() {
	It("skips an empty selection without asking", func() {
		var out bytes.Buffer
		groups := []cascade.Group{cascade.NewGroup[clientDatamodel.Client](cascade.TitleClients, clientDatamodel.Headers, nil)}
		ok, err := confirmDelete(&out, groups, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(out.String()).To(ContainSubstring("nothing to delete"))
	})

	It("prints the preview and proceeds with --yes", func() {
		var out bytes.Buffer
		c := &clientDatamodel.Client{ID: 7, FullName: "Kevin Casey", Email: "kevin@startup.io"}
		groups := []cascade.Group{cascade.NewGroup(cascade.TitleClients, clientDatamodel.Headers, []*clientDatamodel.Client{c})}
		ok, err := confirmDelete(&out, groups, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(out.String()).To(ContainSubstring("Kevin Casey"))
	})
})

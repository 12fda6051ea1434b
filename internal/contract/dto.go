package contract

import (
	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/common/validation"
	contractDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/shopspring/decimal"
)

// CreateContractDTO omits the sales contact: it is always copied from the
// client. A nil AmountDue defaults to the total amount.
type CreateContractDTO struct {
	ClientID    int64            `json:"client_id"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	AmountDue   *decimal.Decimal `json:"amount_due"`
	IsSigned    bool             `json:"is_signed"`
}

func (d CreateContractDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("client_id", d.ClientID).Required()
	v.Field("total_amount", d.TotalAmount).NonNegative()
	v.Optional("amount_due", d.AmountDue).NonNegative().Custom(notAbove(d.TotalAmount))
	return v.Validate()
}

func (d CreateContractDTO) amountDue() decimal.Decimal {
	if d.AmountDue == nil {
		return d.TotalAmount
	}
	return *d.AmountDue
}

type UpdateContractDTO struct {
	TotalAmount *decimal.Decimal `json:"total_amount"`
	AmountDue   *decimal.Decimal `json:"amount_due"`
	IsSigned    *bool            `json:"is_signed"`
}

func (d UpdateContractDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Optional("total_amount", d.TotalAmount).NonNegative()
	due := v.Optional("amount_due", d.AmountDue).NonNegative()
	if d.TotalAmount != nil {
		due.Custom(notAbove(*d.TotalAmount))
	}
	return v.Validate()
}

// checkAmounts rejects an update that would leave any contract owing more
// than its total.
func (d UpdateContractDTO) checkAmounts(contracts []*contractDatamodel.Contract) error {
	for _, k := range contracts {
		total, due := k.TotalAmount, k.AmountDue
		if d.TotalAmount != nil {
			total = *d.TotalAmount
		}
		if d.AmountDue != nil {
			due = *d.AmountDue
		}
		if err := notAbove(total)(due); err != nil {
			return err
		}
	}
	return nil
}

func notAbove(total decimal.Decimal) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		if due, ok := value.(decimal.Decimal); ok && due.GreaterThan(total) {
			return internal.NewValidationFieldError("amount_due",
				"amount_due cannot exceed total_amount", internal.ErrCodeInvalidAmount)
		}
		return nil
	}
}

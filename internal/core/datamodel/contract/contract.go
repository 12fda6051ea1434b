package contract

import (
	"strconv"
	"time"

	"github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/shopspring/decimal"
)

type Contract struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	AmountDue      decimal.Decimal `gorm:"column:amount_due;type:numeric(12,2);not null" json:"amount_due"`
	IsSigned       bool            `gorm:"column:is_signed;not null;default:false" json:"is_signed"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	ClientID       int64           `gorm:"column:client_id;not null;index" json:"client_id"`
	Client         *client.Client  `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	SalesContactID int64           `gorm:"column:sales_contact_id;not null;index" json:"sales_contact_id"`
	SalesContact   *user.User      `gorm:"foreignKey:SalesContactID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Contract) TableName() string {
	return "contracts"
}

var Headers = []string{"ID", "CREATED", "TOTAL", "DUE", "SIGNED", "CLIENT", "SALES CONTACT"}

func (c *Contract) RecordID() int64 {
	return c.ID
}

func (c *Contract) IsFullyPaid() bool {
	return !c.AmountDue.IsPositive()
}

func (c *Contract) Row() []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		c.CreatedAt.Format(time.DateOnly),
		c.TotalAmount.StringFixed(2),
		c.AmountDue.StringFixed(2),
		strconv.FormatBool(c.IsSigned),
		strconv.FormatInt(c.ClientID, 10),
		strconv.FormatInt(c.SalesContactID, 10),
	}
}

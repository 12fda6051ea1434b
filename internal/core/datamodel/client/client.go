package client

import (
	"strconv"
	"time"

	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
)

type Client struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	FullName       string     `gorm:"column:full_name;not null" json:"full_name"`
	Email          string     `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Phone          string     `gorm:"column:phone;uniqueIndex;not null" json:"phone"`
	CompanyName    string     `gorm:"column:company_name" json:"company_name"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	SalesContactID int64      `gorm:"column:sales_contact_id;not null;index" json:"sales_contact_id"`
	SalesContact   *user.User `gorm:"foreignKey:SalesContactID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}

var Headers = []string{"ID", "FULL NAME", "EMAIL", "PHONE", "COMPANY", "CREATED", "LAST UPDATE", "SALES CONTACT"}

func (c *Client) RecordID() int64 {
	return c.ID
}

func (c *Client) Row() []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		c.FullName,
		c.Email,
		c.Phone,
		c.CompanyName,
		c.CreatedAt.Format(time.DateOnly),
		c.UpdatedAt.Format(time.DateTime),
		strconv.FormatInt(c.SalesContactID, 10),
	}
}

package event

import (
	"strconv"
	"time"

	"github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
)

type Event struct {
	ID               int64              `gorm:"primaryKey" json:"id"`
	Name             string             `gorm:"column:name;not null" json:"name"`
	StartDate        time.Time          `gorm:"column:start_date;not null" json:"start_date"`
	EndDate          time.Time          `gorm:"column:end_date;not null" json:"end_date"`
	Location         string             `gorm:"column:location" json:"location"`
	Attendees        int                `gorm:"column:attendees;not null;default:0" json:"attendees"`
	Notes            string             `gorm:"column:notes" json:"notes"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	ContractID       int64              `gorm:"column:contract_id;not null;index" json:"contract_id"`
	Contract         *contract.Contract `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"-"`
	ClientID         int64              `gorm:"column:client_id;not null;index" json:"client_id"`
	Client           *client.Client     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	SupportContactID *int64             `gorm:"column:support_contact_id;index" json:"support_contact_id"`
	SupportContact   *user.User         `gorm:"foreignKey:SupportContactID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

var Headers = []string{"ID", "NAME", "START", "END", "LOCATION", "ATTENDEES", "NOTES", "CONTRACT", "CLIENT", "SUPPORT CONTACT"}

func (e *Event) RecordID() int64 {
	return e.ID
}

func (e *Event) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}

func (e *Event) IsAssigned() bool {
	return e.SupportContactID != nil
}

func (e *Event) Row() []string {
	support := "-"
	if e.SupportContactID != nil {
		support = strconv.FormatInt(*e.SupportContactID, 10)
	}
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.Name,
		e.StartDate.Format(time.DateTime),
		e.EndDate.Format(time.DateTime),
		e.Location,
		strconv.Itoa(e.Attendees),
		e.Notes,
		strconv.FormatInt(e.ContractID, 10),
		strconv.FormatInt(e.ClientID, 10),
		support,
	}
}

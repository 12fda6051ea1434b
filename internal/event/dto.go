package event

import (
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/common/validation"
	eventDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
)

// CreateEventDTO has no client id; it is taken from the contract.
type CreateEventDTO struct {
	ContractID       int64     `json:"contract_id"`
	Name             string    `json:"name"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Location         string    `json:"location"`
	Attendees        int       `json:"attendees"`
	Notes            string    `json:"notes"`
	SupportContactID *int64    `json:"support_contact_id"`
}

func (d CreateEventDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("contract_id", d.ContractID).Required()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("start_date", d.StartDate).Required()
	v.Field("end_date", d.EndDate).Required().NotBefore(d.StartDate, "start_date")
	v.Field("location", d.Location).MaxLength(255)
	v.Field("attendees", d.Attendees).MinInt(0, internal.ErrCodeValidationFailed)
	return v.Validate()
}

type UpdateEventDTO struct {
	Name             *string    `json:"name"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	Location         *string    `json:"location"`
	Attendees        *int       `json:"attendees"`
	Notes            *string    `json:"notes"`
	SupportContactID *int64     `json:"support_contact_id"`
}

func (d UpdateEventDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Optional("name", d.Name).Required().MaxLength(200)
	v.Optional("location", d.Location).MaxLength(255)
	v.Optional("attendees", d.Attendees).MinInt(0, internal.ErrCodeValidationFailed)
	end := v.Optional("end_date", d.EndDate)
	if d.StartDate != nil {
		end.NotBefore(*d.StartDate, "start_date")
	}
	return v.Validate()
}

// checkDates applies a partial schedule change to every selected event and
// rejects it when any would end before it starts.
func (d UpdateEventDTO) checkDates(events []*eventDatamodel.Event) error {
	if d.StartDate == nil && d.EndDate == nil {
		return nil
	}
	for _, e := range events {
		start, end := e.StartDate, e.EndDate
		if d.StartDate != nil {
			start = *d.StartDate
		}
		if d.EndDate != nil {
			end = *d.EndDate
		}
		if end.Before(start) {
			return internal.NewValidationFieldError("end_date",
				"end_date cannot be before start_date", internal.ErrCodeInvalidDate)
		}
	}
	return nil
}

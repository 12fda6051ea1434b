package client

import (
	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/common/validation"
)

type CreateClientDTO struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

func (d CreateClientDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("full_name", d.FullName).Required().MaxLength(200)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("phone", d.Phone).Required().MaxLength(30)
	v.Field("company_name", d.CompanyName).MaxLength(200)
	return v.Validate()
}

// UpdateClientDTO carries a partial update. The sales contact cannot be
// changed through it.
type UpdateClientDTO struct {
	FullName    *string `json:"full_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"company_name"`
}

func (d UpdateClientDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Optional("full_name", d.FullName).Required().MaxLength(200)
	v.Optional("email", d.Email).Required().Email().MaxLength(255)
	v.Optional("phone", d.Phone).Required().MaxLength(30)
	v.Optional("company_name", d.CompanyName).MaxLength(200)
	return v.Validate()
}

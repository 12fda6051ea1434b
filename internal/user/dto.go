package user

import (
	"fmt"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
)

const minPasswordLength = 8

type CreateUserDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("role", d.Role).Required().Custom(validRole)
	return v.Validate()
}

// UpdateUserDTO carries a partial update; nil fields are left as they are.
type UpdateUserDTO struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
}

func (d UpdateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Optional("first_name", d.FirstName).Required().MaxLength(100)
	v.Optional("last_name", d.LastName).Required().MaxLength(100)
	v.Optional("email", d.Email).Required().Email().MaxLength(255)
	v.Optional("password", d.Password).MinLength(minPasswordLength)
	v.Optional("role", d.Role).Custom(validRole)
	return v.Validate()
}

func validRole(value interface{}) *internal.AppError {
	s, _ := value.(string)
	if _, err := userDatamodel.ParseRole(s); err != nil {
		return internal.NewValidationFieldError("role",
			fmt.Sprintf("role must be one of %v", userDatamodel.Roles), internal.ErrCodeInvalidRole)
	}
	return nil
}

package user

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RoleSales      Role = "sales"
	RoleAccounting Role = "accounting"
	RoleSupport    Role = "support"
)

var Roles = []Role{RoleSales, RoleAccounting, RoleSupport}

// roleAliases keeps the French department names accepted by older seeds
// and scripts.
var roleAliases = map[string]Role{
	"sales":      RoleSales,
	"commercial": RoleSales,
	"accounting": RoleAccounting,
	"gestion":    RoleAccounting,
	"management": RoleAccounting,
	"support":    RoleSupport,
}

func ParseRole(s string) (Role, error) {
	if r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) Title() string {
	return strings.ToUpper(string(r))
}

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string    `gorm:"column:last_name;not null" json:"last_name"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         Role      `gorm:"column:role;type:varchar(20);not null;index" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

var Headers = []string{"ID", "EMAIL", "FULL NAME", "ROLE"}

func (u *User) RecordID() int64 {
	return u.ID
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) Row() []string {
	return []string{strconv.FormatInt(u.ID, 10), u.Email, u.FullName(), u.Role.Title()}
}

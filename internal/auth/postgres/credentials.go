package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Repository reads user rows for authentication and role checks.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.take(ctx, "email = ?", email)
}

func (r *Repository) FindUserByID(ctx context.Context, id int64) (*user.User, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *Repository) take(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where(query, arg).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

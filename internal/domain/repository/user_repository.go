package repository

import (
	"context"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios de tenant.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

package user

import (
	"context"

	"github.com/VitaminP8/pulse/internal/model"
)

type UserStorage interface {
	CreateUser(ctx context.Context, u *model.User, passwordHash string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error)
	// GetCredentialsByEmail возвращает пользователя и хэш пароля
	GetCredentialsByEmail(ctx context.Context, email string) (*model.User, string, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error)
}

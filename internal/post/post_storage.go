package post

import (
	"context"

	"github.com/VitaminP8/pulse/internal/model"
)

type PostStorage interface {
	CreatePost(ctx context.Context, authorID uint, content string) (*model.Post, error)
	GetPostByID(ctx context.Context, id uint) (*model.Post, error)
	// ListByAuthors возвращает посты авторов от новых к старым (при равном времени - по убыванию id)
	ListByAuthors(ctx context.Context, authorIDs []uint, limit int) ([]*model.Post, error)
	RecentPosts(ctx context.Context, limit int) ([]*model.Post, error)
	TouchPost(ctx context.Context, id uint) error
}

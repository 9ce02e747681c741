package comment

import (
	"context"

	"github.com/VitaminP8/pulse/internal/model"
)

type CommentStorage interface {
	CreateComment(ctx context.Context, authorID, postID uint, content string) (*model.Comment, error)
	GetComments(ctx context.Context, postID uint) ([]*model.Comment, error)
	CountByPost(ctx context.Context, postID uint) (int, error)
	RecentComments(ctx context.Context, limit int) ([]*model.Comment, error)
}

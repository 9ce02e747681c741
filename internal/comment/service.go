package comment

import (
	"context"
	"strings"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/internal/user"
)

type Service struct {
	comments CommentStorage
	users    user.UserStorage
}

func NewService(comments CommentStorage, users user.UserStorage) *Service {
	return &Service{
		comments: comments,
		users:    users,
	}
}

// CreateComment добавляет комментарий к существующему посту и возвращает его с автором
func (s *Service) CreateComment(ctx context.Context, actorID, postID uint, content string) (*model.Comment, error) {
	const op = "comment.CreateComment"

	if actorID == auth.Anonymous {
		return nil, apperr.Unauthorized(op, "authentication required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidArgument(op, "content is required")
	}

	c, err := s.comments.CreateComment(ctx, actorID, postID, content)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.NotFound(op, "post not found")
	}
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	author, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	c.User = author.Summary()
	return c, nil
}

// WithAuthors проставляет авторов комментариям одним запросом к пользователям
func WithAuthors(ctx context.Context, users user.UserStorage, comments []*model.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range comments {
		c.User = authors[c.AuthorID].Summary()
	}
	return nil
}

package post

import (
	"context"
	"strings"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/comment"
	"github.com/VitaminP8/pulse/internal/engagement"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/internal/user"
)

type Service struct {
	engine   *engagement.Engine
	posts    PostStorage
	comments comment.CommentStorage
	users    user.UserStorage
}

func NewService(engine *engagement.Engine, posts PostStorage, comments comment.CommentStorage, users user.UserStorage) *Service {
	return &Service{
		engine:   engine,
		posts:    posts,
		comments: comments,
		users:    users,
	}
}

// CreatePost сохраняет пост и возвращает его в форме элемента ленты с нулевыми счетчиками
func (s *Service) CreatePost(ctx context.Context, actorID uint, content string) (*model.FeedItem, error) {
	const op = "post.CreatePost"

	if actorID == auth.Anonymous {
		return nil, apperr.Unauthorized(op, "authentication required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidArgument(op, "content is required")
	}

	author, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	p, err := s.posts.CreatePost(ctx, actorID, content)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return engagement.NewItem(p, author), nil
}

// GetPost - пост с аннотациями зрителя и всеми комментариями, от новых к старым.
// Анонимный зритель допускается, isLiked для него всегда false.
func (s *Service) GetPost(ctx context.Context, viewerID, postID uint) (*model.PostDetail, error) {
	const op = "post.GetPost"

	p, err := s.posts.GetPostByID(ctx, postID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.NotFound(op, "post not found")
	}
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	authors, err := s.users.GetUsersByIDs(ctx, []uint{p.AuthorID})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	items, err := s.engine.Annotate(ctx, viewerID, []*model.Post{p}, authors)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	comments, err := s.comments.GetComments(ctx, postID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if err := comment.WithAuthors(ctx, s.users, comments); err != nil {
		return nil, apperr.Wrap(op, err)
	}

	return &model.PostDetail{
		FeedItem: *items[0],
		Comments: comments,
	}, nil
}

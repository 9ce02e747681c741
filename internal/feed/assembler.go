// Package feed собирает ленту зрителя: свои посты и посты тех, на кого он подписан.
package feed

import (
	"context"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/edge"
	"github.com/VitaminP8/pulse/internal/engagement"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/internal/post"
	"github.com/VitaminP8/pulse/internal/user"
)

const (
	DefaultLimit = 20
	// MaxLimit ограничивает размер страницы: каждый пост ленты стоит нескольких запросов к хранилищу
	MaxLimit = 100
)

type Assembler struct {
	engine       *engagement.Engine
	posts        post.PostStorage
	users        user.UserStorage
	defaultLimit int
}

func NewAssembler(engine *engagement.Engine, posts post.PostStorage, users user.UserStorage) *Assembler {
	return &Assembler{
		engine:       engine,
		posts:        posts,
		users:        users,
		defaultLimit: DefaultLimit,
	}
}

// WithDefaultLimit задает размер ленты, если вызывающий не указал limit
func (a *Assembler) WithDefaultLimit(limit int) *Assembler {
	if limit > 0 {
		a.defaultLimit = min(limit, MaxLimit)
	}
	return a
}

// AssembleFeed возвращает limit последних постов зрителя и его прямых подписок,
// от новых к старым. Подписки только первого уровня.
func (a *Assembler) AssembleFeed(ctx context.Context, viewerID uint, limit int) ([]*model.FeedItem, error) {
	const op = "feed.AssembleFeed"

	if viewerID == auth.Anonymous {
		return nil, apperr.Unauthorized(op, "authentication required")
	}
	if limit <= 0 {
		limit = a.defaultLimit
	}
	limit = min(limit, MaxLimit)

	followed, err := a.engine.Targets(ctx, edge.Follow, viewerID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	authorIDs := visibleAuthors(viewerID, followed)

	posts, err := a.posts.ListByAuthors(ctx, authorIDs, limit)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if len(posts) == 0 {
		return []*model.FeedItem{}, nil
	}

	authors, err := a.users.GetUsersByIDs(ctx, authorsOf(posts))
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	items, err := a.engine.Annotate(ctx, viewerID, posts, authors)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return items, nil
}

// authorsOf - авторы постов страницы, без повторов, в порядке первого появления
func authorsOf(posts []*model.Post) []uint {
	seen := make(map[uint]struct{}, len(posts))
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}
	return ids
}

// visibleAuthors - сам зритель и его подписки, без повторов
func visibleAuthors(viewerID uint, followed []uint) []uint {
	ids := make([]uint, 0, len(followed)+1)
	ids = append(ids, viewerID)
	for _, id := range followed {
		if id != viewerID {
			ids = append(ids, id)
		}
	}
	return ids
}

// Package profile собирает профиль пользователя и короткую карточку для превью
// с точки зрения зрителя. Обе формы считают связи одним и тем же способом.
package profile

import (
	"context"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/edge"
	"github.com/VitaminP8/pulse/internal/engagement"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/internal/post"
	"github.com/VitaminP8/pulse/internal/user"
	"golang.org/x/sync/errgroup"
)

const DefaultPostLimit = 10

type Aggregator struct {
	engine    *engagement.Engine
	posts     post.PostStorage
	users     user.UserStorage
	postLimit int
}

func NewAggregator(engine *engagement.Engine, posts post.PostStorage, users user.UserStorage) *Aggregator {
	return &Aggregator{
		engine:    engine,
		posts:     posts,
		users:     users,
		postLimit: DefaultPostLimit,
	}
}

func (a *Aggregator) WithPostLimit(limit int) *Aggregator {
	if limit > 0 {
		a.postLimit = limit
	}
	return a
}

// relations - подписчики и подписка зрителя на субъекта
type relations struct {
	followers   int
	following   int
	isFollowing bool
}

// relationState считает связи субъекта; following нужен только полному профилю
func (a *Aggregator) relationState(ctx context.Context, viewerID, subjectID uint, withFollowing bool) (*relations, error) {
	var state relations
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := a.engine.Count(gctx, edge.Follow, subjectID)
		state.followers = n
		return err
	})
	g.Go(func() error {
		ok, err := a.engine.IsPresent(gctx, edge.Follow, viewerID, subjectID)
		state.isFollowing = ok
		return err
	})
	if withFollowing {
		g.Go(func() error {
			n, err := a.engine.CountByActor(gctx, edge.Follow, subjectID)
			state.following = n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &state, nil
}

func (a *Aggregator) subject(ctx context.Context, op string, viewerID, subjectID uint) (*model.User, error) {
	if viewerID == auth.Anonymous {
		return nil, apperr.Unauthorized(op, "authentication required")
	}
	u, err := a.users.GetUserByID(ctx, subjectID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.NotFound(op, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return u, nil
}

// AssembleProfile возвращает профиль subjectID: счетчики связей, подписан ли зритель
// и последние посты субъекта с аннотациями зрителя. limit <= 0 - значение по умолчанию.
func (a *Aggregator) AssembleProfile(ctx context.Context, viewerID, subjectID uint, limit int) (*model.Profile, error) {
	const op = "profile.AssembleProfile"

	u, err := a.subject(ctx, op, viewerID, subjectID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = a.postLimit
	}

	var (
		state *relations
		items []*model.FeedItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		state, err = a.relationState(gctx, viewerID, subjectID, true)
		return err
	})
	g.Go(func() error {
		posts, err := a.posts.ListByAuthors(gctx, []uint{subjectID}, limit)
		if err != nil {
			return err
		}
		items, err = a.engine.Annotate(gctx, viewerID, posts, map[uint]*model.User{u.ID: u})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(op, err)
	}

	return &model.Profile{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		AvatarURL:      u.AvatarURL,
		Bio:            u.Bio,
		FollowersCount: state.followers,
		FollowingCount: state.following,
		IsFollowing:    state.isFollowing,
		Posts:          items,
	}, nil
}

// AssembleHoverSummary - облегченный профиль для всплывающей карточки
func (a *Aggregator) AssembleHoverSummary(ctx context.Context, viewerID, subjectID uint) (*model.HoverSummary, error) {
	const op = "profile.AssembleHoverSummary"

	u, err := a.subject(ctx, op, viewerID, subjectID)
	if err != nil {
		return nil, err
	}

	state, err := a.relationState(ctx, viewerID, subjectID, false)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	return &model.HoverSummary{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		AvatarURL:      u.AvatarURL,
		Bio:            u.Bio,
		FollowersCount: state.followers,
		IsFollowing:    state.isFollowing,
	}, nil
}

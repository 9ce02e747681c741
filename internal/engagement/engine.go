// Package engagement - переключатель ребер (follow/like) и единственный источник
// подсчетов вовлеченности. Счетчики не хранятся: это всегда COUNT по живым ребрам.
package engagement

import (
	"context"
	"fmt"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/comment"
	"github.com/VitaminP8/pulse/internal/edge"
	"github.com/VitaminP8/pulse/internal/model"
)

type Engine struct {
	edges    edge.EdgeStorage
	comments comment.CommentStorage
}

func NewEngine(edges edge.EdgeStorage, comments comment.CommentStorage) *Engine {
	return &Engine{
		edges:    edges,
		comments: comments,
	}
}

// Toggle инвертирует наличие ребра (actorID, targetID) в отношении rel и возвращает
// новое состояние и число ребер цели после переключения. Все шаги выполняются
// в одной транзакции; конфликт сериализации возвращается как Conflict без повторов.
func (e *Engine) Toggle(ctx context.Context, rel edge.Relation, actorID, targetID uint) (*model.ToggleResult, error) {
	const op = "engagement.Toggle"

	if actorID == auth.Anonymous {
		return nil, apperr.Unauthorized(op, "authentication required")
	}
	if !rel.Valid() {
		return nil, apperr.InvalidArgument(op, fmt.Sprintf("unknown relation %q", rel))
	}

	var result model.ToggleResult
	err := e.edges.InTx(ctx, func(tx edge.EdgeTx) error {
		ok, err := tx.TargetExists(ctx, rel, targetID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound(op, targetName(rel)+" not found")
		}

		present, err := tx.Exists(ctx, rel, actorID, targetID)
		if err != nil {
			return err
		}
		if present {
			err = tx.Delete(ctx, rel, actorID, targetID)
		} else {
			err = tx.Insert(ctx, rel, actorID, targetID)
		}
		if err != nil {
			return err
		}
		result.Present = !present

		if err := tx.Touch(ctx, rel, targetID); err != nil {
			return err
		}

		result.Count, err = tx.CountByTarget(ctx, rel, targetID)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return &result, nil
}

// Count - число ребер rel, указывающих на targetID (подписчики, лайки)
func (e *Engine) Count(ctx context.Context, rel edge.Relation, targetID uint) (int, error) {
	count, err := e.edges.CountByTarget(ctx, rel, targetID)
	if err != nil {
		return 0, apperr.Wrap("engagement.Count", err)
	}
	return count, nil
}

// CountByActor - число ребер rel, исходящих от actorID (подписки)
func (e *Engine) CountByActor(ctx context.Context, rel edge.Relation, actorID uint) (int, error) {
	count, err := e.edges.CountByActor(ctx, rel, actorID)
	if err != nil {
		return 0, apperr.Wrap("engagement.CountByActor", err)
	}
	return count, nil
}

// IsPresent проверяет ребро. У анонимного актора ребер нет, запрос не выполняется.
func (e *Engine) IsPresent(ctx context.Context, rel edge.Relation, actorID, targetID uint) (bool, error) {
	if actorID == auth.Anonymous {
		return false, nil
	}
	ok, err := e.edges.Exists(ctx, rel, actorID, targetID)
	if err != nil {
		return false, apperr.Wrap("engagement.IsPresent", err)
	}
	return ok, nil
}

func (e *Engine) Targets(ctx context.Context, rel edge.Relation, actorID uint) ([]uint, error) {
	targets, err := e.edges.TargetsOf(ctx, rel, actorID)
	if err != nil {
		return nil, apperr.Wrap("engagement.Targets", err)
	}
	return targets, nil
}

func (e *Engine) CommentCount(ctx context.Context, postID uint) (int, error) {
	count, err := e.comments.CountByPost(ctx, postID)
	if err != nil {
		return 0, apperr.Wrap("engagement.CommentCount", err)
	}
	return count, nil
}

// Annotate превращает посты в элементы ленты: автор, число лайков и комментариев,
// лайкнул ли пост зритель. Порядок постов сохраняется.
func (e *Engine) Annotate(ctx context.Context, viewerID uint, posts []*model.Post, authors map[uint]*model.User) ([]*model.FeedItem, error) {
	items := make([]*model.FeedItem, 0, len(posts))
	for _, p := range posts {
		item, err := e.annotate(ctx, viewerID, p)
		if err != nil {
			return nil, err
		}
		item.User = authors[p.AuthorID].Summary()
		items = append(items, item)
	}
	return items, nil
}

func (e *Engine) annotate(ctx context.Context, viewerID uint, p *model.Post) (*model.FeedItem, error) {
	likes, err := e.Count(ctx, edge.Like, p.ID)
	if err != nil {
		return nil, err
	}
	comments, err := e.CommentCount(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	liked, err := e.IsPresent(ctx, edge.Like, viewerID, p.ID)
	if err != nil {
		return nil, err
	}

	return &model.FeedItem{
		ID:           p.ID,
		Content:      p.Content,
		CreatedAt:    p.CreatedAt,
		LikeCount:    likes,
		CommentCount: comments,
		IsLiked:      liked,
	}, nil
}

// NewItem - свежесозданный пост в той же форме, что и элементы ленты, с нулевой вовлеченностью
func NewItem(p *model.Post, author *model.User) *model.FeedItem {
	return &model.FeedItem{
		ID:        p.ID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		User:      author.Summary(),
	}
}

func targetName(rel edge.Relation) string {
	if rel == edge.Follow {
		return "user"
	}
	return "post"
}

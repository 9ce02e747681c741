// Package trend считает популярные хэштеги в самом свежем контенте: посты и
// комментарии образуют одну ленту по времени создания.
package trend

import (
	"context"
	"sort"
	"time"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/comment"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/internal/post"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSampleSize = 5
	DefaultTopK       = 5
)

type Extractor struct {
	posts    post.PostStorage
	comments comment.CommentStorage
}

func NewExtractor(posts post.PostStorage, comments comment.CommentStorage) *Extractor {
	return &Extractor{
		posts:    posts,
		comments: comments,
	}
}

// item - запись общей ленты постов и комментариев
type item struct {
	id        uint
	isPost    bool
	content   string
	createdAt time.Time
}

// ExtractTrends берет sampleSize самых новых записей общей ленты и возвращает topK токенов
// по числу записей, в которых они встречаются; при равенстве - по токену. Нет хэштегов - пустой срез.
func (e *Extractor) ExtractTrends(ctx context.Context, sampleSize, topK int) ([]*model.Trend, error) {
	const op = "trend.ExtractTrends"

	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	var (
		posts    []*model.Post
		comments []*model.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = e.posts.RecentPosts(gctx, sampleSize)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = e.comments.RecentComments(gctx, sampleSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(op, err)
	}

	return rank(recentItems(posts, comments, sampleSize), topK), nil
}

// recentItems сливает посты и комментарии и оставляет limit самых новых
func recentItems(posts []*model.Post, comments []*model.Comment, limit int) []item {
	items := make([]item, 0, len(posts)+len(comments))
	for _, p := range posts {
		items = append(items, item{id: p.ID, isPost: true, content: p.Content, createdAt: p.CreatedAt})
	}
	for _, c := range comments {
		items = append(items, item{id: c.ID, content: c.Content, createdAt: c.CreatedAt})
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.After(b.createdAt)
		}
		if a.isPost != b.isPost {
			return a.isPost
		}
		return a.id > b.id
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func rank(items []item, topK int) []*model.Trend {
	counts := make(map[string]int)
	for _, it := range items {
		for _, token := range ExtractHashtags(it.content) {
			counts[token]++
		}
	}

	trends := make([]*model.Trend, 0, len(counts))
	for token, count := range counts {
		trends = append(trends, &model.Trend{Hashtag: token, Count: count})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Count != trends[j].Count {
			return trends[i].Count > trends[j].Count
		}
		return trends[i].Hashtag < trends[j].Hashtag
	})

	if len(trends) > topK {
		trends = trends[:topK]
	}
	return trends
}

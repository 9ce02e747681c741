package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/internal/post"
)

type CommentMemoryStorage struct {
	mu          sync.Mutex
	comments    map[uint]*model.Comment
	nextID      uint
	postStorage post.PostStorage // Хранилище постов (внедрение зависимости (DI))
	now         func() time.Time
}

func NewCommentMemoryStorage(postStore post.PostStorage) *CommentMemoryStorage {
	return &CommentMemoryStorage{
		comments:    make(map[uint]*model.Comment),
		nextID:      1,
		postStorage: postStore,
		now:         time.Now,
	}
}

func (s *CommentMemoryStorage) WithClock(now func() time.Time) *CommentMemoryStorage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
	return s
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, authorID, postID uint, content string) (*model.Comment, error) {
	if _, err := s.postStorage.GetPostByID(ctx, postID); err != nil {
		return nil, apperr.Wrap("CreateComment", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := &model.Comment{
		ID:        s.nextID,
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.nextID++

	s.comments[c.ID] = c
	result := *c
	return &result, nil
}

// GetComments возвращает комментарии поста от новых к старым
func (s *CommentMemoryStorage) GetComments(ctx context.Context, postID uint) ([]*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var comments []*model.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	return newestComments(comments, 0), nil
}

func (s *CommentMemoryStorage) CountByPost(ctx context.Context, postID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, c := range s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (s *CommentMemoryStorage) RecentComments(ctx context.Context, limit int) ([]*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := make([]*model.Comment, 0, len(s.comments))
	for _, c := range s.comments {
		copied := *c
		comments = append(comments, &copied)
	}
	return newestComments(comments, limit), nil
}

func newestComments(comments []*model.Comment, limit int) []*model.Comment {
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments
}

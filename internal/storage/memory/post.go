package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/model"
)

type PostMemoryStorage struct {
	mu     sync.Mutex
	posts  map[uint]*model.Post
	nextID uint
	now    func() time.Time
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:  make(map[uint]*model.Post),
		nextID: 1,
		now:    time.Now,
	}
}

// WithClock подменяет источник времени (для тестов упорядочивания)
func (s *PostMemoryStorage) WithClock(now func() time.Time) *PostMemoryStorage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
	return s
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, authorID uint, content string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := &model.Post{
		ID:        s.nextID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++

	s.posts[p.ID] = p
	result := *p
	return &result, nil
}

func (s *PostMemoryStorage) GetPostByID(ctx context.Context, id uint) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, apperr.NotFound("GetPostByID", "post not found")
	}
	result := *p
	return &result, nil
}

func (s *PostMemoryStorage) ListByAuthors(ctx context.Context, authorIDs []uint, limit int) ([]*model.Post, error) {
	authors := make(map[uint]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var posts []*model.Post
	for _, p := range s.posts {
		if _, ok := authors[p.AuthorID]; ok {
			copied := *p
			posts = append(posts, &copied)
		}
	}
	return newestPosts(posts, limit), nil
}

func (s *PostMemoryStorage) RecentPosts(ctx context.Context, limit int) ([]*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]*model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		copied := *p
		posts = append(posts, &copied)
	}
	return newestPosts(posts, limit), nil
}

func (s *PostMemoryStorage) TouchPost(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return apperr.NotFound("TouchPost", "post not found")
	}
	p.UpdatedAt = s.now()
	return nil
}

// newestPosts сортирует по CreatedAt по убыванию (при равенстве - по ID по убыванию) и обрезает до limit
func newestPosts(posts []*model.Post, limit int) []*model.Post {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts
}

package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/model"
)

type MockPostStorage struct {
	mu    sync.Mutex
	posts map[uint]*model.Post
	Err   error
	Calls int
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts: make(map[uint]*model.Post),
	}
}

func (m *MockPostStorage) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockPostStorage) call() error {
	m.Calls++
	return m.Err
}

func (m *MockPostStorage) CreatePost(ctx context.Context, authorID uint, content string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	id := uint(len(m.posts) + 1)
	now := time.Now()
	post := &model.Post{ID: id, AuthorID: authorID, Content: content, CreatedAt: now, UpdatedAt: now}
	m.posts[id] = post
	return post, nil
}

func (m *MockPostStorage) GetPostByID(ctx context.Context, id uint) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	post, ok := m.posts[id]
	if !ok {
		return nil, apperr.NotFound("GetPostByID", "post not found")
	}
	return post, nil
}

func (m *MockPostStorage) ListByAuthors(ctx context.Context, authorIDs []uint, limit int) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	posts := []*model.Post{}
	for _, p := range m.posts {
		for _, id := range authorIDs {
			if p.AuthorID == id {
				posts = append(posts, p)
				break
			}
		}
	}
	return posts, nil
}

func (m *MockPostStorage) RecentPosts(ctx context.Context, limit int) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	return posts, nil
}

func (m *MockPostStorage) TouchPost(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.call()
}

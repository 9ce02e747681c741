package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/VitaminP8/pulse/internal/model"
)

type MockCommentStorage struct {
	mu       sync.Mutex
	comments []*model.Comment
	Err      error
	Calls    int
}

func NewMockCommentStorage() *MockCommentStorage {
	return &MockCommentStorage{}
}

func (m *MockCommentStorage) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockCommentStorage) call() error {
	m.Calls++
	return m.Err
}

func (m *MockCommentStorage) CreateComment(ctx context.Context, authorID, postID uint, content string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	c := &model.Comment{
		ID:        uint(len(m.comments) + 1),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	m.comments = append(m.comments, c)
	return c, nil
}

func (m *MockCommentStorage) GetComments(ctx context.Context, postID uint) ([]*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	result := []*model.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCommentStorage) CountByPost(ctx context.Context, postID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return 0, err
	}

	count := 0
	for _, c := range m.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (m *MockCommentStorage) RecentComments(ctx context.Context, limit int) ([]*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	result := make([]*model.Comment, len(m.comments))
	copy(result, m.comments)
	return result, nil
}

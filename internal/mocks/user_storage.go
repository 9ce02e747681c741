package mocks

import (
	"context"
	"sync"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/model"
)

type MockUserStorage struct {
	mu        sync.Mutex
	users     map[uint]*model.User
	passwords map[uint]string
	Err       error
	Calls     int
}

func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:     make(map[uint]*model.User),
		passwords: make(map[uint]string),
	}
}

func (m *MockUserStorage) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockUserStorage) call() error {
	m.Calls++
	return m.Err
}

func (m *MockUserStorage) CreateUser(ctx context.Context, u *model.User, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, apperr.Conflict("CreateUser", "user already exists", nil)
		}
	}
	created := *u
	created.ID = uint(len(m.users) + 1)
	m.users[created.ID] = &created
	m.passwords[created.ID] = passwordHash
	return &created, nil
}

func (m *MockUserStorage) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("GetUserByID", "user not found")
	}
	return u, nil
}

func (m *MockUserStorage) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}

	result := make(map[uint]*model.User)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (m *MockUserStorage) GetCredentialsByEmail(ctx context.Context, email string) (*model.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, "", err
	}

	for id, u := range m.users {
		if u.Email == email {
			return u, m.passwords[id], nil
		}
	}
	return nil, "", apperr.NotFound("GetCredentialsByEmail", "user not found")
}

func (m *MockUserStorage) SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}
	return []*model.User{}, nil
}

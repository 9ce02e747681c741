package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/model"
)

type UserMemoryStorage struct {
	mu        sync.Mutex
	users     map[uint]*model.User
	passwords map[uint]string
	nextID    uint
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:     make(map[uint]*model.User),
		passwords: make(map[uint]string),
		nextID:    1,
	}
}

func (s *UserMemoryStorage) CreateUser(ctx context.Context, u *model.User, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return nil, apperr.Conflict("CreateUser", "username already exists", nil)
		}
		if existing.Email == u.Email {
			return nil, apperr.Conflict("CreateUser", "email already exists", nil)
		}
	}

	created := *u
	created.ID = s.nextID
	s.nextID++

	s.users[created.ID] = &created
	s.passwords[created.ID] = passwordHash

	result := created
	return &result, nil
}

func (s *UserMemoryStorage) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return nil, apperr.NotFound("GetUserByID", "user not found")
	}
	result := *u
	return &result, nil
}

func (s *UserMemoryStorage) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[uint]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			copied := *u
			result[id] = &copied
		}
	}
	return result, nil
}

func (s *UserMemoryStorage) GetCredentialsByEmail(ctx context.Context, email string) (*model.User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if u.Email == email {
			result := *u
			return &result, s.passwords[id], nil
		}
	}
	return nil, "", apperr.NotFound("GetCredentialsByEmail", "user not found")
}

// SearchUsers - регистронезависимый поиск подстроки в username
func (s *UserMemoryStorage) SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	found := []*model.User{}
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), needle) {
			copied := *u
			found = append(found, &copied)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].ID < found[j].ID
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

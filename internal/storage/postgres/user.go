package postgres

import (
	"context"
	"strings"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/models"
)

type UserPostgresStorage struct{}

func NewUserPostgresStorage() *UserPostgresStorage {
	return &UserPostgresStorage{}
}

func toUser(u *models.User) *model.User {
	return &model.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
	}
}

func (s *UserPostgresStorage) CreateUser(ctx context.Context, u *model.User, passwordHash string) (*model.User, error) {
	// проверка - существует ли такой пользователь
	var count int
	err := DB.Model(&models.User{}).
		Where("username = ? OR email = ?", u.Username, u.Email).
		Count(&count).Error
	if err != nil {
		return nil, translate("CreateUser", err)
	}
	if count > 0 {
		return nil, apperr.Conflict("CreateUser", "username or email already exists", nil)
	}

	row := &models.User{
		Username:  u.Username,
		Email:     u.Email,
		Password:  passwordHash,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
	}
	if err := DB.Create(row).Error; err != nil {
		return nil, translate("CreateUser", err)
	}

	return toUser(row), nil
}

func (s *UserPostgresStorage) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var u models.User
	if err := DB.First(&u, id).Error; err != nil {
		return nil, translate("GetUserByID", err)
	}
	return toUser(&u), nil
}

func (s *UserPostgresStorage) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	result := make(map[uint]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []models.User
	if err := DB.Where("id IN (?)", ids).Find(&users).Error; err != nil {
		return nil, translate("GetUsersByIDs", err)
	}
	for i := range users {
		result[users[i].ID] = toUser(&users[i])
	}
	return result, nil
}

func (s *UserPostgresStorage) GetCredentialsByEmail(ctx context.Context, email string) (*model.User, string, error) {
	var u models.User
	if err := DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, "", translate("GetCredentialsByEmail", err)
	}
	return toUser(&u), u.Password, nil
}

// SearchUsers - регистронезависимый поиск подстроки (LOWER(..) LIKE работает и в postgres, и в sqlite)
func (s *UserPostgresStorage) SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	db := DB.Where("LOWER(username) LIKE ? ESCAPE '\\'", pattern).Order("id")
	if limit > 0 {
		db = db.Limit(limit)
	}

	var users []models.User
	err := db.Find(&users).Error
	if err != nil {
		return nil, translate("SearchUsers", err)
	}

	results := make([]*model.User, 0, len(users))
	for i := range users {
		results = append(results, toUser(&users[i]))
	}
	return results, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

package user

import (
	"context"
	"strings"
	"time"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSearchLimit = 10

type Service struct {
	users     UserStorage
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(users UserStorage, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register создает пользователя с bcrypt-хэшем пароля и сразу выдает токен
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	const op = "user.Register"

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Username == "" || in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, "", apperr.InvalidArgument(op, "username, email, password and fullName are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal(op, "failed to hash password", err)
	}

	u, err := s.users.CreateUser(ctx, &model.User{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
	}, string(hashedPassword))
	if err != nil {
		return nil, "", apperr.Wrap(op, err)
	}

	token, err := auth.IssueToken(s.jwtSecret, s.tokenTTL, u.ID, u.Username)
	if err != nil {
		return nil, "", apperr.Internal(op, "failed to issue token", err)
	}
	return u, token, nil
}

// Login проверяет пароль и возвращает токен. Неизвестный email и неверный пароль неразличимы.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	const op = "user.Login"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", apperr.InvalidArgument(op, "email and password are required")
	}

	u, hash, err := s.users.GetCredentialsByEmail(ctx, email)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, "", apperr.Unauthorized(op, "invalid email or password")
	}
	if err != nil {
		return nil, "", apperr.Wrap(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorized(op, "invalid email or password")
	}

	token, err := auth.IssueToken(s.jwtSecret, s.tokenTTL, u.ID, u.Username)
	if err != nil {
		return nil, "", apperr.Internal(op, "failed to issue token", err)
	}
	return u, token, nil
}

// Me возвращает текущего пользователя; для анонима и удаленного пользователя - nil без ошибки
func (s *Service) Me(ctx context.Context, callerID uint) (*model.User, error) {
	if callerID == auth.Anonymous {
		return nil, nil
	}
	u, err := s.users.GetUserByID(ctx, callerID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap("user.Me", err)
	}
	return u, nil
}

// SearchUsers ищет по подстроке имени без учета регистра. Пустой запрос - пустой результат.
func (s *Service) SearchUsers(ctx context.Context, query string, limit int) ([]*model.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*model.UserSummary{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	users, err := s.users.SearchUsers(ctx, query, limit)
	if err != nil {
		return nil, apperr.Wrap("user.SearchUsers", err)
	}

	result := make([]*model.UserSummary, 0, len(users))
	for _, u := range users {
		result = append(result, u.Summary())
	}
	return result, nil
}

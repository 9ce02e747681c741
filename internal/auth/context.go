// internal/auth/context.go
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

type contextKey string

const userIDKey = contextKey("userID")

// Anonymous - идентификатор вызывающего без аутентификации (id в БД начинаются с 1)
const Anonymous uint = 0

// Сохраняет userID в контексте
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Достает userID из контекста
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	val := ctx.Value(userIDKey)
	id, ok := val.(uint)
	if !ok || id == Anonymous {
		return 0, errors.New("user ID not found in context")
	}
	return id, nil
}

// ViewerFromContext возвращает id вызывающего или Anonymous.
// Ядро получает этот id явным параметром и никогда не читает контекст само.
func ViewerFromContext(ctx context.Context) uint {
	id, err := GetUserIDFromContext(ctx)
	if err != nil {
		return Anonymous
	}
	return id
}

// Middleware извлекает userID из JWT и помещает его в context запроса.
// Невалидный или отсутствующий токен не прерывает запрос - вызывающий остается анонимным.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenStr == "" {
			c.Next()
			return
		}

		userID, err := ParseToken(secret, tokenStr)
		if err != nil {
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

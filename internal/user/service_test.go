package user

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestService() (*Service, *mocks.MockUserStorage) {
	store := mocks.NewMockUserStorage()
	return NewService(store, testSecret, time.Hour), store
}

func registerInput(username string) RegisterInput {
	return RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		FullName: "Test " + username,
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	t.Run("Successful registration", func(t *testing.T) {
		u, token, err := service.Register(ctx, registerInput("alice"))
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "alice", u.Username)

		userID, err := auth.ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, userID)
	})

	t.Run("Duplicate user", func(t *testing.T) {
		_, _, err := service.Register(ctx, registerInput("alice"))
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("Missing fields", func(t *testing.T) {
		in := registerInput("bob")
		in.FullName = "   "
		_, _, err := service.Register(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

		in = registerInput("bob")
		in.Password = ""
		_, _, err = service.Register(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	registered, _, err := service.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	t.Run("Successful login", func(t *testing.T) {
		u, token, err := service.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)

		userID, err := auth.ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, userID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := service.Login(ctx, "alice@example.com", "wrong")
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, _, err := service.Login(ctx, "nobody@example.com", "password123")
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	})

	t.Run("Missing credentials", func(t *testing.T) {
		_, _, err := service.Login(ctx, "", "password123")
		assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	})

	t.Run("Store unavailable", func(t *testing.T) {
		service, store := newTestService()
		store.Err = apperr.Unavailable("GetCredentialsByEmail", "connection refused", nil)

		_, _, err := service.Login(ctx, "alice@example.com", "password123")
		assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	})
}

func TestService_Me(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	registered, _, err := service.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	u, err := service.Me(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	u, err = service.Me(ctx, auth.Anonymous)
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = service.Me(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestService_SearchUsers(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()

	users, err := service.SearchUsers(ctx, "  ", 0)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
	assert.Equal(t, 0, store.CallCount())

	_, err = service.SearchUsers(ctx, "ali", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, store.CallCount())
}

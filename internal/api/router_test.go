package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/comment"
	"github.com/VitaminP8/pulse/internal/engagement"
	"github.com/VitaminP8/pulse/internal/feed"
	"github.com/VitaminP8/pulse/internal/middleware"
	"github.com/VitaminP8/pulse/internal/mocks"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/internal/post"
	"github.com/VitaminP8/pulse/internal/profile"
	"github.com/VitaminP8/pulse/internal/storage/memory"
	"github.com/VitaminP8/pulse/internal/trend"
	"github.com/VitaminP8/pulse/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	users := memory.NewUserMemoryStorage()
	posts := memory.NewPostMemoryStorage()
	comments := memory.NewCommentMemoryStorage(posts)
	edges := memory.NewEdgeMemoryStorage(users, posts)
	engine := engagement.NewEngine(edges, comments)

	h := &Handler{
		Engine:          engine,
		Feed:            feed.NewAssembler(engine, posts, users),
		Profiles:        profile.NewAggregator(engine, posts, users),
		Trends:          trend.NewExtractor(posts, comments),
		Posts:           post.NewService(engine, posts, comments, users),
		Comments:        comment.NewService(comments, users),
		Users:           user.NewService(users, testSecret, time.Hour),
		Metrics:         middleware.NewMetrics("pulse"),
		Log:             zap.NewNop(),
		TrendSampleSize: 5,
		TrendTopK:       5,
	}
	router := NewRouter(h, RouterConfig{
		JWTSecret: testSecret,
		Breaker:   middleware.DefaultBreakerConfig("api"),
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signup регистрирует пользователя и возвращает его id и токен
func (s *testServer) signup(username string) (uint, string) {
	w := s.do(http.MethodPost, "/api/signup", user.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		FullName: "Test " + username,
	}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func (s *testServer) createPost(token, content string) model.FeedItem {
	w := s.do(http.MethodPost, "/api/posts", gin.H{"content": content}, token)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var item model.FeedItem
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &item))
	return item
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	aliceID, token := s.signup("alice")

	t.Run("Duplicate signup", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/signup", user.RegisterInput{
			Username: "alice", Email: "alice@example.com", Password: "x", FullName: "A",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Signup with missing fields", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/signup", gin.H{"username": "bob"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Login", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/login", gin.H{"email": "alice@example.com", "password": "password123"}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
		}
		decode(t, w, &resp)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/login", gin.H{"email": "alice@example.com", "password": "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid email or password"}`, w.Body.String())
	})

	t.Run("Me", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			User *model.User `json:"user"`
		}
		decode(t, w, &resp)
		require.NotNil(t, resp.User)
		assert.Equal(t, aliceID, resp.User.ID)
	})

	t.Run("Me anonymous", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/me", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":null}`, w.Body.String())
	})

	t.Run("Invalid token is anonymous", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/feed", nil, "garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestFeedAndEngagement(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.signup("alice")
	bobID, bobToken := s.signup("bob")
	_, carolToken := s.signup("carol")

	bobPost := s.createPost(bobToken, "hello from #bob")
	s.createPost(carolToken, "carol was here")
	alicePost := s.createPost(aliceToken, "alice #go")
	assert.Equal(t, 0, alicePost.LikeCount)
	assert.Equal(t, "alice", alicePost.User.Username)

	t.Run("Anonymous feed", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/feed", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Follow", func(t *testing.T) {
		w := s.do(http.MethodPost, fmt.Sprintf("/api/follow/%d", bobID), nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"isFollowing":true,"followersCount":1}`, w.Body.String())
	})

	t.Run("Feed shows own and followed posts", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/feed", nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)

		var items []model.FeedItem
		decode(t, w, &items)
		require.Len(t, items, 2)
		assert.Equal(t, alicePost.ID, items[0].ID)
		assert.Equal(t, bobPost.ID, items[1].ID)
	})

	t.Run("Feed limit", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/feed?limit=1", nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)

		var items []model.FeedItem
		decode(t, w, &items)
		assert.Len(t, items, 1)

		w = s.do(http.MethodGet, "/api/feed?limit=abc", nil, aliceToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Like toggles", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts/%d/like", bobPost.ID)

		w := s.do(http.MethodPost, path, nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"action":"liked","isLiked":true,"likeCount":1}`, w.Body.String())

		w = s.do(http.MethodPost, path, nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"action":"unliked","isLiked":false,"likeCount":0}`, w.Body.String())

		w = s.do(http.MethodPost, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(http.MethodPost, "/api/posts/999/like", nil, aliceToken)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(http.MethodPost, "/api/posts/abc/like", nil, aliceToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Comments and post detail", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts/%d/comments", bobPost.ID)

		w := s.do(http.MethodPost, path, gin.H{"content": "#bob rocks"}, aliceToken)
		require.Equal(t, http.StatusCreated, w.Code)
		var created model.Comment
		decode(t, w, &created)
		assert.Equal(t, "alice", created.User.Username)

		w = s.do(http.MethodPost, path, gin.H{"content": "  "}, aliceToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(http.MethodPost, "/api/posts/999/comments", gin.H{"content": "lost"}, aliceToken)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", bobPost.ID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var detail model.PostDetail
		decode(t, w, &detail)
		assert.Equal(t, 1, detail.CommentCount)
		require.Len(t, detail.Comments, 1)
		assert.False(t, detail.IsLiked)

		w = s.do(http.MethodGet, "/api/posts/999", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Trending topics", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/trending-topics", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var trends []model.Trend
		decode(t, w, &trends)
		require.NotEmpty(t, trends)
		assert.Equal(t, model.Trend{Hashtag: "#bob", Count: 2}, trends[0])
	})

	t.Run("Blank post", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/posts", gin.H{"content": ""}, aliceToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup("alice")
	bobID, bobToken := s.signup("bob")
	s.createPost(aliceToken, "first")

	w := s.do(http.MethodPost, fmt.Sprintf("/api/follow/%d", aliceID), nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("Profile", func(t *testing.T) {
		w := s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", aliceID), nil, bobToken)
		require.Equal(t, http.StatusOK, w.Code)

		var p model.Profile
		decode(t, w, &p)
		assert.Equal(t, "alice", p.Username)
		assert.Equal(t, 1, p.FollowersCount)
		assert.Equal(t, 0, p.FollowingCount)
		assert.True(t, p.IsFollowing)
		assert.Len(t, p.Posts, 1)
	})

	t.Run("Hover", func(t *testing.T) {
		w := s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/hover", aliceID), nil, bobToken)
		require.Equal(t, http.StatusOK, w.Code)

		var hover model.HoverSummary
		decode(t, w, &hover)
		assert.Equal(t, 1, hover.FollowersCount)
		assert.True(t, hover.IsFollowing)
	})

	t.Run("Unknown user", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/users/999", nil, bobToken)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(http.MethodPost, "/api/follow/999", nil, bobToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Anonymous profile", func(t *testing.T) {
		w := s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Search", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/users/search?username=ALI", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Users []model.UserSummary `json:"users"`
		}
		decode(t, w, &resp)
		require.Len(t, resp.Users, 1)
		assert.Equal(t, aliceID, resp.Users[0].ID)

		w = s.do(http.MethodGet, "/api/users/search", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"users":[]}`, w.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/health", nil, "")

	w := s.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pulse_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestUnavailableStore(t *testing.T) {
	edges := mocks.NewMockEdgeStorage()
	edges.Err = apperr.Unavailable("InTx", "store unavailable", nil)
	posts := mocks.NewMockPostStorage()
	commentStore := mocks.NewMockCommentStorage()
	users := mocks.NewMockUserStorage()
	engine := engagement.NewEngine(edges, commentStore)

	h := &Handler{
		Engine:  engine,
		Feed:    feed.NewAssembler(engine, posts, users),
		Users:   user.NewService(users, testSecret, time.Hour),
		Metrics: middleware.NewMetrics("pulse"),
		Log:     zap.NewNop(),
	}
	cfg := middleware.DefaultBreakerConfig("api")
	// регистрация проходит успешно, затем три отказа: 3 из 4
	cfg.MinRequests = 4
	cfg.FailureThreshold = 0.75
	s := &testServer{t: t, router: NewRouter(h, RouterConfig{JWTSecret: testSecret, Breaker: cfg})}

	_, token := s.signup("alice")

	for i := 0; i < 3; i++ {
		w := s.do(http.MethodGet, "/api/feed", nil, token)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"store unavailable"}`, w.Body.String())
	}

	// предохранитель разомкнут, хранилище больше не опрашивается
	calls := edges.CallCount()
	w := s.do(http.MethodGet, "/api/feed", nil, token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, calls, edges.CallCount())
}

func TestPublicMessage(t *testing.T) {
	err := apperr.Wrap("feed", apperr.NotFound("store", "post not found"))
	assert.Equal(t, "post not found", publicMessage(err))
	assert.Equal(t, "internal server error", publicMessage(apperr.Internal("db", "secret details", nil)))
	assert.Equal(t, http.StatusConflict, statusFor(apperr.KindConflict))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(apperr.KindUnavailable))
	assert.Equal(t, http.StatusRequestTimeout, statusFor(apperr.KindCanceled))
	assert.Equal(t, "request canceled", publicMessage(apperr.Canceled("InTx", context.Canceled)))
}

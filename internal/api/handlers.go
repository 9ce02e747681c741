package api

import (
	"net/http"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/edge"
	"github.com/VitaminP8/pulse/internal/user"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type contentRequest struct {
	Content string `json:"content"`
}

func viewer(c *gin.Context) uint {
	return auth.ViewerFromContext(c.Request.Context())
}

func (h *Handler) Signup(c *gin.Context) {
	var in user.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperr.InvalidArgument("api.Signup", "invalid request body"))
		return
	}

	u, token, err := h.Users.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

func (h *Handler) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperr.InvalidArgument("api.Login", "invalid request body"))
		return
	}

	u, token, err := h.Users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.Users.Me(c.Request.Context(), viewer(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) GetFeed(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		h.fail(c, err)
		return
	}

	items, err := h.Feed.AssembleFeed(c.Request.Context(), viewer(c), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var in contentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperr.InvalidArgument("api.CreatePost", "invalid request body"))
		return
	}

	item, err := h.Posts.CreatePost(c.Request.Context(), viewer(c), in.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetPost(c *gin.Context) {
	postID, err := parseID(c, "postId")
	if err != nil {
		h.fail(c, err)
		return
	}

	detail, err := h.Posts.GetPost(c.Request.Context(), viewer(c), postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) ToggleLike(c *gin.Context) {
	postID, err := parseID(c, "postId")
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.Engine.Toggle(c.Request.Context(), edge.Like, viewer(c), postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Metrics.ObserveToggle(string(edge.Like), result.Present)

	action := "unliked"
	if result.Present {
		action = "liked"
	}
	c.JSON(http.StatusOK, gin.H{
		"action":    action,
		"isLiked":   result.Present,
		"likeCount": result.Count,
	})
}

func (h *Handler) CreateComment(c *gin.Context) {
	postID, err := parseID(c, "postId")
	if err != nil {
		h.fail(c, err)
		return
	}
	var in contentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperr.InvalidArgument("api.CreateComment", "invalid request body"))
		return
	}

	created, err := h.Comments.CreateComment(c.Request.Context(), viewer(c), postID, in.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ToggleFollow(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.Engine.Toggle(c.Request.Context(), edge.Follow, viewer(c), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Metrics.ObserveToggle(string(edge.Follow), result.Present)

	c.JSON(http.StatusOK, gin.H{
		"isFollowing":    result.Present,
		"followersCount": result.Count,
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		h.fail(c, err)
		return
	}

	p, err := h.Profiles.AssembleProfile(c.Request.Context(), viewer(c), userID, 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetHoverSummary(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		h.fail(c, err)
		return
	}

	summary, err := h.Profiles.AssembleHoverSummary(c.Request.Context(), viewer(c), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) SearchUsers(c *gin.Context) {
	users, err := h.Users.SearchUsers(c.Request.Context(), c.Query("username"), 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) TrendingTopics(c *gin.Context) {
	trends, err := h.Trends.ExtractTrends(c.Request.Context(), h.TrendSampleSize, h.TrendTopK)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

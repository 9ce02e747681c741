package model

import "time"

type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
	Bio       string `json:"bio"`
}

// Summary - короткое представление автора для ленты и комментариев
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

type Post struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Comment struct {
	ID        uint         `json:"id"`
	PostID    uint         `json:"postId"`
	AuthorID  uint         `json:"authorId"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	User      *UserSummary `json:"user,omitempty"`
}

// FeedItem - пост с аннотациями вовлеченности с точки зрения конкретного зрителя
type FeedItem struct {
	ID           uint         `json:"id"`
	Content      string       `json:"content"`
	CreatedAt    time.Time    `json:"createdAt"`
	User         *UserSummary `json:"user,omitempty"`
	LikeCount    int          `json:"likeCount"`
	CommentCount int          `json:"commentCount"`
	IsLiked      bool         `json:"isLiked"`
}

type PostDetail struct {
	FeedItem
	Comments []*Comment `json:"comments"`
}

type Profile struct {
	ID             uint        `json:"id"`
	Username       string      `json:"username"`
	FullName       string      `json:"fullName"`
	AvatarURL      string      `json:"avatarUrl"`
	Bio            string      `json:"bio"`
	FollowersCount int         `json:"followersCount"`
	FollowingCount int         `json:"followingCount"`
	IsFollowing    bool        `json:"isFollowing"`
	Posts          []*FeedItem `json:"posts"`
}

type HoverSummary struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	AvatarURL      string `json:"avatarUrl"`
	Bio            string `json:"bio"`
	FollowersCount int    `json:"followersCount"`
	IsFollowing    bool   `json:"isFollowing"`
}

type Trend struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// ToggleResult - состояние ребра после переключения и мощность отношения для цели
type ToggleResult struct {
	Present bool `json:"present"`
	Count   int  `json:"count"`
}

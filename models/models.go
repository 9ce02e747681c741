package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

type User struct {
	gorm.Model
	Username  string `gorm:"unique;not null"`
	Email     string `gorm:"unique;not null"`
	Password  string
	FullName  string
	AvatarURL string
	Bio       string
	Posts     []Post    `gorm:"foreignkey:UserID"`
	Comments  []Comment `gorm:"foreignkey:UserID"`
}

type Post struct {
	gorm.Model
	Content  string
	UserID   uint      `gorm:"index"`
	Comments []Comment `gorm:"foreignkey:PostID"`
}

type Comment struct {
	gorm.Model
	Content string
	PostID  uint `gorm:"index"`
	UserID  uint `gorm:"index"`
}

// Follow - ребро подписки follower -> followed. Пара уникальна за счет составного первичного ключа.
type Follow struct {
	FollowerID uint `gorm:"primary_key;auto_increment:false"`
	FollowedID uint `gorm:"primary_key;auto_increment:false;index"`
	CreatedAt  time.Time
}

// Like - ребро "пользователь лайкнул пост", пара (user, post) уникальна.
type Like struct {
	UserID    uint `gorm:"primary_key;auto_increment:false"`
	PostID    uint `gorm:"primary_key;auto_increment:false;index"`
	CreatedAt time.Time
}

// All перечисляет модели для AutoMigrate
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}, &Follow{}, &Like{}}
}

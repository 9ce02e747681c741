package postgres

import (
	"context"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/models"
	"github.com/jinzhu/gorm"
)

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func toPost(p *models.Post) *model.Post {
	return &model.Post{
		ID:        p.ID,
		AuthorID:  p.UserID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPosts(rows []models.Post) []*model.Post {
	results := make([]*model.Post, 0, len(rows))
	for i := range rows {
		results = append(results, toPost(&rows[i]))
	}
	return results
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, authorID uint, content string) (*model.Post, error) {
	post := &models.Post{
		Content: content,
		UserID:  authorID,
	}

	if err := DB.Create(post).Error; err != nil {
		return nil, translate("CreatePost", err)
	}
	return toPost(post), nil
}

func (s *PostPostgresStorage) GetPostByID(ctx context.Context, id uint) (*model.Post, error) {
	var post models.Post
	if err := DB.First(&post, id).Error; err != nil {
		return nil, translate("GetPostByID", err)
	}
	return toPost(&post), nil
}

func (s *PostPostgresStorage) ListByAuthors(ctx context.Context, authorIDs []uint, limit int) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return []*model.Post{}, nil
	}

	var posts []models.Post
	err := newestFirst(DB.Where("user_id IN (?)", authorIDs), limit).Find(&posts).Error
	if err != nil {
		return nil, translate("ListByAuthors", err)
	}
	return toPosts(posts), nil
}

func (s *PostPostgresStorage) RecentPosts(ctx context.Context, limit int) ([]*model.Post, error) {
	var posts []models.Post
	if err := newestFirst(DB, limit).Find(&posts).Error; err != nil {
		return nil, translate("RecentPosts", err)
	}
	return toPosts(posts), nil
}

func (s *PostPostgresStorage) TouchPost(ctx context.Context, id uint) error {
	return touchPost(DB, id)
}

func touchPost(db *gorm.DB, id uint) error {
	res := db.Model(&models.Post{}).Where("id = ?", id).UpdateColumn("updated_at", gorm.NowFunc())
	if res.Error != nil {
		return translate("TouchPost", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("TouchPost", "post not found")
	}
	return nil
}

// newestFirst - общий порядок ленты: created_at по убыванию, при равенстве id по убыванию
func newestFirst(db *gorm.DB, limit int) *gorm.DB {
	db = db.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}

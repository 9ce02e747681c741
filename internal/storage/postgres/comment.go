package postgres

import (
	"context"

	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/models"
)

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

func toComment(c *models.Comment) *model.Comment {
	return &model.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func toComments(rows []models.Comment) []*model.Comment {
	results := make([]*model.Comment, 0, len(rows))
	for i := range rows {
		results = append(results, toComment(&rows[i]))
	}
	return results
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, authorID, postID uint, content string) (*model.Comment, error) {
	tx := DB.Begin()
	if tx.Error != nil {
		return nil, translate("CreateComment", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var post models.Post
	if err := tx.First(&post, postID).Error; err != nil {
		tx.Rollback()
		return nil, translate("CreateComment", err)
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  authorID,
		Content: content,
	}
	if err := tx.Create(comment).Error; err != nil {
		tx.Rollback()
		return nil, translate("CreateComment", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, translate("CreateComment", err)
	}
	return toComment(comment), nil
}

func (s *CommentPostgresStorage) GetComments(ctx context.Context, postID uint) ([]*model.Comment, error) {
	var comments []models.Comment
	err := newestFirst(DB.Where("post_id = ?", postID), 0).Find(&comments).Error
	if err != nil {
		return nil, translate("GetComments", err)
	}
	return toComments(comments), nil
}

func (s *CommentPostgresStorage) CountByPost(ctx context.Context, postID uint) (int, error) {
	var count int
	err := DB.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, translate("CountByPost", err)
	}
	return count, nil
}

func (s *CommentPostgresStorage) RecentComments(ctx context.Context, limit int) ([]*model.Comment, error) {
	var comments []models.Comment
	if err := newestFirst(DB, limit).Find(&comments).Error; err != nil {
		return nil, translate("RecentComments", err)
	}
	return toComments(comments), nil
}

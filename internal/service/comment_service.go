package service

import (
	"errors"
	"strings"

	"github.com/blogdesk/internal/db"
	"gorm.io/gorm"
)

// CommentService wraps comment related operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Create attaches text to a post on behalf of userID.
func (s *CommentService) Create(postID, userID uint, text string) (*db.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentEmpty
	}

	var count int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	comment := db.Comment{PostID: postID, UserID: userID, Comment: text}
	if err := s.db.Omit("User", "Post").Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForPost returns the comments of a post, oldest first.
func (s *CommentService) ListForPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Get fetches a comment with its author and post.
func (s *CommentService) Get(id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.Preload("User").Preload("Post").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// Delete removes a single comment.
func (s *CommentService) Delete(id uint) error {
	result := s.db.Delete(&db.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// CountForPost returns how many comments a post has.
func (s *CommentService) CountForPost(postID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

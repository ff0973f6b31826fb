package db

import (
	"fmt"
	"time"
)

// Comment is a reader's note attached to a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	Post      Post      `json:"-"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// String renders "<username> commented <post title>". User and Post must be loaded.
func (c Comment) String() string {
	return fmt.Sprintf("%s commented %s", c.User.Username, c.Post.Title)
}

package db

import (
	"strings"
	"time"

	"github.com/blogdesk/internal/slug"
	"gorm.io/gorm"
)

// Category groups posts. Deleting a category removes its posts.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Posts     []Post    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate derives the slug from the title when none was supplied.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(c.Slug) != "" {
		c.Slug = strings.TrimSpace(c.Slug)
		return nil
	}
	value, err := uniqueSlug(tx, &Category{}, slug.Generate(c.Title))
	if err != nil {
		return err
	}
	c.Slug = value
	return nil
}

func (c Category) String() string {
	return c.Title
}

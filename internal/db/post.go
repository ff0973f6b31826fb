package db

import (
	"strings"
	"time"

	"github.com/blogdesk/internal/slug"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

const (
	// StatusCheckout marks a post that is still being reviewed.
	StatusCheckout = "checkout"
	// StatusPublished marks a post visible on the public index.
	StatusPublished = "published"
)

// Post is a blog article written by a staff member.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Slug       string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   Category  `json:"category"`
	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	Author     User      `gorm:"constraint:OnDelete:CASCADE" json:"author"`
	Views      int       `gorm:"not null;default:0" json:"views"`
	Status     string    `gorm:"size:10;index;not null;default:checkout" json:"status"`
	Tags       []Tag     `gorm:"many2many:post_tags;" json:"tags"`
	Comments   []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsValidStatus reports whether status is one of the known post states.
func IsValidStatus(status string) bool {
	return status == StatusCheckout || status == StatusPublished
}

// Validate checks the invariants the database does not enforce.
func (p Post) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.CategoryID, validation.Required),
		validation.Field(&p.AuthorID, validation.Required),
		validation.Field(&p.Views, validation.Min(0)),
		validation.Field(&p.Status, validation.In(StatusCheckout, StatusPublished)),
	)
}

// BeforeCreate fills defaults and derives the slug once, from the first title.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = StatusCheckout
	}
	if strings.TrimSpace(p.Slug) != "" {
		return nil
	}
	value, err := uniqueSlug(tx, &Post{}, slug.Generate(p.Title))
	if err != nil {
		return err
	}
	p.Slug = value
	return nil
}

// TagNames returns the labels attached to the post in their stored order.
func (p Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// IsPublished reports whether the post is listed on the public index.
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

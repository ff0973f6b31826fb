package db

import "time"

// Tag is a free form label shared between posts.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Posts     []Post    `gorm:"many2many:post_tags;" json:"-"`
	PostCount int64     `gorm:"->;-:migration" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
}

func (t Tag) String() string {
	return t.Name
}

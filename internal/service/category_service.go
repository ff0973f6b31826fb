package service

import (
	"errors"
	"strings"

	"github.com/blogdesk/internal/db"
	"github.com/blogdesk/internal/slug"
	"gorm.io/gorm"
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// CategoryInput carries the admin supplied fields. An empty Slug is derived
// from Title.
type CategoryInput struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns every category in creation order.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetBySlug fetches a category by its URL identifier.
func (s *CategoryService) GetBySlug(value string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", value).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// First returns the oldest category, used as the form default. It returns
// ErrCategoryNotFound when none exist.
func (s *CategoryService) First() (*db.Category, error) {
	var category db.Category
	if err := s.db.Order("id asc").First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create stores a category. Explicit slugs must be free and well formed.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrCategoryTitle
	}

	category := db.Category{Title: title}
	if explicit := strings.TrimSpace(input.Slug); explicit != "" {
		explicit = slug.Generate(explicit)
		var count int64
		if err := s.db.Model(&db.Category{}).Where("slug = ?", explicit).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrCategorySlugTaken
		}
		category.Slug = explicit
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update renames a category. The slug is kept so existing links keep working.
func (s *CategoryService) Update(id uint, input CategoryInput) (*db.Category, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrCategoryTitle
	}

	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("title", title).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category and, with it, its posts and their comments.
func (s *CategoryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.Select("id").First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		ids, err := postIDsWhere(tx, "category_id", category.ID)
		if err != nil {
			return err
		}
		if err := deletePosts(tx, ids); err != nil {
			return err
		}
		return tx.Delete(&db.Category{}, category.ID).Error
	})
}

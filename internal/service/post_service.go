package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blogdesk/internal/db"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostOrder selects how a listing is sorted.
type PostOrder int

const (
	// OrderNewest sorts by creation time, newest first.
	OrderNewest PostOrder = iota
	// OrderInsertion keeps the order posts were created in.
	OrderInsertion
	// OrderStatus groups posts by status, newest first inside a group.
	OrderStatus
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostFilter describes filters for listing posts. Zero values disable a filter.
type PostFilter struct {
	Status     string
	CategoryID uint
	AuthorID   uint
	TagName    string
	Search     string
	Page       int
	PerPage    int
	Order      PostOrder
}

// PostListResult is one page of posts.
type PostListResult struct {
	Posts []db.Post
	Page  Page
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title      string
	Content    string
	CategoryID uint
	AuthorID   uint
	Tags       []string
	Status     string
}

// PostOverview summarises the content for the admin dashboard.
type PostOverview struct {
	Posts      int64     `json:"posts"`
	Published  int64     `json:"published"`
	Checkout   int64     `json:"checkout"`
	Comments   int64     `json:"comments"`
	Categories int64     `json:"categories"`
	Views      int64     `json:"views"`
	TopPosts   []db.Post `json:"top_posts"`
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

func (s *PostService) withRelations(query *gorm.DB) *gorm.DB {
	return query.Preload("Author").Preload("Category").Preload("Tags", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("tags.name asc")
	})
}

// Get fetches a post by id with its relations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.withRelations(s.db).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a post by its URL identifier.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.withRelations(s.db).Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List returns one page of posts matching filter. Out of range pages are
// clamped to the nearest existing page.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	var total int64
	if err := s.applyFilters(s.db.Model(&db.Post{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	page := NewPage(filter.Page, filter.PerPage, total)

	var posts []db.Post
	dataQuery := s.applyFilters(s.withRelations(s.db.Model(&db.Post{})), filter)
	for _, order := range orderClauses(filter.Order) {
		dataQuery = dataQuery.Order(order)
	}
	if err := dataQuery.Limit(page.PerPage).Offset(page.Offset()).Find(&posts).Error; err != nil {
		return nil, err
	}

	return &PostListResult{Posts: posts, Page: page}, nil
}

// Latest returns the n most recently created published posts.
func (s *PostService) Latest(n int) ([]db.Post, error) {
	if n <= 0 {
		n = 3
	}
	var posts []db.Post
	if err := s.withRelations(s.db).
		Where("status = ?", db.StatusPublished).
		Order("created_at desc").
		Order("id desc").
		Limit(n).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create persists a post authored by input.AuthorID together with its tags.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	post := db.Post{
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		CategoryID: input.CategoryID,
		AuthorID:   input.AuthorID,
		Status:     input.Status,
	}
	if post.Status == "" {
		post.Status = db.StatusCheckout
	}

	if err := s.checkInput(&post, 0); err != nil {
		return nil, err
	}

	err := s.saveWithTags(&post, input.Tags, func(tx *gorm.DB) error {
		return titleConflict(tx.Omit(clause.Associations).Create(&post).Error)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(post.ID)
}

// Update applies title, content, category and tags to an existing post. The
// slug, author and counters are left untouched.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Content = input.Content
	existing.CategoryID = input.CategoryID

	if err := s.checkInput(&existing, existing.ID); err != nil {
		return nil, err
	}

	err := s.saveWithTags(&existing, input.Tags, func(tx *gorm.DB) error {
		return titleConflict(tx.Model(&existing).
			Select("title", "content", "category_id", "updated_at").
			Updates(&existing).Error)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(existing.ID)
}

// UpdateStatus moves a post between checkout and published.
func (s *PostService) UpdateStatus(id uint, status string) (*db.Post, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !db.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	result := s.db.Model(&db.Post{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}
	return s.Get(id)
}

// RecordView atomically increments the view counter of a post.
func (s *PostService) RecordView(id uint) error {
	result := s.db.Model(&db.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes a post with its comments and tag links in one transaction.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		return deletePosts(tx, []uint{post.ID})
	})
}

// Overview counts posts, comments and categories and returns the most read posts.
func (s *PostService) Overview(limit int) (*PostOverview, error) {
	if limit <= 0 {
		limit = 5
	}
	overview := &PostOverview{}

	if err := s.db.Model(&db.Post{}).Count(&overview.Posts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Where("status = ?", db.StatusPublished).Count(&overview.Published).Error; err != nil {
		return nil, err
	}
	overview.Checkout = overview.Posts - overview.Published
	if err := s.db.Model(&db.Comment{}).Count(&overview.Comments).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Category{}).Count(&overview.Categories).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Select("COALESCE(SUM(views), 0)").Scan(&overview.Views).Error; err != nil {
		return nil, err
	}
	if err := s.withRelations(s.db).
		Order("views desc").
		Order("id asc").
		Limit(limit).
		Find(&overview.TopPosts).Error; err != nil {
		return nil, err
	}
	return overview, nil
}

func (s *PostService) checkInput(post *db.Post, selfID uint) error {
	if err := post.Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			if _, ok := verrs["views"]; ok {
				return ErrNegativeViews
			}
			if _, ok := verrs["status"]; ok {
				return ErrInvalidStatus
			}
		}
		return fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}

	var categories int64
	if err := s.db.Model(&db.Category{}).Where("id = ?", post.CategoryID).Count(&categories).Error; err != nil {
		return err
	}
	if categories == 0 {
		return ErrCategoryNotFound
	}

	var taken int64
	query := s.db.Model(&db.Post{}).Where("title = ?", post.Title)
	if selfID != 0 {
		query = query.Where("id <> ?", selfID)
	}
	if err := query.Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return ErrPostTitleTaken
	}
	return nil
}

// titleConflict maps a unique violation on the posts row to
// ErrPostTitleTaken. A rival insert can land between checkInput and the write.
func titleConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPostTitleTaken
	}
	return err
}

func (s *PostService) saveWithTags(post *db.Post, tagNames []string, persist func(tx *gorm.DB) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := persist(tx); err != nil {
			return err
		}

		tags, err := ensureTags(tx, tagNames)
		if err != nil {
			return err
		}

		association := tx.Model(post).Association("Tags")
		if len(tags) == 0 {
			return association.Clear()
		}
		return association.Replace(tags)
	})
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter) *gorm.DB {
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("posts.status = ?", status)
	}
	if filter.CategoryID != 0 {
		query = query.Where("posts.category_id = ?", filter.CategoryID)
	}
	if filter.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}
	if name := strings.TrimSpace(filter.TagName); name != "" {
		tagged := s.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", name)
		query = query.Where("posts.id IN (?)", tagged)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		authors := s.db.Model(&db.User{}).Select("id").Where("LOWER(username) LIKE ?", pattern)
		query = query.Where("LOWER(posts.title) LIKE ? OR posts.author_id IN (?)", pattern, authors)
	}
	return query
}

func orderClauses(order PostOrder) []string {
	switch order {
	case OrderInsertion:
		return []string{"posts.id asc"}
	case OrderStatus:
		return []string{"posts.status asc", "posts.created_at desc", "posts.id desc"}
	default:
		return []string{"posts.created_at desc", "posts.id desc"}
	}
}

// deletePosts removes the given posts and everything hanging off them.
func deletePosts(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("post_id IN ?", ids).Delete(&db.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM post_tags WHERE post_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&db.Post{}).Error
}

// postIDsWhere collects the ids of posts matching column = value.
func postIDsWhere(tx *gorm.DB, column string, value uint) ([]uint, error) {
	var ids []uint
	if err := tx.Model(&db.Post{}).Where(column+" = ?", value).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

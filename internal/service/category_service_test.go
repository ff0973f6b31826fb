package service

import (
	"testing"

	"github.com/blogdesk/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateAndLookup(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)

	_, err := svc.First()
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	derived, err := svc.Create(CategoryInput{Title: "Travel Notes"})
	require.NoError(t, err)
	assert.Equal(t, "travel-notes", derived.Slug)

	explicit, err := svc.Create(CategoryInput{Title: "Trips", Slug: "Road Trips"})
	require.NoError(t, err)
	assert.Equal(t, "road-trips", explicit.Slug)

	_, err = svc.Create(CategoryInput{Title: "Again", Slug: "road-trips"})
	assert.ErrorIs(t, err, ErrCategorySlugTaken)

	_, err = svc.Create(CategoryInput{Title: "  "})
	assert.ErrorIs(t, err, ErrCategoryTitle)

	first, err := svc.First()
	require.NoError(t, err)
	assert.Equal(t, derived.ID, first.ID)

	bySlug, err := svc.GetBySlug("road-trips")
	require.NoError(t, err)
	assert.Equal(t, "Trips", bySlug.Title)

	_, err = svc.GetBySlug("nope")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	list, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCategoryService_UpdateKeepsSlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)
	category := createCategory(t, gdb, "Old Name")

	updated, err := svc.Update(category.ID, CategoryInput{Title: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Title)
	assert.Equal(t, "old-name", updated.Slug)

	_, err = svc.Update(9999, CategoryInput{Title: "x"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_DeleteCascadesToPosts(t *testing.T) {
	gdb := setupServiceTestDB(t)
	categories := NewCategoryService(gdb)
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)
	author := createUser(t, gdb, "staff", true)
	doomed := createCategory(t, gdb, "Doomed")
	kept := createCategory(t, gdb, "Kept")

	post := createPost(t, posts, PostInput{Title: "Inside", Content: "c", CategoryID: doomed.ID, AuthorID: author.ID, Tags: []string{"x"}})
	createPost(t, posts, PostInput{Title: "Outside", Content: "c", CategoryID: kept.ID, AuthorID: author.ID})
	_, err := comments.Create(post.ID, author.ID, "note")
	require.NoError(t, err)

	require.NoError(t, categories.Delete(doomed.ID))

	var postCount, commentCount int64
	require.NoError(t, gdb.Model(&db.Post{}).Count(&postCount).Error)
	require.NoError(t, gdb.Model(&db.Comment{}).Count(&commentCount).Error)
	assert.Equal(t, int64(1), postCount)
	assert.Equal(t, int64(0), commentCount)

	assert.ErrorIs(t, categories.Delete(doomed.ID), ErrCategoryNotFound)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/blogdesk/internal/service"
	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// AdminListCategories returns every category.
func (a *API) AdminListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to load categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// AdminCreateCategory stores a category, deriving its slug when none is given.
func (a *API) AdminCreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "invalid category payload") {
		return
	}

	category, err := a.categories.Create(service.CategoryInput{Title: req.Title, Slug: req.Slug})
	if err != nil {
		a.respondCategoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// AdminUpdateCategory renames a category.
func (a *API) AdminUpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req categoryRequest
	if !bindJSON(c, &req, "invalid category payload") {
		return
	}

	category, err := a.categories.Update(id, service.CategoryInput{Title: req.Title})
	if err != nil {
		a.respondCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// AdminDeleteCategory removes a category together with its posts.
func (a *API) AdminDeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.categories.Delete(id); err != nil {
		a.respondCategoryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCategorySlugTaken), errors.Is(err, service.ErrCategoryTitle):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to save category")
	}
}

// AdminListPosts lists posts grouped by status, optionally searching titles
// and author names.
func (a *API) AdminListPosts(c *gin.Context) {
	result, err := a.posts.List(service.PostFilter{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		Page:    service.ParsePageNumber(c.Query("page")),
		PerPage: 20,
		Order:   service.OrderStatus,
	})
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}

	items := make([]gin.H, 0, len(result.Posts))
	for _, post := range result.Posts {
		items = append(items, gin.H{
			"id":         post.ID,
			"title":      post.Title,
			"slug":       post.Slug,
			"author":     post.Author.Username,
			"category":   post.Category.Title,
			"views":      post.Views,
			"status":     post.Status,
			"tags":       post.TagNames(),
			"created_at": post.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       items,
		"page":        result.Page.Number,
		"per_page":    result.Page.PerPage,
		"total":       result.Page.Total,
		"total_pages": result.Page.NumPages,
	})
}

// AdminUpdatePostStatus moves a post between checkout and published.
func (a *API) AdminUpdatePostStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req statusRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}

	post, err := a.posts.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			c.Error(err)
			respondError(c, http.StatusInternalServerError, "failed to update post")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID, "status": post.Status})
}

// AdminDeleteComment removes a comment.
func (a *API) AdminDeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.comments.Delete(id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminOverview returns content counters and the most read posts.
func (a *API) AdminOverview(c *gin.Context) {
	overview, err := a.posts.Overview(5)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to load overview")
		return
	}

	top := make([]gin.H, 0, len(overview.TopPosts))
	for _, post := range overview.TopPosts {
		top = append(top, gin.H{"id": post.ID, "title": post.Title, "views": post.Views, "status": post.Status})
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      overview.Posts,
		"published":  overview.Published,
		"checkout":   overview.Checkout,
		"comments":   overview.Comments,
		"categories": overview.Categories,
		"views":      overview.Views,
		"top_posts":  top,
	})
}

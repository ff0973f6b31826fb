package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/blogdesk/internal/db"
	"github.com/blogdesk/internal/form"
	"github.com/blogdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// Index lists posts filtered by ?status (published by default), newest first.
func (a *API) Index(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	if status == "" {
		status = db.StatusPublished
	}

	result, err := a.posts.List(service.PostFilter{
		Status:  status,
		Page:    service.ParsePageNumber(c.Query("page")),
		PerPage: service.DefaultPageSize,
		Order:   service.OrderNewest,
	})
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	a.renderPage(c, http.StatusOK, "index.html", gin.H{
		"status":      status,
		"page_obj":    result.Page,
		"posts":       result.Posts,
		"page_prefix": "?status=" + url.QueryEscape(status) + "&",
	})
}

// PostByCategory lists the posts of one category.
func (a *API) PostByCategory(c *gin.Context) {
	category, err := a.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.renderNotFound(c, "No category matches the given query.")
			return
		}
		a.renderServerError(c, err)
		return
	}

	a.renderListing(c, "post_by_category.html", service.PostFilter{CategoryID: category.ID}, gin.H{
		"title":    category.Title,
		"category": category,
	})
}

// PostByAuthor lists the posts written by one user.
func (a *API) PostByAuthor(c *gin.Context) {
	author, err := a.accounts.GetByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			a.renderNotFound(c, "No user matches the given query.")
			return
		}
		a.renderServerError(c, err)
		return
	}

	a.renderListing(c, "post_by_author.html", service.PostFilter{AuthorID: author.ID}, gin.H{
		"title":  author.Username,
		"author": author,
	})
}

// PostByTag lists the posts carrying one tag.
func (a *API) PostByTag(c *gin.Context) {
	tag, err := a.tags.GetByName(c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			a.renderNotFound(c, "No tag matches the given query.")
			return
		}
		a.renderServerError(c, err)
		return
	}

	a.renderListing(c, "post_by_tag.html", service.PostFilter{TagName: tag.Name}, gin.H{
		"title": tag.Name,
		"tag":   tag,
	})
}

func (a *API) renderListing(c *gin.Context, template string, filter service.PostFilter, data gin.H) {
	filter.Page = service.ParsePageNumber(c.Query("page"))
	filter.PerPage = service.DefaultPageSize
	filter.Order = service.OrderInsertion

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	data["page_obj"] = result.Page
	data["posts"] = result.Posts
	data["page_prefix"] = "?"
	a.renderPage(c, http.StatusOK, template, data)
}

// DetailPost shows a post with its comments and counts the view. A valid
// comment submission redirects back to the post.
func (a *API) DetailPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c, "No post matches the given query.")
			return
		}
		a.renderServerError(c, err)
		return
	}

	user := currentUser(c)
	var commentForm form.CommentForm
	errs := form.Errors{}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(&commentForm); err != nil {
			errs.Add(form.NonField, "Invalid submission.")
		} else {
			errs = commentForm.Validate()
		}

		if errs.Valid() {
			if _, err := a.comments.Create(post.ID, user.ID, commentForm.Comment); err != nil {
				a.renderServerError(c, err)
				return
			}
			c.Redirect(http.StatusFound, postURL(post.Slug))
			return
		}
	}

	if err := a.posts.RecordView(post.ID); err != nil {
		a.renderServerError(c, err)
		return
	}
	post.Views++

	comments, err := a.comments.ListForPost(post.ID)
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	a.renderPage(c, http.StatusOK, "detail_post.html", gin.H{
		"title":        post.Title,
		"post":         post,
		"comments":     comments,
		"comment_form": commentForm,
		"errors":       errs,
		"can_edit":     service.CanEditPost(user, *post),
		"can_delete":   service.CanDeletePost(user, *post),
	})
}

// CreatePost shows and handles the post editor for staff members.
func (a *API) CreatePost(c *gin.Context) {
	user := currentUser(c)
	var postForm form.PostForm
	errs := form.Errors{}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(&postForm); err != nil {
			errs.Add(form.NonField, "Invalid submission.")
		} else {
			errs = postForm.Validate()
		}

		if errs.Valid() {
			_, err := a.posts.Create(service.PostInput{
				Title:      postForm.Title,
				Content:    postForm.Content,
				CategoryID: postForm.CategoryID(),
				AuthorID:   user.ID,
				Tags:       postForm.TagNames(),
			})
			if err == nil {
				c.Redirect(http.StatusFound, "/")
				return
			}
			if !addPostError(errs, err) {
				a.renderServerError(c, err)
				return
			}
		}
	} else if first, err := a.categories.First(); err == nil {
		postForm.Category = uintString(first.ID)
	} else if !errors.Is(err, service.ErrCategoryNotFound) {
		c.Error(err)
	}

	a.renderPostForm(c, "create_post.html", "New post", postForm, errs)
}

// EditPost shows the editor for an existing post. Only the author may save.
func (a *API) EditPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c, "No post matches the given query.")
			return
		}
		a.renderServerError(c, err)
		return
	}

	user := currentUser(c)
	postForm := form.PostFormFrom(*post)
	errs := form.Errors{}

	if c.Request.Method == http.MethodPost {
		if !service.CanEditPost(user, *post) {
			a.renderForbidden(c, "Only the author can edit this post.")
			return
		}

		postForm = form.PostForm{}
		if err := c.ShouldBind(&postForm); err != nil {
			errs.Add(form.NonField, "Invalid submission.")
		} else {
			errs = postForm.Validate()
		}

		if errs.Valid() {
			_, err := a.posts.Update(post.ID, service.PostInput{
				Title:      postForm.Title,
				Content:    postForm.Content,
				CategoryID: postForm.CategoryID(),
				Tags:       postForm.TagNames(),
			})
			if err == nil {
				c.Redirect(http.StatusFound, authorURL(user.Username))
				return
			}
			if !addPostError(errs, err) {
				a.renderServerError(c, err)
				return
			}
		}
	}

	a.renderPostForm(c, "edit_post.html", "Edit post", postForm, errs)
}

// DeletePost removes a post when the caller is its author or staff.
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "pk")
	if err != nil {
		a.renderNotFound(c, "No post matches the given query.")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c, "No post matches the given query.")
			return
		}
		a.renderServerError(c, err)
		return
	}

	user := currentUser(c)
	if !service.CanDeletePost(user, *post) {
		a.renderForbidden(c, "You do not have permission to delete this post.")
		return
	}

	if err := a.posts.Delete(post.ID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c, "No post matches the given query.")
			return
		}
		a.renderServerError(c, err)
		return
	}

	c.Redirect(http.StatusFound, authorURL(user.Username))
}

func (a *API) renderPostForm(c *gin.Context, template, title string, postForm form.PostForm, errs form.Errors) {
	categories, err := a.categories.List()
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, template, gin.H{
		"title":      title,
		"form":       postForm,
		"errors":     errs,
		"categories": categories,
	})
}

// addPostError turns a service rejection into a field error. It reports
// false for errors the form cannot explain.
func addPostError(errs form.Errors, err error) bool {
	switch {
	case errors.Is(err, service.ErrPostTitleTaken):
		errs.Add("title", "Post with this Title already exists.")
	case errors.Is(err, service.ErrCategoryNotFound):
		errs.Add("category", "Select a valid choice. That choice is not one of the available choices.")
	case errors.Is(err, service.ErrInvalidPost):
		errs.Add(form.NonField, err.Error())
	default:
		return false
	}
	return true
}

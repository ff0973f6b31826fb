package handler

import (
	"time"

	"github.com/blogdesk/internal/mail"
	"github.com/blogdesk/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Dependencies carries the collaborators that differ between production and tests.
type Dependencies struct {
	Mailer       mail.Mailer
	ResetStore   service.ResetTokenStore
	ResetLink    service.ResetLinkConfig
	ResetTimeout time.Duration
	// HashCost overrides the bcrypt cost; zero keeps the default.
	HashCost int
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	categories *service.CategoryService
	comments   *service.CommentService
	tags       *service.TagService
	accounts   *service.AccountService
	resets     *service.PasswordResetService
	resetLink  service.ResetLinkConfig
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, deps Dependencies) *API {
	accounts := service.NewAccountService(gdb)
	if deps.HashCost != 0 {
		accounts = accounts.WithHashCost(deps.HashCost)
	}

	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.NewLogMailer(log.Logger)
	}
	store := deps.ResetStore
	if store == nil {
		store = service.NewDBResetTokenStore(gdb)
	}

	return &API{
		db:         gdb,
		posts:      service.NewPostService(gdb),
		categories: service.NewCategoryService(gdb),
		comments:   service.NewCommentService(gdb),
		tags:       service.NewTagService(gdb),
		accounts:   accounts,
		resets:     service.NewPasswordResetService(accounts, store, mailer, deps.ResetTimeout),
		resetLink:  deps.ResetLink,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// renderHTML adds the values every page template expects (current user,
// copyright year) before rendering.
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["user"]; !exists {
		payload["user"] = currentUser(c)
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}

// renderPage is renderHTML plus the sidebar shared by listings and detail pages.
func (a *API) renderPage(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["categories"]; !exists {
		categories, err := a.categories.List()
		if err != nil {
			c.Error(err)
		}
		payload["categories"] = categories
	}

	tags, err := a.tags.Usage()
	if err != nil {
		c.Error(err)
	}
	payload["tags"] = tags

	latest, err := a.posts.Latest(3)
	if err != nil {
		c.Error(err)
	}
	payload["latest_posts"] = latest

	a.renderHTML(c, status, template, payload)
}

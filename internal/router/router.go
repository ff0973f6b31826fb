package router

import (
	"net/http"

	"github.com/blogdesk/internal/config"
	"github.com/blogdesk/internal/handler"
	"github.com/blogdesk/internal/middleware"
	"github.com/blogdesk/internal/view"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "blogdesk_session"

// SetupRouter wires middleware, templates and routes onto a new engine.
func SetupRouter(cfg config.AppConfig, api *handler.API) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(api.LoadUser())

	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.NoRoute(api.NotFound)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// blog
	r.GET("/", api.Index)
	r.GET("/post-by-category/:slug", api.PostByCategory)
	r.GET("/post-by-author/:username/", api.PostByAuthor)
	r.GET("/post-by-tag/:name", api.PostByTag)

	member := r.Group("")
	member.Use(handler.LoginRequired())
	{
		member.GET("/post/:slug/", api.DetailPost)
		member.POST("/post/:slug/", api.DetailPost)
		member.GET("/delete-post/:pk", api.DeletePost)
		member.POST("/delete-post/:pk", api.DeletePost)
	}

	staff := r.Group("")
	staff.Use(handler.StaffRequired())
	{
		staff.GET("/create-post/", api.CreatePost)
		staff.POST("/create-post/", api.CreatePost)
		staff.GET("/edit-post/:slug", api.EditPost)
		staff.POST("/edit-post/:slug", api.EditPost)
	}

	// accounts
	r.GET("/login/", api.ShowLogin)
	r.POST("/login/", api.Login)
	r.GET("/logout/", api.Logout)
	r.POST("/logout/", api.Logout)
	r.GET("/register/", api.ShowRegister)
	r.POST("/register/", api.Register)
	r.GET("/password-reset/", api.ShowPasswordReset)
	r.POST("/password-reset/", api.PasswordReset)
	r.GET("/password-reset/done/", api.PasswordResetDone)
	r.GET("/reset/:uid/:token/", api.ShowPasswordResetConfirm)
	r.POST("/reset/:uid/:token/", api.PasswordResetConfirm)
	r.GET("/reset/done/", api.PasswordResetComplete)

	admin := r.Group("/admin/api")
	admin.Use(handler.AdminAPIRequired())
	{
		admin.GET("/categories", api.AdminListCategories)
		admin.POST("/categories", api.AdminCreateCategory)
		admin.PUT("/categories/:id", api.AdminUpdateCategory)
		admin.DELETE("/categories/:id", api.AdminDeleteCategory)

		admin.GET("/posts", api.AdminListPosts)
		admin.PUT("/posts/:id/status", api.AdminUpdatePostStatus)

		admin.DELETE("/comments/:id", api.AdminDeleteComment)

		admin.GET("/tags", api.AdminListTags)
		admin.DELETE("/tags/:id", api.AdminDeleteTag)

		admin.GET("/overview", api.AdminOverview)
	}

	return r, nil
}

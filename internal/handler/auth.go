package handler

import (
	"errors"
	"net/http"

	"github.com/blogdesk/internal/db"
	"github.com/blogdesk/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserKey = "user_id"
	userContextKey = "user"
)

// LoadUser resolves the session's user id into a *db.User on the context.
// A stale id (deleted account) clears the session.
func (a *API) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(sessionUserKey).(uint)
		if !ok || id == 0 {
			c.Next()
			return
		}

		user, err := a.accounts.GetByID(id)
		if err != nil {
			if !errors.Is(err, service.ErrUserNotFound) {
				c.Error(err)
			}
			session.Clear()
			_ = session.Save()
			c.Next()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *db.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, _ := value.(*db.User)
	return user
}

// LoginRequired sends anonymous callers to the login page, remembering
// where they were going.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.Redirect(http.StatusFound, loginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired sends callers without the staff flag to the login page.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := currentUser(c); user == nil || !user.IsStaff {
			c.Redirect(http.StatusFound, loginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminAPIRequired guards the JSON admin endpoints.
func AdminAPIRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !user.IsStaff {
			respondError(c, http.StatusForbidden, "staff access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func logIn(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(userContextKey, user)
	return nil
}

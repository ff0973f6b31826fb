package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (a *API) renderNotFound(c *gin.Context, message string) {
	a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{"title": "Not found", "message": message})
	c.Abort()
}

func (a *API) renderForbidden(c *gin.Context, message string) {
	a.renderHTML(c, http.StatusForbidden, "403.html", gin.H{"title": "Forbidden", "message": message})
	c.Abort()
}

func (a *API) renderServerError(c *gin.Context, err error) {
	c.Error(err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
	c.Abort()
}

// NotFound is the fallback for unmatched routes.
func (a *API) NotFound(c *gin.Context) {
	a.renderNotFound(c, "")
}

// safeNext keeps redirects on this site; anything else falls back to "/".
func safeNext(raw string) string {
	next := strings.TrimSpace(raw)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return next
}

func loginURL(next string) string {
	return "/login/?next=" + url.QueryEscape(next)
}

func authorURL(username string) string {
	return "/post-by-author/" + url.PathEscape(username) + "/"
}

func postURL(slug string) string {
	return "/post/" + slug + "/"
}

package handler

import (
	"errors"
	"net/http"

	"github.com/blogdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminListTags returns every tag with the number of posts using it.
func (a *API) AdminListTags(c *gin.Context) {
	tags, err := a.tags.Usage()
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to load tags")
		return
	}

	response := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		response = append(response, gin.H{
			"id":         tag.ID,
			"name":       tag.Name,
			"post_count": tag.PostCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tags": response})
}

// AdminDeleteTag removes a tag; the posts carrying it are kept.
func (a *API) AdminDeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.tags.Delete(id); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to delete tag")
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"guestsnap/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// GameReset clears all assignment marks of the album's guests so another
// round of the find-the-guest game can start.
func GameReset(c *gin.Context, user *models.User) {
	postReq := AlbumIDRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, postReq.AlbumID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	if err = coordinator.ResetAllAssignments(postReq.AlbumID); err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	c.JSON(http.StatusOK, Response{})
}

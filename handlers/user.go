package handlers

import (
	"net/http"

	"guestsnap/auth"
	"guestsnap/db"
	"guestsnap/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserCreateRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}
type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}
type UserStatusResponse struct {
	Error string `json:"error"`
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, success := models.UserLogin(postReq.Email, postReq.Password)
	if !success {
		c.JSON(http.StatusUnauthorized, Response{"invalid credentials"})
		return
	}
	session := auth.LoadSession(c)
	session.LoginUser(user.ID)
	c.JSON(http.StatusOK, UserStatusResponse{ID: user.ID, Name: user.Name})
}

func UserLogout(c *gin.Context) {
	session := auth.LoadSession(c)
	session.LogoutUser()
	c.JSON(http.StatusOK, Response{})
}

func UserGetStatus(c *gin.Context) {
	session := auth.LoadSession(c)
	user := session.User()
	if user.ID == 0 {
		c.JSON(http.StatusUnauthorized, UserStatusResponse{Error: "access denied"})
		return
	}
	c.JSON(http.StatusOK, UserStatusResponse{ID: user.ID, Name: user.Name})
}

// UserCreate is admin-only except for the very first user of the instance,
// who becomes the admin.
func UserCreate(c *gin.Context) {
	var total int64
	if err := db.Instance.Model(&models.User{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	if total > 0 {
		session := auth.LoadSession(c)
		user := session.User()
		if user.ID == 0 || !user.HasPermission(models.PermissionAdmin) {
			c.JSON(http.StatusUnauthorized, Response{"access denied"})
			return
		}
	}
	postReq := UserCreateRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, err := models.UserCreate(postReq.Name, postReq.Email, postReq.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	grants := []models.Grant{{UserID: user.ID, Permission: models.PermissionAlbums}}
	if total == 0 {
		grants = append(grants, models.Grant{UserID: user.ID, Permission: models.PermissionAdmin})
	}
	if err = db.Instance.Create(&grants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 2"})
		return
	}
	c.JSON(http.StatusOK, UserStatusResponse{ID: user.ID, Name: user.Name})
}

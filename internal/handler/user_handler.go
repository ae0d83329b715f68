package handler

import (
	"net/http"

	"Cerezo_Blog/internal/middleware"
	"Cerezo_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type UpdateProfileReq struct {
	Username        string `json:"username" binding:"omitempty,min=3,max=32,excludesall=@"`
	Email           string `json:"email" binding:"omitempty,email,max=64"`
	Password        string `json:"password" binding:"omitempty,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"omitempty,eqfield=Password"`
}

func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileReq
	if !bind(c, &req) {
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, middleware.CurrentToken(c),
		service.UpdateProfileInput{Username: req.Username, Email: req.Email, Password: req.Password})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully", "user": user})
}

// List 管理员查看所有用户
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// ToggleBlock 封禁/解封
func (h *UserHandler) ToggleBlock(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.svc.ToggleBlock(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	msg := "user unblocked successfully"
	if user.IsBlocked {
		msg = "user blocked successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "user": user})
}

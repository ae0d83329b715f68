package handler

import (
	"net/http"

	"Cerezo_Blog/internal/middleware"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterReq struct {
	Username        string `json:"username" binding:"required,min=3,max=32,excludesall=@"`
	Email           string `json:"email" binding:"required,email,max=64"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"omitempty,eqfield=Password"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// Register 注册接口
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterReq
	if !bind(c, &req) {
		return
	}
	user, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Login 登录接口，邮箱或用户名均可
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginReq
	if !bind(c, &req) {
		return
	}
	login := req.Email
	if login == "" {
		login = req.Username
	}
	if login == "" {
		_ = c.Error(pkg.ErrValidation.With("email is required"))
		return
	}
	token, user, err := h.svc.Login(c.Request.Context(), login, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "welcome back, " + user.Username,
		"token":   token,
		"user":    user,
	})
}

// Logout 只注销当前 token
func (h *AuthHandler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.svc.Logout(c.Request.Context(), user.ID, middleware.CurrentToken(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

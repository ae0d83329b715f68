package handler

import (
	"net/http"
	"strings"

	"Cerezo_Blog/internal/middleware"
	"Cerezo_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc        *service.PostService
	engagement *service.EngagementService
}

func NewPostHandler(svc *service.PostService, engagement *service.EngagementService) *PostHandler {
	return &PostHandler{svc: svc, engagement: engagement}
}

type CreatePostReq struct {
	Title       string `form:"title" json:"title" binding:"required,trimmin=5,max=200"`
	Content     string `form:"content" json:"content" binding:"required,trimmin=20"`
	IsPublished *bool  `form:"isPublished" json:"isPublished"`
	IsPinned    *bool  `form:"isPinned" json:"isPinned"`
}

type UpdatePostReq struct {
	Title       *string `form:"title" json:"title" binding:"omitempty,trimmin=5,max=200"`
	Content     *string `form:"content" json:"content" binding:"omitempty,trimmin=20"`
	IsPublished *bool   `form:"isPublished" json:"isPublished"`
	IsPinned    *bool   `form:"isPinned" json:"isPinned"`
}

// List 已发布帖子，置顶优先
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := h.svc.Get(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Create 创建帖子，image 可选
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostReq
	if !bind(c, &req) {
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		_ = c.Error(err)
		return
	}
	post, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c).ID, service.CreatePostInput{
		Title:       strings.TrimSpace(req.Title),
		Content:     strings.TrimSpace(req.Content),
		IsPublished: req.IsPublished,
		IsPinned:    req.IsPinned,
		Image:       image,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "post created successfully", "post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePostReq
	if !bind(c, &req) {
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		_ = c.Error(err)
		return
	}
	post, err := h.svc.Update(c.Request.Context(), id, service.UpdatePostInput{
		Title:       trimPtr(req.Title),
		Content:     trimPtr(req.Content),
		IsPublished: req.IsPublished,
		IsPinned:    req.IsPinned,
		Image:       image,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post updated successfully", "post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}

// ToggleLike 点赞/取消点赞
func (h *PostHandler) ToggleLike(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.engagement.TogglePostLike(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	msg := "post unliked"
	if res.Active {
		msg = "post liked"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "numLikes": res.Count, "isLiked": res.Active})
}

package handler

import (
	"net/http"
	"strings"

	"Cerezo_Blog/internal/middleware"
	"Cerezo_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc        *service.CommentService
	engagement *service.EngagementService
}

func NewCommentHandler(svc *service.CommentService, engagement *service.EngagementService) *CommentHandler {
	return &CommentHandler{svc: svc, engagement: engagement}
}

type CreateCommentReq struct {
	Content  string  `json:"content" binding:"required,notblank,max=2000"`
	ParentID *uint64 `json:"parentId"`
}

// Create 评论或回复，帖子 numComments 同步加一
func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CreateCommentReq
	if !bind(c, &req) {
		return
	}
	comment, err := h.svc.Create(c.Request.Context(), postID, middleware.CurrentUser(c).ID, strings.TrimSpace(req.Content), req.ParentID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.svc.ListByPost(c.Request.Context(), postID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) ToggleLike(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.engagement.ToggleCommentLike(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	msg := "comment unliked"
	if res.Active {
		msg = "comment liked"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "numLikes": res.Count, "isLiked": res.Active})
}

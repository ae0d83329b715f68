package handler

import (
	"net/http"

	"Cerezo_Blog/internal/middleware"
	"Cerezo_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc *service.BookService
}

func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

type CreateBookReq struct {
	Title       string `form:"title" json:"title" binding:"required,max=200"`
	Description string `form:"description" json:"description" binding:"required"`
	Link        string `form:"link" json:"link" binding:"required,url"`
}

type UpdateBookReq struct {
	Title       *string `form:"title" json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `form:"description" json:"description" binding:"omitempty,min=1"`
	Link        *string `form:"link" json:"link" binding:"omitempty,url"`
}

func (h *BookHandler) List(c *gin.Context) {
	books, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// Create 封面图必填
func (h *BookHandler) Create(c *gin.Context) {
	var req CreateBookReq
	if !bind(c, &req) {
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		_ = c.Error(err)
		return
	}
	book, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c).ID, service.CreateBookInput{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		Image:       image,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "book created successfully", "book": book})
}

func (h *BookHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateBookReq
	if !bind(c, &req) {
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		_ = c.Error(err)
		return
	}
	book, err := h.svc.Update(c.Request.Context(), id, service.UpdateBookInput{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		Image:       image,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book updated successfully", "book": book})
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted successfully"})
}

package handler

import (
	"net/http"
	"time"

	"Cerezo_Blog/internal/middleware"
	"Cerezo_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc        *service.EventService
	engagement *service.EngagementService
}

func NewEventHandler(svc *service.EventService, engagement *service.EngagementService) *EventHandler {
	return &EventHandler{svc: svc, engagement: engagement}
}

type CreateEventReq struct {
	Title            string `form:"title" json:"title" binding:"required,max=200"`
	Description      string `form:"description" json:"description" binding:"required"`
	Date             string `form:"date" json:"date" binding:"required"`
	Location         string `form:"location" json:"location" binding:"required,max=255"`
	AllowsAttendance bool   `form:"allowsAttendance" json:"allowsAttendance"`
}

type UpdateEventReq struct {
	Title            *string `form:"title" json:"title" binding:"omitempty,min=1,max=200"`
	Description      *string `form:"description" json:"description" binding:"omitempty,min=1"`
	Date             *string `form:"date" json:"date"`
	Location         *string `form:"location" json:"location" binding:"omitempty,min=1,max=255"`
	AllowsAttendance *bool   `form:"allowsAttendance" json:"allowsAttendance"`
}

// List 按活动日期升序
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Create media 字段最多若干个图片或视频
func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventReq
	if !bind(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		_ = c.Error(err)
		return
	}
	media, err := files(c, "media")
	if err != nil {
		_ = c.Error(err)
		return
	}
	event, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c).ID, service.CreateEventInput{
		Title:            req.Title,
		Description:      req.Description,
		Date:             date,
		Location:         req.Location,
		AllowsAttendance: req.AllowsAttendance,
		Media:            media,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "event created successfully", "event": event})
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateEventReq
	if !bind(c, &req) {
		return
	}
	var date *time.Time
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			_ = c.Error(err)
			return
		}
		date = &d
	}
	media, err := files(c, "media")
	if err != nil {
		_ = c.Error(err)
		return
	}
	event, err := h.svc.Update(c.Request.Context(), id, service.UpdateEventInput{
		Title:            req.Title,
		Description:      req.Description,
		Date:             date,
		Location:         req.Location,
		AllowsAttendance: req.AllowsAttendance,
		Media:            media,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event updated successfully", "event": event})
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted successfully"})
}

// Attend 报名/取消报名
func (h *EventHandler) Attend(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.engagement.ToggleAttendance(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	msg := "attendance cancelled"
	if res.Active {
		msg = "attendance confirmed"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "attending": res.Active, "count": res.Count})
}

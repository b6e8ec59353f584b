package handlers

import (
	"html/template"
	"net/http"
	"time"

	"councilboard/internal/services"
	"councilboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcements *services.AnnouncementService
}

func NewAnnouncementHandler(announcements *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

type announcementRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (h *AnnouncementHandler) List(c *gin.Context) {
	list, err := h.announcements.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req announcementRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.announcements.Create(c.Request.Context(), req.Title, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AnnouncementHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	a, err := h.announcements.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, struct {
		ID        uint          `json:"id"`
		Title     string        `json:"title"`
		Text      string        `json:"text"`
		TextHTML  template.HTML `json:"text_html"`
		Upvotes   int           `json:"upvotes"`
		CreatedAt time.Time     `json:"created_at"`
		Comments  []commentView `json:"comments"`
	}{a.ID, a.Title, a.Text, utils.RenderMarkdown(a.Text), a.Upvotes, a.CreatedAt, newCommentViews(a.Comments)})
}

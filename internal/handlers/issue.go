package handlers

import (
	"html/template"
	"net/http"
	"time"

	"councilboard/internal/models"
	"councilboard/internal/services"
	"councilboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type IssueHandler struct {
	issues *services.IssueService
}

func NewIssueHandler(issues *services.IssueService) *IssueHandler {
	return &IssueHandler{issues: issues}
}

type issueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	User        string `json:"user"` // 可选，用于限流
}

type issueDetail struct {
	ID              uint          `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	DescriptionHTML template.HTML `json:"description_html"`
	Upvotes         int           `json:"upvotes"`
	Archived        bool          `json:"archived"`
	CreatedAt       time.Time     `json:"created_at"`
	Comments        []commentView `json:"comments"`
}

// List GET /issues?sort=top|new&archived=1
func (h *IssueHandler) List(c *gin.Context) {
	sort := c.DefaultQuery("sort", services.SortTop)
	includeArchived := c.Query("archived") == "1" || c.Query("archived") == "true"

	issues, err := h.issues.List(c.Request.Context(), sort, includeArchived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (h *IssueHandler) Create(c *gin.Context) {
	var req issueRequest
	if !bindJSON(c, &req) {
		return
	}

	issue, err := h.issues.Create(c.Request.Context(), req.Title, req.Description, req.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issue)
}

func (h *IssueHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	issue, err := h.issues.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newIssueDetail(issue))
}

func newIssueDetail(issue *models.Issue) issueDetail {
	return issueDetail{
		ID:              issue.ID,
		Title:           issue.Title,
		Description:     issue.Description,
		DescriptionHTML: utils.RenderMarkdown(issue.Description),
		Upvotes:         issue.Upvotes,
		Archived:        issue.Archived,
		CreatedAt:       issue.CreatedAt,
		Comments:        newCommentViews(issue.Comments),
	}
}

func (h *IssueHandler) Archive(c *gin.Context)   { h.setArchived(c, true) }
func (h *IssueHandler) Unarchive(c *gin.Context) { h.setArchived(c, false) }

func (h *IssueHandler) setArchived(c *gin.Context, archived bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.issues.SetArchived(c.Request.Context(), id, archived); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "archived": archived})
}

package handlers

import (
	"net/http"

	"councilboard/internal/middleware"
	"councilboard/internal/models"
	"councilboard/internal/services"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler serves upvotes and comments for every target kind.
type FeedbackHandler struct {
	feedback *services.FeedbackService
}

func NewFeedbackHandler(feedback *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) upvote(c *gin.Context, kind models.TargetKind, id uint) {
	var req upvoteRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.feedback.CastOrRetractUpvote(c.Request.Context(), kind, id, req.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *FeedbackHandler) postComment(c *gin.Context, kind models.TargetKind, id uint) {
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}
	// 官方回复仅限学生会管理员
	if req.Official && !middleware.IsAdmin(c) {
		abortWithError(c, http.StatusForbidden, "only the student council can post official comments")
		return
	}

	comment, err := h.feedback.PostComment(c.Request.Context(), services.CommentInput{
		Kind:     kind,
		TargetID: id,
		Username: req.User.User,
		Text:     req.Text,
		Official: req.Official,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentView(*comment))
}

func (h *FeedbackHandler) listComments(c *gin.Context, kind models.TargetKind, id uint) {
	comments, err := h.feedback.ListComments(c.Request.Context(), kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentViews(comments))
}

// Upvote: POST /vote/:kind/:id
func (h *FeedbackHandler) Upvote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.upvote(c, models.TargetKind(c.Param("kind")), id)
}

// PostComment: POST /comments/:kind/:id
func (h *FeedbackHandler) PostComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.postComment(c, models.TargetKind(c.Param("kind")), id)
}

// ListComments: GET /comments/:kind/:id
func (h *FeedbackHandler) ListComments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.listComments(c, models.TargetKind(c.Param("kind")), id)
}

// ForKind binds the feedback routes to a fixed kind, e.g. /issues/:id/upvote.
func (h *FeedbackHandler) ForKind(kind models.TargetKind) KindRoutes {
	return KindRoutes{h: h, kind: kind}
}

type KindRoutes struct {
	h    *FeedbackHandler
	kind models.TargetKind
}

func (k KindRoutes) Upvote(c *gin.Context) {
	if id, ok := idParam(c, "id"); ok {
		k.h.upvote(c, k.kind, id)
	}
}

func (k KindRoutes) PostComment(c *gin.Context) {
	if id, ok := idParam(c, "id"); ok {
		k.h.postComment(c, k.kind, id)
	}
}

func (k KindRoutes) ListComments(c *gin.Context) {
	if id, ok := idParam(c, "id"); ok {
		k.h.listComments(c, k.kind, id)
	}
}

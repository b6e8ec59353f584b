package handlers

import (
	"errors"
	"net/http"
	"time"

	"councilboard/internal/models"
	"councilboard/internal/services"
	"councilboard/internal/utils"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// 统一错误响应：{"error": "..."}
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps service errors to HTTP status codes. Unknown errors are
// logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidTarget):
		abortWithError(c, http.StatusBadRequest, msg(err))
	case errors.Is(err, services.ErrTargetNotFound):
		abortWithError(c, http.StatusNotFound, msg(err))
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrTargetArchived):
		abortWithError(c, http.StatusConflict, msg(err))
	case errors.Is(err, services.ErrRateLimited):
		abortWithError(c, http.StatusTooManyRequests, msg(err))
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		abortWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

func msg(err error) string {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

// idParam 解析路径中的正整数 id，失败时直接返回 404
func idParam(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		abortWithError(c, http.StatusNotFound, services.ErrTargetNotFound.Error())
		return 0, false
	}
	return id, true
}

// bindJSON tolerates an empty body so that missing fields surface as validation errors.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

type upvoteRequest struct {
	User string `json:"user"`
}

type commentRequest struct {
	Text string `json:"text"`
	User struct {
		User string `json:"user"`
	} `json:"user"`
	Official bool `json:"official"`
}

type commentView struct {
	ID         uint              `json:"id"`
	TargetType models.TargetKind `json:"target_type"`
	TargetID   uint              `json:"target_id"`
	Text       string            `json:"text"`
	Official   bool              `json:"official"`
	Upvotes    int               `json:"upvotes"`
	CreatedAt  time.Time         `json:"created_at"`
	CreatedAgo string            `json:"created_ago"`
}

func newCommentView(cm models.Comment) commentView {
	return commentView{
		ID:         cm.ID,
		TargetType: cm.TargetType,
		TargetID:   cm.TargetID,
		Text:       cm.Text,
		Official:   cm.Official,
		Upvotes:    cm.Upvotes,
		CreatedAt:  cm.CreatedAt,
		CreatedAgo: humanize.Time(cm.CreatedAt),
	}
}

func newCommentViews(list []models.Comment) []commentView {
	views := make([]commentView, 0, len(list))
	for _, cm := range list {
		views = append(views, newCommentView(cm))
	}
	return views
}

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

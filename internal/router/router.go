package router

import (
	"net/http"

	"councilboard/internal/handlers"
	"councilboard/internal/middleware"
	"councilboard/internal/models"
	"councilboard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "councilboard_session"

// Deps 汇总路由所需的服务
type Deps struct {
	Issues            *services.IssueService
	Announcements     *services.AnnouncementService
	Council           *services.CouncilService
	Feedback          *services.FeedbackService
	SessionSecret     string
	AdminPasswordHash string
	SecureCookies     bool
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	store := cookie.NewStore([]byte(deps.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// Handlers
	issueHandler := handlers.NewIssueHandler(deps.Issues)
	announcementHandler := handlers.NewAnnouncementHandler(deps.Announcements)
	councilHandler := handlers.NewCouncilHandler(deps.Council)
	feedbackHandler := handlers.NewFeedbackHandler(deps.Feedback)
	adminHandler := handlers.NewAdminHandler(deps.AdminPasswordHash)

	issueFeedback := feedbackHandler.ForKind(models.KindIssue)
	announcementFeedback := feedbackHandler.ForKind(models.KindAnnouncement)

	r.GET("/healthz", handlers.Health)

	// 公共路由 (Public Routes)
	r.GET("/issues", issueHandler.List)                              // 议题列表
	r.POST("/issues", issueHandler.Create)                           // 匿名提交议题
	r.GET("/issues/:id", issueHandler.Detail)                        // 议题详情（含评论）
	r.POST("/issues/:id/upvote", issueFeedback.Upvote)               // 点赞/取消点赞
	r.GET("/issues/:id/comments", issueFeedback.ListComments)        // 评论列表
	r.POST("/issues/:id/comments", issueFeedback.PostComment)        // 发表评论（限流）
	r.GET("/announcements", announcementHandler.List)                // 公告列表
	r.GET("/announcements/:id", announcementHandler.Detail)          // 公告详情
	r.POST("/announcements/:id/upvote", announcementFeedback.Upvote) // 公告点赞
	r.GET("/announcements/:id/comments", announcementFeedback.ListComments)
	r.POST("/announcements/:id/comments", announcementFeedback.PostComment)
	r.GET("/comments/:kind/:id", feedbackHandler.ListComments)
	r.POST("/comments/:kind/:id", feedbackHandler.PostComment)
	r.POST("/vote/:kind/:id", feedbackHandler.Upvote) // 通用投票：issue / announcement / comment
	r.GET("/council-members", councilHandler.List)
	r.GET("/council-members/:login", councilHandler.Get)

	r.POST("/admin/login", adminHandler.Login)
	r.POST("/admin/logout", adminHandler.Logout)

	// 管理员路由 (Admin Routes)
	admin := r.Group("/")
	admin.Use(middleware.AdminRequired())
	{
		admin.POST("/issues/:id/archive", issueHandler.Archive)
		admin.POST("/issues/:id/unarchive", issueHandler.Unarchive)
		admin.POST("/announcements", announcementHandler.Create)
		admin.POST("/council-members", councilHandler.Add)
		admin.DELETE("/council-members/:login", councilHandler.Remove)
	}
}

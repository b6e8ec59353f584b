package handlers

import (
	"net/http"

	"councilboard/internal/middleware"
	"councilboard/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AdminHandler 学生会管理员登录/退出
type AdminHandler struct {
	passwordHash string
}

func NewAdminHandler(passwordHash string) *AdminHandler {
	return &AdminHandler{passwordHash: passwordHash}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if h.passwordHash == "" || req.Password == "" {
		abortWithError(c, http.StatusUnauthorized, "invalid password")
		return
	}
	ok, err := utils.CheckPassword(req.Password, h.passwordHash)
	if err != nil {
		log.WithError(err).Error("Admin password hash is malformed")
	}
	if !ok {
		log.WithField("ip", c.ClientIP()).Warn("Failed admin login")
		abortWithError(c, http.StatusUnauthorized, "invalid password")
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionAdminKey, true)
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": true})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"admin": false})
}

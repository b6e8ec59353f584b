package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionAdminKey 登录成功后写入 session
const SessionAdminKey = "is_admin"

// IsAdmin reports whether the current session belongs to a council admin.
func IsAdmin(c *gin.Context) bool {
	session := sessions.Default(c)
	admin, _ := session.Get(SessionAdminKey).(bool)
	return admin
}

// AdminRequired ensures the council admin is logged in
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin login required"})
			return
		}
		c.Next()
	}
}

package app

import (
	"Gin_postgres_redis_inventory_tool/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// AuthRequired 从会话 Cookie 解析操作员身份，塞进 Context
// 审计流水的 actor 就是从这里来的
func AuthRequired(appSess *session.AppSessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		c.Set("actor", as.Actor)
		c.Set("station", as.Station)
		c.Next()
	}
}

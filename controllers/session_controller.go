package controllers

import (
	"net/http"
	"time"

	"Gin_postgres_redis_inventory_tool/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionController struct{ *Srv }

func NewSessionController(s *Srv) *SessionController { return &SessionController{Srv: s} }

// Login 操作员开班：站点口令换会话 Cookie
func (sc *SessionController) Login(c *gin.Context) {
	var in struct {
		Name    string `json:"name" binding:"required"`
		Station string `json:"station"`
		Token   string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if sc.Cfg.StationToken == "" || in.Token != sc.Cfg.StationToken {
		c.JSON(http.StatusUnauthorized, app.H{"error": "bad station token"})
		return
	}

	id := uuid.NewString()
	if err := sc.AppSess.Create(c.Request.Context(), id, in.Name, in.Station); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	sc.setAppCookie(c.Writer, id, sc.Cfg.SessionTTL)
	c.JSON(http.StatusOK, app.H{"ok": true, "actor": in.Name})
}

// Logout 删会话，Cookie 置空
func (sc *SessionController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = sc.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	sc.setAppCookie(c.Writer, "", -time.Second) // MaxAge -1，删除
	c.JSON(http.StatusOK, app.H{"ok": true})
}

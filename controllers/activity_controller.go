package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_inventory_tool/app"

	"github.com/gin-gonic/gin"
)

type ActivityController struct{ *Srv }

func NewActivityController(s *Srv) *ActivityController { return &ActivityController{Srv: s} }

// 审计流水（只读）
func (ac *ActivityController) ListActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	rows, err := ac.Repo.ListActivity(c.Request.Context(), c.Query("action"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"entries": rows})
}

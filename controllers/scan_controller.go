package controllers

import (
	"errors"
	"net/http"
	"time"

	"Gin_postgres_redis_inventory_tool/app"
	"Gin_postgres_redis_inventory_tool/db"
	"Gin_postgres_redis_inventory_tool/metrics"

	"github.com/gin-gonic/gin"
)

type ScanController struct{ *Srv }

func NewScanController(s *Srv) *ScanController { return &ScanController{Srv: s} }

// 扫描枪连击/页面重复提交的 SetNX 快挡。纯快速路径——
// 正确性靠 Repo 里那条条件 UPDATE，Redis 挂了就直接放行
const scanBurstWindow = 2 * time.Second

// Scan 盘点扫描
func (sc *ScanController) Scan(c *gin.Context) {
	var in struct {
		Barcode string `json:"barcode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	if sc.RDB != nil {
		key := "scan:burst:" + in.Barcode
		if ok, err := sc.RDB.SetNX(c.Request.Context(), key, actorFrom(c), scanBurstWindow).Result(); err == nil && !ok {
			metrics.ScansTotal.WithLabelValues("burst_rejected").Inc()
			c.JSON(http.StatusConflict, app.H{"error": "already scanned", "code": "already_scanned"})
			return
		}
	}

	it, err := sc.Repo.ScanItem(c.Request.Context(), in.Barcode, actorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, db.ErrItemNotFound):
			metrics.ScansTotal.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, app.H{"error": "item not found", "code": "not_found"})
		case errors.Is(err, db.ErrAlreadyScanned):
			metrics.ScansTotal.WithLabelValues("already_scanned").Inc()
			c.JSON(http.StatusConflict, app.H{"error": "already scanned", "code": "already_scanned"})
		case errors.Is(err, db.ErrScanConflict):
			// 别人先扫到：本地视图已过期，前端应刷新再试
			metrics.ScansTotal.WithLabelValues("conflict").Inc()
			c.JSON(http.StatusConflict, app.H{"error": "scanned by someone else", "code": "scan_conflict"})
		default:
			metrics.ScansTotal.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		}
		return
	}
	metrics.ScansTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, it)
}

// Reset 盘点复位（单件或全部）
func (sc *ScanController) Reset(c *gin.Context) {
	var in struct {
		Barcode string `json:"barcode"` // 空 = 全部
	}
	_ = c.ShouldBindJSON(&in)

	n, err := sc.Repo.ResetScans(c.Request.Context(), in.Barcode, actorFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "reset": n})
}

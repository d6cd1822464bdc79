package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_inventory_tool/app"
	"Gin_postgres_redis_inventory_tool/db"
	"Gin_postgres_redis_inventory_tool/metrics"

	"github.com/gin-gonic/gin"
)

type ReturnController struct{ *Srv }

func NewReturnController(s *Srv) *ReturnController { return &ReturnController{Srv: s} }

// ReturnOne 单件归还
func (rc *ReturnController) ReturnOne(c *gin.Context) {
	var in struct {
		Barcode string `json:"barcode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	line, err := rc.Repo.ReturnOne(c.Request.Context(), in.Barcode, actorFrom(c))
	if err != nil {
		if errors.Is(err, db.ErrNotOnLoan) {
			metrics.ReturnsTotal.WithLabelValues("not_on_loan").Inc()
			c.JSON(http.StatusNotFound, app.H{"error": "item is not on loan", "code": "not_on_loan"})
			return
		}
		metrics.ReturnsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	metrics.ReturnsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, line)
}

// ReturnBulk 批量归还：永远 200，结果看 summary
// （哪些还了、哪些不在借、哪些报错，前端逐条标注）
func (rc *ReturnController) ReturnBulk(c *gin.Context) {
	var in struct {
		Barcodes []string `json:"barcodes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	res, err := rc.Repo.ReturnMany(c.Request.Context(), in.Barcodes, actorFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	metrics.ReturnsTotal.WithLabelValues("bulk").Add(float64(res.ReturnedCount))
	c.JSON(http.StatusOK, res)
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_inventory_tool/app"
	"Gin_postgres_redis_inventory_tool/db"
	"Gin_postgres_redis_inventory_tool/models"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// 列表：默认只给可借的（开单选件用），?status= 可看全部状态
func (ic *ItemController) ListItems(c *gin.Context) {
	q := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if status := c.Query("status"); status != "" && status != string(models.ItemAvailable) {
		items, err := ic.Repo.ListItems(c.Request.Context(), status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, app.H{"items": items})
		return
	}

	items, err := ic.Repo.ListAvailableItems(c.Request.Context(), q, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (ic *ItemController) GetItem(c *gin.Context) {
	barcode := c.Param("barcode")
	it, err := ic.Repo.FindItemByBarcode(c.Request.Context(), barcode)
	if err != nil {
		if errors.Is(err, db.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, it)
}

// ImportItems 导入协作方入口：行已在上游解析校验，这里直接 upsert
func (ic *ItemController) ImportItems(c *gin.Context) {
	var in struct {
		Items []models.Item `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	n, err := ic.Repo.BulkUpsertItems(c.Request.Context(), in.Items, actorFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "upserted": n})
}

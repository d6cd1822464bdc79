package routes

import (
	"Gin_postgres_redis_inventory_tool/app"
	"Gin_postgres_redis_inventory_tool/controllers"
	"Gin_postgres_redis_inventory_tool/metrics"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	sessCtl := controllers.NewSessionController(s)
	itemCtl := controllers.NewItemController(s)
	scanCtl := controllers.NewScanController(s)
	loanCtl := controllers.NewLoanController(s)
	returnCtl := controllers.NewReturnController(s)
	actCtl := controllers.NewActivityController(s)

	authMW := app.AuthRequired(a.AppSessions())

	r.GET("/metrics", metrics.Handler())

	// ------------------------------
	// 会话（公开）
	// ------------------------------
	sess := r.Group("/api/session")
	{
		sess.POST("/login", sessCtl.Login)
		sess.POST("/logout", sessCtl.Logout)
	}

	// ------------------------------
	// 物品（浏览 + 导入）
	// ------------------------------
	items := r.Group("/api/items", authMW)
	{
		items.GET("", itemCtl.ListItems) // ?q=&limit=&status=
		items.GET("/:barcode", itemCtl.GetItem)
		items.POST("/import", itemCtl.ImportItems)
	}

	// ------------------------------
	// 盘点扫描
	// ------------------------------
	scan := r.Group("/api/scan", authMW)
	{
		scan.POST("", scanCtl.Scan)
		scan.POST("/reset", scanCtl.Reset)
	}

	// ------------------------------
	// 借用 / 归还
	// ------------------------------
	loans := r.Group("/api/loans", authMW)
	{
		loans.POST("", loanCtl.CreateLoan)
		loans.GET("", loanCtl.ListLoans) // ?status=open|completed
		loans.GET("/:invoice", loanCtl.GetLoan)
	}
	returns := r.Group("/api/returns", authMW)
	{
		returns.POST("", returnCtl.ReturnOne)
		returns.POST("/bulk", returnCtl.ReturnBulk)
	}

	// ------------------------------
	// 审计流水
	// ------------------------------
	activity := r.Group("/api/activity", authMW)
	{
		activity.GET("", actCtl.ListActivity) // ?action=&limit=
	}
}

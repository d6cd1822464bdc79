package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 引擎操作计数，result 维度区分成功/各类失败
var (
	ScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_scans_total",
		Help: "Stocktake scans by result.",
	}, []string{"result"})

	LoansCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_loans_created_total",
		Help: "Loan creations by result.",
	}, []string{"result"})

	ReturnsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_returns_total",
		Help: "Item returns by result.",
	}, []string{"result"})
)

// Register 只能调一次（MustRegister 重复注册会 panic）
func Register() {
	prometheus.MustRegister(ScansTotal, LoansCreatedTotal, ReturnsTotal)
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_inventory_tool/app"
	"Gin_postgres_redis_inventory_tool/db"
	"Gin_postgres_redis_inventory_tool/metrics"
	"Gin_postgres_redis_inventory_tool/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

type createLoanReq struct {
	BorrowerID   string   `json:"borrowerId" binding:"required"`
	BorrowerName string   `json:"borrowerName" binding:"required"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Unit         string   `json:"unit"`
	Program      string   `json:"program"`
	Reason       string   `json:"reason"`
	Signature    []byte   `json:"signature"`
	Barcodes     []string `json:"barcodes" binding:"required"`
	PeriodDays   int      `json:"periodDays"`
}

// CreateLoan 开借用单。先把借用人档案 upsert 一份，
// 单头仍存姓名快照——以后改档案不回写历史单据
func (lc *LoanController) CreateLoan(c *gin.Context) {
	var in createLoanReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	if err := lc.Repo.UpsertBorrower(c.Request.Context(), &models.Borrower{
		NationalID: in.BorrowerID,
		Name:       in.BorrowerName,
		Phone:      in.Phone,
		Email:      in.Email,
		Unit:       in.Unit,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	days := in.PeriodDays
	if days <= 0 {
		days = lc.Cfg.LoanDays
	}
	loan, err := lc.Repo.CreateLoan(c.Request.Context(), db.CreateLoanInput{
		BorrowerID:   in.BorrowerID,
		BorrowerName: in.BorrowerName,
		Inputter:     actorFrom(c),
		Program:      in.Program,
		Reason:       in.Reason,
		Signature:    in.Signature,
		Barcodes:     in.Barcodes,
		PeriodDays:   days,
	})
	if err != nil {
		var unavailable db.ItemUnavailableError
		switch {
		case errors.Is(err, db.ErrEmptyLoan), errors.Is(err, db.ErrDuplicateBarcode),
			errors.Is(err, db.ErrBadLoanPeriod):
			metrics.LoansCreatedTotal.WithLabelValues("bad_request").Inc()
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		case errors.As(err, &unavailable):
			// 整单已回滚；条码回给前端好标红刷新
			metrics.LoansCreatedTotal.WithLabelValues("unavailable").Inc()
			c.JSON(http.StatusConflict, app.H{
				"error":   unavailable.Error(),
				"code":    "item_unavailable",
				"barcode": unavailable.Barcode,
			})
		default:
			metrics.LoansCreatedTotal.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		}
		return
	}
	metrics.LoansCreatedTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusCreated, loan)
}

func (lc *LoanController) GetLoan(c *gin.Context) {
	loan, err := lc.Repo.FindLoanByInvoice(c.Request.Context(), c.Param("invoice"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "loan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (lc *LoanController) ListLoans(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ls, err := lc.Repo.ListLoans(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": ls})
}

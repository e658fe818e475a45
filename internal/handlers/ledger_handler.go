package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/models"
	"bookkeeper/internal/services"
)

// LedgerHandler serves general expenses, owner funds and the dashboard.
type LedgerHandler struct {
	expenseService   services.ExpenseService
	fundService      services.FundService
	dashboardService services.DashboardService
}

func NewLedgerHandler(expenseService services.ExpenseService, fundService services.FundService, dashboardService services.DashboardService) *LedgerHandler {
	return &LedgerHandler{
		expenseService:   expenseService,
		fundService:      fundService,
		dashboardService: dashboardService,
	}
}

func (h *LedgerHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// General expenses

func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.expenseService.SearchExpenses(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":  paginate(c, expenses),
		"total": h.expenseService.Total(expenses),
	})
}

func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	var expense models.GeneralExpense
	if err := c.ShouldBindJSON(&expense); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if err := h.expenseService.CreateExpense(&expense); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *LedgerHandler) UpdateExpense(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	expense, err := h.expenseService.UpdateExpense(c.Param("id"), func(e *models.GeneralExpense) error {
		return mergeJSON(e, body)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	if err := h.expenseService.DeleteExpense(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// Owner funds

func (h *LedgerHandler) ListFunds(c *gin.Context) {
	funds, err := h.fundService.GetAllFunds()
	if err != nil {
		respondError(c, err)
		return
	}
	totals, err := h.fundService.Totals()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":   paginate(c, funds),
		"totals": totals,
	})
}

func (h *LedgerHandler) CreateFund(c *gin.Context) {
	var fund models.FundTransaction
	if err := c.ShouldBindJSON(&fund); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if err := h.fundService.CreateFund(&fund); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fund)
}

func (h *LedgerHandler) UpdateFund(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	fund, err := h.fundService.UpdateFund(c.Param("id"), func(f *models.FundTransaction) error {
		return mergeJSON(f, body)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fund)
}

func (h *LedgerHandler) DeleteFund(c *gin.Context) {
	if err := h.fundService.DeleteFund(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fund transaction deleted"})
}

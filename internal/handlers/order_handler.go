package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/services"
)

type OrderHandler struct {
	orderService  services.OrderService
	vendorService services.VendorService
}

func NewOrderHandler(orderService services.OrderService, vendorService services.VendorService) *OrderHandler {
	return &OrderHandler{orderService: orderService, vendorService: vendorService}
}

// OrderView is an order with its computed figures and the vendor name to
// display for each expense line.
type OrderView struct {
	models.Order
	Figures            ledger.OrderFigures `json:"figures"`
	ExpenseVendorNames []string            `json:"expenseVendorNames"`
}

func (h *OrderHandler) view(order models.Order, vendors map[string]models.Vendor) OrderView {
	names := make([]string, len(order.Expenses))
	for i, e := range order.Expenses {
		names[i] = ledger.ResolveVendorName(e, vendors)
	}
	return OrderView{Order: order, Figures: ledger.Figures(order), ExpenseVendorNames: names}
}

func (h *OrderHandler) vendorIndex() (map[string]models.Vendor, error) {
	vendors, err := h.vendorService.GetAllVendors()
	if err != nil {
		return nil, err
	}
	return ledger.IndexVendors(vendors), nil
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.SearchOrders(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	vendors, err := h.vendorIndex()
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, h.view(o, vendors))
	}
	c.JSON(http.StatusOK, paginate(c, views))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	vendors, err := h.vendorIndex()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(*order, vendors))
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if err := h.orderService.CreateOrder(&order); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	order, err := h.orderService.UpdateOrder(c.Param("id"), func(o *models.Order) error {
		return services.MergeOrderJSON(o, body)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ToggleCompletion(c *gin.Context) {
	order, err := h.orderService.ToggleCompletion(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

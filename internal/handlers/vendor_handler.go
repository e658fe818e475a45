package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/models"
	"bookkeeper/internal/services"
)

type VendorHandler struct {
	vendorService services.VendorService
}

func NewVendorHandler(vendorService services.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

func (h *VendorHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendorService.GetAllVendors()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, vendors))
}

// GetVendor returns the vendor with its transactions and totals.
func (h *VendorHandler) GetVendor(c *gin.Context) {
	details, err := h.vendorService.GetVendorDetails(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if err := h.vendorService.CreateVendor(&vendor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	vendor, err := h.vendorService.UpdateVendor(c.Param("id"), func(v *models.Vendor) error {
		return mergeJSON(v, body)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	removed, err := h.vendorService.DeleteVendor(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted", "transactionsRemoved": removed})
}

func (h *VendorHandler) ListVendorTransactions(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.vendorService.GetVendorByID(id); err != nil {
		respondError(c, err)
		return
	}
	transactions, err := h.vendorService.GetTransactions(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, transactions))
}

func (h *VendorHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.vendorService.GetTransactions(c.Query("vendor_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, transactions))
}

func (h *VendorHandler) UpdateTransactionStatus(c *gin.Context) {
	var req struct {
		Status models.PaymentStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	transaction, err := h.vendorService.UpdateTransactionStatus(c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// mergeJSON applies the fields present in body onto dst.
func mergeJSON(dst interface{}, body []byte) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return &services.ValidationError{Field: "body", Message: err.Error(), Err: err}
	}
	return nil
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"satsforgood/donation/manager"
	"satsforgood/donation/qrcode"
)

const defaultRecentLimit = 10
const maxRecentLimit = 100

type DonationHandler struct {
	Manager *manager.Manager
}

func NewDonationHandler(m *manager.Manager) *DonationHandler {
	return &DonationHandler{Manager: m}
}

func (dh *DonationHandler) CreateInvoice(c *gin.Context) {
	amount, err := strconv.ParseInt(c.Query("amount_sats"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	inv, err := dh.Manager.CreateInvoice(amount, c.Query("donor_name"), c.Query("recipient"))
	if errors.Is(err, manager.ErrInvalidAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	qr, err := qrcode.DataURI(inv.Payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":      inv.Payload,
		"payment_hash": inv.PaymentID,
		"qr_code":      qr,
		"expires_in":   int64(time.Until(inv.ExpiresAt).Seconds()),
		"amount_sats":  inv.Amount,
		"donor_name":   inv.DonorName,
		"recipient":    inv.Recipient,
	})
}

func (dh *DonationHandler) CheckPayment(c *gin.Context) {
	paymentID := c.Query("payment_hash")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment_hash"})
		return
	}

	status, err := dh.Manager.CheckStatus(c.Request.Context(), paymentID)
	if errors.Is(err, manager.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	if errors.Is(err, manager.ErrOracleUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment check temporarily unavailable, retry later"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check payment"})
		return
	}

	resp := gin.H{"status": string(status.Status)}
	if status.Status == manager.StatusPaid {
		resp["paid_at"] = status.PaidAt
	}
	c.JSON(http.StatusOK, resp)
}

func (dh *DonationHandler) DonationStats(c *gin.Context) {
	stats, err := dh.Manager.GetStats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to read donation stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (dh *DonationHandler) RecentDonations(c *gin.Context) {
	limit := defaultRecentLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	donations, err := dh.Manager.GetRecentDonations(limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to read donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

func (dh *DonationHandler) DonationReceipt(c *gin.Context) {
	paymentID := c.Query("payment_hash")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment_hash"})
		return
	}

	receipt, err := dh.Manager.GetReceipt(paymentID)
	if errors.Is(err, manager.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to read receipt"})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

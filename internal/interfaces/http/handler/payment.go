package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/lodge/backend/internal/application/billing"
)

// PaymentHandler serves payment read models and receipt downloads
type PaymentHandler struct {
	BaseHandler
	ledger   *billingapp.LedgerService
	receipts *billingapp.ReceiptService
	accrual  *billingapp.AccrualService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	ledger *billingapp.LedgerService,
	receipts *billingapp.ReceiptService,
	accrual *billingapp.AccrualService,
) *PaymentHandler {
	return &PaymentHandler{
		ledger:   ledger,
		receipts: receipts,
		accrual:  accrual,
	}
}

// RegisterRoutes registers payment and receipt routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", h.ListPayments)
	rg.GET("/receipts/:entryId/url", h.ReceiptURL)
	rg.GET("/dashboard/recent-payments", h.RecentPayments)
}

// ListPayments returns every payment across all residents, newest first
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.ledger.ListPayments(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// ReceiptURL redirects to a short-lived signed URL for a payment's receipt PDF
func (h *PaymentHandler) ReceiptURL(c *gin.Context) {
	entryID, ok := h.parseIDParam(c, "entryId")
	if !ok {
		return
	}

	url, err := h.receipts.SignedReceiptURL(c.Request.Context(), entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// RecentPayments returns the per-resident payment overview, accruing rent
// first so reported balances are current. Pass active_only=true to exclude
// inactive residents.
func (h *PaymentHandler) RecentPayments(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.accrual.RefreshAllActive(ctx, time.Now()); err != nil {
		h.HandleError(c, err)
		return
	}

	activeOnly := c.Query("active_only") == "true"
	summaries, err := h.ledger.RecentPaymentSummary(ctx, activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summaries)
}

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/lodge/backend/internal/application/billing"
)

// ResidentHandler handles resident API endpoints. Read endpoints run the
// accrual engine first so balances always include charges due through today.
type ResidentHandler struct {
	BaseHandler
	residents *billingapp.ResidentService
	accrual   *billingapp.AccrualService
	ledger    *billingapp.LedgerService
}

// NewResidentHandler creates a new ResidentHandler
func NewResidentHandler(
	residents *billingapp.ResidentService,
	accrual *billingapp.AccrualService,
	ledger *billingapp.LedgerService,
) *ResidentHandler {
	return &ResidentHandler{
		residents: residents,
		accrual:   accrual,
		ledger:    ledger,
	}
}

// RegisterRoutes registers resident routes
func (h *ResidentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	residents := rg.Group("/residents")
	{
		residents.GET("", h.List)
		residents.POST("", h.Create)
		residents.GET("/:id", h.Get)
		residents.PUT("/:id", h.Update)
		residents.PATCH("/:id/status", h.SetStatus)
		residents.DELETE("/:id", h.Delete)
		residents.GET("/:id/ledger", h.ListLedger)
		residents.POST("/:id/ledger", h.RecordEntry)
	}
}

// List returns all residents with their balances, accruing rent first
func (h *ResidentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.accrual.RefreshAllActive(ctx, time.Now()); err != nil {
		h.HandleError(c, err)
		return
	}

	residents, err := h.residents.ListResidentsWithBalances(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, residents)
}

// Create creates a new resident
func (h *ResidentHandler) Create(c *gin.Context) {
	var req billingapp.CreateResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resident, err := h.residents.CreateResident(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resident)
}

// Get returns one resident with an up-to-date balance
func (h *ResidentHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.accrual.EnsureChargesUpToDate(ctx, id, time.Now()); err != nil {
		h.HandleError(c, err)
		return
	}

	resident, err := h.residents.GetResident(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	balance, err := h.ledger.ComputeBalance(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, billingapp.ResidentWithBalanceResponse{
		ResidentResponse: *resident,
		Balance:          balance,
	})
}

// Update updates a resident's details
func (h *ResidentHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req billingapp.UpdateResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resident, err := h.residents.UpdateResident(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resident)
}

// SetStatus moves a resident between Active and Inactive
func (h *ResidentHandler) SetStatus(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req billingapp.SetResidentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resident, err := h.residents.SetResidentStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resident)
}

// Delete removes a resident and their ledger history
func (h *ResidentHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.residents.DeleteResident(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListLedger returns the resident's ledger, accruing rent first
func (h *ResidentHandler) ListLedger(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.accrual.EnsureChargesUpToDate(ctx, id, time.Now()); err != nil {
		h.HandleError(c, err)
		return
	}

	entries, err := h.ledger.ListEntries(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// RecordEntry records a manual charge, payment or adjustment
func (h *ResidentHandler) RecordEntry(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req billingapp.RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}
	req.ResidentID = id
	req.CreatedBy = actorID(c)

	entry, err := h.ledger.RecordEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

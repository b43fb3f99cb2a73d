package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	financeapp "github.com/lodge/backend/internal/application/finance"
	"github.com/lodge/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense API endpoints. Expense creation is a
// multipart form so attachments ride along with the expense fields.
type ExpenseHandler struct {
	BaseHandler
	service *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// RegisterRoutes registers expense routes
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.List)
		expenses.POST("", h.Create)
		expenses.DELETE("/:id", h.Delete)
		expenses.GET("/files/:fileId/url", h.FileURL)
	}
}

// List returns all expenses with attachment metadata, newest first
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.service.ListExpenses(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expenses)
}

// expenseForm holds the non-file fields of the multipart expense form
type expenseForm struct {
	Vendor      string  `form:"vendor" binding:"required,max=200"`
	ExpenseDate string  `form:"expense_date" binding:"required"`
	Amount      string  `form:"amount" binding:"required"`
	Category    *string `form:"category"`
	Notes       *string `form:"notes"`
}

// Create records an expense from a multipart form. Files are sent under the
// "files" field; the body limit middleware caps the total upload size.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var form expenseForm
	if err := c.ShouldBind(&form); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	expenseDate, err := time.Parse("2006-01-02", form.ExpenseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeValidation, "expense_date must be formatted as YYYY-MM-DD", getRequestID(c)))
		return
	}

	amount, err := decimal.NewFromString(form.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeValidation, "amount must be a decimal number", getRequestID(c)))
		return
	}

	attachments, err := readAttachments(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	req := financeapp.CreateExpenseRequest{
		Vendor:      form.Vendor,
		ExpenseDate: expenseDate,
		Amount:      amount,
		Category:    form.Category,
		Notes:       form.Notes,
		CreatedBy:   actorID(c),
		Attachments: attachments,
	}

	expense, err := h.service.CreateExpense(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// readAttachments reads every uploaded "files" part into memory. Uploads are
// small by policy; the body limit middleware rejects oversized requests
// before this runs.
func readAttachments(c *gin.Context) ([]financeapp.AttachmentUpload, error) {
	form, err := c.MultipartForm()
	if err == http.ErrNotMultipart {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	headers := form.File["files"]
	attachments := make([]financeapp.AttachmentUpload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, financeapp.AttachmentUpload{
			Filename: header.Filename,
			Data:     data,
		})
	}
	return attachments, nil
}

// Delete removes an expense and its attachment metadata
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteExpense(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// FileURL redirects to a short-lived signed URL for one attachment
func (h *ExpenseHandler) FileURL(c *gin.Context) {
	fileID, ok := h.parseIDParam(c, "fileId")
	if !ok {
		return
	}

	url, err := h.service.SignedFileURL(c.Request.Context(), fileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

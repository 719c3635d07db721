package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/auth"
	"github.com/toqasaad97/invoice/internal/document"
	"github.com/toqasaad97/invoice/internal/email"
	"github.com/toqasaad97/invoice/internal/form"
	"github.com/toqasaad97/invoice/internal/model"
	"github.com/toqasaad97/invoice/internal/repository"
)

// workbookContentType marks generated documents as binary downloads.
const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers.
type Handlers struct {
	invoices *repository.InvoiceRepository
	auth     *auth.Service
	docs     *document.Generator
	mailer   email.Sender
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	invoices *repository.InvoiceRepository,
	authService *auth.Service,
	docs *document.Generator,
	mailer email.Sender,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		invoices: invoices,
		auth:     authService,
		docs:     docs,
		mailer:   mailer,
		logger:   logger,
	}
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// DuplicateRequest identifies the source invoice and the numbers for the
// copy.
type DuplicateRequest struct {
	InvoiceNumber    string `json:"invoiceNumber"`
	ReferenceNumber  string `json:"referenceNumber"`
	OldInvoiceNumber string `json:"oldInvoiceNumber"`
}

// VoucherRequest is the voucher generation payload.
type VoucherRequest struct {
	Details    string  `json:"details"`
	ValidUntil string  `json:"validUntil"`
	Amount     float64 `json:"amount"`
}

// EmailRequest is the send-email payload.
type EmailRequest struct {
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
	CCEmails []string `json:"ccEmails"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "invoice-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Login handles POST /api/invoicesLogin
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	token, err := h.auth.Login(req.UserName, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		// No token field on failure; the client must not navigate on.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}
	if err != nil {
		h.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListForms handles GET /api/listForms
func (h *Handlers) ListForms(c *gin.Context) {
	invoices, err := h.invoices.List()
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve invoices"})
		return
	}

	items := make([]model.ListItem, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, model.ListItem{
			ID:              inv.ID,
			InvoiceNumber:   inv.InvoiceNumber,
			ReferenceNumber: inv.ReferenceNumber,
			Email:           inv.Email,
			TotalAmount:     form.Compute(inv).GrandTotal,
			Currency:        inv.Currency,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// DisplayForm handles GET /api/displayForm/:id
func (h *Handlers) DisplayForm(c *gin.Context) {
	h.getInvoice(c)
}

// ClientInvoice handles GET /api/clientInvoice/:id, the read-only viewer
// path. Same payload as the editor path.
func (h *Handlers) ClientInvoice(c *gin.Context) {
	h.getInvoice(c)
}

func (h *Handlers) getInvoice(c *gin.Context) {
	inv, ok := h.loadInvoice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

// AddForm handles POST /api/addForm
func (h *Handlers) AddForm(c *gin.Context) {
	var inv model.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	// Nights derive from the shared stay window first, so validation and any
	// rows padded below both see the derived count, not the payload's.
	inv.TotalNights = form.TotalNights(inv.CheckInDate, inv.CheckOutDate)

	if errs := form.Validate(&inv, time.Now().UTC()); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs.ByField()})
		return
	}

	form.Reconcile(&inv, inv.TotalRooms)
	form.Refresh(&inv)

	inv.ID = uuid.NewString()
	inv.Stamp("Invoice created")

	if err := h.invoices.Create(&inv); err != nil {
		h.logger.Error("Failed to create invoice", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create invoice"})
		return
	}

	h.logger.Info("Invoice created",
		zap.String("id", inv.ID),
		zap.String("invoice_number", inv.InvoiceNumber))
	c.JSON(http.StatusCreated, gin.H{"data": inv})
}

// EditForm handles PUT /api/editForm/:id
func (h *Handlers) EditForm(c *gin.Context) {
	existing, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	var inv model.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	inv.TotalNights = form.TotalNights(inv.CheckInDate, inv.CheckOutDate)

	if errs := form.Validate(&inv, time.Now().UTC()); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs.ByField()})
		return
	}

	// Identity and history belong to the stored record, not the payload.
	inv.ID = existing.ID
	inv.CreatedAt = existing.CreatedAt
	inv.Actions = existing.Actions

	form.Reconcile(&inv, inv.TotalRooms)
	form.Refresh(&inv)
	inv.Stamp("Invoice updated")

	if err := h.invoices.Update(&inv); err != nil {
		h.logger.Error("Failed to update invoice", zap.String("id", inv.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

// DuplicateForm handles POST /api/duplicateForm
func (h *Handlers) DuplicateForm(c *gin.Context) {
	var req DuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	// Rejected before any database write.
	if req.InvoiceNumber == "" || req.OldInvoiceNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invoice number is required"})
		return
	}

	source, err := h.invoices.GetByInvoiceNumber(req.OldInvoiceNumber)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "invoice not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to load source invoice", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to duplicate invoice"})
		return
	}

	var dup model.Invoice
	if err := deepcopy.Copy(&dup, source); err != nil {
		h.logger.Error("Failed to copy invoice", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to duplicate invoice"})
		return
	}

	dup.ID = uuid.NewString()
	dup.InvoiceNumber = req.InvoiceNumber
	dup.ReferenceNumber = req.ReferenceNumber
	dup.Actions = nil
	dup.Stamp(fmt.Sprintf("Duplicated from %s", req.OldInvoiceNumber))

	if err := h.invoices.Create(&dup); err != nil {
		h.logger.Error("Failed to store duplicate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to duplicate invoice"})
		return
	}

	h.logger.Info("Invoice duplicated",
		zap.String("old", req.OldInvoiceNumber),
		zap.String("new", req.InvoiceNumber))
	c.JSON(http.StatusCreated, gin.H{"data": dup})
}

// GenerateFormPDF handles POST /api/generateFormPdf. The posted payload is
// rendered as-is; it does not have to be a stored invoice.
func (h *Handlers) GenerateFormPDF(c *gin.Context) {
	var inv model.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if inv.Table == nil {
		inv.Table = []model.Room{}
	}

	data, err := h.docs.RenderInvoice(&inv)
	if err != nil {
		h.logger.Error("Failed to render invoice document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate document"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.xlsx", inv.InvoiceNumber))
	c.Data(http.StatusOK, workbookContentType, data)
}

// GenerateVoucher handles POST /api/generateVoucher/:id
func (h *Handlers) GenerateVoucher(c *gin.Context) {
	inv, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	var req VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	data, err := h.docs.RenderVoucher(inv, req.Details, req.ValidUntil, req.Amount)
	if err != nil {
		h.logger.Error("Failed to render voucher", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate voucher"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=voucher-%s.xlsx", inv.InvoiceNumber))
	c.Data(http.StatusOK, workbookContentType, data)
}

// SendInvoiceEmail handles POST /api/sendInvoiceEmail/:id
func (h *Handlers) SendInvoiceEmail(c *gin.Context) {
	inv, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	var recipients []string
	for _, addr := range inv.Email {
		if addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invoice has no recipient email"})
		return
	}

	msg := email.Message{
		To:      recipients,
		CC:      req.CCEmails,
		Subject: req.Subject,
		Body:    req.Message,
	}
	if err := h.mailer.Send(c.Request.Context(), msg); err != nil {
		h.logger.Error("Failed to send invoice email", zap.String("id", inv.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to send email"})
		return
	}

	inv.Stamp("Email sent")
	if err := h.invoices.Update(inv); err != nil {
		// The mail left; a failed audit stamp should not fail the request.
		h.logger.Warn("Failed to record email action", zap.String("id", inv.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent"})
}

// loadInvoice resolves the :id path parameter, writing the error response on
// failure.
func (h *Handlers) loadInvoice(c *gin.Context) (*model.Invoice, bool) {
	id := c.Param("id")

	inv, err := h.invoices.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "invoice not found"})
		return nil, false
	}
	if err != nil {
		h.logger.Error("Failed to get invoice", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve invoice"})
		return nil, false
	}

	return inv, true
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicepro/server/internal/currency"
	"github.com/invoicepro/server/internal/errs"
	"github.com/invoicepro/server/internal/logger"
	"github.com/invoicepro/server/internal/models"
	"github.com/invoicepro/server/internal/service"
	"github.com/rs/zerolog"
)

// Handler wires the HTTP surface to the service layer.
type Handler struct {
	svc service.Service
	log zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc service.Service) *Handler {
	return &Handler{
		svc: svc,
		log: logger.WithComponent("api"),
	}
}

// SetupRoutes registers all routes on the router.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	// Static reference data, no auth needed
	api.GET("/currencies", h.ListCurrencies)

	authed := api.Group("")
	authed.Use(AuthMiddleware())

	authed.GET("/invoices", h.ListInvoices)
	authed.POST("/invoices", h.CreateInvoice)
	authed.PUT("/invoices/:id", h.UpdateInvoice)
	authed.DELETE("/invoices/:id", h.DeleteInvoice)

	authed.GET("/clients", h.ListClients)
	authed.POST("/clients", h.CreateClient)
	authed.PUT("/clients/:id", h.UpdateClient)

	authed.GET("/business-settings", h.GetSettings)
	authed.PUT("/business-settings", h.UpdateSettings)

	authed.GET("/dashboard", h.GetDashboard)
	authed.GET("/dashboard/chart", h.GetDashboardChart)
	authed.GET("/reports", h.GetReport)

	authed.POST("/send-invoice-email", h.SendInvoiceEmail)
}

func userID(c *gin.Context) string {
	return c.MustGet("userId").(string)
}

// writeError maps service errors onto the HTTP taxonomy. Raw internal detail
// never reaches the caller.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status: "error", Code: "NOT_FOUND", Message: "Resource not found",
		})
	case errors.Is(err, errs.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status: "error", Code: "VALIDATION_ERROR", Message: err.Error(),
		})
	case errors.Is(err, errs.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status: "error", Code: "ALREADY_EXISTS", Message: err.Error(),
		})
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status: "error", Code: "INVALID_CREDENTIALS", Message: "Invalid email or password",
		})
	case errors.Is(err, errs.ErrDependency):
		h.log.Error().Err(err).Msg("dependency failure")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Status: "error", Code: "DEPENDENCY_ERROR", Message: "Upstream dependency failed",
		})
	default:
		h.log.Error().Err(err).Msg("internal error")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status: "error", Code: "INTERNAL_ERROR", Message: "Internal server error",
		})
	}
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status: "error", Code: "BAD_REQUEST", Message: err.Error(),
	})
}

// Authentication handlers
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Invoice handlers
func (h *Handler) ListInvoices(c *gin.Context) {
	invoices, err := h.svc.ListInvoices(c.Request.Context(), userID(c),
		c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if invoices == nil {
		invoices = []models.Invoice{}
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	inv, err := h.svc.CreateInvoice(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	inv, err := h.svc.UpdateInvoice(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	if err := h.svc.DeleteInvoice(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Client handlers
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.svc.ListClients(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if clients == nil {
		clients = []models.Client{}
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	client, err := h.svc.CreateClient(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	var req models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	client, err := h.svc.UpdateClient(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// Business settings handlers
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.svc.GetSettings(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req models.BusinessSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	settings, err := h.svc.UpdateSettings(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Dashboard and report handlers
func (h *Handler) GetDashboard(c *gin.Context) {
	metrics, err := h.svc.GetDashboard(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) GetDashboardChart(c *gin.Context) {
	png, err := h.svc.RenderSummaryChart(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// ListCurrencies returns the supported currency table.
func (h *Handler) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, currency.Currencies)
}

func (h *Handler) GetReport(c *gin.Context) {
	report, err := h.svc.GetReport(c.Request.Context(), userID(c),
		c.Query("period"), c.Query("status"), c.Query("client"), c.Query("currency"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Email handler
func (h *Handler) SendInvoiceEmail(c *gin.Context) {
	var req models.SendInvoiceEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.svc.SendInvoiceEmail(c.Request.Context(), userID(c), req); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Invoice email sent"})
}

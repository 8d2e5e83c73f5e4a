package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sgemaster/sge-backend/internal/assistant"
	"github.com/sgemaster/sge-backend/internal/http/middleware"
	"github.com/sgemaster/sge-backend/internal/model"
	"github.com/sgemaster/sge-backend/internal/rpc"
	"github.com/sgemaster/sge-backend/internal/service"
)

type Services struct {
	Contracts *service.ContractService
	Reports   *service.ReportService
	Recon     *service.ReconService
	Assistant *service.AssistantService
	Settings  *service.SettingsService
}

type Handler struct {
	svc Services
	log zerolog.Logger
}

func NewHandler(svc Services, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/status", h.status)

	protected.GET("/contracts", h.listContracts)
	protected.POST("/contracts/refresh", h.refreshContracts)
	protected.PUT("/contracts", h.saveContract)

	protected.GET("/dashboard/summary", h.dashboardSummary)

	protected.POST("/bank/statements", h.analyzeStatement)

	protected.GET("/reports/contracts.xlsx", h.exportReport(model.ReportFormatExcel))
	protected.GET("/reports/delinquency.pdf", h.exportReport(model.ReportFormatPDF))
	protected.GET("/reports/contracts.json", h.exportReport(model.ReportFormatJSON))

	protected.GET("/assistant/messages", h.assistantGreeting)
	protected.POST("/assistant/messages", h.askAssistant)

	protected.GET("/settings/store", h.storeMetadata)
	protected.POST("/settings/store", h.linkStore)
	protected.GET("/settings/columns", h.storeColumns)
}

func (h *Handler) status(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	list, err := h.svc.Contracts.List("", principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": list.State, "contracts": list.Total})
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	list, err := h.svc.Contracts.List(c.Query("q"), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) refreshContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contracts, err := h.svc.Contracts.Refresh(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": contracts, "total": len(contracts)})
}

func (h *Handler) saveContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var patch model.ContractPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.svc.Contracts.Save(c.Request.Context(), patch, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) dashboardSummary(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	summary, err := h.svc.Contracts.Summary(principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) analyzeStatement(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()

	result, err := h.svc.Recon.Analyze(c.Request.Context(), header.Filename, file, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) exportReport(format model.ReportFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.MustPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
			return
		}

		result, err := h.svc.Reports.GenerateReport(c.Request.Context(), service.GenerateReportInput{
			Format:    format,
			Principal: principal,
		})
		if err != nil {
			h.handleError(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
		c.Data(http.StatusOK, result.ContentType, result.Content)
	}
}

// assistantGreeting returns the transcript a new chat starts with.
func (h *Handler) assistantGreeting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": []model.ChatMessage{
		{Role: model.ChatRoleAI, Text: assistant.Greeting},
	}})
}

type askRequest struct {
	History []model.ChatMessage `json:"history"`
	Prompt  string              `json:"prompt"`
}

func (h *Handler) askAssistant(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.svc.Assistant.Ask(c.Request.Context(), req.History, req.Prompt, principal)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": msg})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnavailable),
		errors.Is(err, service.ErrPermissionDenied):
		h.handleError(c, err)
	default:
		// The chat shows the apology as an assistant turn.
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   err.Error(),
			"message": model.ChatMessage{Role: model.ChatRoleAI, Text: assistant.ErrorReply},
		})
	}
}

func (h *Handler) storeMetadata(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	meta, err := h.svc.Settings.Metadata(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metadata": meta})
}

type linkStoreRequest struct {
	Input string `json:"input" binding:"required"`
}

func (h *Handler) linkStore(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req linkStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.svc.Settings.Link(c.Request.Context(), req.Input, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) storeColumns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"columns": service.StoreColumns})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var hostErr *rpc.HostError
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &hostErr):
		h.log.Warn().Err(err).Str("path", c.FullPath()).Msg("backing store call failed")
		body := gin.H{"error": hostErr.Message}
		if detail, ok := hostErr.ScriptError(); ok {
			body["detail"] = detail.ErrorMessage
		}
		c.JSON(http.StatusBadGateway, body)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

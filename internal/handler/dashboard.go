package handler

import (
	"net/http"

	"shopmate/internal/dto"
	"shopmate/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) Trends(c *gin.Context) {
	resp, err := h.svc.Trends(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type AuditLogsHandler struct{ svc service.AuditService }

func NewAuditLogsHandler(svc service.AuditService) *AuditLogsHandler {
	return &AuditLogsHandler{svc: svc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	var filter dto.AuditLogFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

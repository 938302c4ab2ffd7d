package handler

import (
	"fmt"
	"net/http"

	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/v1/orders/"+resp.OrderID)
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
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

// Get returns one order; ?expand=customer,status embeds the related records.
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Order)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id, c.Query("expand"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Update(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Order)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Delete(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Order)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Products is the aggregate view: each product in the order with its quantity.
func (h *OrdersHandler) Products(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Order)
	if !ok {
		return
	}
	resp, err := h.svc.ProductQuantities(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) AddItems(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Order)
	if !ok {
		return
	}
	var req dto.AddOrderItemsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItems(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) InvoicePDF(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Order)
	if !ok {
		return
	}
	data, err := h.svc.RenderInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="invoice_%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", data)
}

// SendInvoice queues the invoice email; delivery happens in the background.
func (h *OrdersHandler) SendInvoice(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Order)
	if !ok {
		return
	}
	if err := h.svc.SendInvoice(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"order_id": id, "status": "queued"})
}

// ── Invoice rows ──────────────────────────────────────────────────────────────

func (h *OrdersHandler) ListInvoices(c *gin.Context) {
	var filter dto.InvoiceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) GetInvoice(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) DeleteInvoice(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteInvoice(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/v1/customers/"+resp.CustomerID)
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) List(c *gin.Context) {
	var filter dto.CustomerFilter
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

func (h *CustomersHandler) Get(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Customer)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) ListOrders(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Customer)
	if !ok {
		return
	}
	var filter dto.OrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListOrders(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Update(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Customer)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
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

func (h *CustomersHandler) Delete(c *gin.Context) {
	id, ok := identParam(c, "id", ident.Customer)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/v1/products/"+resp.SKU)
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
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

func (h *ProductsHandler) Get(c *gin.Context) {
	sku, ok := identParam(c, "sku", ident.Product)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), sku)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	sku, ok := identParam(c, "sku", ident.Product)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), sku, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	sku, ok := identParam(c, "sku", ident.Product)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), sku); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddAttribute links an existing attribute to the product. Linking twice is a no-op.
func (h *ProductsHandler) AddAttribute(c *gin.Context) {
	sku, ok := identParam(c, "sku", ident.Product)
	if !ok {
		return
	}
	attrID, ok := uuidParam(c, "attr_id")
	if !ok {
		return
	}
	resp, err := h.svc.AddAttribute(c.Request.Context(), sku, attrID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) RemoveAttribute(c *gin.Context) {
	sku, ok := identParam(c, "sku", ident.Product)
	if !ok {
		return
	}
	attrID, ok := uuidParam(c, "attr_id")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveAttribute(c.Request.Context(), sku, attrID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

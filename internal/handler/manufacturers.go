package handler

import (
	"net/http"

	"shopmate/internal/dto"
	"shopmate/internal/service"

	"github.com/gin-gonic/gin"
)

type ManufacturersHandler struct{ svc service.ManufacturerService }

func NewManufacturersHandler(svc service.ManufacturerService) *ManufacturersHandler {
	return &ManufacturersHandler{svc: svc}
}

func (h *ManufacturersHandler) Create(c *gin.Context) {
	var req dto.CreateManufacturerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ManufacturersHandler) List(c *gin.Context) {
	var filter dto.ManufacturerFilter
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

func (h *ManufacturersHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
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

func (h *ManufacturersHandler) ListBrands(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var filter dto.BrandFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListBrands(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ManufacturersHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateManufacturerRequest
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

// Disable switches the manufacturer off along with its brands and their products.
func (h *ManufacturersHandler) Disable(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Disable(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ManufacturersHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

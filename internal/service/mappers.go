package service

import (
	"shopmate/internal/dto"
	"shopmate/internal/model"
)

func mapManufacturer(m model.Manufacturer) dto.ManufacturerResponse {
	return dto.ManufacturerResponse{
		ID:        m.ID,
		Name:      m.Name,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func mapBrand(b model.Brand) dto.BrandResponse {
	return dto.BrandResponse{
		ID:             b.ID,
		Name:           b.Name,
		Enabled:        b.Enabled,
		ManufacturerID: b.ManufacturerID,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func mapAttribute(a model.ProductAttribute) dto.AttributeResponse {
	return dto.AttributeResponse{ID: a.ID, Key: a.Key, Value: a.Value}
}

func mapProduct(p model.Product) dto.ProductResponse {
	attrs := make([]dto.AttributeResponse, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		attrs = append(attrs, mapAttribute(a))
	}
	return dto.ProductResponse{
		SKU:         p.SKU,
		Description: p.Description,
		Enabled:     p.Enabled,
		BrandID:     p.BrandID,
		Attributes:  attrs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func mapCustomer(c model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		CustomerID: c.CustomerID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func mapOrderStatus(s model.OrderStatus) dto.OrderStatusResponse {
	return dto.OrderStatusResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Enabled:     s.Enabled,
	}
}

func mapOrder(o model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		OrderID:    o.OrderID,
		CustomerID: o.CustomerID,
		StatusID:   o.StatusID,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	if o.Customer != nil {
		c := mapCustomer(*o.Customer)
		resp.Customer = &c
	}
	if o.Status != nil {
		s := mapOrderStatus(*o.Status)
		resp.Status = &s
	}
	return resp
}

func mapInvoice(i model.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:         i.ID,
		OrderID:    i.OrderID,
		ProductSKU: i.ProductSKU,
		Qty:        i.Qty,
		CreatedAt:  i.CreatedAt,
	}
}

func mapList[M any, R any](items []M, fn func(M) R) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

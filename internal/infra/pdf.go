package infra

// pdf.go renders an order's invoice with go-pdf/fpdf: store header, order id
// and date, customer block, one row per product (SKU, description, quantity)
// and a total-units footer.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"shopmate/internal/model"

	"github.com/go-pdf/fpdf"
)

// InvoiceDocument is everything printed on an order invoice.
type InvoiceDocument struct {
	Order    model.Order
	Customer *model.Customer
	Lines    []model.ProductQuantity
}

// RenderInvoicePDF returns the invoice as PDF bytes.
func RenderInvoicePDF(doc InvoiceDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "ShopMate", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Invoice "+doc.Order.OrderID, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, doc.Order.CreatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Customer ─────────────────────────────────────────────────────────────
	if c := doc.Customer; c != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Bill to", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW, 5, fmt.Sprintf("%s %s (%s)", c.FirstName, c.LastName, c.CustomerID), "", 1, "L", false, 0, "")
		if c.Email != nil {
			pdf.CellFormat(contentW, 5, *c.Email, "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	// ── Lines ────────────────────────────────────────────────────────────────
	colSKU := contentW * 0.25
	colDesc := contentW * 0.55
	colQty := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colSKU, 7, "SKU", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colDesc, 7, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 7, "Qty", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var units int64
	for _, line := range doc.Lines {
		desc := ""
		if line.Product.Description != nil {
			desc = *line.Product.Description
		}
		if len(desc) > 48 {
			desc = desc[:47] + "..."
		}
		pdf.CellFormat(colSKU, 6, line.Product.SKU, "", 0, "L", false, 0, "")
		pdf.CellFormat(colDesc, 6, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", line.Quantity), "", 1, "R", false, 0, "")
		units += line.Quantity
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colSKU+colDesc, 7, "Total units", "T", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 7, fmt.Sprintf("%d", units), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveInvoicePDF writes data to storagePath/invoice_{orderID}.pdf and returns
// the file path.
func SaveInvoicePDF(storagePath, orderID string, data []byte) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(storagePath, fmt.Sprintf("invoice_%s.pdf", orderID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}

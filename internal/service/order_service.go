package service

import (
	"context"
	"fmt"
	"strings"

	"shopmate/internal/audit"
	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/infra"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InvoiceQueue hands an invoice email off to the background workers.
type InvoiceQueue interface {
	EnqueueInvoiceEmail(ctx context.Context, orderID, to string) error
}

// OrderService defines business operations for orders and their line items.
type OrderService interface {
	// Create assigns the next order id and stores the order with its initial
	// line items in one transaction.
	Create(ctx context.Context, req dto.CreateOrderRequest) (dto.OrderResponse, error)
	Get(ctx context.Context, orderID string, expand string) (dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (dto.ListResponse[dto.OrderResponse], error)
	Update(ctx context.Context, orderID string, req dto.UpdateOrderRequest) (dto.OrderResponse, error)
	Delete(ctx context.Context, orderID string) error

	AddItems(ctx context.Context, orderID string, req dto.AddOrderItemsRequest) (dto.OrderProductsResponse, error)

	// ProductQuantities is the order's aggregate view: every distinct product
	// with the total quantity ordered, sorted by SKU.
	ProductQuantities(ctx context.Context, orderID string) (dto.OrderProductsResponse, error)

	RenderInvoice(ctx context.Context, orderID string) ([]byte, error)
	SendInvoice(ctx context.Context, orderID string) error

	ListInvoices(ctx context.Context, filter dto.InvoiceFilter) (dto.ListResponse[dto.InvoiceResponse], error)
	GetInvoice(ctx context.Context, id uuid.UUID) (dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	repo      repository.OrderRepository
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	statuses  repository.OrderStatusRepository
	products  repository.ProductRepository
	counters  repository.CounterRepository
	queue     InvoiceQueue
	after     afterCommit
}

func NewOrderService(
	repo repository.OrderRepository,
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	statuses repository.OrderStatusRepository,
	products repository.ProductRepository,
	counters repository.CounterRepository,
	queue InvoiceQueue,
	rec audit.Recorder,
	inv Invalidator,
) OrderService {
	return &orderService{
		repo:      repo,
		invoices:  invoices,
		customers: customers,
		statuses:  statuses,
		products:  products,
		counters:  counters,
		queue:     queue,
		after:     newAfterCommit(rec, inv),
	}
}

func orderRef(id string) string { return "order " + id }

// expandRelations turns "customer,status" into the relations to preload.
func expandRelations(expand string) []string {
	var with []string
	for _, part := range strings.Split(expand, ",") {
		switch strings.TrimSpace(part) {
		case "customer":
			with = append(with, repository.OrderWithCustomer)
		case "status":
			with = append(with, repository.OrderWithStatus)
		}
	}
	return with
}

func (s *orderService) loadStatus(ctx context.Context, raw string) (*model.OrderStatus, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("order status %q: %w", raw, ErrInvalidReference)
	}
	st, err := s.statuses.FindByID(ctx, id)
	if err != nil {
		return nil, refErr(err, statusRef(id))
	}
	return st, nil
}

// buildItems resolves every requested SKU into an invoice row for orderID.
func (s *orderService) buildItems(ctx context.Context, orderID string, items []dto.OrderItemRequest) ([]model.Invoice, error) {
	rows := make([]model.Invoice, 0, len(items))
	for _, it := range items {
		p, err := s.products.FindBySKU(ctx, it.SKU)
		if err != nil {
			return nil, refErr(err, productRef(it.SKU))
		}
		if !p.Enabled {
			return nil, fmt.Errorf("%s is disabled: %w", productRef(p.SKU), ErrUnprocessable)
		}
		qty := it.Qty
		if qty < 1 {
			qty = 1
		}
		rows = append(rows, model.Invoice{OrderID: orderID, ProductSKU: p.SKU, Qty: qty})
	}
	return rows, nil
}

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (dto.OrderResponse, error) {
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return dto.OrderResponse{}, refErr(err, customerRef(req.CustomerID))
	}
	st, err := s.loadStatus(ctx, req.StatusID)
	if err != nil {
		return dto.OrderResponse{}, err
	}
	items, err := s.buildItems(ctx, "", req.Items)
	if err != nil {
		return dto.OrderResponse{}, err
	}

	o := &model.Order{CustomerID: req.CustomerID, StatusID: st.ID}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.counters.Next(ctx, tx, ident.Order)
		if err != nil {
			return err
		}
		o.OrderID = ident.Format(ident.Order, seq)
		if err := s.repo.CreateTx(ctx, tx, o); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = o.OrderID
		}
		return s.invoices.CreateBatchTx(ctx, tx, items)
	})
	if err != nil {
		return dto.OrderResponse{}, dbErr(err, "create order")
	}

	log.Info().
		Str("order_id", o.OrderID).
		Str("customer_id", o.CustomerID).
		Int("items", len(items)).
		Msg("order created")
	resp := mapOrder(*o)
	ev := audit.NewEvent(ctx, audit.EntityOrder, o.OrderID, model.AuditActionCreate, nil, resp)
	s.after.changed(ctx, &ev)
	return resp, nil
}

func (s *orderService) Get(ctx context.Context, orderID string, expand string) (dto.OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, orderID, expandRelations(expand)...)
	if err != nil {
		return dto.OrderResponse{}, dbErr(err, orderRef(orderID))
	}
	return mapOrder(*o), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (dto.ListResponse[dto.OrderResponse], error) {
	list, total, err := s.repo.List(ctx, filter, expandRelations(filter.Expand)...)
	if err != nil {
		return dto.ListResponse[dto.OrderResponse]{}, dbErr(err, "list orders")
	}
	return dto.NewListResponse(mapList(list, mapOrder), total, filter.Pagination), nil
}

func (s *orderService) Update(ctx context.Context, orderID string, req dto.UpdateOrderRequest) (dto.OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return dto.OrderResponse{}, dbErr(err, orderRef(orderID))
	}
	before := mapOrder(*o)

	if req.CustomerID != nil {
		if _, err := s.customers.FindByID(ctx, *req.CustomerID); err != nil {
			return dto.OrderResponse{}, refErr(err, customerRef(*req.CustomerID))
		}
		o.CustomerID = *req.CustomerID
	}
	if req.StatusID != nil {
		st, err := s.loadStatus(ctx, *req.StatusID)
		if err != nil {
			return dto.OrderResponse{}, err
		}
		o.StatusID = st.ID
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateTx(ctx, tx, o)
	})
	if err != nil {
		return dto.OrderResponse{}, dbErr(err, orderRef(orderID))
	}

	after := mapOrder(*o)
	ev := audit.NewEvent(ctx, audit.EntityOrder, orderID, model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

func (s *orderService) Delete(ctx context.Context, orderID string) error {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return dbErr(err, orderRef(orderID))
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(ctx, tx, orderID)
	})
	if err != nil {
		return dbErr(err, orderRef(orderID))
	}

	log.Info().Str("order_id", orderID).Msg("order deleted")
	ev := audit.NewEvent(ctx, audit.EntityOrder, orderID, model.AuditActionDelete, mapOrder(*o), nil)
	s.after.changed(ctx, &ev)
	return nil
}

func (s *orderService) AddItems(ctx context.Context, orderID string, req dto.AddOrderItemsRequest) (dto.OrderProductsResponse, error) {
	before, err := s.ProductQuantities(ctx, orderID)
	if err != nil {
		return dto.OrderProductsResponse{}, err
	}
	items, err := s.buildItems(ctx, orderID, req.Items)
	if err != nil {
		return dto.OrderProductsResponse{}, err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.invoices.CreateBatchTx(ctx, tx, items)
	})
	if err != nil {
		return dto.OrderProductsResponse{}, dbErr(err, orderRef(orderID))
	}

	after, err := s.ProductQuantities(ctx, orderID)
	if err != nil {
		return dto.OrderProductsResponse{}, err
	}
	ev := audit.NewEvent(ctx, audit.EntityOrder, orderID, model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

func (s *orderService) ProductQuantities(ctx context.Context, orderID string) (dto.OrderProductsResponse, error) {
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		return dto.OrderProductsResponse{}, dbErr(err, orderRef(orderID))
	}
	rows, err := s.invoices.ProductQuantities(ctx, orderID)
	if err != nil {
		return dto.OrderProductsResponse{}, dbErr(err, orderRef(orderID))
	}
	lines := make([]dto.OrderProductLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, dto.OrderProductLine{Product: mapProduct(r.Product), Quantity: r.Quantity})
	}
	return dto.OrderProductsResponse{OrderID: orderID, Products: lines}, nil
}

func (s *orderService) RenderInvoice(ctx context.Context, orderID string) ([]byte, error) {
	o, err := s.repo.FindByID(ctx, orderID, repository.OrderWithCustomer)
	if err != nil {
		return nil, dbErr(err, orderRef(orderID))
	}
	lines, err := s.invoices.ProductQuantities(ctx, orderID)
	if err != nil {
		return nil, dbErr(err, orderRef(orderID))
	}
	return infra.RenderInvoicePDF(infra.InvoiceDocument{Order: *o, Customer: o.Customer, Lines: lines})
}

func (s *orderService) SendInvoice(ctx context.Context, orderID string) error {
	o, err := s.repo.FindByID(ctx, orderID, repository.OrderWithCustomer)
	if err != nil {
		return dbErr(err, orderRef(orderID))
	}
	if o.Customer == nil || o.Customer.Email == nil {
		return fmt.Errorf("%s has no email address: %w", customerRef(o.CustomerID), ErrUnprocessable)
	}
	if err := s.queue.EnqueueInvoiceEmail(ctx, orderID, *o.Customer.Email); err != nil {
		return fmt.Errorf("enqueue invoice email for %s: %w", orderRef(orderID), err)
	}
	log.Info().Str("order_id", orderID).Msg("invoice email queued")
	return nil
}

func (s *orderService) ListInvoices(ctx context.Context, filter dto.InvoiceFilter) (dto.ListResponse[dto.InvoiceResponse], error) {
	list, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.InvoiceResponse]{}, dbErr(err, "list invoices")
	}
	return dto.NewListResponse(mapList(list, mapInvoice), total, filter.Pagination), nil
}

func (s *orderService) GetInvoice(ctx context.Context, id uuid.UUID) (dto.InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return dto.InvoiceResponse{}, dbErr(err, "invoice "+id.String())
	}
	return mapInvoice(*inv), nil
}

func (s *orderService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return dbErr(err, "invoice "+id.String())
	}
	before, err := s.ProductQuantities(ctx, inv.OrderID)
	if err != nil {
		return err
	}
	if err := s.invoices.Delete(ctx, id); err != nil {
		return dbErr(err, "invoice "+id.String())
	}
	after, err := s.ProductQuantities(ctx, inv.OrderID)
	if err != nil {
		return err
	}
	ev := audit.NewEvent(ctx, audit.EntityOrder, inv.OrderID, model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return nil
}

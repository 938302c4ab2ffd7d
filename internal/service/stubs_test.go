package service

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"strings"
	"time"

	"shopmate/internal/audit"
	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory store shared by every stub repository ──────────────────────────

type memStore struct {
	manufacturers map[uuid.UUID]*model.Manufacturer
	brands        map[uuid.UUID]*model.Brand
	products      map[string]*model.Product
	attributes    map[uuid.UUID]*model.ProductAttribute
	customers     map[string]*model.Customer
	statuses      map[uuid.UUID]*model.OrderStatus
	orders        map[string]*model.Order
	invoices      []*model.Invoice
	counters      map[ident.Kind]int64
	failNext      error

	// onShareLock runs before a share-locked parent read, standing in for a
	// writer that commits just ahead of the lock.
	onShareLock func()
}

func newMemStore() *memStore {
	return &memStore{
		manufacturers: make(map[uuid.UUID]*model.Manufacturer),
		brands:        make(map[uuid.UUID]*model.Brand),
		products:      make(map[string]*model.Product),
		attributes:    make(map[uuid.UUID]*model.ProductAttribute),
		customers:     make(map[string]*model.Customer),
		statuses:      make(map[uuid.UUID]*model.OrderStatus),
		orders:        make(map[string]*model.Order),
		counters:      make(map[ident.Kind]int64),
	}
}

// fail returns and clears an injected error.
func (m *memStore) fail() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func page[T any](items []T, p dto.Pagination) ([]T, int64) {
	total := int64(len(items))
	start := p.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := len(items)
	if p.Limit > 0 && start+p.Limit < end {
		end = start + p.Limit
	}
	return items[start:end], total
}

// ── Counter ──────────────────────────────────────────────────────────────────

type stubCounterRepo struct{ s *memStore }

func (r *stubCounterRepo) Next(_ context.Context, _ *gorm.DB, kind ident.Kind) (int64, error) {
	r.s.counters[kind]++
	return r.s.counters[kind], nil
}

// ── Manufacturers ────────────────────────────────────────────────────────────

type stubManufacturerRepo struct{ s *memStore }

func (r *stubManufacturerRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.Manufacturer) error {
	for _, existing := range r.s.manufacturers {
		if existing.Name == m.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt, m.UpdatedAt = time.Now(), time.Now()
	cp := *m
	r.s.manufacturers[m.ID] = &cp
	return nil
}

func (r *stubManufacturerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Manufacturer, error) {
	m, ok := r.s.manufacturers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubManufacturerRepo) List(_ context.Context, f dto.ManufacturerFilter) ([]model.Manufacturer, int64, error) {
	var out []model.Manufacturer
	for _, m := range r.s.manufacturers {
		if f.Name == "" || strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Name)) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	items, total := page(out, f.Pagination)
	return items, total, nil
}

func (r *stubManufacturerRepo) UpdateTx(_ context.Context, _ *gorm.DB, m *model.Manufacturer) error {
	for id, existing := range r.s.manufacturers {
		if id != m.ID && existing.Name == m.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *m
	r.s.manufacturers[m.ID] = &cp
	return nil
}

func (r *stubManufacturerRepo) SetEnabledTx(_ context.Context, _ *gorm.DB, id uuid.UUID, enabled bool) error {
	if m, ok := r.s.manufacturers[id]; ok {
		m.Enabled = enabled
	}
	return nil
}

func (r *stubManufacturerRepo) FindForShareTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Manufacturer, error) {
	if r.s.onShareLock != nil {
		r.s.onShareLock()
	}
	return r.FindByID(ctx, id)
}

func (r *stubManufacturerRepo) DeleteTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	for bid, b := range r.s.brands {
		if b.ManufacturerID == id {
			(&stubBrandRepo{r.s}).deleteProducts(bid)
			delete(r.s.brands, bid)
		}
	}
	delete(r.s.manufacturers, id)
	return nil
}

func (r *stubManufacturerRepo) DB() *gorm.DB { return nil }

// ── Brands ───────────────────────────────────────────────────────────────────

type stubBrandRepo struct{ s *memStore }

func (r *stubBrandRepo) CreateTx(_ context.Context, _ *gorm.DB, b *model.Brand) error {
	for _, existing := range r.s.brands {
		if existing.Name == b.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.s.brands[b.ID] = &cp
	return nil
}

func (r *stubBrandRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Brand, error) {
	b, ok := r.s.brands[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBrandRepo) List(_ context.Context, f dto.BrandFilter) ([]model.Brand, int64, error) {
	var out []model.Brand
	for _, b := range r.s.brands {
		if f.ManufacturerID != "" && b.ManufacturerID.String() != f.ManufacturerID {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	items, total := page(out, f.Pagination)
	return items, total, nil
}

func (r *stubBrandRepo) UpdateTx(_ context.Context, _ *gorm.DB, b *model.Brand) error {
	cp := *b
	r.s.brands[b.ID] = &cp
	return nil
}

func (r *stubBrandRepo) FindForShareTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Brand, error) {
	if r.s.onShareLock != nil {
		r.s.onShareLock()
	}
	return r.FindByID(ctx, id)
}

func (r *stubBrandRepo) SetEnabledTx(_ context.Context, _ *gorm.DB, id uuid.UUID, enabled bool) error {
	if b, ok := r.s.brands[id]; ok {
		b.Enabled = enabled
	}
	return nil
}

func (r *stubBrandRepo) DisableByManufacturerTx(_ context.Context, _ *gorm.DB, manufacturerID uuid.UUID) (int64, error) {
	if err := r.s.fail(); err != nil {
		return 0, err
	}
	var n int64
	for _, b := range r.s.brands {
		if b.ManufacturerID == manufacturerID {
			b.Enabled = false
			n++
		}
	}
	return n, nil
}

func (r *stubBrandRepo) deleteProducts(brandID uuid.UUID) {
	for sku, p := range r.s.products {
		if p.BrandID == brandID {
			(&stubProductRepo{r.s}).deleteOne(sku)
		}
	}
}

func (r *stubBrandRepo) DeleteTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.deleteProducts(id)
	delete(r.s.brands, id)
	return nil
}

func (r *stubBrandRepo) DB() *gorm.DB { return nil }

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct{ s *memStore }

func (r *stubProductRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Product) error {
	if _, exists := r.s.products[p.SKU]; exists {
		return gorm.ErrDuplicatedKey
	}
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	cp := *p
	r.s.products[p.SKU] = &cp
	return nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	p, ok := r.s.products[sku]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Attributes = append([]model.ProductAttribute(nil), p.Attributes...)
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, f dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if f.BrandID != "" && p.BrandID.String() != f.BrandID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	items, total := page(out, f.Pagination)
	return items, total, nil
}

func (r *stubProductRepo) UpdateTx(_ context.Context, _ *gorm.DB, p *model.Product) error {
	existing, ok := r.s.products[p.SKU]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Description = p.Description
	existing.Enabled = p.Enabled
	existing.BrandID = p.BrandID
	return nil
}

func (r *stubProductRepo) DisableByBrandTx(_ context.Context, _ *gorm.DB, brandID uuid.UUID) (int64, error) {
	if err := r.s.fail(); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range r.s.products {
		if p.BrandID == brandID {
			p.Enabled = false
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) DisableByManufacturerTx(_ context.Context, _ *gorm.DB, manufacturerID uuid.UUID) (int64, error) {
	if err := r.s.fail(); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range r.s.products {
		if b, ok := r.s.brands[p.BrandID]; ok && b.ManufacturerID == manufacturerID {
			p.Enabled = false
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) AddAttribute(_ context.Context, sku string, attributeID uuid.UUID) error {
	p, ok := r.s.products[sku]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, a := range p.Attributes {
		if a.ID == attributeID {
			return nil
		}
	}
	p.Attributes = append(p.Attributes, *r.s.attributes[attributeID])
	return nil
}

func (r *stubProductRepo) RemoveAttribute(_ context.Context, sku string, attributeID uuid.UUID) error {
	p, ok := r.s.products[sku]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := p.Attributes[:0]
	for _, a := range p.Attributes {
		if a.ID != attributeID {
			kept = append(kept, a)
		}
	}
	p.Attributes = kept
	return nil
}

func (r *stubProductRepo) deleteOne(sku string) {
	kept := r.s.invoices[:0]
	for _, inv := range r.s.invoices {
		if inv.ProductSKU != sku {
			kept = append(kept, inv)
		}
	}
	r.s.invoices = kept
	delete(r.s.products, sku)
}

func (r *stubProductRepo) DeleteTx(_ context.Context, _ *gorm.DB, sku string) error {
	r.deleteOne(sku)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── Attributes ───────────────────────────────────────────────────────────────

type stubAttributeRepo struct{ s *memStore }

// sameValue mirrors the unique index on (key, COALESCE(value, '')).
func sameValue(a, b *string) bool {
	deref := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	return deref(a) == deref(b)
}

func (r *stubAttributeRepo) Create(_ context.Context, a *model.ProductAttribute) error {
	for _, existing := range r.s.attributes {
		if existing.Key == a.Key && sameValue(existing.Value, a.Value) {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.s.attributes[a.ID] = &cp
	return nil
}

func (r *stubAttributeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductAttribute, error) {
	a, ok := r.s.attributes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAttributeRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.ProductAttribute, error) {
	var out []model.ProductAttribute
	for _, id := range ids {
		if a, ok := r.s.attributes[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAttributeRepo) List(_ context.Context, f dto.AttributeFilter) ([]model.ProductAttribute, int64, error) {
	var out []model.ProductAttribute
	for _, a := range r.s.attributes {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	items, total := page(out, f.Pagination)
	return items, total, nil
}

func (r *stubAttributeRepo) Update(_ context.Context, a *model.ProductAttribute) error {
	for id, existing := range r.s.attributes {
		if id != a.ID && existing.Key == a.Key && sameValue(existing.Value, a.Value) {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *a
	r.s.attributes[a.ID] = &cp
	return nil
}

func (r *stubAttributeRepo) Delete(_ context.Context, id uuid.UUID) error {
	for _, p := range r.s.products {
		kept := p.Attributes[:0]
		for _, a := range p.Attributes {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		p.Attributes = kept
	}
	delete(r.s.attributes, id)
	return nil
}

// ── Customers ────────────────────────────────────────────────────────────────

type stubCustomerRepo struct{ s *memStore }

func (r *stubCustomerRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.Customer) error {
	if _, exists := r.s.customers[c.CustomerID]; exists {
		return gorm.ErrDuplicatedKey
	}
	cp := *c
	r.s.customers[c.CustomerID] = &cp
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id string) (*model.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) List(_ context.Context, f dto.CustomerFilter) ([]model.Customer, int64, error) {
	var out []model.Customer
	for _, c := range r.s.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	items, total := page(out, f.Pagination)
	return items, total, nil
}

func (r *stubCustomerRepo) UpdateTx(_ context.Context, _ *gorm.DB, c *model.Customer) error {
	cp := *c
	r.s.customers[c.CustomerID] = &cp
	return nil
}

func (r *stubCustomerRepo) DeleteTx(_ context.Context, _ *gorm.DB, id string) error {
	for oid, o := range r.s.orders {
		if o.CustomerID == id {
			(&stubOrderRepo{r.s}).deleteOne(oid)
		}
	}
	delete(r.s.customers, id)
	return nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

// ── Order statuses ───────────────────────────────────────────────────────────

type stubStatusRepo struct{ s *memStore }

func (r *stubStatusRepo) Create(_ context.Context, st *model.OrderStatus) error {
	for _, existing := range r.s.statuses {
		if existing.Name == st.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	cp := *st
	r.s.statuses[st.ID] = &cp
	return nil
}

func (r *stubStatusRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrderStatus, error) {
	st, ok := r.s.statuses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *stubStatusRepo) FindByName(_ context.Context, name string) (*model.OrderStatus, error) {
	for _, st := range r.s.statuses {
		if strings.EqualFold(st.Name, name) {
			cp := *st
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubStatusRepo) List(_ context.Context, f dto.OrderStatusFilter) ([]model.OrderStatus, int64, error) {
	var out []model.OrderStatus
	for _, st := range r.s.statuses {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	items, total := page(out, f.Pagination)
	return items, total, nil
}

func (r *stubStatusRepo) Update(_ context.Context, st *model.OrderStatus) error {
	cp := *st
	r.s.statuses[st.ID] = &cp
	return nil
}

func (r *stubStatusRepo) DeleteTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	for oid, o := range r.s.orders {
		if o.StatusID == id {
			(&stubOrderRepo{r.s}).deleteOne(oid)
		}
	}
	delete(r.s.statuses, id)
	return nil
}

func (r *stubStatusRepo) DB() *gorm.DB { return nil }

// ── Orders and invoices ──────────────────────────────────────────────────────

type stubOrderRepo struct{ s *memStore }

func (r *stubOrderRepo) CreateTx(_ context.Context, _ *gorm.DB, o *model.Order) error {
	if _, exists := r.s.orders[o.OrderID]; exists {
		return gorm.ErrDuplicatedKey
	}
	cp := *o
	r.s.orders[o.OrderID] = &cp
	return nil
}

func (r *stubOrderRepo) withRelations(o model.Order, with []string) model.Order {
	for _, rel := range with {
		switch rel {
		case repository.OrderWithCustomer:
			if c, ok := r.s.customers[o.CustomerID]; ok {
				cp := *c
				o.Customer = &cp
			}
		case repository.OrderWithStatus:
			if st, ok := r.s.statuses[o.StatusID]; ok {
				cp := *st
				o.Status = &cp
			}
		}
	}
	return o
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string, with ...string) (*model.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := r.withRelations(*o, with)
	return &cp, nil
}

func (r *stubOrderRepo) List(_ context.Context, f dto.OrderFilter, with ...string) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.s.orders {
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.StatusID != "" && o.StatusID.String() != f.StatusID {
			continue
		}
		out = append(out, r.withRelations(*o, with))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	items, total := page(out, f.Pagination)
	return items, total, nil
}

func (r *stubOrderRepo) UpdateTx(_ context.Context, _ *gorm.DB, o *model.Order) error {
	existing, ok := r.s.orders[o.OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.CustomerID = o.CustomerID
	existing.StatusID = o.StatusID
	return nil
}

func (r *stubOrderRepo) deleteOne(id string) {
	kept := r.s.invoices[:0]
	for _, inv := range r.s.invoices {
		if inv.OrderID != id {
			kept = append(kept, inv)
		}
	}
	r.s.invoices = kept
	delete(r.s.orders, id)
}

func (r *stubOrderRepo) DeleteTx(_ context.Context, _ *gorm.DB, id string) error {
	r.deleteOne(id)
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

type stubInvoiceRepo struct{ s *memStore }

func (r *stubInvoiceRepo) CreateBatchTx(_ context.Context, _ *gorm.DB, items []model.Invoice) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		cp := items[i]
		r.s.invoices = append(r.s.invoices, &cp)
	}
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	for _, inv := range r.s.invoices {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) List(_ context.Context, f dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, inv := range r.s.invoices {
		if f.OrderID != "" && inv.OrderID != f.OrderID {
			continue
		}
		out = append(out, *inv)
	}
	items, total := page(out, f.Pagination)
	return items, total, nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	kept := r.s.invoices[:0]
	for _, inv := range r.s.invoices {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	r.s.invoices = kept
	return nil
}

func (r *stubInvoiceRepo) ProductQuantities(_ context.Context, orderID string) ([]model.ProductQuantity, error) {
	sums := make(map[string]int64)
	for _, inv := range r.s.invoices {
		if inv.OrderID == orderID {
			sums[inv.ProductSKU] += int64(inv.Qty)
		}
	}
	skus := make([]string, 0, len(sums))
	for sku := range sums {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	out := make([]model.ProductQuantity, 0, len(skus))
	for _, sku := range skus {
		out = append(out, model.ProductQuantity{Product: *r.s.products[sku], Quantity: sums[sku]})
	}
	return out, nil
}

// ── Collaborators ────────────────────────────────────────────────────────────

type recordingRecorder struct{ events []audit.Event }

func (r *recordingRecorder) Record(_ context.Context, ev audit.Event) error {
	r.events = append(r.events, ev)
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type stubQueue struct {
	orderID, to string
	err         error
}

func (q *stubQueue) EnqueueInvoiceEmail(_ context.Context, orderID, to string) error {
	q.orderID, q.to = orderID, to
	return q.err
}

var (
	_ repository.CounterRepository      = (*stubCounterRepo)(nil)
	_ repository.ManufacturerRepository = (*stubManufacturerRepo)(nil)
	_ repository.BrandRepository        = (*stubBrandRepo)(nil)
	_ repository.ProductRepository      = (*stubProductRepo)(nil)
	_ repository.AttributeRepository    = (*stubAttributeRepo)(nil)
	_ repository.CustomerRepository     = (*stubCustomerRepo)(nil)
	_ repository.OrderStatusRepository  = (*stubStatusRepo)(nil)
	_ repository.OrderRepository        = (*stubOrderRepo)(nil)
	_ repository.InvoiceRepository      = (*stubInvoiceRepo)(nil)
)

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	store *memStore
	rec   *recordingRecorder
	inv   *countingInvalidator
	queue *stubQueue

	manufacturers ManufacturerService
	brands        BrandService
	products      ProductService
	attributes    AttributeService
	customers     CustomerService
	statuses      OrderStatusService
	orders        OrderService
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{store: s, rec: &recordingRecorder{}, inv: &countingInvalidator{}, queue: &stubQueue{}}

	manRepo := &stubManufacturerRepo{s}
	brandRepo := &stubBrandRepo{s}
	prodRepo := &stubProductRepo{s}
	attrRepo := &stubAttributeRepo{s}
	custRepo := &stubCustomerRepo{s}
	statusRepo := &stubStatusRepo{s}
	orderRepo := &stubOrderRepo{s}
	invRepo := &stubInvoiceRepo{s}
	counters := &stubCounterRepo{s}

	f.manufacturers = NewManufacturerService(manRepo, brandRepo, prodRepo, f.rec, f.inv)
	f.brands = NewBrandService(brandRepo, manRepo, prodRepo, f.rec, f.inv)
	f.products = NewProductService(prodRepo, brandRepo, attrRepo, counters, f.rec, f.inv)
	f.attributes = NewAttributeService(attrRepo)
	f.customers = NewCustomerService(custRepo, orderRepo, counters, f.rec, f.inv)
	f.statuses = NewOrderStatusService(statusRepo, orderRepo, f.inv)
	f.orders = NewOrderService(orderRepo, invRepo, custRepo, statusRepo, prodRepo, counters, f.queue, f.rec, f.inv)
	return f
}

// jsonField extracts one top-level field from an audit snapshot.
func jsonField(t *testing.T, raw json.RawMessage, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[field]
}

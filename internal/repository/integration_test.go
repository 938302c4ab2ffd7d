//go:build integration

package repository_test

// Integration tests against a real Postgres via testcontainers.
// Run with: go test -tags integration ./internal/repository/... -v

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/infra"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()
	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("shopmate_test"),
		tcPostgres.WithUsername("shopmate"),
		tcPostgres.WithPassword("shopmate"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	if err != nil {
		panic(err)
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}
	testDB, err = infra.NewDatabase(dsn)
	if err != nil {
		panic(err)
	}
	if err := infra.RunMigrations(testDB); err != nil {
		panic(err)
	}

	code := m.Run()
	_ = pgC.Terminate(ctx)
	os.Exit(code)
}

// reset empties every store table; counters restart at 1 on next use.
func reset(t *testing.T) {
	t.Helper()
	for _, table := range []string{
		"invoices", "orders", "product_attribute_links", "products", "brands",
		"manufacturers", "product_attributes", "customers", "order_statuses", "id_counters",
	} {
		require.NoError(t, testDB.Exec("DELETE FROM "+table).Error)
	}
}

type catalog struct {
	manufacturer model.Manufacturer
	brands       []model.Brand
	skus         []string
}

// seedCatalog stores one enabled manufacturer with the named brands and
// perBrand products each.
func seedCatalog(t *testing.T, name string, brands []string, perBrand int) catalog {
	t.Helper()
	ctx := context.Background()
	counters := repository.NewCounterRepository(testDB)
	c := catalog{manufacturer: model.Manufacturer{Name: name, Enabled: true}}
	require.NoError(t, repository.NewManufacturerRepository(testDB).CreateTx(ctx, nil, &c.manufacturer))

	for _, bn := range brands {
		b := model.Brand{Name: bn, Enabled: true, ManufacturerID: c.manufacturer.ID}
		require.NoError(t, repository.NewBrandRepository(testDB).CreateTx(ctx, nil, &b))
		c.brands = append(c.brands, b)
		for range perBrand {
			err := testDB.Transaction(func(tx *gorm.DB) error {
				seq, err := counters.Next(ctx, tx, ident.Product)
				if err != nil {
					return err
				}
				p := model.Product{SKU: ident.Format(ident.Product, seq), Enabled: true, BrandID: b.ID}
				c.skus = append(c.skus, p.SKU)
				return repository.NewProductRepository(testDB).CreateTx(ctx, tx, &p)
			})
			require.NoError(t, err)
		}
	}
	return c
}

func seedOrder(t *testing.T, items map[string][]int) string {
	t.Helper()
	ctx := context.Background()
	email := "ann@example.com"
	cu := model.Customer{CustomerID: ident.Format(ident.Customer, 1), FirstName: "Ann", LastName: "Lee", Email: &email}
	require.NoError(t, repository.NewCustomerRepository(testDB).CreateTx(ctx, nil, &cu))
	st := model.OrderStatus{Name: "created", Enabled: true}
	require.NoError(t, repository.NewOrderStatusRepository(testDB).Create(ctx, &st))

	o := model.Order{OrderID: ident.Format(ident.Order, 1), CustomerID: cu.CustomerID, StatusID: st.ID}
	require.NoError(t, repository.NewOrderRepository(testDB).CreateTx(ctx, nil, &o))

	var rows []model.Invoice
	for sku, qtys := range items {
		for _, q := range qtys {
			rows = append(rows, model.Invoice{OrderID: o.OrderID, ProductSKU: sku, Qty: q})
		}
	}
	require.NoError(t, repository.NewInvoiceRepository(testDB).CreateBatchTx(ctx, nil, rows))
	return o.OrderID
}

func countWhere(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, testDB.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

// ── Identifier counter ───────────────────────────────────────────────────────

func TestCounterNext_ConcurrentCreatorsGetDistinctNumbers(t *testing.T) {
	reset(t)
	ctx := context.Background()
	counters := repository.NewCounterRepository(testDB)

	const n = 20
	var (
		mu   sync.Mutex
		got  []int64
		wg   sync.WaitGroup
		errs = make(chan error, n)
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := testDB.Transaction(func(tx *gorm.DB) error {
				seq, err := counters.Next(ctx, tx, ident.Customer)
				if err != nil {
					return err
				}
				mu.Lock()
				got = append(got, seq)
				mu.Unlock()
				return nil
			})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := make([]int64, n)
	for i := range want {
		want[i] = int64(i + 1)
	}
	assert.Equal(t, want, got)
}

func TestCounterNext_RollbackReleasesNumber(t *testing.T) {
	reset(t)
	ctx := context.Background()
	counters := repository.NewCounterRepository(testDB)
	boom := errors.New("insert failed")

	err := testDB.Transaction(func(tx *gorm.DB) error {
		seq, err := counters.Next(ctx, tx, ident.Order)
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = testDB.Transaction(func(tx *gorm.DB) error {
		seq, err := counters.Next(ctx, tx, ident.Order)
		assert.Equal(t, int64(1), seq)
		return err
	})
	require.NoError(t, err)
}

func TestRunMigrations_SeedsCounterFromExistingRows(t *testing.T) {
	reset(t)
	ctx := context.Background()
	for _, id := range []string{"CU-00000007", "CU-00000003"} {
		cu := model.Customer{CustomerID: id, FirstName: "A", LastName: "B"}
		require.NoError(t, repository.NewCustomerRepository(testDB).CreateTx(ctx, nil, &cu))
	}
	require.NoError(t, infra.RunMigrations(testDB))

	var seq int64
	err := testDB.Transaction(func(tx *gorm.DB) error {
		var err error
		seq, err = repository.NewCounterRepository(testDB).Next(ctx, tx, ident.Customer)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), seq)
}

// ── Cascade disable ──────────────────────────────────────────────────────────

func TestDisableByBrand_TouchesOnlyThatBrand(t *testing.T) {
	reset(t)
	ctx := context.Background()
	c := seedCatalog(t, "Acme", []string{"Roadrunner", "Coyote"}, 2)

	n, err := repository.NewProductRepository(testDB).DisableByBrandTx(ctx, nil, c.brands[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Equal(t, int64(2), countWhere(t, &model.Product{}, "brand_id = ? AND NOT enabled", c.brands[0].ID))
	assert.Equal(t, int64(2), countWhere(t, &model.Product{}, "brand_id = ? AND enabled", c.brands[1].ID))
}

func TestDisableByManufacturer_CascadesBrandsAndProducts(t *testing.T) {
	reset(t)
	ctx := context.Background()
	acme := seedCatalog(t, "Acme", []string{"Roadrunner", "Coyote"}, 2)
	other := seedCatalog(t, "Initech", []string{"Swingline"}, 1)

	err := testDB.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewManufacturerRepository(testDB).SetEnabledTx(ctx, tx, acme.manufacturer.ID, false); err != nil {
			return err
		}
		brands, err := repository.NewBrandRepository(testDB).DisableByManufacturerTx(ctx, tx, acme.manufacturer.ID)
		assert.Equal(t, int64(2), brands)
		if err != nil {
			return err
		}
		products, err := repository.NewProductRepository(testDB).DisableByManufacturerTx(ctx, tx, acme.manufacturer.ID)
		assert.Equal(t, int64(4), products)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), countWhere(t, &model.Brand{}, "manufacturer_id = ? AND enabled", acme.manufacturer.ID))
	assert.Equal(t, int64(0), countWhere(t, &model.Product{}, "sku IN ? AND enabled", acme.skus))
	assert.Equal(t, int64(1), countWhere(t, &model.Brand{}, "manufacturer_id = ? AND enabled", other.manufacturer.ID))
	assert.Equal(t, int64(1), countWhere(t, &model.Product{}, "sku IN ? AND enabled", other.skus))
}

// ── Uniqueness ───────────────────────────────────────────────────────────────

func TestAttributeCreate_DuplicatePairIsRejected(t *testing.T) {
	reset(t)
	ctx := context.Background()
	repo := repository.NewAttributeRepository(testDB)
	small := "small"

	require.NoError(t, repo.Create(ctx, &model.ProductAttribute{Key: "size", Value: &small}))
	err := repo.Create(ctx, &model.ProductAttribute{Key: "size", Value: &small})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// A key without a value is a pair of its own and still unique.
	require.NoError(t, repo.Create(ctx, &model.ProductAttribute{Key: "gift"}))
	err = repo.Create(ctx, &model.ProductAttribute{Key: "gift"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, int64(1), countWhere(t, &model.ProductAttribute{}, "key = ?", "gift"))

	other := "wrapped"
	require.NoError(t, repo.Create(ctx, &model.ProductAttribute{Key: "gift", Value: &other}))
}

func TestBrandCreate_DuplicateNameIsRejected(t *testing.T) {
	reset(t)
	ctx := context.Background()
	c := seedCatalog(t, "Acme", []string{"Roadrunner"}, 0)

	dup := model.Brand{Name: "Roadrunner", Enabled: true, ManufacturerID: c.manufacturer.ID}
	err := repository.NewBrandRepository(testDB).CreateTx(ctx, nil, &dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

// ── Order aggregate view ─────────────────────────────────────────────────────

func TestProductQuantities_SumsPerProductOrderedBySKU(t *testing.T) {
	reset(t)
	ctx := context.Background()
	c := seedCatalog(t, "Acme", []string{"Roadrunner"}, 3)
	a, b := c.skus[0], c.skus[1]
	orderID := seedOrder(t, map[string][]int{b: {1}, a: {1, 1, 2}})

	lines, err := repository.NewInvoiceRepository(testDB).ProductQuantities(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, a, lines[0].Product.SKU)
	assert.Equal(t, int64(4), lines[0].Quantity)
	assert.Equal(t, b, lines[1].Product.SKU)
	assert.Equal(t, int64(1), lines[1].Quantity)
}

func TestProductQuantities_EmptyOrder(t *testing.T) {
	reset(t)
	orderID := seedOrder(t, nil)

	lines, err := repository.NewInvoiceRepository(testDB).ProductQuantities(context.Background(), orderID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

// ── Explicit delete cascade ──────────────────────────────────────────────────

func TestManufacturerDelete_RemovesOwnedRows(t *testing.T) {
	reset(t)
	ctx := context.Background()
	acme := seedCatalog(t, "Acme", []string{"Roadrunner"}, 2)
	other := seedCatalog(t, "Initech", []string{"Swingline"}, 1)
	attr := model.ProductAttribute{Key: "color"}
	require.NoError(t, repository.NewAttributeRepository(testDB).Create(ctx, &attr))
	require.NoError(t, repository.NewProductRepository(testDB).AddAttribute(ctx, acme.skus[0], attr.ID))
	orderID := seedOrder(t, map[string][]int{acme.skus[0]: {1}, other.skus[0]: {1}})

	err := testDB.Transaction(func(tx *gorm.DB) error {
		return repository.NewManufacturerRepository(testDB).DeleteTx(ctx, tx, acme.manufacturer.ID)
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), countWhere(t, &model.Brand{}, "manufacturer_id = ?", acme.manufacturer.ID))
	assert.Equal(t, int64(0), countWhere(t, &model.Product{}, "sku IN ?", acme.skus))
	assert.Equal(t, int64(1), countWhere(t, &model.Invoice{}, "order_id = ?", orderID), "other manufacturer's line stays")
	assert.Equal(t, int64(1), countWhere(t, &model.ProductAttribute{}, "id = ?", attr.ID), "attributes are shared")

	var links int64
	require.NoError(t, testDB.Table("product_attribute_links").Where("product_attribute_id = ?", attr.ID).Count(&links).Error)
	assert.Equal(t, int64(0), links)
}

func TestCustomerDelete_RemovesOrdersAndInvoices(t *testing.T) {
	reset(t)
	ctx := context.Background()
	c := seedCatalog(t, "Acme", []string{"Roadrunner"}, 1)
	orderID := seedOrder(t, map[string][]int{c.skus[0]: {1, 1}})

	err := testDB.Transaction(func(tx *gorm.DB) error {
		return repository.NewCustomerRepository(testDB).DeleteTx(ctx, tx, ident.Format(ident.Customer, 1))
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), countWhere(t, &model.Order{}, "order_id = ?", orderID))
	assert.Equal(t, int64(0), countWhere(t, &model.Invoice{}, "order_id = ?", orderID))
	assert.Equal(t, int64(1), countWhere(t, &model.Product{}, "sku = ?", c.skus[0]))
}

// ── Filters ──────────────────────────────────────────────────────────────────

func TestProductList_FiltersByBrandNameAndEnabled(t *testing.T) {
	reset(t)
	ctx := context.Background()
	acme := seedCatalog(t, "Acme", []string{"Roadrunner", "Coyote"}, 2)
	_, err := repository.NewProductRepository(testDB).DisableByBrandTx(ctx, nil, acme.brands[1].ID)
	require.NoError(t, err)

	filter := dto.ProductFilter{BrandName: "road", Pagination: dto.Pagination{Page: 1, Limit: 10}}
	rows, total, err := repository.NewProductRepository(testDB).List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	filter = dto.ProductFilter{Enabled: "false", Pagination: dto.Pagination{Page: 1, Limit: 10}}
	_, total, err = repository.NewProductRepository(testDB).List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestAuditLogCreate_IsIdempotentPerEvent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAuditLogRepository(testDB)
	l := model.AuditLog{
		EventID:    uuid.New(),
		EntityType: "brand",
		EntityID:   uuid.NewString(),
		Action:     model.AuditActionCreate,
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, &l))
	dup := l
	dup.ID = uuid.Nil
	require.NoError(t, repo.Create(ctx, &dup))

	assert.Equal(t, int64(1), countWhere(t, &model.AuditLog{}, "event_id = ?", l.EventID))
}

package service

import (
	"context"
	"errors"
	"testing"

	"shopmate/internal/audit"
	"shopmate/internal/dto"
	"shopmate/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

// seedCatalog creates a manufacturer with one brand holding n products.
func seedCatalog(t *testing.T, f *fixture, manufacturer, brand string, n int) (dto.ManufacturerResponse, dto.BrandResponse, []dto.ProductResponse) {
	t.Helper()
	ctx := context.Background()

	m, err := f.manufacturers.Create(ctx, dto.CreateManufacturerRequest{Name: manufacturer})
	require.NoError(t, err)
	b, err := f.brands.Create(ctx, dto.CreateBrandRequest{Name: brand, ManufacturerID: m.ID.String()})
	require.NoError(t, err)

	products := make([]dto.ProductResponse, 0, n)
	for i := 0; i < n; i++ {
		p, err := f.products.Create(ctx, dto.CreateProductRequest{BrandID: b.ID.String()})
		require.NoError(t, err)
		products = append(products, p)
	}
	return m, b, products
}

func TestCreateProduct_AssignsSequentialSKU(t *testing.T) {
	f := newFixture()
	_, _, products := seedCatalog(t, f, "Acme", "Roadrunner", 3)

	assert.Equal(t, "SKU-00000001", products[0].SKU)
	assert.Equal(t, "SKU-00000002", products[1].SKU)
	assert.Equal(t, "SKU-00000003", products[2].SKU)
	assert.True(t, products[0].Enabled, "product inherits the enabled brand state")
}

func TestUpdateProduct_KeepsSKU(t *testing.T) {
	f := newFixture()
	_, _, products := seedCatalog(t, f, "Acme", "Roadrunner", 1)
	sku := products[0].SKU

	updated, err := f.products.Update(context.Background(), sku, dto.UpdateProductRequest{
		Description: strPtr("Rocket skates"),
	})
	require.NoError(t, err)
	assert.Equal(t, sku, updated.SKU)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Rocket skates", *updated.Description)

	next, err := f.products.Create(context.Background(), dto.CreateProductRequest{BrandID: products[0].BrandID.String()})
	require.NoError(t, err)
	assert.Equal(t, "SKU-00000002", next.SKU, "updates do not consume identifiers")
}

func TestCreateProduct_UnknownBrand(t *testing.T) {
	f := newFixture()
	_, err := f.products.Create(context.Background(), dto.CreateProductRequest{BrandID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Empty(t, f.store.products)
}

func TestCreateProduct_UnknownAttribute(t *testing.T) {
	f := newFixture()
	_, b, _ := seedCatalog(t, f, "Acme", "Roadrunner", 0)

	_, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		BrandID:      b.ID.String(),
		AttributeIDs: []string{uuid.NewString()},
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.products.Get(context.Background(), "SKU-99999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDisableBrand_CascadesToItsProductsOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m, target, targetProducts := seedCatalog(t, f, "Acme", "Roadrunner", 2)

	other, err := f.brands.Create(ctx, dto.CreateBrandRequest{Name: "Coyote", ManufacturerID: m.ID.String()})
	require.NoError(t, err)
	otherProduct, err := f.products.Create(ctx, dto.CreateProductRequest{BrandID: other.ID.String()})
	require.NoError(t, err)

	eventsBefore := len(f.rec.events)
	resp, err := f.brands.Disable(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, resp.Enabled)

	for _, p := range targetProducts {
		assert.False(t, f.store.products[p.SKU].Enabled, p.SKU)
	}
	assert.True(t, f.store.products[otherProduct.SKU].Enabled)
	assert.True(t, f.store.brands[other.ID].Enabled)

	// Only the brand itself is audited; cascaded products are bulk updates.
	require.Len(t, f.rec.events, eventsBefore+1)
	ev := f.rec.events[len(f.rec.events)-1]
	assert.Equal(t, audit.EntityBrand, ev.EntityType)
	assert.Equal(t, model.AuditActionUpdate, ev.Action)
	assert.JSONEq(t, `true`, string(jsonField(t, ev.Before, "enabled")))
	assert.JSONEq(t, `false`, string(jsonField(t, ev.After, "enabled")))
}

func TestDisableBrand_Idempotent(t *testing.T) {
	f := newFixture()
	_, b, products := seedCatalog(t, f, "Acme", "Roadrunner", 1)

	_, err := f.brands.Disable(context.Background(), b.ID)
	require.NoError(t, err)
	_, err = f.brands.Disable(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, f.store.brands[b.ID].Enabled)
	assert.False(t, f.store.products[products[0].SKU].Enabled)
}

func TestDisableBrand_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.brands.Disable(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDisableManufacturer_CascadesThroughBrands(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acme, b1, p1 := seedCatalog(t, f, "Acme", "Roadrunner", 1)

	b2, err := f.brands.Create(ctx, dto.CreateBrandRequest{Name: "Coyote", ManufacturerID: acme.ID.String()})
	require.NoError(t, err)
	p2, err := f.products.Create(ctx, dto.CreateProductRequest{BrandID: b2.ID.String()})
	require.NoError(t, err)
	_, _, untouched := seedCatalog(t, f, "Globex", "Hank", 1)

	resp, err := f.manufacturers.Disable(ctx, acme.ID)
	require.NoError(t, err)
	assert.False(t, resp.Enabled)

	assert.False(t, f.store.manufacturers[acme.ID].Enabled)
	assert.False(t, f.store.brands[b1.ID].Enabled)
	assert.False(t, f.store.brands[b2.ID].Enabled)
	assert.False(t, f.store.products[p1[0].SKU].Enabled)
	assert.False(t, f.store.products[p2.SKU].Enabled)
	assert.True(t, f.store.products[untouched[0].SKU].Enabled)
}

func TestDisableManufacturer_FailureLeavesNoAuditEvent(t *testing.T) {
	f := newFixture()
	acme, _, _ := seedCatalog(t, f, "Acme", "Roadrunner", 1)
	eventsBefore := len(f.rec.events)
	invalidationsBefore := f.inv.calls

	f.store.failNext = errors.New("connection reset")
	_, err := f.manufacturers.Disable(context.Background(), acme.ID)
	require.Error(t, err)
	assert.Len(t, f.rec.events, eventsBefore)
	assert.Equal(t, invalidationsBefore, f.inv.calls)
}

func TestUpdateManufacturer_DisablingCascades(t *testing.T) {
	f := newFixture()
	acme, b, products := seedCatalog(t, f, "Acme", "Roadrunner", 1)

	resp, err := f.manufacturers.Update(context.Background(), acme.ID, dto.UpdateManufacturerRequest{Enabled: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, resp.Enabled)
	assert.False(t, f.store.brands[b.ID].Enabled)
	assert.False(t, f.store.products[products[0].SKU].Enabled)
}

func TestUpdateBrand_DisablingCascades(t *testing.T) {
	f := newFixture()
	_, b, products := seedCatalog(t, f, "Acme", "Roadrunner", 2)

	_, err := f.brands.Update(context.Background(), b.ID, dto.UpdateBrandRequest{Enabled: boolPtr(false)})
	require.NoError(t, err)
	for _, p := range products {
		assert.False(t, f.store.products[p.SKU].Enabled)
	}
}

func TestEnableBrand_UnderDisabledManufacturer(t *testing.T) {
	f := newFixture()
	acme, b, _ := seedCatalog(t, f, "Acme", "Roadrunner", 0)
	_, err := f.manufacturers.Disable(context.Background(), acme.ID)
	require.NoError(t, err)

	_, err = f.brands.Update(context.Background(), b.ID, dto.UpdateBrandRequest{Enabled: boolPtr(true)})
	assert.ErrorIs(t, err, ErrUnprocessable)
	assert.False(t, f.store.brands[b.ID].Enabled)
}

func TestCreateBrand_UnderDisabledManufacturer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acme, _, _ := seedCatalog(t, f, "Acme", "Roadrunner", 0)
	_, err := f.manufacturers.Disable(ctx, acme.ID)
	require.NoError(t, err)

	b, err := f.brands.Create(ctx, dto.CreateBrandRequest{Name: "Coyote", ManufacturerID: acme.ID.String()})
	require.NoError(t, err)
	assert.False(t, b.Enabled, "defaults to the parent state")

	_, err = f.brands.Create(ctx, dto.CreateBrandRequest{Name: "Beep", ManufacturerID: acme.ID.String(), Enabled: boolPtr(true)})
	assert.ErrorIs(t, err, ErrUnprocessable)
}

func TestEnableProduct_UnderDisabledBrand(t *testing.T) {
	f := newFixture()
	_, b, products := seedCatalog(t, f, "Acme", "Roadrunner", 1)
	_, err := f.brands.Disable(context.Background(), b.ID)
	require.NoError(t, err)

	_, err = f.products.Update(context.Background(), products[0].SKU, dto.UpdateProductRequest{Enabled: boolPtr(true)})
	assert.ErrorIs(t, err, ErrUnprocessable)
}

func TestCreateProduct_BrandDisabledBeforeCommit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, b, _ := seedCatalog(t, f, "Acme", "Roadrunner", 0)
	f.store.onShareLock = func() { f.store.brands[b.ID].Enabled = false }

	_, err := f.products.Create(ctx, dto.CreateProductRequest{BrandID: b.ID.String()})
	assert.ErrorIs(t, err, ErrUnprocessable)
	assert.Empty(t, f.store.products)
	assert.Empty(t, f.rec.events[2:], "no audit event for a rejected write")
}

func TestUpdateProduct_BrandDisabledBeforeCommit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, b, products := seedCatalog(t, f, "Acme", "Roadrunner", 1)
	sku := products[0].SKU
	f.store.products[sku].Enabled = false
	f.store.onShareLock = func() { f.store.brands[b.ID].Enabled = false }

	_, err := f.products.Update(ctx, sku, dto.UpdateProductRequest{Enabled: boolPtr(true)})
	assert.ErrorIs(t, err, ErrUnprocessable)
	assert.False(t, f.store.products[sku].Enabled)
}

func TestCreateBrand_ManufacturerDisabledBeforeCommit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acme, _, _ := seedCatalog(t, f, "Acme", "Roadrunner", 0)
	f.store.onShareLock = func() { f.store.manufacturers[acme.ID].Enabled = false }

	_, err := f.brands.Create(ctx, dto.CreateBrandRequest{Name: "Coyote", ManufacturerID: acme.ID.String()})
	assert.ErrorIs(t, err, ErrUnprocessable)
	assert.Len(t, f.store.brands, 1)
}

func TestUpdateBrand_ManufacturerDisabledBeforeCommit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acme, b, _ := seedCatalog(t, f, "Acme", "Roadrunner", 0)
	f.store.brands[b.ID].Enabled = false
	f.store.onShareLock = func() { f.store.manufacturers[acme.ID].Enabled = false }

	_, err := f.brands.Update(ctx, b.ID, dto.UpdateBrandRequest{Enabled: boolPtr(true)})
	assert.ErrorIs(t, err, ErrUnprocessable)
	assert.False(t, f.store.brands[b.ID].Enabled)
}

func TestCreateProduct_DisabledProductSkipsBrandLock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, b, _ := seedCatalog(t, f, "Acme", "Roadrunner", 0)
	locked := false
	f.store.onShareLock = func() { locked = true }

	p, err := f.products.Create(ctx, dto.CreateProductRequest{BrandID: b.ID.String(), Enabled: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, p.Enabled)
	assert.False(t, locked)
}

func TestCreateBrand_DuplicateName(t *testing.T) {
	f := newFixture()
	acme, _, _ := seedCatalog(t, f, "Acme", "Roadrunner", 0)

	_, err := f.brands.Create(context.Background(), dto.CreateBrandRequest{Name: "Roadrunner", ManufacturerID: acme.ID.String()})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteManufacturer_RemovesBrandsAndProducts(t *testing.T) {
	f := newFixture()
	acme, b, products := seedCatalog(t, f, "Acme", "Roadrunner", 2)

	require.NoError(t, f.manufacturers.Delete(context.Background(), acme.ID))
	assert.Empty(t, f.store.manufacturers)
	assert.NotContains(t, f.store.brands, b.ID)
	for _, p := range products {
		assert.NotContains(t, f.store.products, p.SKU)
	}
	last := f.rec.events[len(f.rec.events)-1]
	assert.Equal(t, model.AuditActionDelete, last.Action)
	assert.Nil(t, last.After)
}

func TestProductAttributes_AddAndRemove(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _, products := seedCatalog(t, f, "Acme", "Roadrunner", 1)
	sku := products[0].SKU

	color, err := f.attributes.Create(ctx, dto.CreateAttributeRequest{Key: "color", Value: strPtr("red")})
	require.NoError(t, err)

	resp, err := f.products.AddAttribute(ctx, sku, color.ID)
	require.NoError(t, err)
	require.Len(t, resp.Attributes, 1)
	assert.Equal(t, "color", resp.Attributes[0].Key)

	resp, err = f.products.AddAttribute(ctx, sku, color.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Attributes, 1, "linking twice is a no-op")

	resp, err = f.products.RemoveAttribute(ctx, sku, color.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Attributes)
}

func TestCreateAttribute_DuplicatePair(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.attributes.Create(ctx, dto.CreateAttributeRequest{Key: "size", Value: strPtr("XL")})
	require.NoError(t, err)
	_, err = f.attributes.Create(ctx, dto.CreateAttributeRequest{Key: "size", Value: strPtr("XL")})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.attributes.Create(ctx, dto.CreateAttributeRequest{Key: "size", Value: strPtr("L")})
	assert.NoError(t, err, "same key with another value is allowed")

	_, err = f.attributes.Create(ctx, dto.CreateAttributeRequest{Key: "gift"})
	require.NoError(t, err)
	_, err = f.attributes.Create(ctx, dto.CreateAttributeRequest{Key: "gift"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestListManufacturers_Paginates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, name := range []string{"Acme", "Globex", "Initech"} {
		_, err := f.manufacturers.Create(ctx, dto.CreateManufacturerRequest{Name: name})
		require.NoError(t, err)
	}

	resp, err := f.manufacturers.List(ctx, dto.ManufacturerFilter{Pagination: dto.Pagination{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Initech", resp.Data[0].Name)
}

func TestWrites_InvalidateDashboard(t *testing.T) {
	f := newFixture()
	seedCatalog(t, f, "Acme", "Roadrunner", 2)
	assert.Equal(t, 4, f.inv.calls)
}

func TestDisableManufacturer_AcmeScenario(t *testing.T) {
	f := newFixture()
	acme, acme1, products := seedCatalog(t, f, "Acme", "Acme1", 1)
	require.Equal(t, "SKU-00000001", products[0].SKU)

	_, err := f.manufacturers.Disable(context.Background(), acme.ID)
	require.NoError(t, err)

	m, err := f.manufacturers.Get(context.Background(), acme.ID)
	require.NoError(t, err)
	b, err := f.brands.Get(context.Background(), acme1.ID)
	require.NoError(t, err)
	p, err := f.products.Get(context.Background(), "SKU-00000001")
	require.NoError(t, err)

	assert.False(t, m.Enabled)
	assert.False(t, b.Enabled)
	assert.False(t, p.Enabled)
}

package service

import (
	"context"
	"fmt"

	"shopmate/internal/audit"
	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductService defines business operations for products.
type ProductService interface {
	// Create assigns the next SKU and stores the product in one transaction.
	Create(ctx context.Context, req dto.CreateProductRequest) (dto.ProductResponse, error)
	Get(ctx context.Context, sku string) (dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (dto.ListResponse[dto.ProductResponse], error)
	Update(ctx context.Context, sku string, req dto.UpdateProductRequest) (dto.ProductResponse, error)
	Delete(ctx context.Context, sku string) error

	AddAttribute(ctx context.Context, sku string, attributeID uuid.UUID) (dto.ProductResponse, error)
	RemoveAttribute(ctx context.Context, sku string, attributeID uuid.UUID) (dto.ProductResponse, error)
}

type productService struct {
	repo       repository.ProductRepository
	brands     repository.BrandRepository
	attributes repository.AttributeRepository
	counters   repository.CounterRepository
	after      afterCommit
}

func NewProductService(
	repo repository.ProductRepository,
	brands repository.BrandRepository,
	attributes repository.AttributeRepository,
	counters repository.CounterRepository,
	rec audit.Recorder,
	inv Invalidator,
) ProductService {
	return &productService{
		repo:       repo,
		brands:     brands,
		attributes: attributes,
		counters:   counters,
		after:      newAfterCommit(rec, inv),
	}
}

func productRef(sku string) string { return "product " + sku }

func (s *productService) loadBrand(ctx context.Context, raw string) (*model.Brand, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("brand %q: %w", raw, ErrInvalidReference)
	}
	b, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, refErr(err, brandRef(id))
	}
	return b, nil
}

func (s *productService) loadAttributes(ctx context.Context, raw []string) ([]model.ProductAttribute, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", r, ErrInvalidReference)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	attrs, err := s.attributes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dbErr(err, "attributes")
	}
	if len(attrs) != len(ids) {
		return nil, fmt.Errorf("attributes: %w", ErrInvalidReference)
	}
	return attrs, nil
}

// requireEnabledBrandTx re-reads the brand under a share lock, so a brand
// disable either sees the product written or is seen by this check.
func (s *productService) requireEnabledBrandTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	b, err := s.brands.FindForShareTx(ctx, tx, id)
	if err != nil {
		return refErr(err, brandRef(id))
	}
	if !b.Enabled {
		return fmt.Errorf("enable product under disabled %s: %w", brandRef(id), ErrUnprocessable)
	}
	return nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (dto.ProductResponse, error) {
	b, err := s.loadBrand(ctx, req.BrandID)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	enabled := boolOr(req.Enabled, b.Enabled)
	if enabled && !b.Enabled {
		return dto.ProductResponse{}, fmt.Errorf("enable product under disabled %s: %w", brandRef(b.ID), ErrUnprocessable)
	}
	attrs, err := s.loadAttributes(ctx, req.AttributeIDs)
	if err != nil {
		return dto.ProductResponse{}, err
	}

	p := &model.Product{
		Description: req.Description,
		Enabled:     enabled,
		BrandID:     b.ID,
		Attributes:  attrs,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if enabled {
			if err := s.requireEnabledBrandTx(ctx, tx, b.ID); err != nil {
				return err
			}
		}
		seq, err := s.counters.Next(ctx, tx, ident.Product)
		if err != nil {
			return err
		}
		p.SKU = ident.Format(ident.Product, seq)
		return s.repo.CreateTx(ctx, tx, p)
	})
	if err != nil {
		return dto.ProductResponse{}, dbErr(err, "create product")
	}

	log.Info().Str("sku", p.SKU).Str("brand_id", b.ID.String()).Msg("product created")
	resp := mapProduct(*p)
	ev := audit.NewEvent(ctx, audit.EntityProduct, p.SKU, model.AuditActionCreate, nil, resp)
	s.after.changed(ctx, &ev)
	return resp, nil
}

func (s *productService) Get(ctx context.Context, sku string) (dto.ProductResponse, error) {
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return dto.ProductResponse{}, dbErr(err, productRef(sku))
	}
	return mapProduct(*p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (dto.ListResponse[dto.ProductResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.ProductResponse]{}, dbErr(err, "list products")
	}
	return dto.NewListResponse(mapList(list, mapProduct), total, filter.Pagination), nil
}

func (s *productService) Update(ctx context.Context, sku string, req dto.UpdateProductRequest) (dto.ProductResponse, error) {
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return dto.ProductResponse{}, dbErr(err, productRef(sku))
	}
	before := mapProduct(*p)

	var parent *model.Brand
	if req.BrandID != nil {
		if parent, err = s.loadBrand(ctx, *req.BrandID); err != nil {
			return dto.ProductResponse{}, err
		}
		p.BrandID = parent.ID
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}
	if p.Enabled {
		if parent == nil {
			if parent, err = s.brands.FindByID(ctx, p.BrandID); err != nil {
				return dto.ProductResponse{}, refErr(err, brandRef(p.BrandID))
			}
		}
		if !parent.Enabled {
			return dto.ProductResponse{}, fmt.Errorf("enable product under disabled %s: %w", brandRef(parent.ID), ErrUnprocessable)
		}
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if p.Enabled {
			if err := s.requireEnabledBrandTx(ctx, tx, p.BrandID); err != nil {
				return err
			}
		}
		return s.repo.UpdateTx(ctx, tx, p)
	})
	if err != nil {
		return dto.ProductResponse{}, dbErr(err, productRef(sku))
	}

	after := mapProduct(*p)
	ev := audit.NewEvent(ctx, audit.EntityProduct, sku, model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

func (s *productService) Delete(ctx context.Context, sku string) error {
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return dbErr(err, productRef(sku))
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(ctx, tx, sku)
	})
	if err != nil {
		return dbErr(err, productRef(sku))
	}

	log.Info().Str("sku", sku).Msg("product deleted")
	ev := audit.NewEvent(ctx, audit.EntityProduct, sku, model.AuditActionDelete, mapProduct(*p), nil)
	s.after.changed(ctx, &ev)
	return nil
}

func (s *productService) AddAttribute(ctx context.Context, sku string, attributeID uuid.UUID) (dto.ProductResponse, error) {
	return s.changeAttributes(ctx, sku, attributeID, s.repo.AddAttribute)
}

func (s *productService) RemoveAttribute(ctx context.Context, sku string, attributeID uuid.UUID) (dto.ProductResponse, error) {
	return s.changeAttributes(ctx, sku, attributeID, s.repo.RemoveAttribute)
}

func (s *productService) changeAttributes(
	ctx context.Context,
	sku string,
	attributeID uuid.UUID,
	apply func(ctx context.Context, sku string, attributeID uuid.UUID) error,
) (dto.ProductResponse, error) {
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return dto.ProductResponse{}, dbErr(err, productRef(sku))
	}
	if _, err := s.attributes.FindByID(ctx, attributeID); err != nil {
		return dto.ProductResponse{}, dbErr(err, "attribute "+attributeID.String())
	}
	before := mapProduct(*p)

	if err := apply(ctx, sku, attributeID); err != nil {
		return dto.ProductResponse{}, dbErr(err, productRef(sku))
	}
	updated, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return dto.ProductResponse{}, dbErr(err, productRef(sku))
	}

	after := mapProduct(*updated)
	ev := audit.NewEvent(ctx, audit.EntityProduct, sku, model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

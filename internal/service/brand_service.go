package service

import (
	"context"
	"fmt"
	"strings"

	"shopmate/internal/audit"
	"shopmate/internal/dto"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BrandService defines business operations for brands.
type BrandService interface {
	Create(ctx context.Context, req dto.CreateBrandRequest) (dto.BrandResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.BrandResponse, error)
	List(ctx context.Context, filter dto.BrandFilter) (dto.ListResponse[dto.BrandResponse], error)
	ListProducts(ctx context.Context, id uuid.UUID, filter dto.ProductFilter) (dto.ListResponse[dto.ProductResponse], error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateBrandRequest) (dto.BrandResponse, error)

	// Disable turns the brand off together with every product it owns, in one
	// transaction.
	Disable(ctx context.Context, id uuid.UUID) (dto.BrandResponse, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type brandService struct {
	repo          repository.BrandRepository
	manufacturers repository.ManufacturerRepository
	products      repository.ProductRepository
	after         afterCommit
}

func NewBrandService(
	repo repository.BrandRepository,
	manufacturers repository.ManufacturerRepository,
	products repository.ProductRepository,
	rec audit.Recorder,
	inv Invalidator,
) BrandService {
	return &brandService{
		repo:          repo,
		manufacturers: manufacturers,
		products:      products,
		after:         newAfterCommit(rec, inv),
	}
}

func brandRef(id uuid.UUID) string { return "brand " + id.String() }

// loadManufacturer resolves a manufacturer referenced by a brand request.
func (s *brandService) loadManufacturer(ctx context.Context, raw string) (*model.Manufacturer, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("manufacturer %q: %w", raw, ErrInvalidReference)
	}
	m, err := s.manufacturers.FindByID(ctx, id)
	if err != nil {
		return nil, refErr(err, manufacturerRef(id))
	}
	return m, nil
}

// requireEnabledManufacturerTx re-reads the manufacturer under a share lock
// inside the brand write.
func (s *brandService) requireEnabledManufacturerTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	m, err := s.manufacturers.FindForShareTx(ctx, tx, id)
	if err != nil {
		return refErr(err, manufacturerRef(id))
	}
	if !m.Enabled {
		return fmt.Errorf("enable brand under disabled %s: %w", manufacturerRef(id), ErrUnprocessable)
	}
	return nil
}

func (s *brandService) Create(ctx context.Context, req dto.CreateBrandRequest) (dto.BrandResponse, error) {
	m, err := s.loadManufacturer(ctx, req.ManufacturerID)
	if err != nil {
		return dto.BrandResponse{}, err
	}
	enabled := boolOr(req.Enabled, m.Enabled)
	if enabled && !m.Enabled {
		return dto.BrandResponse{}, fmt.Errorf("enable brand under disabled %s: %w", manufacturerRef(m.ID), ErrUnprocessable)
	}

	b := &model.Brand{
		Name:           strings.TrimSpace(req.Name),
		Enabled:        enabled,
		ManufacturerID: m.ID,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if b.Enabled {
			if err := s.requireEnabledManufacturerTx(ctx, tx, m.ID); err != nil {
				return err
			}
		}
		return s.repo.CreateTx(ctx, tx, b)
	})
	if err != nil {
		return dto.BrandResponse{}, dbErr(err, "brand "+b.Name)
	}

	resp := mapBrand(*b)
	ev := audit.NewEvent(ctx, audit.EntityBrand, b.ID.String(), model.AuditActionCreate, nil, resp)
	s.after.changed(ctx, &ev)
	return resp, nil
}

func (s *brandService) Get(ctx context.Context, id uuid.UUID) (dto.BrandResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.BrandResponse{}, dbErr(err, brandRef(id))
	}
	return mapBrand(*b), nil
}

func (s *brandService) List(ctx context.Context, filter dto.BrandFilter) (dto.ListResponse[dto.BrandResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.BrandResponse]{}, dbErr(err, "list brands")
	}
	return dto.NewListResponse(mapList(list, mapBrand), total, filter.Pagination), nil
}

func (s *brandService) ListProducts(ctx context.Context, id uuid.UUID, filter dto.ProductFilter) (dto.ListResponse[dto.ProductResponse], error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dto.ListResponse[dto.ProductResponse]{}, dbErr(err, brandRef(id))
	}
	filter.BrandID = id.String()
	list, total, err := s.products.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.ProductResponse]{}, dbErr(err, "list products")
	}
	return dto.NewListResponse(mapList(list, mapProduct), total, filter.Pagination), nil
}

func (s *brandService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateBrandRequest) (dto.BrandResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.BrandResponse{}, dbErr(err, brandRef(id))
	}
	before := mapBrand(*b)
	wasEnabled := b.Enabled

	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
	}
	var parent *model.Manufacturer
	if req.ManufacturerID != nil {
		if parent, err = s.loadManufacturer(ctx, *req.ManufacturerID); err != nil {
			return dto.BrandResponse{}, err
		}
		b.ManufacturerID = parent.ID
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}
	if b.Enabled {
		if parent == nil {
			if parent, err = s.manufacturers.FindByID(ctx, b.ManufacturerID); err != nil {
				return dto.BrandResponse{}, refErr(err, manufacturerRef(b.ManufacturerID))
			}
		}
		if !parent.Enabled {
			return dto.BrandResponse{}, fmt.Errorf("enable brand under disabled %s: %w", manufacturerRef(parent.ID), ErrUnprocessable)
		}
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if b.Enabled {
			if err := s.requireEnabledManufacturerTx(ctx, tx, b.ManufacturerID); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateTx(ctx, tx, b); err != nil {
			return err
		}
		if wasEnabled && !b.Enabled {
			_, err := s.products.DisableByBrandTx(ctx, tx, id)
			return err
		}
		return nil
	})
	if err != nil {
		return dto.BrandResponse{}, dbErr(err, brandRef(id))
	}

	after := mapBrand(*b)
	ev := audit.NewEvent(ctx, audit.EntityBrand, id.String(), model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

func (s *brandService) Disable(ctx context.Context, id uuid.UUID) (dto.BrandResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.BrandResponse{}, dbErr(err, brandRef(id))
	}
	before := mapBrand(*b)

	var products int64
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SetEnabledTx(ctx, tx, id, false); err != nil {
			return err
		}
		var err error
		products, err = s.products.DisableByBrandTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return dto.BrandResponse{}, dbErr(err, brandRef(id))
	}

	b.Enabled = false
	log.Info().Str("brand_id", id.String()).Int64("products", products).Msg("brand disabled")

	after := mapBrand(*b)
	ev := audit.NewEvent(ctx, audit.EntityBrand, id.String(), model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

func (s *brandService) Delete(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dbErr(err, brandRef(id))
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return dbErr(err, brandRef(id))
	}

	log.Info().Str("brand_id", id.String()).Msg("brand deleted")
	ev := audit.NewEvent(ctx, audit.EntityBrand, id.String(), model.AuditActionDelete, mapBrand(*b), nil)
	s.after.changed(ctx, &ev)
	return nil
}

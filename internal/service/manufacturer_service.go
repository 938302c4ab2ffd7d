package service

import (
	"context"
	"strings"

	"shopmate/internal/audit"
	"shopmate/internal/dto"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ManufacturerService defines business operations for manufacturers.
type ManufacturerService interface {
	Create(ctx context.Context, req dto.CreateManufacturerRequest) (dto.ManufacturerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.ManufacturerResponse, error)
	List(ctx context.Context, filter dto.ManufacturerFilter) (dto.ListResponse[dto.ManufacturerResponse], error)
	ListBrands(ctx context.Context, id uuid.UUID, filter dto.BrandFilter) (dto.ListResponse[dto.BrandResponse], error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateManufacturerRequest) (dto.ManufacturerResponse, error)

	// Disable turns the manufacturer off together with every brand it owns and
	// every product of those brands, in one transaction.
	Disable(ctx context.Context, id uuid.UUID) (dto.ManufacturerResponse, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type manufacturerService struct {
	repo     repository.ManufacturerRepository
	brands   repository.BrandRepository
	products repository.ProductRepository
	after    afterCommit
}

func NewManufacturerService(
	repo repository.ManufacturerRepository,
	brands repository.BrandRepository,
	products repository.ProductRepository,
	rec audit.Recorder,
	inv Invalidator,
) ManufacturerService {
	return &manufacturerService{
		repo:     repo,
		brands:   brands,
		products: products,
		after:    newAfterCommit(rec, inv),
	}
}

func manufacturerRef(id uuid.UUID) string { return "manufacturer " + id.String() }

func (s *manufacturerService) Create(ctx context.Context, req dto.CreateManufacturerRequest) (dto.ManufacturerResponse, error) {
	m := &model.Manufacturer{
		Name:    strings.TrimSpace(req.Name),
		Enabled: boolOr(req.Enabled, true),
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(ctx, tx, m)
	})
	if err != nil {
		return dto.ManufacturerResponse{}, dbErr(err, "manufacturer "+m.Name)
	}

	resp := mapManufacturer(*m)
	ev := audit.NewEvent(ctx, audit.EntityManufacturer, m.ID.String(), model.AuditActionCreate, nil, resp)
	s.after.changed(ctx, &ev)
	return resp, nil
}

func (s *manufacturerService) Get(ctx context.Context, id uuid.UUID) (dto.ManufacturerResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ManufacturerResponse{}, dbErr(err, manufacturerRef(id))
	}
	return mapManufacturer(*m), nil
}

func (s *manufacturerService) List(ctx context.Context, filter dto.ManufacturerFilter) (dto.ListResponse[dto.ManufacturerResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.ManufacturerResponse]{}, dbErr(err, "list manufacturers")
	}
	return dto.NewListResponse(mapList(list, mapManufacturer), total, filter.Pagination), nil
}

func (s *manufacturerService) ListBrands(ctx context.Context, id uuid.UUID, filter dto.BrandFilter) (dto.ListResponse[dto.BrandResponse], error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dto.ListResponse[dto.BrandResponse]{}, dbErr(err, manufacturerRef(id))
	}
	filter.ManufacturerID = id.String()
	list, total, err := s.brands.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.BrandResponse]{}, dbErr(err, "list brands")
	}
	return dto.NewListResponse(mapList(list, mapBrand), total, filter.Pagination), nil
}

func (s *manufacturerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateManufacturerRequest) (dto.ManufacturerResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ManufacturerResponse{}, dbErr(err, manufacturerRef(id))
	}
	before := mapManufacturer(*m)
	wasEnabled := m.Enabled

	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Enabled != nil {
		m.Enabled = *req.Enabled
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(ctx, tx, m); err != nil {
			return err
		}
		// Switching off through a plain update still has to switch off
		// everything the manufacturer owns.
		if wasEnabled && !m.Enabled {
			_, _, err := s.cascadeTx(ctx, tx, id)
			return err
		}
		return nil
	})
	if err != nil {
		return dto.ManufacturerResponse{}, dbErr(err, manufacturerRef(id))
	}

	after := mapManufacturer(*m)
	ev := audit.NewEvent(ctx, audit.EntityManufacturer, id.String(), model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

func (s *manufacturerService) Disable(ctx context.Context, id uuid.UUID) (dto.ManufacturerResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ManufacturerResponse{}, dbErr(err, manufacturerRef(id))
	}
	before := mapManufacturer(*m)

	var brands, products int64
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SetEnabledTx(ctx, tx, id, false); err != nil {
			return err
		}
		var err error
		brands, products, err = s.cascadeTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return dto.ManufacturerResponse{}, dbErr(err, manufacturerRef(id))
	}

	m.Enabled = false
	log.Info().
		Str("manufacturer_id", id.String()).
		Int64("brands", brands).
		Int64("products", products).
		Msg("manufacturer disabled")

	after := mapManufacturer(*m)
	ev := audit.NewEvent(ctx, audit.EntityManufacturer, id.String(), model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

// cascadeTx bulk-disables the brands of a manufacturer and their products.
func (s *manufacturerService) cascadeTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (brands, products int64, err error) {
	brands, err = s.brands.DisableByManufacturerTx(ctx, tx, id)
	if err != nil {
		return 0, 0, err
	}
	products, err = s.products.DisableByManufacturerTx(ctx, tx, id)
	if err != nil {
		return 0, 0, err
	}
	return brands, products, nil
}

func (s *manufacturerService) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dbErr(err, manufacturerRef(id))
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return dbErr(err, manufacturerRef(id))
	}

	log.Info().Str("manufacturer_id", id.String()).Msg("manufacturer deleted")
	ev := audit.NewEvent(ctx, audit.EntityManufacturer, id.String(), model.AuditActionDelete, mapManufacturer(*m), nil)
	s.after.changed(ctx, &ev)
	return nil
}

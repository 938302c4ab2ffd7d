package service

import (
	"context"
	"strings"

	"shopmate/internal/dto"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/google/uuid"
)

// AttributeService defines business operations for product attributes.
// Attributes are shared and not audited.
type AttributeService interface {
	Create(ctx context.Context, req dto.CreateAttributeRequest) (dto.AttributeResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.AttributeResponse, error)
	List(ctx context.Context, filter dto.AttributeFilter) (dto.ListResponse[dto.AttributeResponse], error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateAttributeRequest) (dto.AttributeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type attributeService struct {
	repo repository.AttributeRepository
}

func NewAttributeService(repo repository.AttributeRepository) AttributeService {
	return &attributeService{repo: repo}
}

func attributeRef(id uuid.UUID) string { return "attribute " + id.String() }

func (s *attributeService) Create(ctx context.Context, req dto.CreateAttributeRequest) (dto.AttributeResponse, error) {
	a := &model.ProductAttribute{Key: strings.TrimSpace(req.Key), Value: req.Value}
	if err := s.repo.Create(ctx, a); err != nil {
		return dto.AttributeResponse{}, dbErr(err, "attribute "+a.Key)
	}
	return mapAttribute(*a), nil
}

func (s *attributeService) Get(ctx context.Context, id uuid.UUID) (dto.AttributeResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.AttributeResponse{}, dbErr(err, attributeRef(id))
	}
	return mapAttribute(*a), nil
}

func (s *attributeService) List(ctx context.Context, filter dto.AttributeFilter) (dto.ListResponse[dto.AttributeResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.AttributeResponse]{}, dbErr(err, "list attributes")
	}
	return dto.NewListResponse(mapList(list, mapAttribute), total, filter.Pagination), nil
}

func (s *attributeService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateAttributeRequest) (dto.AttributeResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.AttributeResponse{}, dbErr(err, attributeRef(id))
	}
	if req.Key != nil {
		a.Key = strings.TrimSpace(*req.Key)
	}
	if req.Value != nil {
		a.Value = req.Value
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return dto.AttributeResponse{}, dbErr(err, attributeRef(id))
	}
	return mapAttribute(*a), nil
}

func (s *attributeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dbErr(err, attributeRef(id))
	}
	return dbErr(s.repo.Delete(ctx, id), attributeRef(id))
}

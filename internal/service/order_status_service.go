package service

import (
	"context"
	"strings"

	"shopmate/internal/dto"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrderStatusService defines business operations for order statuses.
type OrderStatusService interface {
	Create(ctx context.Context, req dto.CreateOrderStatusRequest) (dto.OrderStatusResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.OrderStatusResponse, error)
	List(ctx context.Context, filter dto.OrderStatusFilter) (dto.ListResponse[dto.OrderStatusResponse], error)
	ListOrders(ctx context.Context, id uuid.UUID, filter dto.OrderFilter) (dto.ListResponse[dto.OrderResponse], error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderStatusRequest) (dto.OrderStatusResponse, error)

	// Delete removes the status and every order currently in it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderStatusService struct {
	repo   repository.OrderStatusRepository
	orders repository.OrderRepository
	after  afterCommit
}

func NewOrderStatusService(repo repository.OrderStatusRepository, orders repository.OrderRepository, inv Invalidator) OrderStatusService {
	return &orderStatusService{repo: repo, orders: orders, after: newAfterCommit(nil, inv)}
}

func statusRef(id uuid.UUID) string { return "order status " + id.String() }

func (s *orderStatusService) Create(ctx context.Context, req dto.CreateOrderStatusRequest) (dto.OrderStatusResponse, error) {
	st := &model.OrderStatus{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Enabled:     boolOr(req.Enabled, true),
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return dto.OrderStatusResponse{}, dbErr(err, "order status "+st.Name)
	}
	s.after.changed(ctx, nil)
	return mapOrderStatus(*st), nil
}

func (s *orderStatusService) Get(ctx context.Context, id uuid.UUID) (dto.OrderStatusResponse, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.OrderStatusResponse{}, dbErr(err, statusRef(id))
	}
	return mapOrderStatus(*st), nil
}

func (s *orderStatusService) List(ctx context.Context, filter dto.OrderStatusFilter) (dto.ListResponse[dto.OrderStatusResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.OrderStatusResponse]{}, dbErr(err, "list order statuses")
	}
	return dto.NewListResponse(mapList(list, mapOrderStatus), total, filter.Pagination), nil
}

func (s *orderStatusService) ListOrders(ctx context.Context, id uuid.UUID, filter dto.OrderFilter) (dto.ListResponse[dto.OrderResponse], error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dto.ListResponse[dto.OrderResponse]{}, dbErr(err, statusRef(id))
	}
	filter.StatusID = id.String()
	list, total, err := s.orders.List(ctx, filter, expandRelations(filter.Expand)...)
	if err != nil {
		return dto.ListResponse[dto.OrderResponse]{}, dbErr(err, "list orders")
	}
	return dto.NewListResponse(mapList(list, mapOrder), total, filter.Pagination), nil
}

func (s *orderStatusService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderStatusRequest) (dto.OrderStatusResponse, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.OrderStatusResponse{}, dbErr(err, statusRef(id))
	}
	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		st.Description = req.Description
	}
	if req.Enabled != nil {
		st.Enabled = *req.Enabled
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return dto.OrderStatusResponse{}, dbErr(err, statusRef(id))
	}
	s.after.changed(ctx, nil)
	return mapOrderStatus(*st), nil
}

func (s *orderStatusService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dbErr(err, statusRef(id))
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return dbErr(err, statusRef(id))
	}
	log.Info().Str("status_id", id.String()).Msg("order status deleted")
	s.after.changed(ctx, nil)
	return nil
}

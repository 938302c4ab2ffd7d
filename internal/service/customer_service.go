package service

import (
	"context"
	"strings"

	"shopmate/internal/audit"
	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/model"
	"shopmate/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CustomerService defines business operations for customers.
type CustomerService interface {
	// Create assigns the next customer id and stores the customer in one
	// transaction.
	Create(ctx context.Context, req dto.CreateCustomerRequest) (dto.CustomerResponse, error)
	Get(ctx context.Context, customerID string) (dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) (dto.ListResponse[dto.CustomerResponse], error)
	ListOrders(ctx context.Context, customerID string, filter dto.OrderFilter) (dto.ListResponse[dto.OrderResponse], error)
	Update(ctx context.Context, customerID string, req dto.UpdateCustomerRequest) (dto.CustomerResponse, error)
	Delete(ctx context.Context, customerID string) error
}

type customerService struct {
	repo     repository.CustomerRepository
	orders   repository.OrderRepository
	counters repository.CounterRepository
	after    afterCommit
}

func NewCustomerService(
	repo repository.CustomerRepository,
	orders repository.OrderRepository,
	counters repository.CounterRepository,
	rec audit.Recorder,
	inv Invalidator,
) CustomerService {
	return &customerService{
		repo:     repo,
		orders:   orders,
		counters: counters,
		after:    newAfterCommit(rec, inv),
	}
}

func customerRef(id string) string { return "customer " + id }

func normalizeEmail(e *string) *string {
	if e == nil {
		return nil
	}
	v := strings.TrimSpace(*e)
	if v == "" {
		return nil
	}
	return &v
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (dto.CustomerResponse, error) {
	c := &model.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     normalizeEmail(req.Email),
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.counters.Next(ctx, tx, ident.Customer)
		if err != nil {
			return err
		}
		c.CustomerID = ident.Format(ident.Customer, seq)
		return s.repo.CreateTx(ctx, tx, c)
	})
	if err != nil {
		return dto.CustomerResponse{}, dbErr(err, "create customer")
	}

	log.Info().Str("customer_id", c.CustomerID).Msg("customer created")
	resp := mapCustomer(*c)
	ev := audit.NewEvent(ctx, audit.EntityCustomer, c.CustomerID, model.AuditActionCreate, nil, resp)
	s.after.changed(ctx, &ev)
	return resp, nil
}

func (s *customerService) Get(ctx context.Context, customerID string) (dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return dto.CustomerResponse{}, dbErr(err, customerRef(customerID))
	}
	return mapCustomer(*c), nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) (dto.ListResponse[dto.CustomerResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.CustomerResponse]{}, dbErr(err, "list customers")
	}
	return dto.NewListResponse(mapList(list, mapCustomer), total, filter.Pagination), nil
}

func (s *customerService) ListOrders(ctx context.Context, customerID string, filter dto.OrderFilter) (dto.ListResponse[dto.OrderResponse], error) {
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		return dto.ListResponse[dto.OrderResponse]{}, dbErr(err, customerRef(customerID))
	}
	filter.CustomerID = customerID
	list, total, err := s.orders.List(ctx, filter, expandRelations(filter.Expand)...)
	if err != nil {
		return dto.ListResponse[dto.OrderResponse]{}, dbErr(err, "list orders")
	}
	return dto.NewListResponse(mapList(list, mapOrder), total, filter.Pagination), nil
}

func (s *customerService) Update(ctx context.Context, customerID string, req dto.UpdateCustomerRequest) (dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return dto.CustomerResponse{}, dbErr(err, customerRef(customerID))
	}
	before := mapCustomer(*c)

	if req.FirstName != nil {
		c.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		c.Email = normalizeEmail(req.Email)
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateTx(ctx, tx, c)
	})
	if err != nil {
		return dto.CustomerResponse{}, dbErr(err, customerRef(customerID))
	}

	after := mapCustomer(*c)
	ev := audit.NewEvent(ctx, audit.EntityCustomer, customerID, model.AuditActionUpdate, before, after)
	s.after.changed(ctx, &ev)
	return after, nil
}

func (s *customerService) Delete(ctx context.Context, customerID string) error {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return dbErr(err, customerRef(customerID))
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(ctx, tx, customerID)
	})
	if err != nil {
		return dbErr(err, customerRef(customerID))
	}

	log.Info().Str("customer_id", customerID).Msg("customer deleted")
	ev := audit.NewEvent(ctx, audit.EntityCustomer, customerID, model.AuditActionDelete, mapCustomer(*c), nil)
	s.after.changed(ctx, &ev)
	return nil
}

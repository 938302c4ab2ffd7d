package router

import (
	"shopmate/internal/config"
	"shopmate/internal/repository"
	"shopmate/internal/service"
	"shopmate/internal/worker"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the business layer shared by the HTTP server and the seed
// command.
type Services struct {
	Manufacturers service.ManufacturerService
	Brands        service.BrandService
	Products      service.ProductService
	Attributes    service.AttributeService
	Customers     service.CustomerService
	Statuses      service.OrderStatusService
	Orders        service.OrderService
	Dashboard     service.DashboardService
	Audit         service.AuditService
}

// NewServices wires Service ← Repository ← DB/Redis. The Redis dispatcher is
// both the audit recorder and the invoice-email queue.
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	counterRepo := repository.NewCounterRepository(db)
	manufacturerRepo := repository.NewManufacturerRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	productRepo := repository.NewProductRepository(db)
	attributeRepo := repository.NewAttributeRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	statusRepo := repository.NewOrderStatusRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	dashboardSvc := service.NewDashboardService(dashboardRepo, rdb, cfg.DashboardCacheTTL)

	return &Services{
		Manufacturers: service.NewManufacturerService(manufacturerRepo, brandRepo, productRepo, dispatcher, dashboardSvc),
		Brands:        service.NewBrandService(brandRepo, manufacturerRepo, productRepo, dispatcher, dashboardSvc),
		Products:      service.NewProductService(productRepo, brandRepo, attributeRepo, counterRepo, dispatcher, dashboardSvc),
		Attributes:    service.NewAttributeService(attributeRepo),
		Customers:     service.NewCustomerService(customerRepo, orderRepo, counterRepo, dispatcher, dashboardSvc),
		Statuses:      service.NewOrderStatusService(statusRepo, orderRepo, dashboardSvc),
		Orders: service.NewOrderService(orderRepo, invoiceRepo, customerRepo, statusRepo, productRepo,
			counterRepo, dispatcher, dispatcher, dashboardSvc),
		Dashboard: dashboardSvc,
		Audit:     service.NewAuditService(auditRepo),
	}
}

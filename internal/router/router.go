package router

import (
	"time"

	"shopmate/internal/config"
	"shopmate/internal/handler"
	"shopmate/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New returns the configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, svc *Services, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	manufacturersH := handler.NewManufacturersHandler(svc.Manufacturers)
	brandsH := handler.NewBrandsHandler(svc.Brands)
	productsH := handler.NewProductsHandler(svc.Products)
	attributesH := handler.NewAttributesHandler(svc.Attributes)
	customersH := handler.NewCustomersHandler(svc.Customers)
	statusesH := handler.NewOrderStatusesHandler(svc.Statuses)
	ordersH := handler.NewOrdersHandler(svc.Orders)
	dashboardH := handler.NewDashboardHandler(svc.Dashboard)
	auditH := handler.NewAuditLogsHandler(svc.Audit)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Any valid token may read; writes are declared per group.
	catalog := middleware.RequireGroup(middleware.GroupAdmin, middleware.GroupProductManagers)
	ordering := middleware.RequireGroup(middleware.GroupAdmin, middleware.GroupOrderers)
	admin := middleware.RequireGroup(middleware.GroupAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		m := v1.Group("/manufacturers")
		{
			m.GET("", manufacturersH.List)
			m.GET("/:id", manufacturersH.Get)
			m.GET("/:id/brands", manufacturersH.ListBrands)
			m.POST("", catalog, manufacturersH.Create)
			m.PATCH("/:id", catalog, manufacturersH.Update)
			m.POST("/:id/disable", catalog, manufacturersH.Disable)
			m.DELETE("/:id", admin, manufacturersH.Delete)
		}

		b := v1.Group("/brands")
		{
			b.GET("", brandsH.List)
			b.GET("/:id", brandsH.Get)
			b.GET("/:id/products", brandsH.ListProducts)
			b.POST("", catalog, brandsH.Create)
			b.PATCH("/:id", catalog, brandsH.Update)
			b.POST("/:id/disable", catalog, brandsH.Disable)
			b.DELETE("/:id", admin, brandsH.Delete)
		}

		p := v1.Group("/products")
		{
			p.GET("", productsH.List)
			p.GET("/:sku", productsH.Get)
			p.POST("", catalog, productsH.Create)
			p.PATCH("/:sku", catalog, productsH.Update)
			p.PUT("/:sku/attributes/:attr_id", catalog, productsH.AddAttribute)
			p.DELETE("/:sku/attributes/:attr_id", catalog, productsH.RemoveAttribute)
			p.DELETE("/:sku", admin, productsH.Delete)
		}

		a := v1.Group("/product-attributes")
		{
			a.GET("", attributesH.List)
			a.GET("/:id", attributesH.Get)
			a.POST("", catalog, attributesH.Create)
			a.PATCH("/:id", catalog, attributesH.Update)
			a.DELETE("/:id", admin, attributesH.Delete)
		}

		cu := v1.Group("/customers")
		{
			cu.GET("", customersH.List)
			cu.GET("/:id", customersH.Get)
			cu.GET("/:id/orders", customersH.ListOrders)
			cu.POST("", ordering, customersH.Create)
			cu.PATCH("/:id", ordering, customersH.Update)
			cu.DELETE("/:id", admin, customersH.Delete)
		}

		st := v1.Group("/order-statuses")
		{
			st.GET("", statusesH.List)
			st.GET("/:id", statusesH.Get)
			st.GET("/:id/orders", statusesH.ListOrders)
			st.POST("", ordering, statusesH.Create)
			st.PATCH("/:id", ordering, statusesH.Update)
			st.DELETE("/:id", admin, statusesH.Delete)
		}

		o := v1.Group("/orders")
		{
			o.GET("", ordersH.List)
			o.GET("/:id", ordersH.Get)
			o.GET("/:id/products", ordersH.Products)
			o.GET("/:id/invoice.pdf", ordersH.InvoicePDF)
			o.POST("", ordering, ordersH.Create)
			o.PATCH("/:id", ordering, ordersH.Update)
			o.POST("/:id/items", ordering, ordersH.AddItems)
			o.POST("/:id/send-invoice", ordering, ordersH.SendInvoice)
			o.DELETE("/:id", admin, ordersH.Delete)
		}

		inv := v1.Group("/invoices")
		{
			inv.GET("", ordersH.ListInvoices)
			inv.GET("/:id", ordersH.GetInvoice)
			inv.DELETE("/:id", admin, ordersH.DeleteInvoice)
		}

		v1.GET("/dashboard", dashboardH.Summary)
		v1.GET("/dashboard/trends", dashboardH.Trends)
		v1.GET("/audit-logs", admin, auditH.List)
	}

	return r
}

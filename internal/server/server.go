// Package server wires repositories, services and handlers into a Fiber application.
package server

import (
	"time"

	"go-stock-pos/internal/handler"
	"go-stock-pos/internal/middleware"
	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/service"
	"go-stock-pos/internal/ws"
	"go-stock-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	AppName     string
	CORSOrigins string
	AccessLog   bool
	IdleTimeout time.Duration
}

// New builds the HTTP application. The caller owns db and hub and runs hub.Run.
func New(db *gorm.DB, tokens *jwt.Manager, hub *ws.Hub, log *zap.Logger, opts Options) *fiber.App {
	// Repositories
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	reportRepo := repository.NewReportRepo(db)

	// Services
	ledger := service.NewStockLedger(db, productRepo, movementRepo, log.Named("ledger"))
	saleService := service.NewSaleService(db, saleRepo, productRepo, customerRepo, ledger, hub, log.Named("sale"))
	productService := service.NewProductService(db, productRepo, categoryRepo, supplierRepo, ledger, hub, log.Named("product"))
	directoryService := service.NewDirectoryService(categoryRepo, supplierRepo, customerRepo, log.Named("directory"))
	reportService := service.NewReportService(reportRepo, productRepo, log.Named("report"))
	authService := service.NewAuthService(userRepo, tokens, hub, opts.IdleTimeout, log.Named("auth"))
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, saleRepo, log.Named("user"))

	// Handlers
	saleHandler := handler.NewSaleHandler(saleService, log)
	productHandler := handler.NewProductHandler(productService, log)
	directoryHandler := handler.NewDirectoryHandler(directoryService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	authHandler := handler.NewAuthHandler(authService, log)
	userHandler := handler.NewUserHandler(userService, log)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo, log)

	app := fiber.New(fiber.Config{
		AppName: opts.AppName,
	})

	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: opts.CORSOrigins}))

	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(userRepo, tokens)
	can := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", requireAuth, authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	// Sales
	protected.Get("/sales", can(model.PrivSaleView), saleHandler.GetSales)
	protected.Get("/sales/date-range", can(model.PrivSaleView), saleHandler.GetSalesByDateRange)
	protected.Get("/sales/customer/:customerId", can(model.PrivSaleView), saleHandler.GetSalesByCustomer)
	protected.Get("/sales/user/:userId", can(model.PrivSaleView), saleHandler.GetSalesByUser)
	protected.Get("/sales/:id", can(model.PrivSaleView), saleHandler.GetSale)
	protected.Post("/sales", can(model.PrivSaleCreate), saleHandler.CreateSale)
	protected.Put("/sales/:id", can(model.PrivSaleUpdate), saleHandler.UpdateSale)
	protected.Delete("/sales/:id", can(model.PrivSaleDelete), saleHandler.DeleteSale)

	// Products
	protected.Get("/products", can(model.PrivProductView), productHandler.GetProducts)
	protected.Get("/products/:id", can(model.PrivProductView), productHandler.GetProduct)
	protected.Get("/products/:id/movements", can(model.PrivProductView), productHandler.GetMovements)
	protected.Post("/products", can(model.PrivProductCreate), productHandler.CreateProduct)
	protected.Put("/products/:id", can(model.PrivProductUpdate), productHandler.UpdateProduct)
	protected.Put("/products/:id/stock", can(model.PrivProductUpdate), productHandler.SetStock)
	protected.Delete("/products/:id", can(model.PrivProductDelete), productHandler.DeleteProduct)

	// Categories and suppliers are readable by anyone who can see products
	protected.Get("/categories", can(model.PrivProductView), directoryHandler.GetCategories)
	protected.Get("/categories/:id", can(model.PrivProductView), directoryHandler.GetCategory)
	protected.Post("/categories", can(model.PrivCategoryManage), directoryHandler.CreateCategory)
	protected.Put("/categories/:id", can(model.PrivCategoryManage), directoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", can(model.PrivCategoryManage), directoryHandler.DeleteCategory)

	protected.Get("/suppliers", can(model.PrivProductView), directoryHandler.GetSuppliers)
	protected.Get("/suppliers/:id", can(model.PrivProductView), directoryHandler.GetSupplier)
	protected.Post("/suppliers", can(model.PrivSupplierManage), directoryHandler.CreateSupplier)
	protected.Put("/suppliers/:id", can(model.PrivSupplierManage), directoryHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", can(model.PrivSupplierManage), directoryHandler.DeleteSupplier)

	viewCustomers := middleware.RequireAnyPrivilege(model.PrivCustomerView, model.PrivCustomerManage)
	protected.Get("/customers", viewCustomers, directoryHandler.GetCustomers)
	protected.Get("/customers/:id", viewCustomers, directoryHandler.GetCustomer)
	protected.Post("/customers", can(model.PrivCustomerManage), directoryHandler.CreateCustomer)
	protected.Put("/customers/:id", can(model.PrivCustomerManage), directoryHandler.UpdateCustomer)
	protected.Delete("/customers/:id", can(model.PrivCustomerManage), directoryHandler.DeleteCustomer)

	// Reports
	protected.Get("/reports/summary", can(model.PrivReportView), reportHandler.GetSummary)
	protected.Get("/reports/top-products", can(model.PrivReportView), reportHandler.GetTopProducts)
	protected.Get("/reports/daily-sales", can(model.PrivReportView), reportHandler.GetDailySales)
	protected.Get("/reports/low-stock", can(model.PrivReportView), reportHandler.GetLowStock)

	// User management
	protected.Get("/users", can(model.PrivUserView), userHandler.GetUsers)
	protected.Get("/users/:id", can(model.PrivUserView), userHandler.GetUser)
	protected.Post("/users", can(model.PrivUserCreate), userHandler.CreateUser)
	protected.Put("/users/:id", can(model.PrivUserUpdate), userHandler.UpdateUser)
	protected.Delete("/users/:id", can(model.PrivUserDelete), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", can(model.PrivUserUpdatePrivilege), userHandler.UpdateUserPrivileges)

	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket live feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Join(c) {
			return
		}
		defer hub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return app
}

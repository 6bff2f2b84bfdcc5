package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/opsledger/backend/internal/interfaces/http/handler"
	"github.com/opsledger/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs to assemble the API
type Dependencies struct {
	Logger        *zap.Logger
	TokenResolver middleware.TokenResolver
	CORS          middleware.CORSConfig

	Auth       *handler.AuthHandler
	Inventory  *handler.InventoryHandler
	Cashier    *handler.CashierHandler
	Sales      *handler.SalesHandler
	Payroll    *handler.PayrollHandler
	Purchasing *handler.PurchasingHandler
	Audit      *handler.AuditHandler
	Report     *handler.ReportHandler
	System     *handler.SystemHandler
}

// New builds the gin engine with all middleware and routes registered.
// Route groups encode the role matrix: a route outside a RequireRoles
// group is either public or open to any authenticated user.
func New(deps Dependencies) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(deps.CORS),
	)

	api := engine.Group("/api/v1")

	// Public endpoints
	api.GET("/system/health", deps.System.Health)
	api.GET("/system/ping", deps.System.Ping)
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/refresh", deps.Auth.Refresh)

	authed := api.Group("", middleware.Authentication(deps.TokenResolver))

	authed.POST("/auth/logout", deps.Auth.Logout)
	authed.GET("/auth/me", deps.Auth.Me)

	adminOnly := middleware.RequireRoles(shared.RoleAdmin)
	managers := middleware.RequireRoles(shared.RoleAdmin, shared.RoleManager)
	cashiers := middleware.RequireRoles(shared.RoleAdmin, shared.RoleCashier)
	anyStaff := middleware.RequireRoles(shared.RoleAdmin, shared.RoleManager, shared.RoleCashier)

	users := authed.Group("/users", adminOnly)
	{
		users.POST("", deps.Auth.CreateUser)
		users.GET("", deps.Auth.ListUsers)
		users.GET("/:id", deps.Auth.GetUser)
	}

	inventory := authed.Group("/inventory")
	{
		inventory.GET("/products", anyStaff, deps.Inventory.ListProducts)
		inventory.GET("/products/:id", anyStaff, deps.Inventory.GetProduct)
		inventory.GET("/products/:id/movements", anyStaff, deps.Inventory.ListMovements)
		inventory.POST("/products", managers, deps.Inventory.CreateProduct)
		inventory.POST("/products/:id/receive", managers, deps.Inventory.ReceiveStock)
	}

	sessions := authed.Group("/sessions")
	{
		sessions.POST("", cashiers, deps.Cashier.OpenSession)
		sessions.GET("/active", cashiers, deps.Cashier.GetActiveSession)
		sessions.POST("/:id/close", cashiers, deps.Cashier.CloseSession)
		sessions.GET("", managers, deps.Cashier.ListSessions)
	}

	sales := authed.Group("/sales")
	{
		sales.POST("/checkout", cashiers, deps.Sales.Checkout)
		sales.GET("/invoices", anyStaff, deps.Sales.ListInvoices)
		sales.GET("/invoices/:number", anyStaff, deps.Sales.GetInvoice)
	}

	payroll := authed.Group("/payroll")
	{
		payroll.POST("/employees", managers, deps.Payroll.CreateEmployee)
		payroll.GET("/employees", managers, deps.Payroll.ListEmployees)
		payroll.GET("/employees/:id", managers, deps.Payroll.GetEmployee)
		payroll.POST("/records", managers, deps.Payroll.CreatePayroll)
		payroll.GET("/records", managers, deps.Payroll.ListPayrolls)
		payroll.POST("/records/:id/pay", adminOnly, deps.Payroll.PayPayroll)
	}

	purchasing := authed.Group("/purchasing", managers)
	{
		purchasing.POST("/providers", deps.Purchasing.CreateProvider)
		purchasing.GET("/providers", deps.Purchasing.ListProviders)
		purchasing.POST("/orders", deps.Purchasing.CreateOrder)
		purchasing.GET("/orders", deps.Purchasing.ListOrders)
		purchasing.GET("/orders/:id", deps.Purchasing.GetOrder)
		purchasing.POST("/orders/:id/receive", deps.Purchasing.ReceiveOrder)
		purchasing.GET("/payables", deps.Purchasing.ListPayables)
		purchasing.POST("/payables/:id/pay", deps.Purchasing.PayPayable)
	}

	audit := authed.Group("/audit", adminOnly)
	{
		audit.GET("", deps.Audit.ListRecent)
		audit.GET("/:entity/:id", deps.Audit.ListForEntity)
	}

	authed.GET("/reports/dashboard", managers, deps.Report.Dashboard)

	return engine
}

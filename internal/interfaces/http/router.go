package http

import (
	"github.com/gofiber/fiber/v2"
	appaccess "github.com/jhoicas/Bodegas-api/internal/application/access"
	"github.com/jhoicas/Bodegas-api/internal/application/auth"
	"github.com/jhoicas/Bodegas-api/internal/application/report"
	"github.com/jhoicas/Bodegas-api/internal/application/stock"
	"github.com/jhoicas/Bodegas-api/internal/application/transfer"
	"github.com/jhoicas/Bodegas-api/internal/application/usecase"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	GroupUC     *usecase.GroupUseCase
	ProductUC   *usecase.ProductUseCase
	VehicleUC   *usecase.VehicleUseCase
	Resolver    *appaccess.Resolver
	Ledger      *stock.Ledger
	TransferUC  *transfer.UseCase
	KardexUC    *report.KardexUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público el alta inicial; el resto no expone datos sensibles)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido). La ruta fija "accessible" va antes que ":id".
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Resolver)
	warehouses.Get("/accessible", warehouseHandler.ListAccessible)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Delete)
	warehouses.Get("/:id/access", warehouseHandler.GetAccess)

	// Stock por bodega y kardex (protegido; autorización fina por máscara)
	stockHandler := NewStockHandler(deps.Ledger, deps.Resolver)
	warehouses.Get("/:id/stock", stockHandler.ListStock)
	warehouses.Get("/:id/stock-log", stockHandler.ListLog)

	stockGroup := protected.Group("/stock")
	stockGroup.Post("/in", stockHandler.StockIn)
	stockGroup.Get("/quantity", stockHandler.GetQuantity)

	// Groups (protegido, solo admins: definen quién ve qué bodega)
	groups := protected.Group("/groups", RequireRole(entity.RoleAdmin))
	groupHandler := NewGroupHandler(deps.GroupUC)
	groups.Post("/", groupHandler.Create)
	groups.Get("/", groupHandler.List)
	groups.Get("/:id", groupHandler.GetByID)
	groups.Put("/:id", groupHandler.Update)
	groups.Delete("/:id", groupHandler.Delete)
	groups.Post("/:id/warehouses", groupHandler.AddWarehouse)
	groups.Delete("/:id/warehouses/:warehouse_id", groupHandler.RemoveWarehouse)
	groups.Post("/:id/admins", groupHandler.AddAdmin)
	groups.Delete("/:id/admins/:user_id", groupHandler.RemoveAdmin)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Vehicles (protegido)
	vehicles := protected.Group("/vehicles")
	vehicleHandler := NewVehicleHandler(deps.VehicleUC)
	vehicles.Post("/", vehicleHandler.Create)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Get("/:id", vehicleHandler.GetByID)
	vehicles.Put("/:id", vehicleHandler.Update)
	vehicles.Delete("/:id", RequireRole(entity.RoleAdmin), vehicleHandler.Delete)

	// Transfer requests (protegido; autorización fina por máscara)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.ListByWarehouse)
	transfers.Get("/mine", transferHandler.ListMine)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/approve", transferHandler.Approve)
	transfers.Post("/:id/reject", transferHandler.Reject)
	transfers.Post("/:id/confirm", transferHandler.Confirm)

	// Reports (protegido)
	reportHandler := NewReportHandler(deps.KardexUC, deps.Resolver)
	warehouses.Get("/:id/kardex.pdf", reportHandler.KardexPDF)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/procurement"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ItemUC      *usecase.ItemUseCase
	SupplierUC  *usecase.SupplierUseCase
	Ledger      *inventory.LedgerUseCase
	Receipt     *inventory.ReceiptUseCase
	Issue       *inventory.IssueUseCase
	SalesOrders *orders.SalesOrderUseCase
	Generate    *procurement.GenerateUseCase
	Workflow    *procurement.WorkflowUseCase
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

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ítems de catálogo
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)

	// Proveedores
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)

	// Libro de movimientos y barrido de stock bajo
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Generate)
	invGroup.Post("/movements", inventoryHandler.ApplyMovement)
	invGroup.Get("/items/:item_id/movements", inventoryHandler.ListMovements)
	invGroup.Get("/items/:item_id/ledger-check", inventoryHandler.CheckLedger)
	invGroup.Post("/low-stock-check", inventoryHandler.CheckLowStock)

	// Pedidos de venta
	ordersGroup := protected.Group("/sales-orders")
	orderHandler := NewOrderHandler(deps.SalesOrders, deps.Issue)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/requirements", orderHandler.Requirements)
	ordersGroup.Post("/:id/recalculate", orderHandler.Recalculate)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
	ordersGroup.Post("/:id/issue", orderHandler.Issue)

	// Requisiciones de compra y su flujo de aprobación
	requisitionHandler := NewRequisitionHandler(deps.Generate, deps.Workflow, deps.Receipt)
	reqGroup := protected.Group("/requisitions")
	reqGroup.Post("/", requisitionHandler.Generate)
	reqGroup.Get("/", requisitionHandler.List)
	reqGroup.Get("/:id", requisitionHandler.GetByID)

	// Aprobar/rechazar/convertir exigen rol approver o admin
	approver := reqGroup.Group("/", RequireRole(entity.RoleApprover, entity.RoleAdmin))
	approver.Post("/:id/approve", requisitionHandler.Approve)
	approver.Post("/:id/reject", requisitionHandler.Reject)
	approver.Post("/:id/convert", requisitionHandler.Convert)

	// Órdenes de compra
	poGroup := protected.Group("/purchase-orders")
	poGroup.Get("/", requisitionHandler.ListPurchaseOrders)
	poGroup.Post("/:id/receive", requisitionHandler.Receive)
}

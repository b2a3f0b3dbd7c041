package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	ItemUC     *usecase.ItemUseCase
	SupplierUC *usecase.SupplierUseCase
	LedgerUC   *ledger.UseCase
	StockUC    *stock.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Lectura para cualquier usuario
// autenticado; mutaciones del libro y del catálogo para admin/almacenista;
// recálculo administrativo solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	mutador := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)

	protected.Get("/auth/me", authHandler.Me)

	// Items (catálogo)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Get("/:sku", itemHandler.GetBySKU)
	items.Post("/", mutador, itemHandler.Create)
	items.Put("/:sku", mutador, itemHandler.Update)
	items.Delete("/:sku", mutador, itemHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", mutador, supplierHandler.Create)

	// Ledger (mutaciones del libro de movimientos)
	ledgerGroup := protected.Group("/ledger", mutador)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup.Post("/entries", ledgerHandler.RegisterEntry)
	ledgerGroup.Post("/exits", ledgerHandler.RegisterExit)
	ledgerGroup.Post("/movements/validate", ledgerHandler.ValidateOperation)
	ledgerGroup.Patch("/movements/:id", ledgerHandler.UpdateMovement)
	ledgerGroup.Delete("/movements/:id", ledgerHandler.DeleteMovement)

	// Stock (consultas)
	stockHandler := NewStockHandler(deps.StockUC)
	protected.Get("/stock", stockHandler.Report)
	protected.Get("/stock/availability", stockHandler.Availability)
	protected.Get("/stock/:sku/valuation", stockHandler.Valuation)
	protected.Get("/transactions", stockHandler.Transactions)

	// Admin
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))
	admin.Post("/recalculate", ledgerHandler.Recalculate)
}

package http

import (
	"github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/auth"
	"github.com/GukMaksim/construction-inventory/internal/application/inventory"
	"github.com/GukMaksim/construction-inventory/internal/application/invoicing"
	"github.com/GukMaksim/construction-inventory/internal/application/usecase"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	SupplierUC *usecase.SupplierUseCase
	SiteUC     *usecase.SiteUseCase
	SectionUC  *usecase.SectionUseCase
	InvoiceUC  *invoicing.InvoiceUseCase
	StockUC    *inventory.StockUseCase
	TransferUC *inventory.TransferUseCase
	ReportUC   *analytics.ReportUseCase
	ExportUC   *analytics.ExportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	authn := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)
	warehouseStaff := RequireRole(entity.RoleAdmin, entity.RoleStorekeeper)

	// Auth: login público; el registro lo hace un ADMIN.
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authn, adminOnly, authHandler.Register)
	authGroup.Get("/me", authn, authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	suppliers := api.Group("/suppliers", authn)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Put("/:id", adminOnly, supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	products := api.Group("/products", authn)
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	invoices := api.Group("/invoices", authn)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/", warehouseStaff, invoiceHandler.Create)
	invoices.Delete("/:id", warehouseStaff, invoiceHandler.Delete)
	invoices.Delete("/:id/items/:itemId", warehouseStaff, invoiceHandler.DeleteItem)

	siteHandler := NewSiteHandler(deps.SiteUC, deps.SectionUC)
	sites := api.Group("/sites", authn)
	sites.Get("/", siteHandler.List)
	sites.Get("/:id", siteHandler.GetByID)
	sites.Post("/", siteHandler.Create)
	sites.Put("/:id", siteHandler.Update)
	sites.Delete("/:id", siteHandler.Delete)

	sections := api.Group("/sections", authn)
	sections.Get("/site/:siteId", siteHandler.ListSections)
	sections.Get("/:id", siteHandler.GetSection)
	sections.Post("/", siteHandler.CreateSection)
	sections.Put("/:id", siteHandler.UpdateSection)
	sections.Delete("/:id", siteHandler.DeleteSection)

	stock := api.Group("/stock", authn)
	stockHandler := NewStockHandler(deps.StockUC, deps.TransferUC)
	stock.Get("/status", stockHandler.Status)
	stock.Get("/low-stock", stockHandler.LowStock)
	stock.Post("/transfer", stockHandler.Transfer)

	reports := api.Group("/reports", authn)
	reportHandler := NewReportHandler(deps.ReportUC, deps.ExportUC)
	reports.Get("/site/:siteId", reportHandler.Site)
	reports.Get("/site/:siteId/pdf", reportHandler.SitePDF)
	reports.Get("/stock-movements", reportHandler.Movements)
	reports.Get("/stock-movements/xlsx", reportHandler.MovementsXLSX)
	reports.Get("/stock-movements/xml", reportHandler.MovementsXML)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/low-stock/xlsx", reportHandler.LowStockXLSX)
	reports.Get("/summary", reportHandler.Summary)
}

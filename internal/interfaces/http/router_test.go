package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/auth"
	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/inventory"
	"github.com/GukMaksim/construction-inventory/internal/application/invoicing"
	"github.com/GukMaksim/construction-inventory/internal/application/usecase"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/infrastructure/pdf"
	"github.com/GukMaksim/construction-inventory/internal/infrastructure/xlsx"
	"github.com/GukMaksim/construction-inventory/internal/infrastructure/xmlexport"
	apphttp "github.com/GukMaksim/construction-inventory/internal/interfaces/http"
	"github.com/GukMaksim/construction-inventory/internal/testing/memstore"
	pkgjwt "github.com/GukMaksim/construction-inventory/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	app         *fiber.App
	store       *memstore.Store
	admin       string
	storekeeper string
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memstore.New()
	cache := analytics.NewCache(nil, 0)

	jwtCfg := auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}
	authUC := auth.NewAuthUseCase(store.Users(), jwtCfg)
	ledger := inventory.NewLedgerReader(store.Products(), store.Movements(), store.Sections(), store.Sites())
	reports := analytics.NewReportUseCase(ledger, store.Sites(), store.Sections(), cache)
	invoices := invoicing.NewInvoiceUseCase(store, store.Invoices(), store.Suppliers(), store.Products(),
		cache, invoicing.TotalPolicyRecompute)
	exports := analytics.NewExportUseCase(reports, pdf.NewMarotoPDFGenerator(), xlsx.NewExcelGenerator(),
		xmlexport.NewGenerator())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(false)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		UserUC:     usecase.NewUserUseCase(store.Users()),
		ProductUC:  usecase.NewProductUseCase(store.Products(), store.Movements()),
		SupplierUC: usecase.NewSupplierUseCase(store.Suppliers(), store.Invoices()),
		SiteUC:     usecase.NewSiteUseCase(store.Sites(), store.Sections()),
		SectionUC:  usecase.NewSectionUseCase(store.Sections(), store.Sites()),
		InvoiceUC:  invoices,
		StockUC:    inventory.NewStockUseCase(ledger, store.Products(), store.Movements()),
		TransferUC: inventory.NewTransferUseCase(store, store.Sites(), cache),
		ReportUC:   reports,
		ExportUC:   exports,
		JWTSecret:  testJWTSecret,
	})

	s := &server{app: app, store: store}
	s.admin = s.register(t, authUC, "admin@obra.ru", entity.RoleAdmin)
	s.storekeeper = s.register(t, authUC, "sklad@obra.ru", entity.RoleStorekeeper)
	return s
}

func (s *server) register(t *testing.T, uc *auth.AuthUseCase, email, role string) string {
	t.Helper()
	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: email, Password: "secreto1", Role: role})
	require.NoError(t, err)
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Email, u.Role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *server) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *server) seedCatalog(t *testing.T) (supplierID, productID, sectionID int64) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/suppliers", s.admin, map[string]any{"name": "ООО СтройСнаб"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	supplierID = decode[dto.SupplierResponse](t, resp).ID

	resp = s.do(t, http.MethodPost, "/api/products", s.admin, map[string]any{
		"code": "CAB-3x2.5", "name": "Кабель ВВГ 3x2.5", "unit": "METER", "price": "95", "minQuantity": "10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID = decode[dto.ProductResponse](t, resp).ID

	resp = s.do(t, http.MethodPost, "/api/sites", s.admin, map[string]any{"name": "ЖК Южный", "address": "ул. Ленина, 1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	siteID := decode[dto.SiteResponse](t, resp).ID

	resp = s.do(t, http.MethodPost, "/api/sections", s.storekeeper, map[string]any{
		"name": "Электрика", "constructionSiteId": siteID, "type": "ELECTRICAL",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sectionID = decode[dto.SectionResponse](t, resp).ID
	return supplierID, productID, sectionID
}

func invoiceBody(number string, supplierID, productID int64) map[string]any {
	return map[string]any{
		"number":     number,
		"date":       "2024-03-10",
		"supplierId": supplierID,
		"items":      []map[string]any{{"productId": productID, "quantity": "100", "price": "80.5"}},
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_PermisosPorRol(t *testing.T) {
	s := newServer(t)
	supplierID, productID, _ := s.seedCatalog(t)

	resp := s.do(t, http.MethodPost, "/api/products", s.storekeeper, map[string]any{"code": "X-1", "name": "X", "unit": "PIECE"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo ADMIN modifica el catálogo")

	resp = s.do(t, http.MethodPost, "/api/auth/register", s.storekeeper, map[string]any{"email": "n@obra.ru", "password": "secreto1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo ADMIN registra usuarios")

	resp = s.do(t, http.MethodPost, "/api/invoices", s.storekeeper, invoiceBody("INV-1", supplierID, productID))
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "almacenero registra facturas")

	resp = s.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_FacturaDuplicadaYBorrado(t *testing.T) {
	s := newServer(t)
	supplierID, productID, _ := s.seedCatalog(t)

	resp := s.do(t, http.MethodPost, "/api/invoices", s.storekeeper, invoiceBody("INV-7", supplierID, productID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "8050", inv.Total.String())

	resp = s.do(t, http.MethodPost, "/api/invoices", s.admin, invoiceBody("INV-7", supplierID, productID))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DUPLICATE", body.Code)
	assert.Equal(t, 1, s.store.InvoiceCount())
	assert.Equal(t, 1, s.store.MovementCount())

	resp = s.do(t, http.MethodDelete, fmt.Sprintf("/api/invoices/%d", inv.ID), s.storekeeper, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deleted := decode[dto.DeleteInvoiceResponse](t, resp)
	assert.Equal(t, int64(1), deleted.DeletedMovements)
	assert.Equal(t, 0, s.store.MovementCount())

	resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/invoices/%d", inv.ID), s.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ValidacionDeEntrada(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodPost, "/api/invoices", s.admin, map[string]any{"number": "INV-1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodGet, "/api/products/abc", s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decode[dto.ErrorResponse](t, resp).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/stock/transfer", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.admin)
	raw, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
}

func TestRouter_TraspasoYStockInsuficiente(t *testing.T) {
	s := newServer(t)
	supplierID, productID, sectionID := s.seedCatalog(t)
	resp := s.do(t, http.MethodPost, "/api/invoices", s.admin, invoiceBody("INV-1", supplierID, productID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	transfer := func(typ, qty string) *http.Response {
		return s.do(t, http.MethodPost, "/api/stock/transfer", s.storekeeper, map[string]any{
			"productId": productID, "sectionId": sectionID, "quantity": qty, "type": typ,
		})
	}
	resp = transfer("IN", "30")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mov := decode[dto.MovementResponse](t, resp)
	require.NotNil(t, mov.SectionID)
	assert.Equal(t, sectionID, *mov.SectionID)

	resp = transfer("OUT", "31")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodGet, "/api/stock/status", s.storekeeper, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[[]dto.StockStatusResponse](t, resp)
	require.Len(t, status, 1)
	// la entrada a la sección es un movimiento propio: suma al total del producto
	assert.Equal(t, "130", status[0].TotalQuantity.String())

	resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), s.storekeeper, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[dto.ProductDetailResponse](t, resp)
	assert.Equal(t, "130", detail.CurrentStock.String())
	assert.Len(t, detail.RecentMovements, 2)
}

func TestRouter_BorradoConReferencias(t *testing.T) {
	s := newServer(t)
	supplierID, productID, _ := s.seedCatalog(t)
	resp := s.do(t, http.MethodPost, "/api/invoices", s.admin, invoiceBody("INV-1", supplierID, productID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", productID), s.admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, fmt.Sprintf("/api/suppliers/%d", supplierID), s.admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_InformesYExportaciones(t *testing.T) {
	s := newServer(t)
	supplierID, productID, sectionID := s.seedCatalog(t)
	resp := s.do(t, http.MethodPost, "/api/invoices", s.admin, invoiceBody("INV-1", supplierID, productID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = s.do(t, http.MethodPost, "/api/stock/transfer", s.admin, map[string]any{
		"productId": productID, "sectionId": sectionID, "quantity": "4", "type": "IN",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	section := decode[dto.SectionResponse](t, s.do(t, http.MethodGet, fmt.Sprintf("/api/sections/%d", sectionID), s.admin, nil))
	resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/reports/site/%d", section.ConstructionSiteID), s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[dto.SiteReportResponse](t, resp)
	assert.Equal(t, "380", report.TotalValue.String())

	resp = s.do(t, http.MethodGet, "/api/reports/stock-movements?startDate=2024-03-20&endDate=2024-03-01", s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exports := []struct{ path, contentType string }{
		{fmt.Sprintf("/api/reports/site/%d/pdf", section.ConstructionSiteID), "application/pdf"},
		{"/api/reports/low-stock/xlsx", xlsxType},
		{"/api/reports/stock-movements/xlsx", xlsxType},
		{"/api/reports/stock-movements/xml", "application/xml; charset=utf-8"},
	}
	for _, e := range exports {
		resp := s.do(t, http.MethodGet, e.path, s.admin, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, e.path)
		assert.Equal(t, e.contentType, resp.Header.Get("Content-Type"), e.path)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment; filename=", e.path)
		resp.Body.Close()
	}
}

func TestRouter_LoginYMe(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "admin@obra.ru", "password": "malo-malo"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "nadie@obra.ru", "password": "secreto1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "usuario inexistente no se distingue")

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "admin@obra.ru", "password": "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = s.do(t, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "admin@obra.ru", me.Email)
	assert.Equal(t, entity.RoleAdmin, me.Role)
}

func TestErrorHandler_DetallesSoloFueraDeProduccion(t *testing.T) {
	build := func(production bool) *fiber.App {
		app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(production)})
		app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pool agotado") })
		app.Get("/missing", func(c *fiber.Ctx) error { return fmt.Errorf("producto 9: %w", domain.ErrNotFound) })
		return app
	}
	get := func(app *fiber.App, path string) (int, dto.ErrorResponse) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		return resp.StatusCode, decode[dto.ErrorResponse](t, resp)
	}

	status, body := get(build(false), "/boom")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "pool agotado", body.Details)

	_, body = get(build(true), "/boom")
	assert.Empty(t, body.Details)

	status, body = get(build(true), "/missing")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

package dto

import (
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/inventory"
)

// FromProduct convierte la entidad a su respuesta.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Barcode:     p.Barcode,
		Unit:        p.Unit,
		Price:       p.Price,
		MinQuantity: p.MinQuantity,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromLocations convierte los saldos por ubicación.
func FromLocations(locs []inventory.LocationStock) []LocationStockResponse {
	out := make([]LocationStockResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, LocationStockResponse{Key: l.Key, SectionID: l.SectionID, Name: l.Name, Quantity: l.Quantity})
	}
	return out
}

// FromMovement convierte un movimiento; product y la sección resuelta en sections son opcionales.
func FromMovement(m *entity.StockMovement, product *entity.Product, sections inventory.SectionIndex) MovementResponse {
	resp := MovementResponse{
		ID:            m.ID,
		Date:          m.Date,
		Type:          m.Type,
		ProductID:     m.ProductID,
		SectionID:     m.SectionID,
		Quantity:      m.Quantity,
		Price:         m.Price,
		Comment:       m.Comment,
		DocumentID:    m.DocumentID,
		DocumentType:  m.DocumentType,
		InvoiceItemID: m.InvoiceItemID,
		CreatedBy:     m.CreatedBy,
	}
	if product != nil {
		resp.ProductCode = product.Code
		resp.ProductName = product.Name
	}
	if m.SectionID != nil && sections != nil {
		ref := sections.Lookup(*m.SectionID)
		resp.SectionName = ref.Name
		resp.SiteName = ref.SiteName
	}
	return resp
}

// FromSupplier convierte la entidad a su respuesta.
func FromSupplier(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// FromInvoice convierte la cabecera; supplierName puede ir vacío.
func FromInvoice(inv *entity.Invoice, supplierName string) InvoiceResponse {
	return InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		Date:         inv.Date,
		SupplierID:   inv.SupplierID,
		SupplierName: supplierName,
		Total:        inv.Total,
		CreatedAt:    inv.CreatedAt,
	}
}

// FromInvoiceItem convierte una línea; product puede ser nil.
func FromInvoiceItem(it *entity.InvoiceItem, product *entity.Product) InvoiceItemResponse {
	resp := InvoiceItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		Price:     it.Price,
		Total:     it.Total,
	}
	if product != nil {
		resp.ProductCode = product.Code
		resp.ProductName = product.Name
		resp.Unit = product.Unit
	}
	return resp
}

// FromSection convierte la entidad; siteName puede ir vacío.
func FromSection(s *entity.Section, siteName string) SectionResponse {
	return SectionResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Type:               s.Type,
		ConstructionSiteID: s.ConstructionSiteID,
		SiteName:           siteName,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// FromSite convierte la entidad con sus secciones.
func FromSite(s *entity.ConstructionSite, sections []*entity.Section) SiteResponse {
	resp := SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Status:    s.Status,
		Sections:  make([]SectionResponse, 0, len(sections)),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for _, sec := range sections {
		resp.Sections = append(resp.Sections, FromSection(sec, s.Name))
	}
	return resp
}

// FromUser convierte la entidad (sin password).
func FromUser(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

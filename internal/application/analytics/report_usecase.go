// Package analytics contiene los casos de uso de informes (valoración por objeto, movimientos por periodo,
// stock bajo, resumen) y sus exportaciones.
package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	appinventory "github.com/GukMaksim/construction-inventory/internal/application/inventory"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	invdomain "github.com/GukMaksim/construction-inventory/internal/domain/inventory"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
)

// ReportUseCase arma los informes a partir del libro. Las funciones de cálculo son puras;
// aquí solo se leen los datos (en paralelo) y se cachea el resultado por versión.
type ReportUseCase struct {
	ledger      *appinventory.LedgerReader
	siteRepo    repository.SiteRepository
	sectionRepo repository.SectionRepository
	cache       *Cache
}

// NewReportUseCase construye el caso de uso. cache puede ser nil.
func NewReportUseCase(
	ledger *appinventory.LedgerReader,
	siteRepo repository.SiteRepository,
	sectionRepo repository.SectionRepository,
	cache *Cache,
) *ReportUseCase {
	return &ReportUseCase{ledger: ledger, siteRepo: siteRepo, sectionRepo: sectionRepo, cache: cache}
}

// SiteReport valoración del objeto por secciones al precio de lista actual.
func (uc *ReportUseCase) SiteReport(ctx context.Context, siteID int64) (*dto.SiteReportResponse, error) {
	site, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, fmt.Errorf("objeto %d: %w", siteID, domain.ErrNotFound)
	}
	key, err := uc.cache.BuildKey(ctx, "reports", "site", strconv.FormatInt(siteID, 10))
	if err != nil {
		return nil, err
	}
	var out dto.SiteReportResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return uc.buildSiteReport(ctx, site)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *ReportUseCase) buildSiteReport(ctx context.Context, site *entity.ConstructionSite) (*dto.SiteReportResponse, error) {
	sections, err := uc.sectionRepo.ListBySite(ctx, site.ID)
	if err != nil {
		return nil, err
	}
	var movements []*entity.StockMovement
	products := map[int64]*entity.Product{}
	if len(sections) > 0 {
		ids := make([]int64, 0, len(sections))
		for _, s := range sections {
			ids = append(ids, s.ID)
		}
		l, err := uc.ledger.Load(ctx, repository.MovementFilter{SectionIDs: ids})
		if err != nil {
			return nil, err
		}
		movements = l.Movements
		products = l.ProductMap()
	}
	return toSiteReportResponse(invdomain.BuildSiteReport(site, sections, movements, products)), nil
}

// MovementsReport movimientos del periodo agrupados por producto. Fechas vacías = sin límite;
// una endDate sin hora cubre el día completo.
func (uc *ReportUseCase) MovementsReport(ctx context.Context, q dto.MovementsReportQuery) (*dto.MovementsReportResponse, error) {
	period, err := parsePeriod(q)
	if err != nil {
		return nil, err
	}
	key, err := uc.cache.BuildKey(ctx, "reports", "movements", formatBound(period.From), formatBound(period.To))
	if err != nil {
		return nil, err
	}
	var out dto.MovementsReportResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		l, err := uc.ledger.Load(ctx, repository.MovementFilter{From: period.From, To: period.To})
		if err != nil {
			return nil, err
		}
		groups := invdomain.BuildMovementsReport(l.Movements, l.ProductMap(), l.Index(), period)
		return toMovementsReportResponse(period, groups), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LowStock productos con saldo total <= mínimo.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	key, err := uc.cache.BuildKey(ctx, "reports", "low-stock")
	if err != nil {
		return nil, err
	}
	out := []dto.LowStockItemResponse{}
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		l, err := uc.ledger.Load(ctx, repository.MovementFilter{})
		if err != nil {
			return nil, err
		}
		return appinventory.LowStockResponse(invdomain.BuildLowStockReport(l.Products, l.Movements)), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Summary indicadores generales: objetos activos y su valoración.
func (uc *ReportUseCase) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	key, err := uc.cache.BuildKey(ctx, "reports", "summary")
	if err != nil {
		return nil, err
	}
	var out dto.SummaryResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		l, err := uc.ledger.Load(ctx, repository.MovementFilter{})
		if err != nil {
			return nil, err
		}
		s := invdomain.BuildSummary(l.Sites, l.Sections, l.Movements, l.ProductMap())
		return &dto.SummaryResponse{
			TotalSites:      s.TotalSites,
			ActiveSections:  s.ActiveSections,
			SitesValue:      s.SitesValue,
			TotalStockValue: s.TotalStockValue,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func parsePeriod(q dto.MovementsReportQuery) (invdomain.Period, error) {
	var p invdomain.Period
	if q.StartDate != "" {
		from, _, err := dto.ParseDate(q.StartDate)
		if err != nil {
			return p, fmt.Errorf("%w: startDate inválida %q", domain.ErrInvalidInput, q.StartDate)
		}
		p.From = &from
	}
	if q.EndDate != "" {
		to, dateOnly, err := dto.ParseDate(q.EndDate)
		if err != nil {
			return p, fmt.Errorf("%w: endDate inválida %q", domain.ErrInvalidInput, q.EndDate)
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		p.To = &to
	}
	if p.From != nil && p.To != nil && p.From.After(*p.To) {
		return p, fmt.Errorf("%w: startDate posterior a endDate", domain.ErrInvalidInput)
	}
	return p, nil
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return strconv.FormatInt(t.UnixNano(), 10)
}

func toSiteReportResponse(r invdomain.SiteReport) *dto.SiteReportResponse {
	resp := &dto.SiteReportResponse{
		SiteID:      r.Site.ID,
		SiteName:    r.Site.Name,
		SiteAddress: r.Site.Address,
		Status:      r.Site.Status,
		TotalValue:  r.TotalValue,
		Sections:    make([]dto.SectionReportResponse, 0, len(r.Sections)),
	}
	for _, s := range r.Sections {
		sec := dto.SectionReportResponse{
			ID:         s.ID,
			Name:       s.Name,
			Type:       s.Type,
			TotalValue: s.TotalValue,
			Products:   make([]dto.SectionProductResponse, 0, len(s.Products)),
		}
		for _, p := range s.Products {
			sec.Products = append(sec.Products, dto.SectionProductResponse{
				ProductID:  p.Product.ID,
				Code:       p.Product.Code,
				Name:       p.Product.Name,
				Unit:       p.Product.Unit,
				Price:      p.Product.Price,
				Quantity:   p.Quantity,
				TotalValue: p.TotalValue,
			})
		}
		resp.Sections = append(resp.Sections, sec)
	}
	return resp
}

func toMovementsReportResponse(period invdomain.Period, groups []invdomain.ProductMovements) *dto.MovementsReportResponse {
	resp := &dto.MovementsReportResponse{
		StartDate: period.From,
		EndDate:   period.To,
		Products:  make([]dto.ProductMovementsResponse, 0, len(groups)),
	}
	for _, g := range groups {
		pm := dto.ProductMovementsResponse{
			ProductID: g.Product.ID,
			Code:      g.Product.Code,
			Name:      g.Product.Name,
			Unit:      g.Product.Unit,
			TotalIn:   g.TotalIn,
			TotalOut:  g.TotalOut,
			Movements: make([]dto.ReportMovementResponse, 0, len(g.Movements)),
		}
		for _, m := range g.Movements {
			line := dto.ReportMovementResponse{
				ID:           m.ID,
				Date:         m.Date,
				Type:         m.Type,
				Quantity:     m.Quantity,
				DocumentType: m.DocumentType,
				Comment:      m.Comment,
			}
			if m.Section != nil {
				line.Section = &dto.ReportSectionResponse{
					ID:       m.Section.ID,
					Name:     m.Section.Name,
					SiteID:   m.Section.SiteID,
					SiteName: m.Section.SiteName,
				}
			}
			pm.Movements = append(pm.Movements, line)
		}
		resp.Products = append(resp.Products, pm)
	}
	return resp
}

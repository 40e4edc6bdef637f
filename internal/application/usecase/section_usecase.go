package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/ports"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
)

// SectionUseCase casos de uso CRUD para secciones de un objeto.
type SectionUseCase struct {
	repo     repository.SectionRepository
	siteRepo repository.SiteRepository
	cache    ports.CacheInvalidator
}

// NewSectionUseCase construye el caso de uso.
func NewSectionUseCase(repo repository.SectionRepository, siteRepo repository.SiteRepository) *SectionUseCase {
	return &SectionUseCase{repo: repo, siteRepo: siteRepo}
}

// WithCache invalida los informes cacheados tras cada cambio de sección.
func (uc *SectionUseCase) WithCache(cache ports.CacheInvalidator) *SectionUseCase {
	uc.cache = cache
	return uc
}

// Create crea una sección dentro de un objeto existente. Tipo por defecto GENERAL.
func (uc *SectionUseCase) Create(ctx context.Context, in dto.CreateSectionRequest) (*dto.SectionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.ConstructionSiteID <= 0 {
		return nil, fmt.Errorf("%w: nombre y objeto son obligatorios", domain.ErrInvalidInput)
	}
	typ := in.Type
	if typ == "" {
		typ = entity.SectionTypeGeneral
	}
	if !entity.IsValidSectionType(typ) {
		return nil, fmt.Errorf("%w: tipo %q inválido", domain.ErrInvalidInput, typ)
	}
	site, err := uc.siteRepo.GetByID(ctx, in.ConstructionSiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, fmt.Errorf("objeto %d: %w", in.ConstructionSiteID, domain.ErrNotFound)
	}
	now := time.Now()
	section := &entity.Section{
		Name:               name,
		Type:               typ,
		ConstructionSiteID: site.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(ctx, section); err != nil {
		return nil, err
	}
	invalidateReports(ctx, uc.cache)
	resp := dto.FromSection(section, site.Name)
	return &resp, nil
}

// GetByID obtiene una sección con el nombre de su objeto.
func (uc *SectionUseCase) GetByID(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	section, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	siteName, err := uc.siteName(ctx, section.ConstructionSiteID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromSection(section, siteName)
	return &resp, nil
}

// Update cambia nombre y tipo.
func (uc *SectionUseCase) Update(ctx context.Context, id int64, in dto.UpdateSectionRequest) (*dto.SectionResponse, error) {
	section, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		section.Name = name
	}
	if in.Type != nil {
		if !entity.IsValidSectionType(*in.Type) {
			return nil, fmt.Errorf("%w: tipo %q inválido", domain.ErrInvalidInput, *in.Type)
		}
		section.Type = *in.Type
	}
	section.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, section); err != nil {
		return nil, err
	}
	invalidateReports(ctx, uc.cache)
	siteName, err := uc.siteName(ctx, section.ConstructionSiteID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromSection(section, siteName)
	return &resp, nil
}

// ListBySite secciones de un objeto existente.
func (uc *SectionUseCase) ListBySite(ctx context.Context, siteID int64) ([]dto.SectionResponse, error) {
	site, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, fmt.Errorf("objeto %d: %w", siteID, domain.ErrNotFound)
	}
	list, err := uc.repo.ListBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SectionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSection(s, site.Name))
	}
	return out, nil
}

// Delete elimina una sección sin movimientos.
func (uc *SectionUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateReports(ctx, uc.cache)
	return nil
}

func (uc *SectionUseCase) get(ctx context.Context, id int64) (*entity.Section, error) {
	section, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, fmt.Errorf("sección %d: %w", id, domain.ErrNotFound)
	}
	return section, nil
}

func (uc *SectionUseCase) siteName(ctx context.Context, siteID int64) (string, error) {
	site, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return "", err
	}
	if site == nil {
		return "", nil
	}
	return site.Name, nil
}

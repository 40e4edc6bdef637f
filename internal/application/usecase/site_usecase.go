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

// SiteUseCase casos de uso CRUD para objetos de obra.
type SiteUseCase struct {
	repo        repository.SiteRepository
	sectionRepo repository.SectionRepository
	cache       ports.CacheInvalidator
}

// NewSiteUseCase construye el caso de uso.
func NewSiteUseCase(repo repository.SiteRepository, sectionRepo repository.SectionRepository) *SiteUseCase {
	return &SiteUseCase{repo: repo, sectionRepo: sectionRepo}
}

// WithCache invalida los informes cacheados tras cada cambio (el resumen depende del estado).
func (uc *SiteUseCase) WithCache(cache ports.CacheInvalidator) *SiteUseCase {
	uc.cache = cache
	return uc
}

// Create crea un objeto. Estado por defecto ACTIVE.
func (uc *SiteUseCase) Create(ctx context.Context, in dto.CreateSiteRequest) (*dto.SiteResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.SiteStatusActive
	}
	if !entity.IsValidSiteStatus(status) {
		return nil, fmt.Errorf("%w: estado %q inválido", domain.ErrInvalidInput, status)
	}
	now := time.Now()
	site := &entity.ConstructionSite{
		Name:      name,
		Address:   in.Address,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, site); err != nil {
		return nil, err
	}
	invalidateReports(ctx, uc.cache)
	resp := dto.FromSite(site, nil)
	return &resp, nil
}

// GetByID obtiene un objeto con sus secciones.
func (uc *SiteUseCase) GetByID(ctx context.Context, id int64) (*dto.SiteResponse, error) {
	site, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	sections, err := uc.sectionRepo.ListBySite(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromSite(site, sections)
	return &resp, nil
}

// Update cambia nombre, dirección y estado.
func (uc *SiteUseCase) Update(ctx context.Context, id int64, in dto.UpdateSiteRequest) (*dto.SiteResponse, error) {
	site, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		site.Name = name
	}
	if in.Address != nil {
		site.Address = *in.Address
	}
	if in.Status != nil {
		if !entity.IsValidSiteStatus(*in.Status) {
			return nil, fmt.Errorf("%w: estado %q inválido", domain.ErrInvalidInput, *in.Status)
		}
		site.Status = *in.Status
	}
	site.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, site); err != nil {
		return nil, err
	}
	invalidateReports(ctx, uc.cache)
	return uc.GetByID(ctx, id)
}

// List lista objetos con sus secciones. status vacío = todos.
func (uc *SiteUseCase) List(ctx context.Context, status string) ([]dto.SiteResponse, error) {
	if status != "" && !entity.IsValidSiteStatus(status) {
		return nil, fmt.Errorf("%w: estado %q inválido", domain.ErrInvalidInput, status)
	}
	sites, err := uc.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	sections, err := uc.sectionRepo.ListBySite(ctx, 0)
	if err != nil {
		return nil, err
	}
	bySite := make(map[int64][]*entity.Section)
	for _, s := range sections {
		bySite[s.ConstructionSiteID] = append(bySite[s.ConstructionSiteID], s)
	}
	out := make([]dto.SiteResponse, 0, len(sites))
	for _, site := range sites {
		out = append(out, dto.FromSite(site, bySite[site.ID]))
	}
	return out, nil
}

// Delete elimina un objeto sin secciones.
func (uc *SiteUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateReports(ctx, uc.cache)
	return nil
}

func (uc *SiteUseCase) get(ctx context.Context, id int64) (*entity.ConstructionSite, error) {
	site, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, fmt.Errorf("objeto %d: %w", id, domain.ErrNotFound)
	}
	return site, nil
}

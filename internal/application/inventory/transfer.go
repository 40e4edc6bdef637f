package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/application/ports"
	"github.com/GukMaksim/construction-inventory/internal/domain"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	invdomain "github.com/GukMaksim/construction-inventory/internal/domain/inventory"
	"github.com/GukMaksim/construction-inventory/internal/domain/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransferUseCase registra movimientos manuales contra una sección (IN entrega, OUT consumo)
// con bloqueo de fila de la sección (SELECT FOR UPDATE) y Commit/Rollback.
type TransferUseCase struct {
	txRunner TxRunner
	siteRepo repository.SiteRepository
	cache    ports.CacheInvalidator
	now      func() time.Time
}

// NewTransferUseCase construye el caso de uso. cache puede ser nil.
func NewTransferUseCase(txRunner TxRunner, siteRepo repository.SiteRepository, cache ports.CacheInvalidator) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner, siteRepo: siteRepo, cache: cache, now: time.Now}
}

// WithClock reemplaza el reloj del servidor (tests).
func (uc *TransferUseCase) WithClock(now func() time.Time) *TransferUseCase {
	uc.now = now
	return uc
}

// Transfer valida y agrega un movimiento TRANSFER. Para OUT verifica que la sección tenga saldo suficiente;
// el almacén nunca se verifica.
func (uc *TransferUseCase) Transfer(ctx context.Context, userID int64, in dto.TransferRequest) (*dto.MovementResponse, error) {
	if in.ProductID <= 0 || in.SectionID <= 0 {
		return nil, fmt.Errorf("%w: producto y sección son obligatorios", domain.ErrInvalidInput)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if !entity.FitsScale(in.Quantity, entity.QuantityScale) {
		return nil, fmt.Errorf("%w: la cantidad admite como máximo %d decimales", domain.ErrInvalidInput, entity.QuantityScale)
	}
	if in.Type != entity.MovementTypeIN && in.Type != entity.MovementTypeOUT {
		return nil, fmt.Errorf("%w: tipo %q inválido", domain.ErrInvalidInput, in.Type)
	}

	var (
		mov      *entity.StockMovement
		product  *entity.Product
		section  *entity.Section
		siteName string
	)
	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		sectionRepo repository.SectionRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		if product, err = productRepo.GetByID(ctx, in.ProductID); err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %d: %w", in.ProductID, domain.ErrNotFound)
		}
		// Bloquea la fila de la sección hasta el fin de la tx: serializa traslados concurrentes
		if section, err = sectionRepo.GetForUpdate(ctx, in.SectionID); err != nil {
			return err
		}
		if section == nil {
			return fmt.Errorf("sección %d: %w", in.SectionID, domain.ErrNotFound)
		}
		site, err := uc.siteRepo.GetByID(ctx, section.ConstructionSiteID)
		if err != nil {
			return fmt.Errorf("objeto de la sección %d: %w", section.ID, err)
		}
		if site != nil {
			siteName = site.Name
		}
		if in.Type == entity.MovementTypeOUT {
			available, err := movRepo.SectionBalance(ctx, section.ID, product.ID)
			if err != nil {
				return err
			}
			if in.Quantity.GreaterThan(available) {
				return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, available.String(), in.Quantity.String())
			}
		}

		now := uc.now()
		sectionID := section.ID
		mov = &entity.StockMovement{
			Date:         now,
			Type:         in.Type,
			ProductID:    product.ID,
			SectionID:    &sectionID,
			Quantity:     in.Quantity,
			Price:        product.Price,
			Comment:      in.Comment,
			DocumentType: entity.DocumentTypeTransfer,
			CreatedBy:    userID,
			CreatedAt:    now,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("no se pudo invalidar la caché de informes")
		}
	}

	ref := invdomain.SectionRef{
		ID:       section.ID,
		Name:     section.Name,
		Type:     section.Type,
		SiteID:   section.ConstructionSiteID,
		SiteName: siteName,
	}
	resp := dto.FromMovement(mov, product, invdomain.SectionIndex{section.ID: ref})
	return &resp, nil
}

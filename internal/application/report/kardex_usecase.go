// Package report genera reportes del kardex (movimientos de inventario).
package report

import (
	"context"
	"time"

	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// KardexPDFGenerator es el puerto del generador de PDF; la implementación
// (Maroto) vive en infrastructure/pdf.
type KardexPDFGenerator interface {
	GenerateKardexPDF(
		ctx context.Context,
		warehouse *entity.Warehouse,
		entries []*entity.StockLogEntry,
		products map[string]*entity.Product,
	) ([]byte, error)
}

// KardexUseCase arma el reporte PDF del kardex de una bodega.
type KardexUseCase struct {
	warehouseRepo repository.WarehouseRepository
	logRepo       repository.StockLogRepository
	productRepo   repository.ProductRepository
	generator     KardexPDFGenerator
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(
	warehouseRepo repository.WarehouseRepository,
	logRepo repository.StockLogRepository,
	productRepo repository.ProductRepository,
	generator KardexPDFGenerator,
) *KardexUseCase {
	return &KardexUseCase{
		warehouseRepo: warehouseRepo,
		logRepo:       logRepo,
		productRepo:   productRepo,
		generator:     generator,
	}
}

// kardexMaxEntries tope de registros por reporte; más allá el PDF deja de ser útil.
const kardexMaxEntries = 500

// GeneratePDF genera el PDF del kardex de una bodega en un rango de fechas.
func (uc *KardexUseCase) GeneratePDF(ctx context.Context, warehouseID string, from, to *time.Time) ([]byte, error) {
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.logRepo.ListByWarehouse(warehouseID, from, to, kardexMaxEntries, 0)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product)
	for _, e := range entries {
		if _, ok := products[e.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(e.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products[e.ProductID] = p
		}
	}
	return uc.generator.GenerateKardexPDF(ctx, warehouse, entries, products)
}

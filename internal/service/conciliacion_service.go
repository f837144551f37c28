package service

import (
	"context"

	"github.com/Josmarcito/sistema-durtron/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const conciliacionLote = 200

// ConciliacionService re-derives the cached settlement of sales whose
// total_abonado or estado no longer matches their anticipos.
type ConciliacionService struct {
	repo repository.VentaRepository
}

func NewConciliacionService(repo repository.VentaRepository) *ConciliacionService {
	return &ConciliacionService{repo: repo}
}

// Conciliar fixes up to one batch of drifted sales and returns how many
// were corrected. Each correction runs in its own transaction.
func (s *ConciliacionService) Conciliar(ctx context.Context) (int, error) {
	ids, err := s.repo.ListDescuadradas(ctx, conciliacionLote)
	if err != nil {
		return 0, err
	}

	corregidas := 0
	for _, id := range ids {
		if err := s.conciliarVenta(ctx, id); err != nil {
			log.Error().Err(err).Str("venta_id", id.String()).Msg("conciliacion: no se pudo corregir la venta")
			continue
		}
		corregidas++
	}
	return corregidas, nil
}

func (s *ConciliacionService) conciliarVenta(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			return err
		}
		total, estado, err := recalcularLiquidacion(tx, s.repo, venta.ID, venta.PrecioVenta)
		if err != nil {
			return err
		}
		log.Warn().
			Str("venta_id", venta.ID.String()).
			Str("total_antes", venta.TotalAbonado.StringFixed(2)).
			Str("total_despues", total.StringFixed(2)).
			Str("estado_antes", venta.Estado).
			Str("estado_despues", estado).
			Msg("conciliacion: venta corregida")
		return nil
	})
}

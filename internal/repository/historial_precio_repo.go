package repository

import (
	"context"

	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistorialPrecioRepository interface {
	ListByEquipo(ctx context.Context, equipoID uuid.UUID, page, limit int) ([]model.HistorialPrecio, int64, error)
}

type historialPrecioRepository struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepository{db: db}
}

// ListByEquipo returns paginated price-change records for one equipo,
// newest first.
func (r *historialPrecioRepository) ListByEquipo(
	ctx context.Context,
	equipoID uuid.UUID,
	page, limit int,
) ([]model.HistorialPrecio, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.HistorialPrecio{}).
		Where("equipo_id = ?", equipoID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(page, limit, 50, 200)
	var rows []model.HistorialPrecio
	if err := r.db.WithContext(ctx).
		Where("equipo_id = ?", equipoID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

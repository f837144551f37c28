package repository

import (
	"context"
	"strings"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CotizacionRepository interface {
	// Create inserts the header and its items in one transaction.
	Create(ctx context.Context, c *model.Cotizacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error)
	List(ctx context.Context, filter dto.CotizacionFilter) ([]model.Cotizacion, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type cotizacionRepo struct{ db *gorm.DB }

func NewCotizacionRepository(db *gorm.DB) CotizacionRepository { return &cotizacionRepo{db: db} }

func (r *cotizacionRepo) Create(ctx context.Context, c *model.Cotizacion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cotizacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	var c model.Cotizacion
	err := r.db.WithContext(ctx).Preload("Items").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cotizacionRepo) List(ctx context.Context, filter dto.CotizacionFilter) ([]model.Cotizacion, int64, error) {
	var list []model.Cotizacion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cotizacion{})
	if filter.Buscar != "" {
		like := "%" + strings.ToLower(filter.Buscar) + "%"
		q = q.Where("LOWER(folio) LIKE ? OR LOWER(cliente_nombre) LIKE ?", like, like)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit, 50, 200)
	err := q.Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *cotizacionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cotizacion_id = ?", id).Delete(&model.CotizacionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cotizacion{}, "id = ?", id).Error
	})
}

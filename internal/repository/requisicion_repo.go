package repository

import (
	"context"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequisicionRepository interface {
	Create(ctx context.Context, r *model.Requisicion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Requisicion, error)
	List(ctx context.Context, filter dto.RequisicionFilter) ([]model.Requisicion, int64, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type requisicionRepo struct{ db *gorm.DB }

func NewRequisicionRepository(db *gorm.DB) RequisicionRepository { return &requisicionRepo{db: db} }

func (r *requisicionRepo) Create(ctx context.Context, req *model.Requisicion) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requisicionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Requisicion, error) {
	var req model.Requisicion
	err := r.db.WithContext(ctx).Preload("Items.Proveedor").First(&req, "id = ?", id).Error
	return &req, err
}

func (r *requisicionRepo) List(ctx context.Context, filter dto.RequisicionFilter) ([]model.Requisicion, int64, error) {
	var list []model.Requisicion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Requisicion{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ProveedorID != "" {
		q = q.Where("id IN (?)", r.db.Model(&model.RequisicionItem{}).
			Select("requisicion_id").Where("proveedor_id = ?", filter.ProveedorID))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit, 50, 200)
	err := q.Preload("Items.Proveedor").Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *requisicionRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Requisicion{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *requisicionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("requisicion_id = ?", id).Delete(&model.RequisicionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Requisicion{}, "id = ?", id).Error
	})
}

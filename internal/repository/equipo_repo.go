package repository

import (
	"context"
	"strings"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EquipoRepository defines the data access contract for the catalog.
type EquipoRepository interface {
	Create(ctx context.Context, e *model.Equipo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Equipo, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Equipo, error)
	List(ctx context.Context, filter dto.EquipoFilter) ([]model.Equipo, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	// UpsertByCodigo inserts or refreshes a catalog entry keyed by codigo.
	UpsertByCodigo(ctx context.Context, e *model.Equipo) error

	// Used inside transactions
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Equipo, error)
	UpdateTx(tx *gorm.DB, e *model.Equipo) error
	CreateHistorialTx(tx *gorm.DB, h *model.HistorialPrecio) error

	DB() *gorm.DB
}

type equipoRepo struct{ db *gorm.DB }

func NewEquipoRepository(db *gorm.DB) EquipoRepository { return &equipoRepo{db: db} }

func (r *equipoRepo) DB() *gorm.DB { return r.db }

func (r *equipoRepo) Create(ctx context.Context, e *model.Equipo) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *equipoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Equipo, error) {
	var e model.Equipo
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *equipoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Equipo, error) {
	var e model.Equipo
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&e).Error
	return &e, err
}

func (r *equipoRepo) List(ctx context.Context, filter dto.EquipoFilter) ([]model.Equipo, int64, error) {
	var equipos []model.Equipo
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Equipo{})
	if filter.Buscar != "" {
		like := "%" + strings.ToLower(filter.Buscar) + "%"
		q = q.Where("LOWER(nombre) LIKE ? OR LOWER(codigo) LIKE ?", like, like)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit, 50, 200)
	err := q.Order("categoria ASC, nombre ASC").Limit(limit).Offset(offset).Find(&equipos).Error
	return equipos, total, err
}

func (r *equipoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Equipo{}, "id = ?", id).Error
}

func (r *equipoRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Equipo{}).Count(&n).Error
	return n, err
}

func (r *equipoRepo) UpsertByCodigo(ctx context.Context, e *model.Equipo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Equipo
		err := tx.Where("codigo = ?", e.Codigo).First(&existing).Error
		if IsNotFound(err) {
			return tx.Create(e).Error
		}
		if err != nil {
			return err
		}
		e.ID = existing.ID
		e.CreatedAt = existing.CreatedAt
		return tx.Save(e).Error
	})
}

func (r *equipoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Equipo, error) {
	var e model.Equipo
	err := tx.First(&e, "id = ?", id).Error
	return &e, err
}

func (r *equipoRepo) UpdateTx(tx *gorm.DB, e *model.Equipo) error {
	return tx.Save(e).Error
}

func (r *equipoRepo) CreateHistorialTx(tx *gorm.DB, h *model.HistorialPrecio) error {
	return tx.Create(h).Error
}

package repository

import (
	"context"

	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository stores the catalog categories.
type CategoriaRepository interface {
	Create(ctx context.Context, c *model.Categoria) error
	List(ctx context.Context, soloActivas bool) ([]model.Categoria, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Categoria, error)
	Update(ctx context.Context, c *model.Categoria) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepo{db: db}
}

func (r *categoriaRepo) Create(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) List(ctx context.Context, soloActivas bool) ([]model.Categoria, error) {
	var list []model.Categoria
	q := r.db.WithContext(ctx).Order("nombre ASC")
	if soloActivas {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *categoriaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

// FindByNombre matches case-insensitively.
func (r *categoriaRepo) FindByNombre(ctx context.Context, nombre string) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", nombre).First(&c).Error
	return &c, err
}

func (r *categoriaRepo) Update(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("activo", false).Error
}

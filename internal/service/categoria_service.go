package service

import (
	"context"
	"strings"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/repository"

	"github.com/google/uuid"
)

// CategoriaService defines business operations for equipment categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context, filter dto.CategoriaFilter) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	resp := dto.CategoriaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
	if !c.CreatedAt.IsZero() {
		resp.CreadaEn = c.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// nombreLibre fails with a conflict when another category already uses nombre.
func (s *categoriaService) nombreLibre(ctx context.Context, nombre string, propia uuid.UUID) error {
	existing, err := s.repo.FindByNombre(ctx, nombre)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != propia {
		return apierror.Conflict("ya existe una categoria llamada %s", existing.Nombre)
	}
	return nil
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if err := s.nombreLibre(ctx, nombre, uuid.Nil); err != nil {
		return dto.CategoriaResponse{}, err
	}

	c := &model.Categoria{Nombre: nombre, Descripcion: req.Descripcion, Activo: true}
	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return dto.CategoriaResponse{}, apierror.Conflict("ya existe una categoria llamada %s", nombre)
		}
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, filter dto.CategoriaFilter) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.List(ctx, !filter.Todas)
	if err != nil {
		return nil, err
	}
	buscar := strings.ToLower(strings.TrimSpace(filter.Buscar))
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		if buscar != "" && !strings.Contains(strings.ToLower(c.Nombre), buscar) {
			continue
		}
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.CategoriaResponse{}, apierror.NotFound("categoria no encontrada")
		}
		return dto.CategoriaResponse{}, err
	}

	if req.Nombre != nil {
		nombre := strings.TrimSpace(*req.Nombre)
		if !strings.EqualFold(nombre, c.Nombre) {
			if err := s.nombreLibre(ctx, nombre, id); err != nil {
				return dto.CategoriaResponse{}, err
			}
		}
		c.Nombre = nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apierror.NotFound("categoria no encontrada")
		}
		return err
	}
	return s.repo.Desactivar(ctx, id)
}

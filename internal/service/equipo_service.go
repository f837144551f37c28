package service

import (
	"context"
	"strings"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/pricing"
	"github.com/Josmarcito/sistema-durtron/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PrecioCacheKey is the Redis key of the public price check for a code.
func PrecioCacheKey(codigo string) string {
	return "precio:" + strings.ToUpper(codigo)
}

// EquipoService defines the business logic contract for the catalog.
type EquipoService interface {
	Crear(ctx context.Context, req dto.CrearEquipoRequest) (*dto.EquipoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EquipoResponse, error)
	Listar(ctx context.Context, filter dto.EquipoFilter) (*dto.EquipoListResponse, error)
	Actualizar(ctx context.Context, usuario string, id uuid.UUID, req dto.ActualizarEquipoRequest) (*dto.EquipoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	HistorialPrecios(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error)
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error)
}

type equipoService struct {
	repo           repository.EquipoRepository
	historialRepo  repository.HistorialPrecioRepository
	inventarioRepo repository.InventarioRepository
	cache          redis.Cmdable // nil disables price cache invalidation
}

func NewEquipoService(
	repo repository.EquipoRepository,
	historialRepo repository.HistorialPrecioRepository,
	inventarioRepo repository.InventarioRepository,
	cache redis.Cmdable,
) EquipoService {
	return &equipoService{repo: repo, historialRepo: historialRepo, inventarioRepo: inventarioRepo, cache: cache}
}

func validarPrecios(lista, minimo, costo decimal.Decimal) error {
	if lista.IsNegative() || minimo.IsNegative() || costo.IsNegative() {
		return apierror.Validation("los precios no pueden ser negativos")
	}
	return nil
}

func (s *equipoService) Crear(ctx context.Context, req dto.CrearEquipoRequest) (*dto.EquipoResponse, error) {
	codigo := strings.ToUpper(strings.TrimSpace(req.Codigo))
	if codigo == "" {
		return nil, apierror.Validation("el codigo es obligatorio")
	}
	if err := validarPrecios(req.PrecioLista, req.PrecioMinimo, req.PrecioCosto); err != nil {
		return nil, err
	}
	if req.PrecioMinimo.GreaterThan(req.PrecioLista) {
		return nil, apierror.Validation("el precio minimo no puede ser mayor al precio de lista")
	}

	e := &model.Equipo{
		Codigo:           codigo,
		Nombre:           strings.TrimSpace(req.Nombre),
		Marca:            req.Marca,
		Modelo:           req.Modelo,
		Categoria:        req.Categoria,
		Descripcion:      req.Descripcion,
		PrecioLista:      req.PrecioLista,
		PrecioMinimo:     req.PrecioMinimo,
		PrecioCosto:      req.PrecioCosto,
		PotenciaMotor:    req.PotenciaMotor,
		Capacidad:        req.Capacidad,
		Dimensiones:      req.Dimensiones,
		Peso:             req.Peso,
		Especificaciones: req.Especificaciones,
	}
	if e.Marca == "" {
		e.Marca = "DURTRON"
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict("ya existe un equipo con codigo %s", codigo)
		}
		return nil, err
	}
	return equipoToResponse(e, 0), nil
}

func (s *equipoService) buscar(ctx context.Context, id uuid.UUID) (*model.Equipo, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("equipo no encontrado")
		}
		return nil, err
	}
	return e, nil
}

func (s *equipoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EquipoResponse, error) {
	e, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	disp, err := s.inventarioRepo.CountByEquipo(ctx, e.ID, model.EstadoDisponible)
	if err != nil {
		return nil, err
	}
	return equipoToResponse(e, disp), nil
}

func (s *equipoService) Listar(ctx context.Context, filter dto.EquipoFilter) (*dto.EquipoListResponse, error) {
	equipos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EquipoResponse, len(equipos))
	for i := range equipos {
		disp, err := s.inventarioRepo.CountByEquipo(ctx, equipos[i].ID, model.EstadoDisponible)
		if err != nil {
			return nil, err
		}
		data[i] = *equipoToResponse(&equipos[i], disp)
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.EquipoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Actualizar applies a partial update. Any change to the list, minimum or
// cost price writes a HistorialPrecio row in the same transaction.
func (s *equipoService) Actualizar(ctx context.Context, usuario string, id uuid.UUID, req dto.ActualizarEquipoRequest) (*dto.EquipoResponse, error) {
	e, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	hist := &model.HistorialPrecio{
		EquipoID:    e.ID,
		ListaAntes:  e.PrecioLista,
		MinimoAntes: e.PrecioMinimo,
		CostoAntes:  e.PrecioCosto,
		Usuario:     usuario,
	}

	if req.Nombre != nil {
		e.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Marca != nil {
		e.Marca = *req.Marca
	}
	if req.Modelo != nil {
		e.Modelo = *req.Modelo
	}
	if req.Categoria != nil {
		e.Categoria = *req.Categoria
	}
	if req.Descripcion != nil {
		e.Descripcion = req.Descripcion
	}
	if req.PrecioLista != nil {
		e.PrecioLista = *req.PrecioLista
	}
	if req.PrecioMinimo != nil {
		e.PrecioMinimo = *req.PrecioMinimo
	}
	if req.PrecioCosto != nil {
		e.PrecioCosto = *req.PrecioCosto
	}
	if req.PotenciaMotor != nil {
		e.PotenciaMotor = *req.PotenciaMotor
	}
	if req.Capacidad != nil {
		e.Capacidad = *req.Capacidad
	}
	if req.Dimensiones != nil {
		e.Dimensiones = *req.Dimensiones
	}
	if req.Peso != nil {
		e.Peso = *req.Peso
	}
	if req.Especificaciones != nil {
		e.Especificaciones = *req.Especificaciones
	}

	if err := validarPrecios(e.PrecioLista, e.PrecioMinimo, e.PrecioCosto); err != nil {
		return nil, err
	}
	if e.PrecioMinimo.GreaterThan(e.PrecioLista) {
		return nil, apierror.Validation("el precio minimo no puede ser mayor al precio de lista")
	}

	hist.ListaDespues = e.PrecioLista
	hist.MinimoDespues = e.PrecioMinimo
	hist.CostoDespues = e.PrecioCosto
	cambioPrecio := !hist.ListaAntes.Equal(hist.ListaDespues) ||
		!hist.MinimoAntes.Equal(hist.MinimoDespues) ||
		!hist.CostoAntes.Equal(hist.CostoDespues)

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, e); err != nil {
			return err
		}
		if cambioPrecio {
			return s.repo.CreateHistorialTx(tx, hist)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cambioPrecio {
		log.Info().
			Str("codigo", e.Codigo).
			Str("lista", e.PrecioLista.StringFixed(2)).
			Str("minimo", e.PrecioMinimo.StringFixed(2)).
			Str("usuario", usuario).
			Msg("precio de equipo actualizado")
	}
	s.invalidarPrecio(ctx, e.Codigo)
	return s.Obtener(ctx, e.ID)
}

func (s *equipoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	e, err := s.buscar(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.inventarioRepo.CountByEquipo(ctx, e.ID, "")
	if err != nil {
		return err
	}
	if n > 0 {
		return apierror.Conflict("el equipo %s tiene %d unidades en inventario", e.Codigo, n)
	}
	if err := s.repo.Delete(ctx, e.ID); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, e.Codigo)
	return nil
}

func (s *equipoService) HistorialPrecios(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error) {
	if _, err := s.buscar(ctx, id); err != nil {
		return nil, err
	}
	rows, total, err := s.historialRepo.ListByEquipo(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HistorialPrecioItem, len(rows))
	for i, h := range rows {
		data[i] = dto.HistorialPrecioItem{
			ID:            h.ID.String(),
			EquipoID:      h.EquipoID.String(),
			ListaAntes:    h.ListaAntes,
			ListaDespues:  h.ListaDespues,
			MinimoAntes:   h.MinimoAntes,
			MinimoDespues: h.MinimoDespues,
			CostoAntes:    h.CostoAntes,
			CostoDespues:  h.CostoDespues,
			Usuario:       h.Usuario,
			CreatedAt:     h.CreatedAt.Format(time.RFC3339),
		}
	}
	return &dto.HistorialPrecioListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ConsultarPrecio backs the public price check. It never exposes the
// minimum or cost price.
func (s *equipoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error) {
	e, err := s.repo.FindByCodigo(ctx, strings.ToUpper(strings.TrimSpace(codigo)))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("equipo no encontrado")
		}
		return nil, err
	}
	disp, err := s.inventarioRepo.CountByEquipo(ctx, e.ID, model.EstadoDisponible)
	if err != nil {
		return nil, err
	}
	return &dto.ConsultaPrecioResponse{
		Codigo:              e.Codigo,
		Nombre:              e.Nombre,
		Categoria:           e.Categoria,
		PrecioLista:         e.PrecioLista,
		PrecioConIVA:        pricing.ConIVA(e.PrecioLista),
		UnidadesDisponibles: disp,
	}, nil
}

func (s *equipoService) invalidarPrecio(ctx context.Context, codigo string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, PrecioCacheKey(codigo)).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo invalidar cache de precio")
	}
}

func equipoToResponse(e *model.Equipo, disponibles int64) *dto.EquipoResponse {
	return &dto.EquipoResponse{
		ID:                  e.ID.String(),
		Codigo:              e.Codigo,
		Nombre:              e.Nombre,
		Marca:               e.Marca,
		Modelo:              e.Modelo,
		Categoria:           e.Categoria,
		Descripcion:         e.Descripcion,
		PrecioLista:         e.PrecioLista,
		PrecioMinimo:        e.PrecioMinimo,
		PrecioCosto:         e.PrecioCosto,
		PotenciaMotor:       e.PotenciaMotor,
		Capacidad:           e.Capacidad,
		Dimensiones:         e.Dimensiones,
		Peso:                e.Peso,
		Especificaciones:    e.Especificaciones,
		UnidadesDisponibles: disponibles,
	}
}

package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService manages the serially numbered stock units.
// The Vendida state is owned by VentaService and cannot be set here.
type InventarioService interface {
	Crear(ctx context.Context, usuario string, req dto.CrearUnidadRequest) (*dto.UnidadResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.UnidadResponse, error)
	Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.UnidadListResponse, error)
	CambiarEstado(ctx context.Context, usuario string, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.UnidadResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Movimientos(ctx context.Context, id uuid.UUID) ([]dto.MovimientoResponse, error)
	Etiqueta(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type inventarioService struct {
	repo       repository.InventarioRepository
	equipoRepo repository.EquipoRepository
	series     SerieService
	renderer   Renderer
}

func NewInventarioService(
	repo repository.InventarioRepository,
	equipoRepo repository.EquipoRepository,
	series SerieService,
	renderer Renderer,
) InventarioService {
	return &inventarioService{repo: repo, equipoRepo: equipoRepo, series: series, renderer: renderer}
}

func validarEstadoManual(estado string) error {
	if estado == model.EstadoVendida {
		return apierror.Validation("el estado Vendida solo se asigna registrando una venta")
	}
	if !slices.Contains(model.EstadosUnidad, estado) {
		return apierror.Validation("estado %q no valido", estado)
	}
	return nil
}

func (s *inventarioService) Crear(ctx context.Context, usuario string, req dto.CrearUnidadRequest) (*dto.UnidadResponse, error) {
	equipoID, err := uuid.Parse(req.EquipoID)
	if err != nil {
		return nil, apierror.Validation("equipo_id invalido")
	}
	estado := req.Estado
	if estado == "" {
		estado = model.EstadoDisponible
	}
	if err := validarEstadoManual(estado); err != nil {
		return nil, err
	}
	ubicacion := strings.TrimSpace(req.Ubicacion)
	if ubicacion == "" {
		ubicacion = model.Ubicaciones[0]
	}

	equipo, err := s.equipoRepo.FindByID(ctx, equipoID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("equipo no encontrado")
		}
		return nil, err
	}

	serie := strings.TrimSpace(req.NumeroSerie)
	if serie == "" {
		sig, err := s.series.Siguiente(ctx, equipo.Codigo)
		if err != nil {
			return nil, fmt.Errorf("asignar numero de serie: %w", err)
		}
		serie = sig.Serie
	}

	unidad := &model.UnidadInventario{
		EquipoID:      equipo.ID,
		NumeroSerie:   serie,
		Estado:        estado,
		Ubicacion:     ubicacion,
		Observaciones: req.Observaciones,
		FechaIngreso:  time.Now(),
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, unidad); err != nil {
			if repository.IsUniqueViolation(err) {
				return apierror.Conflict("el numero de serie %s ya existe", serie)
			}
			return err
		}
		return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
			InventarioID: unidad.ID,
			Tipo:         model.MovimientoIngreso,
			EstadoNuevo:  estado,
			Usuario:      usuario,
			Notas:        "Ingreso en " + ubicacion,
		})
	})
	if err != nil {
		return nil, err
	}

	unidad.Equipo = equipo
	log.Info().Str("serie", serie).Str("equipo", equipo.Codigo).Str("usuario", usuario).Msg("unidad registrada")
	return unidadToResponse(unidad), nil
}

func (s *inventarioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.UnidadResponse, error) {
	u, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return unidadToResponse(u), nil
}

func (s *inventarioService) buscar(ctx context.Context, id uuid.UUID) (*model.UnidadInventario, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("unidad de inventario no encontrada")
		}
		return nil, err
	}
	return u, nil
}

func (s *inventarioService) Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.UnidadListResponse, error) {
	if filter.EquipoID != "" {
		if _, err := uuid.Parse(filter.EquipoID); err != nil {
			return nil, apierror.Validation("equipo_id invalido")
		}
	}
	unidades, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.UnidadResponse, len(unidades))
	for i := range unidades {
		data[i] = *unidadToResponse(&unidades[i])
	}
	return &dto.UnidadListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventarioService) CambiarEstado(ctx context.Context, usuario string, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.UnidadResponse, error) {
	if err := validarEstadoManual(req.Estado); err != nil {
		return nil, err
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		u, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("unidad de inventario no encontrada")
			}
			return err
		}
		if u.Estado == model.EstadoVendida {
			return apierror.Conflict("la unidad %s esta vendida; anule la venta para liberarla", u.NumeroSerie)
		}
		if err := s.repo.UpdateEstadoTx(tx, id, req.Estado, req.Ubicacion); err != nil {
			return err
		}
		anterior := u.Estado
		return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
			InventarioID:   id,
			Tipo:           model.MovimientoCambioEstado,
			EstadoAnterior: &anterior,
			EstadoNuevo:    req.Estado,
			Usuario:        usuario,
			Notas:          req.Notas,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Obtener(ctx, id)
}

// Eliminar locks the unit so a concurrent sale cannot land between the
// state check and the delete.
func (s *inventarioService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		u, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("unidad de inventario no encontrada")
			}
			return err
		}
		if u.Estado == model.EstadoVendida {
			return apierror.Conflict("no se puede eliminar la unidad %s: tiene una venta registrada", u.NumeroSerie)
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *inventarioService) Movimientos(ctx context.Context, id uuid.UUID) ([]dto.MovimientoResponse, error) {
	if _, err := s.buscar(ctx, id); err != nil {
		return nil, err
	}
	movs, err := s.repo.ListMovimientos(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoResponse, len(movs))
	for i, m := range movs {
		resp[i] = dto.MovimientoResponse{
			ID:             m.ID.String(),
			Tipo:           m.Tipo,
			EstadoAnterior: m.EstadoAnterior,
			EstadoNuevo:    m.EstadoNuevo,
			Usuario:        m.Usuario,
			Notas:          m.Notas,
			CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			resp[i].ReferenciaID = &ref
		}
	}
	return resp, nil
}

// Etiqueta renders the printable label of a unit and returns it with a
// suggested file name.
func (s *inventarioService) Etiqueta(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	u, err := s.buscar(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.Etiqueta(u)
	if err != nil {
		return nil, "", fmt.Errorf("generar etiqueta: %w", err)
	}
	return pdf, "etiqueta-" + u.NumeroSerie + ".pdf", nil
}

func unidadToResponse(u *model.UnidadInventario) *dto.UnidadResponse {
	resp := &dto.UnidadResponse{
		ID:            u.ID.String(),
		EquipoID:      u.EquipoID.String(),
		NumeroSerie:   u.NumeroSerie,
		Estado:        u.Estado,
		Ubicacion:     u.Ubicacion,
		Observaciones: u.Observaciones,
		FechaIngreso:  u.FechaIngreso.Format(fechaLayout),
	}
	if u.Equipo != nil {
		resp.EquipoCodigo = u.Equipo.Codigo
		resp.EquipoNombre = u.Equipo.Nombre
		resp.Categoria = u.Equipo.Categoria
	}
	return resp
}

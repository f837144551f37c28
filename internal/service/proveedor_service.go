package service

import (
	"context"
	"strings"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/infra"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/repository"

	"github.com/google/uuid"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

// normalizarWhatsApp stores the number in the international form used by wa.me.
func normalizarWhatsApp(tel *string) *string {
	if tel == nil {
		return nil
	}
	n := infra.NormalizarTelefono(*tel)
	if n == "" {
		return nil
	}
	return &n
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	razon := strings.TrimSpace(req.RazonSocial)
	if razon == "" {
		return nil, apierror.Validation("la razon social es obligatoria")
	}
	p := &model.Proveedor{
		RazonSocial:    razon,
		ContactoNombre: req.ContactoNombre,
		Correo:         req.Correo,
		WhatsApp:       normalizarWhatsApp(req.WhatsApp),
		Telefono:       req.Telefono,
		Direccion:      req.Direccion,
		Activo:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) buscar(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("proveedor no encontrado")
		}
		return nil, err
	}
	return p, nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error) {
	list, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, len(list))
	for i := range list {
		resp[i] = *proveedorToResponse(&list[i])
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RazonSocial != nil {
		p.RazonSocial = strings.TrimSpace(*req.RazonSocial)
	}
	if req.ContactoNombre != nil {
		p.ContactoNombre = req.ContactoNombre
	}
	if req.Correo != nil {
		p.Correo = req.Correo
	}
	if req.WhatsApp != nil {
		p.WhatsApp = normalizarWhatsApp(req.WhatsApp)
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		p.Direccion = req.Direccion
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

// Eliminar deactivates the supplier; requisition lines keep pointing at it.
func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:             p.ID.String(),
		RazonSocial:    p.RazonSocial,
		ContactoNombre: p.ContactoNombre,
		Correo:         p.Correo,
		WhatsApp:       p.WhatsApp,
		Telefono:       p.Telefono,
		Direccion:      p.Direccion,
		Activo:         p.Activo,
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/pricing"
	"github.com/Josmarcito/sistema-durtron/internal/repository"
	"github.com/Josmarcito/sistema-durtron/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const vigenciaDefault = 30

type CotizacionService interface {
	Crear(ctx context.Context, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error)
	Listar(ctx context.Context, filter dto.CotizacionFilter) (*dto.CotizacionListResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	EnviarEmail(ctx context.Context, id uuid.UUID, req dto.EnviarEmailRequest) (*dto.EnvioResponse, error)
}

type cotizacionService struct {
	repo        repository.CotizacionRepository
	equipoRepo  repository.EquipoRepository
	series      SerieService
	renderer    Renderer
	notificador Notificador
	empresa     string
}

func NewCotizacionService(
	repo repository.CotizacionRepository,
	equipoRepo repository.EquipoRepository,
	series SerieService,
	renderer Renderer,
	notificador Notificador,
	empresa string,
) CotizacionService {
	return &cotizacionService{
		repo:        repo,
		equipoRepo:  equipoRepo,
		series:      series,
		renderer:    renderer,
		notificador: notificador,
		empresa:     empresa,
	}
}

// siguienteFolio allocates "{prefijo}-{año}-{n:03d}" from the serial counters.
func siguienteFolio(ctx context.Context, series SerieService, prefijo string) (string, error) {
	sig, err := series.Siguiente(ctx, fmt.Sprintf("%s-%d", prefijo, time.Now().Year()))
	if err != nil {
		return "", fmt.Errorf("asignar folio: %w", err)
	}
	return sig.Serie, nil
}

func (s *cotizacionService) Crear(ctx context.Context, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validation("la cotizacion debe tener al menos una partida")
	}
	incluyeIVA := true
	if req.IncluyeIVA != nil {
		incluyeIVA = *req.IncluyeIVA
	}
	vigencia := req.VigenciaDias
	if vigencia <= 0 {
		vigencia = vigenciaDefault
	}

	items := make([]model.CotizacionItem, 0, len(req.Items))
	lineas := make([]pricing.Linea, 0, len(req.Items))
	for i, it := range req.Items {
		if it.Cantidad < 1 {
			return nil, apierror.Validation("partida %d: la cantidad debe ser al menos 1", i+1)
		}
		if it.PrecioUnitario.IsNegative() {
			return nil, apierror.Validation("partida %d: el precio no puede ser negativo", i+1)
		}
		item := model.CotizacionItem{
			Descripcion:    strings.TrimSpace(it.Descripcion),
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		}
		if it.EquipoID != nil && *it.EquipoID != "" {
			eid, err := uuid.Parse(*it.EquipoID)
			if err != nil {
				return nil, apierror.Validation("partida %d: equipo_id invalido", i+1)
			}
			equipo, err := s.equipoRepo.FindByID(ctx, eid)
			if err != nil {
				if repository.IsNotFound(err) {
					return nil, apierror.NotFound("partida %d: equipo no encontrado", i+1)
				}
				return nil, err
			}
			item.EquipoID = &equipo.ID
			if item.Descripcion == "" {
				item.Descripcion = equipo.Codigo + " " + equipo.Nombre
			}
			if item.PrecioUnitario.IsZero() {
				item.PrecioUnitario = equipo.PrecioLista
			}
		}
		if item.Descripcion == "" {
			return nil, apierror.Validation("partida %d: falta la descripcion", i+1)
		}
		linea := pricing.Linea{
			Cantidad:       decimal.NewFromInt(int64(item.Cantidad)),
			PrecioUnitario: item.PrecioUnitario,
			ConIVA:         incluyeIVA,
		}
		item.TotalLinea = linea.Importe()
		items = append(items, item)
		lineas = append(lineas, linea)
	}
	tot := pricing.CalcularTotales(lineas)

	folio, err := siguienteFolio(ctx, s.series, "COT")
	if err != nil {
		return nil, err
	}

	c := &model.Cotizacion{
		Folio:            folio,
		ClienteNombre:    strings.TrimSpace(req.ClienteNombre),
		ClienteEmpresa:   req.ClienteEmpresa,
		ClienteTelefono:  req.ClienteTelefono,
		ClienteEmail:     req.ClienteEmail,
		ClienteDireccion: req.ClienteDireccion,
		Vendedor:         strings.TrimSpace(req.Vendedor),
		IncluyeIVA:       incluyeIVA,
		Subtotal:         tot.Subtotal,
		IVA:              tot.IVA,
		Total:            tot.Total,
		VigenciaDias:     vigencia,
		Notas:            req.Notas,
		CreatedAt:        time.Now(),
		Items:            items,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict("el folio %s ya existe", folio)
		}
		return nil, err
	}
	log.Info().Str("folio", folio).Str("cliente", c.ClienteNombre).Str("total", c.Total.StringFixed(2)).Msg("cotizacion creada")
	return cotizacionToResponse(c), nil
}

func (s *cotizacionService) buscar(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("cotizacion no encontrada")
		}
		return nil, err
	}
	return c, nil
}

func (s *cotizacionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error) {
	c, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return cotizacionToResponse(c), nil
}

func (s *cotizacionService) Listar(ctx context.Context, filter dto.CotizacionFilter) (*dto.CotizacionListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CotizacionResponse, len(list))
	for i := range list {
		data[i] = *cotizacionToResponse(&list[i])
	}
	return &dto.CotizacionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *cotizacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *cotizacionService) PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	c, err := s.buscar(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.Cotizacion(c)
	if err != nil {
		return nil, "", fmt.Errorf("generar cotizacion: %w", err)
	}
	return pdf, c.Folio + ".pdf", nil
}

// EnviarEmail queues the quotation PDF to the customer, or to req.Para when given.
func (s *cotizacionService) EnviarEmail(ctx context.Context, id uuid.UUID, req dto.EnviarEmailRequest) (*dto.EnvioResponse, error) {
	c, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	para := ""
	if req.Para != nil {
		para = strings.TrimSpace(*req.Para)
	}
	if para == "" && c.ClienteEmail != nil {
		para = strings.TrimSpace(*c.ClienteEmail)
	}
	if para == "" {
		return nil, apierror.Validation("la cotizacion no tiene correo de cliente; indique un destinatario")
	}

	pdf, err := s.renderer.Cotizacion(c)
	if err != nil {
		return nil, fmt.Errorf("generar cotizacion: %w", err)
	}
	body := fmt.Sprintf(
		"Estimado(a) %s:\n\nAdjuntamos la cotizacion %s por un total de %s.\nVigencia: %d dias.\n\nAtentamente,\n%s\n%s",
		c.ClienteNombre, c.Folio, c.Total.StringFixed(2), c.VigenciaDias, c.Vendedor, s.empresa,
	)
	err = s.notificador.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:            para,
		Subject:       fmt.Sprintf("Cotizacion %s - %s", c.Folio, s.empresa),
		Body:          body,
		Adjunto:       pdf,
		NombreAdjunto: c.Folio + ".pdf",
	})
	if err != nil {
		log.Error().Err(err).Str("folio", c.Folio).Msg("no se pudo encolar email de cotizacion")
		return &dto.EnvioResponse{Encolados: 0, Mensaje: "no se pudo encolar el envio; intente de nuevo"}, nil
	}
	return &dto.EnvioResponse{Encolados: 1, Mensaje: "cotizacion encolada para " + para}, nil
}

func cotizacionToResponse(c *model.Cotizacion) *dto.CotizacionResponse {
	resp := &dto.CotizacionResponse{
		ID:               c.ID.String(),
		Folio:            c.Folio,
		ClienteNombre:    c.ClienteNombre,
		ClienteEmpresa:   c.ClienteEmpresa,
		ClienteTelefono:  c.ClienteTelefono,
		ClienteEmail:     c.ClienteEmail,
		ClienteDireccion: c.ClienteDireccion,
		Vendedor:         c.Vendedor,
		IncluyeIVA:       c.IncluyeIVA,
		Subtotal:         c.Subtotal,
		IVA:              c.IVA,
		Total:            c.Total,
		VigenciaDias:     c.VigenciaDias,
		Notas:            c.Notas,
		FechaCotizacion:  c.CreatedAt.Format(fechaLayout),
		Items:            make([]dto.CotizacionItemResponse, len(c.Items)),
	}
	for i, it := range c.Items {
		item := dto.CotizacionItemResponse{
			ID:             it.ID.String(),
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			TotalLinea:     it.TotalLinea,
		}
		if it.EquipoID != nil {
			eid := it.EquipoID.String()
			item.EquipoID = &eid
		}
		resp.Items[i] = item
	}
	return resp
}

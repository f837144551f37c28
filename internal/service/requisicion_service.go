package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/infra"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/pricing"
	"github.com/Josmarcito/sistema-durtron/internal/repository"
	"github.com/Josmarcito/sistema-durtron/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// transicionesRequisicion lists the states reachable from each state.
var transicionesRequisicion = map[string][]string{
	model.RequisicionPendiente: {model.RequisicionEnviada, model.RequisicionCancelada},
	model.RequisicionEnviada:   {model.RequisicionRecibida, model.RequisicionCancelada, model.RequisicionPendiente},
	model.RequisicionRecibida:  {},
	model.RequisicionCancelada: {model.RequisicionPendiente},
}

type RequisicionService interface {
	Crear(ctx context.Context, req dto.CrearRequisicionRequest) (*dto.RequisicionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.RequisicionResponse, error)
	Listar(ctx context.Context, filter dto.RequisicionFilter) (*dto.RequisicionListResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.RequisicionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	Enviar(ctx context.Context, id uuid.UUID, req dto.EnviarRequisicionRequest) (*dto.EnvioResponse, error)
	WhatsAppURLs(ctx context.Context, id uuid.UUID, proveedorID *uuid.UUID) ([]dto.WhatsAppURLResponse, error)
}

type requisicionService struct {
	repo          repository.RequisicionRepository
	proveedorRepo repository.ProveedorRepository
	series        SerieService
	renderer      Renderer
	notificador   Notificador
	empresa       string
}

func NewRequisicionService(
	repo repository.RequisicionRepository,
	proveedorRepo repository.ProveedorRepository,
	series SerieService,
	renderer Renderer,
	notificador Notificador,
	empresa string,
) RequisicionService {
	return &requisicionService{
		repo:          repo,
		proveedorRepo: proveedorRepo,
		series:        series,
		renderer:      renderer,
		notificador:   notificador,
		empresa:       empresa,
	}
}

func (s *requisicionService) Crear(ctx context.Context, req dto.CrearRequisicionRequest) (*dto.RequisicionResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validation("la requisicion debe tener al menos un componente")
	}

	items := make([]model.RequisicionItem, 0, len(req.Items))
	lineas := make([]pricing.Linea, 0, len(req.Items))
	var proveedorIDs []uuid.UUID
	for i, it := range req.Items {
		if !it.Cantidad.IsPositive() {
			return nil, apierror.Validation("componente %d: la cantidad debe ser mayor a cero", i+1)
		}
		if it.PrecioUnitario.IsNegative() {
			return nil, apierror.Validation("componente %d: el precio no puede ser negativo", i+1)
		}
		item := model.RequisicionItem{
			Componente:     strings.TrimSpace(it.Componente),
			Cantidad:       it.Cantidad,
			Unidad:         it.Unidad,
			PrecioUnitario: it.PrecioUnitario,
			TieneIVA:       true,
		}
		if item.Unidad == "" {
			item.Unidad = "pza"
		}
		if it.TieneIVA != nil {
			item.TieneIVA = *it.TieneIVA
		}
		if it.ProveedorID != nil && *it.ProveedorID != "" {
			pid, err := uuid.Parse(*it.ProveedorID)
			if err != nil {
				return nil, apierror.Validation("componente %d: proveedor_id invalido", i+1)
			}
			item.ProveedorID = &pid
			proveedorIDs = append(proveedorIDs, pid)
		}
		items = append(items, item)
		lineas = append(lineas, pricing.Linea{Cantidad: item.Cantidad, PrecioUnitario: item.PrecioUnitario, ConIVA: item.TieneIVA})
	}

	if err := s.verificarProveedores(ctx, proveedorIDs); err != nil {
		return nil, err
	}

	folio, err := siguienteFolio(ctx, s.series, "REQ")
	if err != nil {
		return nil, err
	}
	tot := pricing.CalcularTotales(lineas)
	r := &model.Requisicion{
		Folio:        folio,
		EquipoNombre: strings.TrimSpace(req.EquipoNombre),
		Solicitante:  strings.TrimSpace(req.Solicitante),
		Estado:       model.RequisicionPendiente,
		Notas:        req.Notas,
		Subtotal:     tot.Subtotal,
		IVA:          tot.IVA,
		Total:        tot.Total,
		Items:        items,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict("el folio %s ya existe", folio)
		}
		return nil, err
	}
	log.Info().Str("folio", folio).Str("equipo", r.EquipoNombre).Int("componentes", len(items)).Msg("requisicion creada")

	// Reload so each line carries its supplier name.
	return s.Obtener(ctx, r.ID)
}

func (s *requisicionService) verificarProveedores(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	unicos := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unicos[id] = struct{}{}
	}
	lista := make([]uuid.UUID, 0, len(unicos))
	for id := range unicos {
		lista = append(lista, id)
	}
	found, err := s.proveedorRepo.FindByIDs(ctx, lista)
	if err != nil {
		return err
	}
	if len(found) != len(lista) {
		return apierror.NotFound("uno o mas proveedores no existen")
	}
	return nil
}

func (s *requisicionService) buscar(ctx context.Context, id uuid.UUID) (*model.Requisicion, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("requisicion no encontrada")
		}
		return nil, err
	}
	return r, nil
}

func (s *requisicionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.RequisicionResponse, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return requisicionToResponse(r), nil
}

func (s *requisicionService) Listar(ctx context.Context, filter dto.RequisicionFilter) (*dto.RequisicionListResponse, error) {
	if filter.ProveedorID != "" {
		if _, err := uuid.Parse(filter.ProveedorID); err != nil {
			return nil, apierror.Validation("proveedor_id invalido")
		}
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.RequisicionResponse, len(list))
	for i := range list {
		data[i] = *requisicionToResponse(&list[i])
	}
	return &dto.RequisicionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *requisicionService) CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.RequisicionResponse, error) {
	if _, valido := transicionesRequisicion[estado]; !valido {
		return nil, apierror.Validation("estado %q no valido", estado)
	}
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Estado == estado {
		return requisicionToResponse(r), nil
	}
	if !permiteTransicion(r.Estado, estado) {
		return nil, apierror.Conflict("no se puede pasar de %s a %s", r.Estado, estado)
	}
	if err := s.repo.UpdateEstado(ctx, id, estado); err != nil {
		return nil, err
	}
	r.Estado = estado
	return requisicionToResponse(r), nil
}

func permiteTransicion(desde, hacia string) bool {
	for _, e := range transicionesRequisicion[desde] {
		if e == hacia {
			return true
		}
	}
	return false
}

func (s *requisicionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *requisicionService) PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.Requisicion(r)
	if err != nil {
		return nil, "", fmt.Errorf("generar orden de compra: %w", err)
	}
	return pdf, r.Folio + ".pdf", nil
}

// porProveedor splits a requisition into one copy per supplier, each holding
// only that supplier's lines. Lines without supplier are skipped.
func porProveedor(r *model.Requisicion, solo *uuid.UUID) []*model.Requisicion {
	grupos := make(map[uuid.UUID]*model.Requisicion)
	var orden []uuid.UUID
	for _, it := range r.Items {
		if it.ProveedorID == nil || it.Proveedor == nil {
			continue
		}
		pid := *it.ProveedorID
		if solo != nil && pid != *solo {
			continue
		}
		g, ok := grupos[pid]
		if !ok {
			copia := *r
			copia.Items = nil
			g = &copia
			grupos[pid] = g
			orden = append(orden, pid)
		}
		g.Items = append(g.Items, it)
	}

	out := make([]*model.Requisicion, 0, len(orden))
	for _, pid := range orden {
		g := grupos[pid]
		lineas := make([]pricing.Linea, len(g.Items))
		for i, it := range g.Items {
			lineas[i] = pricing.Linea{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario, ConIVA: it.TieneIVA}
		}
		tot := pricing.CalcularTotales(lineas)
		g.Subtotal, g.IVA, g.Total = tot.Subtotal, tot.IVA, tot.Total
		out = append(out, g)
	}
	return out
}

func (s *requisicionService) mensajeProveedor(r *model.Requisicion, p *model.Proveedor) string {
	var b strings.Builder
	saludo := p.RazonSocial
	if p.ContactoNombre != nil && *p.ContactoNombre != "" {
		saludo = *p.ContactoNombre
	}
	fmt.Fprintf(&b, "Hola %s, le compartimos la requisicion %s de %s para %s:\n", saludo, r.Folio, s.empresa, r.EquipoNombre)
	for _, it := range r.Items {
		fmt.Fprintf(&b, "- %s %s %s\n", it.Cantidad.String(), it.Unidad, it.Componente)
	}
	fmt.Fprintf(&b, "Total: %s\nQuedamos atentos a su confirmacion.", r.Total.StringFixed(2))
	return b.String()
}

// Enviar queues the order document to every supplier on the requisition
// (or only req.ProveedorID): an email with the PDF when the supplier has a
// mail address and a WhatsApp message when it has a number. A Pendiente
// requisition moves to Enviada once anything was queued.
func (s *requisicionService) Enviar(ctx context.Context, id uuid.UUID, req dto.EnviarRequisicionRequest) (*dto.EnvioResponse, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Estado == model.RequisicionCancelada {
		return nil, apierror.Conflict("la requisicion %s esta cancelada", r.Folio)
	}
	var solo *uuid.UUID
	if req.ProveedorID != nil && *req.ProveedorID != "" {
		pid, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, apierror.Validation("proveedor_id invalido")
		}
		solo = &pid
	}

	grupos := porProveedor(r, solo)
	if len(grupos) == 0 {
		return nil, apierror.Validation("la requisicion no tiene componentes con proveedor asignado")
	}

	encolados := 0
	var sinContacto []string
	for _, g := range grupos {
		p := g.Items[0].Proveedor
		contactado := false

		if p.Correo != nil && *p.Correo != "" {
			pdf, err := s.renderer.Requisicion(g)
			if err != nil {
				return nil, fmt.Errorf("generar orden de compra: %w", err)
			}
			err = s.notificador.EnqueueEmail(ctx, worker.EmailJobPayload{
				To:            *p.Correo,
				Subject:       fmt.Sprintf("Requisicion %s - %s", r.Folio, s.empresa),
				Body:          s.mensajeProveedor(g, p),
				Adjunto:       pdf,
				NombreAdjunto: r.Folio + ".pdf",
			})
			if err != nil {
				log.Error().Err(err).Str("folio", r.Folio).Str("proveedor", p.RazonSocial).Msg("no se pudo encolar email de requisicion")
			} else {
				encolados++
				contactado = true
			}
		}

		if p.WhatsApp != nil && *p.WhatsApp != "" {
			err := s.notificador.EnqueueWhatsApp(ctx, worker.WhatsAppJobPayload{
				Telefono: infra.NormalizarTelefono(*p.WhatsApp),
				Mensaje:  s.mensajeProveedor(g, p),
			})
			if err != nil {
				log.Error().Err(err).Str("folio", r.Folio).Str("proveedor", p.RazonSocial).Msg("no se pudo encolar whatsapp de requisicion")
			} else {
				encolados++
				contactado = true
			}
		}

		if !contactado {
			sinContacto = append(sinContacto, p.RazonSocial)
		}
	}

	if encolados > 0 && r.Estado == model.RequisicionPendiente {
		if err := s.repo.UpdateEstado(ctx, r.ID, model.RequisicionEnviada); err != nil {
			return nil, err
		}
	}

	msg := fmt.Sprintf("%d envios encolados", encolados)
	if len(sinContacto) > 0 {
		msg += "; sin contacto: " + strings.Join(sinContacto, ", ")
	}
	return &dto.EnvioResponse{Encolados: encolados, Mensaje: msg}, nil
}

// WhatsAppURLs builds one wa.me deep link per supplier with a WhatsApp number.
func (s *requisicionService) WhatsAppURLs(ctx context.Context, id uuid.UUID, proveedorID *uuid.UUID) ([]dto.WhatsAppURLResponse, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	grupos := porProveedor(r, proveedorID)
	urls := make([]dto.WhatsAppURLResponse, 0, len(grupos))
	for _, g := range grupos {
		p := g.Items[0].Proveedor
		if p.WhatsApp == nil || *p.WhatsApp == "" {
			continue
		}
		tel := infra.NormalizarTelefono(*p.WhatsApp)
		urls = append(urls, dto.WhatsAppURLResponse{
			Proveedor: p.RazonSocial,
			Telefono:  tel,
			URL:       infra.WhatsAppLink(tel, s.mensajeProveedor(g, p)),
		})
	}
	if len(urls) == 0 {
		return nil, apierror.NotFound("ningun proveedor de la requisicion tiene WhatsApp registrado")
	}
	return urls, nil
}

func requisicionToResponse(r *model.Requisicion) *dto.RequisicionResponse {
	resp := &dto.RequisicionResponse{
		ID:           r.ID.String(),
		Folio:        r.Folio,
		EquipoNombre: r.EquipoNombre,
		Solicitante:  r.Solicitante,
		Estado:       r.Estado,
		Notas:        r.Notas,
		Subtotal:     r.Subtotal,
		IVA:          r.IVA,
		Total:        r.Total,
		CreatedAt:    r.CreatedAt.Format(fechaLayout),
		Items:        make([]dto.RequisicionItemResponse, len(r.Items)),
	}
	for i, it := range r.Items {
		item := dto.RequisicionItemResponse{
			ID:             it.ID.String(),
			Componente:     it.Componente,
			Cantidad:       it.Cantidad,
			Unidad:         it.Unidad,
			PrecioUnitario: it.PrecioUnitario,
			TieneIVA:       it.TieneIVA,
			Importe:        it.Cantidad.Mul(it.PrecioUnitario).Round(2),
		}
		if it.ProveedorID != nil {
			pid := it.ProveedorID.String()
			item.ProveedorID = &pid
		}
		if it.Proveedor != nil {
			nombre := it.Proveedor.RazonSocial
			item.ProveedorNombre = &nombre
		}
		resp.Items[i] = item
	}
	return resp
}

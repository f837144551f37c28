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
	"gorm.io/gorm"
)

const fechaLayout = "2006-01-02"

// MotivoAnulacionDefault is logged when a sale is cancelled without a reason.
const MotivoAnulacionDefault = "Anulacion"

// VentaService owns the sale lifecycle and its advance-payment ledger.
type VentaService interface {
	RegistrarVenta(ctx context.Context, usuario string, inventarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, usuario string, id uuid.UUID, motivo string) error
	RegistrarAnticipo(ctx context.Context, ventaID uuid.UUID, req dto.RegistrarAnticipoRequest) (*dto.LiquidacionResponse, error)
	EliminarAnticipo(ctx context.Context, anticipoID uuid.UUID) (*dto.LiquidacionResponse, error)
	ListarAnticipos(ctx context.Context, ventaID uuid.UUID) ([]dto.AnticipoResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo           repository.VentaRepository
	inventarioRepo repository.InventarioRepository
	equipoRepo     repository.EquipoRepository
	autorizador    Autorizador
	notificador    Notificador
}

func NewVentaService(
	repo repository.VentaRepository,
	inventarioRepo repository.InventarioRepository,
	equipoRepo repository.EquipoRepository,
	autorizador Autorizador,
	notificador Notificador,
) VentaService {
	return &ventaService{
		repo:           repo,
		inventarioRepo: inventarioRepo,
		equipoRepo:     equipoRepo,
		autorizador:    autorizador,
		notificador:    notificador,
	}
}

// recalcularLiquidacion recomputes the paid total from SUM(anticipos.monto)
// and persists it with the derived state. Must run inside the caller's tx.
func recalcularLiquidacion(tx *gorm.DB, repo repository.VentaRepository, ventaID uuid.UUID, precioVenta decimal.Decimal) (decimal.Decimal, string, error) {
	total, err := repo.SumAnticiposTx(tx, ventaID)
	if err != nil {
		return decimal.Zero, "", err
	}
	estado := pricing.EstadoLiquidacion(total, precioVenta)
	if err := repo.UpdateLiquidacionTx(tx, ventaID, total, estado); err != nil {
		return decimal.Zero, "", err
	}
	return total, estado, nil
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One transaction:
//   1. Lock the unit row; unknown → not found, already Vendida → conflict
//   2. Derive the discount; below precio_minimo needs a manager credential
//   3. Conditional flip to Vendida (guards a concurrent sale of the same unit)
//   4. Insert venta, audit row, optional anticipo and movement
//   5. Recompute total_abonado / estado from the anticipos
// After commit a confirmation email is queued when the customer has one.

func (s *ventaService) RegistrarVenta(ctx context.Context, usuario string, inventarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	// Columns are DECIMAL(12,2); round first so validation sees the stored value.
	req.PrecioVenta = req.PrecioVenta.Round(2)
	req.AnticipoInicial = req.AnticipoInicial.Round(2)
	if err := pricing.ValidarPrecio(req.PrecioVenta); err != nil {
		return nil, err
	}
	if req.AnticipoInicial.IsNegative() {
		return nil, apierror.Validation("el anticipo inicial no puede ser negativo")
	}

	var venta *model.Venta
	var unidad *model.UnidadInventario
	var equipo *model.Equipo

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		unidad, err = s.inventarioRepo.FindForUpdateTx(tx, inventarioID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("unidad de inventario no encontrada")
			}
			return err
		}
		if unidad.Estado == model.EstadoVendida {
			return apierror.Conflict("la unidad %s ya fue vendida", unidad.NumeroSerie)
		}

		equipo, err = s.equipoRepo.FindByIDTx(tx, unidad.EquipoID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("equipo de la unidad no encontrado")
			}
			return err
		}

		desc := pricing.CalcularDescuento(equipo.PrecioLista, req.PrecioVenta)
		autorizadoPor := model.AutorizadoAutomatico
		if pricing.RequiereAutorizacion(req.PrecioVenta, equipo.PrecioMinimo) {
			gerente, err := s.autorizador.Verificar(req.Autorizacion)
			if err != nil {
				return err
			}
			autorizadoPor = gerente
		}

		ok, err := s.inventarioRepo.MarcarVendidaTx(tx, inventarioID)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("la unidad %s ya fue vendida", unidad.NumeroSerie)
		}

		venta = &model.Venta{
			InventarioID:        unidad.ID,
			EquipoID:            equipo.ID,
			Vendedor:            strings.TrimSpace(req.Vendedor),
			ClienteNombre:       strings.TrimSpace(req.ClienteNombre),
			ClienteContacto:     req.ClienteContacto,
			ClienteRFC:          req.ClienteRFC,
			ClienteDireccion:    req.ClienteDireccion,
			ClienteEmail:        req.ClienteEmail,
			PrecioLista:         equipo.PrecioLista,
			PrecioVenta:         req.PrecioVenta,
			DescuentoMonto:      desc.Monto,
			DescuentoPorcentaje: desc.Porcentaje,
			MotivoDescuento:     req.MotivoDescuento,
			FormaPago:           req.FormaPago,
			Facturado:           req.Facturado,
			NumeroFactura:       req.NumeroFactura,
			AutorizadoPor:       autorizadoPor,
			Estado:              pricing.EstadoAnticipo,
			TotalAbonado:        decimal.Zero,
			FechaVenta:          time.Now(),
			Notas:               req.Notas,
		}
		if err := s.repo.CreateTx(tx, venta); err != nil {
			if repository.IsUniqueViolation(err) {
				return apierror.Conflict("la unidad %s ya tiene una venta registrada", unidad.NumeroSerie)
			}
			return err
		}

		if autorizadoPor != model.AutorizadoAutomatico {
			if err := s.repo.CreateAutorizacionTx(tx, &model.AutorizacionPrecio{
				VentaID:          &venta.ID,
				InventarioID:     unidad.ID,
				EquipoID:         equipo.ID,
				PrecioMinimo:     equipo.PrecioMinimo,
				PrecioAutorizado: req.PrecioVenta,
				Gerente:          autorizadoPor,
				Vendedor:         venta.Vendedor,
				Usuario:          usuario,
				Motivo:           req.MotivoDescuento,
			}); err != nil {
				return err
			}
		}

		if req.AnticipoInicial.IsPositive() {
			if err := s.repo.CreateAnticipoTx(tx, &model.Anticipo{
				VentaID:     venta.ID,
				Monto:       req.AnticipoInicial,
				Fecha:       venta.FechaVenta,
				Nota:        "Anticipo inicial",
				Comprobante: req.ComprobanteAnticipo,
			}); err != nil {
				return err
			}
		}

		anterior := unidad.Estado
		if err := s.inventarioRepo.CreateMovimientoTx(tx, &model.MovimientoInventario{
			InventarioID:   unidad.ID,
			Tipo:           model.MovimientoVenta,
			EstadoAnterior: &anterior,
			EstadoNuevo:    model.EstadoVendida,
			Usuario:        usuario,
			Notas:          "Venta a " + venta.ClienteNombre,
			ReferenciaID:   &venta.ID,
		}); err != nil {
			return err
		}

		total, estado, err := recalcularLiquidacion(tx, s.repo, venta.ID, venta.PrecioVenta)
		if err != nil {
			return err
		}
		venta.TotalAbonado = total
		venta.Estado = estado
		return nil
	})
	if err != nil {
		return nil, err
	}

	unidad.Estado = model.EstadoVendida
	venta.Unidad = unidad
	venta.Equipo = equipo

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("serie", unidad.NumeroSerie).
		Str("vendedor", venta.Vendedor).
		Str("autorizado_por", venta.AutorizadoPor).
		Str("estado", venta.Estado).
		Msg("venta registrada")

	s.notificarVenta(ctx, venta)

	return ventaToResponse(venta), nil
}

// notificarVenta queues a confirmation email. Failures are logged only.
func (s *ventaService) notificarVenta(ctx context.Context, v *model.Venta) {
	if s.notificador == nil || v.ClienteEmail == nil || *v.ClienteEmail == "" {
		return
	}
	nombre := ""
	if v.Equipo != nil {
		nombre = v.Equipo.Nombre
	}
	body := fmt.Sprintf(
		"Estimado(a) %s:\n\nGracias por su compra de %s (serie %s).\nPrecio: %s\nAbonado: %s\nSaldo: %s\n",
		v.ClienteNombre, nombre, v.Unidad.NumeroSerie,
		v.PrecioVenta.StringFixed(2), v.TotalAbonado.StringFixed(2),
		pricing.Saldo(v.TotalAbonado, v.PrecioVenta).StringFixed(2),
	)
	err := s.notificador.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      *v.ClienteEmail,
		Subject: "Confirmacion de venta " + v.Unidad.NumeroSerie,
		Body:    body,
	})
	if err != nil {
		log.Warn().Err(err).Str("venta_id", v.ID.String()).Msg("no se pudo encolar email de venta")
	}
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Deletes the sale and its anticipos, restores the unit to Disponible and
// records the reversal in the movement log.

func (s *ventaService) AnularVenta(ctx context.Context, usuario string, id uuid.UUID, motivo string) error {
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		motivo = MotivoAnulacionDefault
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("venta no encontrada")
			}
			return err
		}

		unidad, err := s.inventarioRepo.FindForUpdateTx(tx, venta.InventarioID)
		sinUnidad := repository.IsNotFound(err)
		if err != nil && !sinUnidad {
			return err
		}

		if err := s.repo.DeleteTx(tx, venta.ID); err != nil {
			return err
		}
		if sinUnidad {
			log.Warn().Str("venta_id", id.String()).Msg("venta anulada sin unidad asociada")
			return nil
		}

		if err := s.inventarioRepo.UpdateEstadoTx(tx, unidad.ID, model.EstadoDisponible, nil); err != nil {
			return err
		}
		anterior := unidad.Estado
		if err := s.inventarioRepo.CreateMovimientoTx(tx, &model.MovimientoInventario{
			InventarioID:   unidad.ID,
			Tipo:           model.MovimientoAnulacion,
			EstadoAnterior: &anterior,
			EstadoNuevo:    model.EstadoDisponible,
			Usuario:        usuario,
			Notas:          motivo,
			ReferenciaID:   &venta.ID,
		}); err != nil {
			return err
		}

		log.Info().
			Str("venta_id", venta.ID.String()).
			Str("serie", unidad.NumeroSerie).
			Str("usuario", usuario).
			Str("motivo", motivo).
			Msg("venta anulada")
		return nil
	})
}

// ── Anticipos ─────────────────────────────────────────────────────────────────

func (s *ventaService) RegistrarAnticipo(ctx context.Context, ventaID uuid.UUID, req dto.RegistrarAnticipoRequest) (*dto.LiquidacionResponse, error) {
	req.Monto = req.Monto.Round(2)
	if !req.Monto.IsPositive() {
		return nil, apierror.Validation("el monto del anticipo debe ser mayor a cero")
	}
	fecha := time.Now()
	if req.Fecha != "" {
		f, err := time.ParseInLocation(fechaLayout, req.Fecha, time.Local)
		if err != nil {
			return nil, apierror.Validation("fecha invalida, use AAAA-MM-DD")
		}
		fecha = f
	}

	var resp *dto.LiquidacionResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta, err := s.repo.FindForUpdateTx(tx, ventaID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("venta no encontrada")
			}
			return err
		}
		if err := s.repo.CreateAnticipoTx(tx, &model.Anticipo{
			VentaID:     venta.ID,
			Monto:       req.Monto,
			Fecha:       fecha,
			Nota:        req.Nota,
			Comprobante: req.Comprobante,
		}); err != nil {
			return err
		}
		total, estado, err := recalcularLiquidacion(tx, s.repo, venta.ID, venta.PrecioVenta)
		if err != nil {
			return err
		}
		resp = liquidacionResponse(venta.ID, total, venta.PrecioVenta, estado)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ventaService) EliminarAnticipo(ctx context.Context, anticipoID uuid.UUID) (*dto.LiquidacionResponse, error) {
	anticipo, err := s.repo.FindAnticipoByID(ctx, anticipoID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("anticipo no encontrado")
		}
		return nil, err
	}

	var resp *dto.LiquidacionResponse
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta, err := s.repo.FindForUpdateTx(tx, anticipo.VentaID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("venta no encontrada")
			}
			return err
		}
		if err := s.repo.DeleteAnticipoTx(tx, anticipo.ID); err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("anticipo no encontrado")
			}
			return err
		}
		total, estado, err := recalcularLiquidacion(tx, s.repo, venta.ID, venta.PrecioVenta)
		if err != nil {
			return err
		}
		resp = liquidacionResponse(venta.ID, total, venta.PrecioVenta, estado)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ventaService) ListarAnticipos(ctx context.Context, ventaID uuid.UUID) ([]dto.AnticipoResponse, error) {
	if _, err := s.repo.FindByID(ctx, ventaID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("venta no encontrada")
		}
		return nil, err
	}
	list, err := s.repo.ListAnticipos(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AnticipoResponse, len(list))
	for i := range list {
		resp[i] = anticipoToResponse(&list[i])
	}
	return resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("venta no encontrada")
		}
		return nil, err
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	for _, f := range []string{filter.Desde, filter.Hasta} {
		if f == "" {
			continue
		}
		if _, err := time.Parse(fechaLayout, f); err != nil {
			return nil, apierror.Validation("fecha invalida %q, use AAAA-MM-DD", f)
		}
	}
	if filter.Estado != "" && filter.Estado != pricing.EstadoAnticipo && filter.Estado != pricing.EstadoLiquidado {
		return nil, apierror.Validation("estado debe ser %s o %s", pricing.EstadoAnticipo, pricing.EstadoLiquidado)
	}

	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		data[i] = *ventaToResponse(&ventas[i])
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func liquidacionResponse(ventaID uuid.UUID, total, precio decimal.Decimal, estado string) *dto.LiquidacionResponse {
	return &dto.LiquidacionResponse{
		VentaID:      ventaID.String(),
		TotalAbonado: total,
		Saldo:        pricing.Saldo(total, precio),
		Estado:       estado,
	}
}

func anticipoToResponse(a *model.Anticipo) dto.AnticipoResponse {
	return dto.AnticipoResponse{
		ID:          a.ID.String(),
		VentaID:     a.VentaID.String(),
		Monto:       a.Monto,
		Fecha:       a.Fecha.Format(fechaLayout),
		Nota:        a.Nota,
		Comprobante: a.Comprobante,
	}
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:                  v.ID.String(),
		InventarioID:        v.InventarioID.String(),
		EquipoID:            v.EquipoID.String(),
		Vendedor:            v.Vendedor,
		ClienteNombre:       v.ClienteNombre,
		ClienteContacto:     v.ClienteContacto,
		ClienteRFC:          v.ClienteRFC,
		ClienteDireccion:    v.ClienteDireccion,
		ClienteEmail:        v.ClienteEmail,
		PrecioLista:         v.PrecioLista,
		PrecioVenta:         v.PrecioVenta,
		DescuentoMonto:      v.DescuentoMonto,
		DescuentoPorcentaje: v.DescuentoPorcentaje,
		MotivoDescuento:     v.MotivoDescuento,
		FormaPago:           v.FormaPago,
		Facturado:           v.Facturado,
		NumeroFactura:       v.NumeroFactura,
		AutorizadoPor:       v.AutorizadoPor,
		Estado:              v.Estado,
		TotalAbonado:        v.TotalAbonado,
		Saldo:               pricing.Saldo(v.TotalAbonado, v.PrecioVenta),
		FechaVenta:          v.FechaVenta.Format(time.RFC3339),
		Notas:               v.Notas,
		Anticipos:           make([]dto.AnticipoResponse, 0, len(v.Anticipos)),
	}
	if v.Equipo != nil {
		resp.EquipoCodigo = v.Equipo.Codigo
		resp.EquipoNombre = v.Equipo.Nombre
	}
	if v.Unidad != nil {
		resp.NumeroSerie = v.Unidad.NumeroSerie
	}
	for i := range v.Anticipos {
		resp.Anticipos = append(resp.Anticipos, anticipoToResponse(&v.Anticipos[i]))
	}
	return resp
}

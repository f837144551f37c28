package handler

import (
	"net/http"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/middleware"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Vender godoc
// @Summary      Registrar la venta de una unidad
// @Description  Marca la unidad como Vendida, calcula el descuento contra el precio de lista
// @Description  y exige autorizacion de gerente si el precio queda bajo el minimo.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la unidad"
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      403  {object} apierror.APIError "requiere_autorizacion"
// @Failure      409  {object} apierror.APIError
// @Router       /v1/inventario/{id}/vender [post]
func (h *VentasHandler) Vender(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarVenta(c.Request.Context(), middleware.Usuario(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Anular godoc
// @Summary      Anular venta
// @Description  Elimina la venta y sus anticipos y devuelve la unidad a Disponible.
// @Tags         ventas
// @Security     BearerAuth
// @Param        id     path  string true  "UUID de la venta"
// @Param        motivo query string false "Motivo opcional, default Anulacion (tambien se acepta en el cuerpo JSON)"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) Anular(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	req := dto.AnularVentaRequest{Motivo: c.Query("motivo")}
	if c.Request.ContentLength > 0 {
		if !bindAndValidate(c, &req) {
			return
		}
	} else if !validar(c, &req) {
		return
	}
	if err := h.svc.AnularVenta(c.Request.Context(), middleware.Usuario(c), id, req.Motivo); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Listar godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        vendedor query string false "Vendedor"
// @Param        estado   query string false "Anticipo | Liquidado"
// @Param        desde    query string false "YYYY-MM-DD"
// @Param        hasta    query string false "YYYY-MM-DD (inclusive)"
// @Success      200 {object} dto.VentaListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ListarAnticipos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarAnticipos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarAnticipo godoc
// @Summary      Registrar anticipo
// @Description  Recalcula total abonado, saldo y estado (Anticipo o Liquidado).
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la venta"
// @Param        body body dto.RegistrarAnticipoRequest true "Pago"
// @Success      201  {object} dto.LiquidacionResponse
// @Router       /v1/ventas/{id}/anticipos [post]
func (h *VentasHandler) RegistrarAnticipo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarAnticipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarAnticipo(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarAnticipo DELETE /v1/anticipos/:id returns the recomputed settlement.
func (h *VentasHandler) EliminarAnticipo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.EliminarAnticipo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

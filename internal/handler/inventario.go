package handler

import (
	"net/http"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/middleware"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar unidad de inventario
// @Description  Sin numero_serie se asigna el siguiente consecutivo del codigo del equipo.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearUnidadRequest true "Unidad"
// @Success      201  {object} dto.UnidadResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/inventario [post]
func (h *InventarioHandler) Crear(c *gin.Context) {
	var req dto.CrearUnidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.Usuario(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) Listar(c *gin.Context) {
	var filter dto.InventarioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary      Cambiar estado o ubicacion de una unidad
// @Description  Vendida solo se asigna registrando una venta.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la unidad"
// @Param        body body dto.CambiarEstadoRequest true "Nuevo estado"
// @Success      200  {object} dto.UnidadResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/inventario/{id}/estado [patch]
func (h *InventarioHandler) CambiarEstado(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), middleware.Usuario(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InventarioHandler) Movimientos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Movimientos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Etiqueta GET /v1/inventario/:id/etiqueta returns the printable PDF label.
func (h *InventarioHandler) Etiqueta(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pdf, nombre, err := h.svc.Etiqueta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, pdf, nombre)
}

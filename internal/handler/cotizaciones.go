package handler

import (
	"net/http"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
)

type CotizacionesHandler struct{ svc service.CotizacionService }

func NewCotizacionesHandler(svc service.CotizacionService) *CotizacionesHandler {
	return &CotizacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear cotizacion
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCotizacionRequest true "Cotizacion"
// @Success      201  {object} dto.CotizacionResponse
// @Router       /v1/cotizaciones [post]
func (h *CotizacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CotizacionesHandler) Listar(c *gin.Context) {
	var filter dto.CotizacionFilter
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

func (h *CotizacionesHandler) Obtener(c *gin.Context) {
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

func (h *CotizacionesHandler) Eliminar(c *gin.Context) {
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

func (h *CotizacionesHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pdf, nombre, err := h.svc.PDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, pdf, nombre)
}

// EnviarEmail godoc
// @Summary      Enviar cotizacion por correo
// @Description  Encola el PDF; el envio ocurre en segundo plano.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la cotizacion"
// @Param        body body dto.EnviarEmailRequest false "Destinatario opcional"
// @Success      202  {object} dto.EnvioResponse
// @Router       /v1/cotizaciones/{id}/enviar-email [post]
func (h *CotizacionesHandler) EnviarEmail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarEmailRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EnviarEmail(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

package handler

import (
	"net/http"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RequisicionesHandler struct{ svc service.RequisicionService }

func NewRequisicionesHandler(svc service.RequisicionService) *RequisicionesHandler {
	return &RequisicionesHandler{svc: svc}
}

func (h *RequisicionesHandler) Crear(c *gin.Context) {
	var req dto.CrearRequisicionRequest
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

func (h *RequisicionesHandler) Listar(c *gin.Context) {
	var filter dto.RequisicionFilter
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

func (h *RequisicionesHandler) Obtener(c *gin.Context) {
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
// @Summary      Cambiar estado de una requisicion
// @Description  Pendiente -> Enviada -> Recibida; Cancelada puede volver a Pendiente.
// @Tags         requisiciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la requisicion"
// @Param        body body dto.CambiarEstadoRequisicionRequest true "Estado"
// @Success      200  {object} dto.RequisicionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/requisiciones/{id}/estado [patch]
func (h *RequisicionesHandler) CambiarEstado(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoRequisicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RequisicionesHandler) Eliminar(c *gin.Context) {
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

// PDF GET /v1/requisiciones/:id/pdf returns the purchase order document.
func (h *RequisicionesHandler) PDF(c *gin.Context) {
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

// Enviar godoc
// @Summary      Enviar requisicion a proveedores
// @Description  Encola correo con PDF y mensaje de WhatsApp por proveedor.
// @Tags         requisiciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la requisicion"
// @Param        body body dto.EnviarRequisicionRequest false "Proveedor opcional"
// @Success      202  {object} dto.EnvioResponse
// @Router       /v1/requisiciones/{id}/enviar-email [post]
func (h *RequisicionesHandler) Enviar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarRequisicionRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Enviar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// WhatsAppURL GET /v1/requisiciones/:id/whatsapp-url[?proveedor_id=]
func (h *RequisicionesHandler) WhatsAppURL(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var proveedorID *uuid.UUID
	if q := c.Query("proveedor_id"); q != "" {
		pid, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("proveedor_id invalido"))
			return
		}
		proveedorID = &pid
	}
	resp, err := h.svc.WhatsAppURLs(c.Request.Context(), id, proveedorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/middleware"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
)

type EquiposHandler struct{ svc service.EquipoService }

func NewEquiposHandler(svc service.EquipoService) *EquiposHandler { return &EquiposHandler{svc: svc} }

// Crear godoc
// @Summary      Alta de equipo en el catalogo
// @Tags         equipos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearEquipoRequest true "Equipo"
// @Success      201  {object} dto.EquipoResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/equipos [post]
func (h *EquiposHandler) Crear(c *gin.Context) {
	var req dto.CrearEquipoRequest
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

// Listar godoc
// @Summary      Listar catalogo
// @Tags         equipos
// @Produce      json
// @Security     BearerAuth
// @Param        buscar    query string false "Codigo o nombre"
// @Param        categoria query string false "Categoria"
// @Param        page      query int    false "Pagina (default 1)"
// @Param        limit     query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.EquipoListResponse
// @Router       /v1/equipos [get]
func (h *EquiposHandler) Listar(c *gin.Context) {
	var filter dto.EquipoFilter
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

func (h *EquiposHandler) Obtener(c *gin.Context) {
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

// Actualizar godoc
// @Summary      Actualizar equipo
// @Description  Actualizacion parcial. Un cambio de precio queda en el historial.
// @Tags         equipos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del equipo"
// @Param        body body dto.ActualizarEquipoRequest true "Campos a modificar"
// @Success      200  {object} dto.EquipoResponse
// @Router       /v1/equipos/{id} [put]
func (h *EquiposHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEquipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.Usuario(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EquiposHandler) Eliminar(c *gin.Context) {
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

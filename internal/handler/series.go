package handler

import (
	"net/http"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/middleware"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SeriesHandler struct{ svc service.SerieService }

func NewSeriesHandler(svc service.SerieService) *SeriesHandler { return &SeriesHandler{svc: svc} }

// Siguiente godoc
// @Summary      Asignar el siguiente numero de serie
// @Tags         series
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Codigo del equipo"
// @Success      200 {object} dto.SerieResponse
// @Router       /v1/series/{codigo}/siguiente [post]
func (h *SeriesHandler) Siguiente(c *gin.Context) {
	resp, err := h.svc.Siguiente(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SeriesHandler) Actual(c *gin.Context) {
	resp, err := h.svc.Actual(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Liberar godoc
// @Summary      Liberar numero de serie
// @Description  Regresa el contador una posicion o lo fija en "objetivo". Solo administrador.
// @Tags         series
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Codigo del equipo"
// @Param        body   body dto.LiberarSerieRequest false "Objetivo opcional"
// @Success      200 {object} dto.SerieResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/admin/series/{codigo}/liberar [post]
func (h *SeriesHandler) Liberar(c *gin.Context) {
	var req dto.LiberarSerieRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Liberar(c.Request.Context(), c.Param("codigo"), req.Objetivo)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Warn().
		Str("codigo", resp.Codigo).
		Int("contador", resp.Contador).
		Str("usuario", middleware.Usuario(c)).
		Msg("contador de serie liberado")
	c.JSON(http.StatusOK, resp)
}

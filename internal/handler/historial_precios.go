package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HistorialPrecios godoc
// @Summary      Historial de precios de un equipo
// @Description  Cambios de precio de lista, minimo y costo, del mas reciente al mas antiguo.
// @Tags         equipos
// @Security     BearerAuth
// @Param        id    path     string  true  "UUID del equipo"
// @Param        page  query    int     false "Pagina (default 1)"
// @Param        limit query    int     false "Registros por pagina (default 50, max 200)"
// @Success      200   {object} dto.HistorialPrecioListResponse
// @Failure      404   {object} apierror.APIError
// @Router       /v1/equipos/{id}/historial-precios [get]
func (h *EquiposHandler) HistorialPrecios(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	resp, err := h.svc.HistorialPrecios(c.Request.Context(), id, queryInt(c, "page", 1), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

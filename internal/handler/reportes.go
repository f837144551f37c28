package handler

import (
	"net/http"

	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Resumen del tablero
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardResponse
// @Router       /v1/dashboard [get]
func (h *ReportesHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Vendedores(c *gin.Context) {
	resp, err := h.svc.RankingVendedores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Config GET /v1/config feeds the frontend select boxes.
func (h *ReportesHandler) Config(c *gin.Context) {
	resp, err := h.svc.Config(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ConsultaPreciosHandler serves the public price check. No authentication,
// no side effects beyond the Redis cache. The equipo service invalidates the
// cached entry whenever a price changes.
type ConsultaPreciosHandler struct {
	svc service.EquipoService
	rdb redis.Cmdable
	ttl time.Duration
}

func NewConsultaPreciosHandler(svc service.EquipoService, rdb redis.Cmdable, ttl time.Duration) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc, rdb: rdb, ttl: ttl}
}

// GetPrecio godoc
// @Summary Consulta de precio por codigo de equipo (sin autenticacion)
// @Tags precio
// @Produce json
// @Param codigo path string true "Codigo del equipo"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{codigo} [get]
func (h *ConsultaPreciosHandler) GetPrecio(c *gin.Context) {
	codigo := c.Param("codigo")
	ctx := c.Request.Context()
	cacheKey := service.PrecioCacheKey(codigo)

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ConsultaPrecioResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	resp, err := h.svc.ConsultarPrecio(ctx, codigo)
	if err != nil {
		respondError(c, err)
		return
	}

	// Populate cache, best effort.
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.WithoutCancel(ctx), cacheKey, b, h.ttl).Err()
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, resp)
}

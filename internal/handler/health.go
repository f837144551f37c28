package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/infra"
	"github.com/Josmarcito/sistema-durtron/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response. It checks DB and Redis
// connectivity and reports dead-letter backlog and circuit breaker states;
// it never exposes credentials or internals.
func Health(db *gorm.DB, rdb redis.Cmdable, breakers ...*infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		dlq := gin.H{}
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			for _, q := range []string{worker.QueueEmail, worker.QueueWhatsApp} {
				if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
					dlq[q] = n
				}
			}
		}

		cbs := gin.H{}
		for _, cb := range breakers {
			cbs[cb.Name()] = cb.State().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":               status == http.StatusOK,
			"db":               dbStatus,
			"redis":            redisStatus,
			"dlq":              dlq,
			"circuit_breakers": cbs,
		})
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"posts-api/dto"
	"posts-api/internal/logger"
	"posts-api/internal/trace"
	"posts-api/services"
)

const (
	codeValidationFailed = "validation_failed"
	codePostNotFound     = "post_not_found"
	codeInternalError    = "internal_error"

	healthTimeout = 3 * time.Second
)

// Pinger is implemented by anything whose backing store can be health checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler godoc
// @Summary      Health check
// @Description  Ping the active post store
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthDTO
// @Failure      503  {object}  dto.HealthDTO
// @Router       /health [get]
func HealthHandler(p Pinger, storage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.HealthDTO{Status: "degraded", Storage: storage, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.HealthDTO{Status: "ok", Storage: storage})
	}
}

func parsePostID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{
			Error:   codeValidationFailed,
			Message: "id must be a positive integer, got " + strconv.Quote(raw),
		})
		return 0, false
	}
	return uint(id), true
}

func abortBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: codeValidationFailed, Message: err.Error()})
}

// writeError maps service and validation errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		abortBadRequest(c, verr)
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: codePostNotFound, Message: err.Error()})
	default:
		logger.ErrorWithFields("request failed", logger.Fields{
			"path":       c.Request.URL.Path,
			"request_id": trace.RequestIDFromContext(c.Request.Context()),
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: codeInternalError})
	}
}

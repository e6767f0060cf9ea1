package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betbot/futuresbot/internal/validation"
	"github.com/betbot/futuresbot/pkg/sdk/binance"
)

// writeError maps each error bucket to a status and keeps the original
// detail (field and value, or exchange code and message) in the body.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		verr *validation.Error
		eerr *binance.ExchangeError
		terr *binance.TransportError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation",
			"field":  verr.Field,
			"value":  verr.Value,
			"reason": verr.Reason,
		})
	case errors.As(err, &eerr):
		status := http.StatusBadGateway
		if eerr.Status >= 400 && eerr.Status < 500 {
			status = eerr.Status
		}
		c.JSON(status, gin.H{
			"error":  "exchange",
			"code":   eerr.Code,
			"msg":    eerr.Message,
			"status": eerr.Status,
		})
	case errors.As(err, &terr):
		status := http.StatusBadGateway
		var nerr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{
			"error":     "transport",
			"msg":       terr.Error(),
			"retryable": true,
		})
	case errors.Is(err, binance.ErrMissingParam):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "reason": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "msg": err.Error()})
	}
}

package server

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/betbot/futuresbot/internal/trading"
	"github.com/betbot/futuresbot/pkg/sdk/binance"
)

// Trader is satisfied by *trading.Orchestrator.
type Trader interface {
	PlaceTrade(ctx context.Context, intent trading.Intent) (binance.Response, error)
	AccountInfo(ctx context.Context) (binance.Response, error)
}

// Server exposes the orchestrator over HTTP. It adds no behavior of its own:
// one POST places exactly one order.
type Server struct {
	trader Trader
	log    logrus.FieldLogger
}

func New(trader Trader, log logrus.FieldLogger) *Server {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Server{trader: trader, log: log.WithField("component", "server")}
}

const headerRequestID = "X-Request-ID"

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")
	api.POST("/orders", s.handlePlaceOrder)
	api.GET("/account", s.handleAccount)

	return r
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func (s *Server) entry(c *gin.Context) logrus.FieldLogger {
	return s.log.WithField("request_id", c.GetString("request_id"))
}

type placeOrderRequest struct {
	Symbol      string   `json:"symbol"`
	Side        string   `json:"side"`
	Type        string   `json:"type"`
	Quantity    float64  `json:"quantity"`
	Price       *float64 `json:"price"`
	TimeInForce string   `json:"timeInForce"`
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body", "detail": err.Error()})
		return
	}

	resp, err := s.trader.PlaceTrade(c.Request.Context(), trading.Intent{
		Symbol:      req.Symbol,
		Side:        req.Side,
		OrderType:   req.Type,
		Quantity:    req.Quantity,
		Price:       req.Price,
		TimeInForce: req.TimeInForce,
	})
	if err != nil {
		s.entry(c).WithError(err).Warn("place order failed")
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAccount(c *gin.Context) {
	resp, err := s.trader.AccountInfo(c.Request.Context())
	if err != nil {
		s.entry(c).WithError(err).Warn("account info failed")
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

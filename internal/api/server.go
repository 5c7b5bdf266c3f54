// Package api exposes the print facade over HTTP and WebSocket.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/command"
	"github.com/arkwaretechnologies/laundropos-print/internal/printsvc"
	"github.com/arkwaretechnologies/laundropos-print/internal/probe"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// Facade is the slice of the print service the API needs. Tests substitute a
// stub.
type Facade interface {
	Initialize(ctx context.Context) printsvc.Result
	PrintOrder(ctx context.Context, o *receipt.Order) printsvc.Result
	TestPrint(ctx context.Context) printsvc.Result
	Rescan(ctx context.Context) printsvc.Result
	Status() printsvc.Status
	Probe() []probe.Capability
	Jobs() []*printsvc.Job
	Job(id string) (*printsvc.Job, bool)
	Subscribe() (<-chan printsvc.Event, func())
}

// Server is the API server.
type Server struct {
	router   *gin.Engine
	svc      Facade
	executor *command.Executor
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates the API server over the given facade.
func NewServer(svc Facade, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	server := &Server{
		router:   router,
		svc:      svc,
		executor: command.NewExecutor(svc),
		log:      log.With(zap.String("component", "api")),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // POS clients connect from app webviews
			},
		},
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.POST("/initialize", s.handleInitialize)
	s.router.POST("/print", s.handlePrint)
	s.router.POST("/test-print", s.handleTestPrint)
	s.router.POST("/rescan", s.handleRescan)

	// Command endpoint for scripting
	s.router.POST("/command", s.handleCommand)

	s.router.GET("/status", s.handleStatus)
	s.router.GET("/probe", s.handleProbe)
	s.router.GET("/jobs", s.handleGetJobs)
	s.router.GET("/jobs/:id", s.handleGetJob)

	// WebSocket event stream
	s.router.GET("/ws", s.handleWebSocket)

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

// statusFor maps a result code to an HTTP status. Failures are still JSON
// bodies carrying the full result.
func statusFor(res printsvc.Result) int {
	switch res.Code {
	case printsvc.CodeOk:
		return 200
	case printsvc.CodeNotReady:
		return 409
	case printsvc.CodeNoBackend:
		return 503
	default:
		return 500
	}
}

func (s *Server) handleInitialize(c *gin.Context) {
	res := s.svc.Initialize(c.Request.Context())
	c.JSON(statusFor(res), res)
}

func (s *Server) handlePrint(c *gin.Context) {
	var order receipt.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if order.OrderID == "" && order.OrderNumber == "" {
		c.JSON(400, gin.H{"error": "orderId or orderNumber is required"})
		return
	}

	res := s.svc.PrintOrder(c.Request.Context(), &order)
	if !res.OK() {
		s.log.Warn("print request failed",
			zap.String("order", order.Number()),
			zap.String("code", string(res.Code)),
		)
	}
	c.JSON(statusFor(res), res)
}

func (s *Server) handleTestPrint(c *gin.Context) {
	res := s.svc.TestPrint(c.Request.Context())
	c.JSON(statusFor(res), res)
}

func (s *Server) handleRescan(c *gin.Context) {
	res := s.svc.Rescan(c.Request.Context())
	c.JSON(statusFor(res), res)
}

func (s *Server) handleCommand(c *gin.Context) {
	var req struct {
		Command string `json:"command" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "command is required"})
		return
	}

	result := s.executor.Execute(c.Request.Context(), req.Command)
	if result.Success {
		c.JSON(200, result)
	} else {
		c.JSON(400, result)
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(200, s.svc.Status())
}

func (s *Server) handleProbe(c *gin.Context) {
	caps := s.svc.Probe()
	c.JSON(200, gin.H{"capabilities": caps})
}

func (s *Server) handleGetJobs(c *gin.Context) {
	c.JSON(200, gin.H{"jobs": s.svc.Jobs()})
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, ok := s.svc.Job(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"error": "job not found"})
		return
	}
	c.JSON(200, job)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the API server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

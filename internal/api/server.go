package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atharv3903/campusnav/internal/broadcast"
	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/model"
	"github.com/atharv3903/campusnav/internal/router"
)

type Server struct {
	Engine *gin.Engine
	Router *router.Router
	Hub    *broadcast.Hub

	log       *zap.Logger
	locations model.LocationsResponse
	stats     model.GraphStats
}

func New(r *router.Router, hub *broadcast.Hub, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		Engine:    gin.New(),
		Router:    r,
		Hub:       hub,
		log:       log,
		locations: model.LocationsResponse{Locations: r.Locations().All()},
		stats:     r.Graph().Stats(),
	}
	s.Engine.Use(accessLog(log), gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Engine.GET("/healthz", s.handleHealth)
	s.Engine.GET("/locations", s.handleLocations)
	s.Engine.POST("/get_path", s.handlePath)
	s.Engine.POST("/location", s.handleLocation)
	s.Engine.GET("/ws", gin.WrapF(s.Hub.ServeWS))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"graph":   s.stats,
		"clients": s.Hub.Clients(),
	})
}

func (s *Server) handleLocations(c *gin.Context) {
	c.JSON(http.StatusOK, s.locations)
}

func (s *Server) handlePath(c *gin.Context) {
	var req model.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	res, err := s.Router.Route(req.Start, req.End)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.log.Warn("route", zap.String("start", req.Start), zap.String("end", req.End), zap.Error(err))
		}
		c.JSON(status, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.NewRouteResponse(res))
}

func (s *Server) handleLocation(c *gin.Context) {
	var u model.LocationUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: broadcast.ErrInvalidLocation.Error()})
		return
	}
	coord, ok := u.Coord()
	if !ok {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: broadcast.ErrInvalidLocation.Error()})
		return
	}

	if err := s.Hub.Publish(c.Request.Context(), coord); err != nil {
		s.log.Warn("publish location", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "location not relayed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrEmptyGraph):
		return http.StatusServiceUnavailable
	case errors.Is(err, router.ErrIdenticalEndpoints),
		errors.Is(err, router.ErrUnknownLocation),
		errors.Is(err, router.ErrNoPathFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", c.ClientIP()),
		)
	}
}

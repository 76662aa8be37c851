// Package server exposes the HTTP boundary: the tick endpoint that
// schedules an analysis cycle and the static integration descriptor.
package server

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server handles tick requests from the external scheduler.
type Server struct {
	handler model.TickHandler
	config  Config
	log     logze.Logger
	server  *servex.Server
}

// New creates a new HTTP server.
func New(cfg Config, handler model.TickHandler) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	log := logze.With("module", "server")

	srv, err := servex.NewServer(
		servex.WithReadTimeout(cfg.Timeout),
		servex.WithIdleTimeout(cfg.Timeout*2),
		servex.WithLogger(log),
		servex.WithHealthEndpoint(),
		servex.WithDefaultMetrics(),
		servex.WithCertificate(cfg.Certificate),
	)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create server")
	}

	s := &Server{
		handler: handler,
		config:  cfg,
		log:     log,
		server:  srv,
	}

	srv.HandleFunc(tickEndpoint, s.handleTick)
	srv.HandleFunc(integrationEndpoint, s.handleIntegration)

	return s, nil
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.config.EnableHTTPS {
		return s.server.StartHTTPS(s.config.Address)
	}
	return s.server.StartHTTP(s.config.Address)
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type statusResponse struct {
	Status string `json:"status"`
}

// handleTick accepts the tick event, schedules the pipeline as detached
// background work and acknowledges immediately: the 202 does not mean the
// pipeline has started, let alone finished.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	if r.Method != http.MethodPost {
		ctx.Response(http.StatusMethodNotAllowed)
		return
	}

	body, err := ctx.Read()
	if err != nil {
		ctx.BadRequest(err, "failed to read tick body")
		return
	}

	var event model.TickEvent
	if err := json.Unmarshal(body, &event); err != nil {
		ctx.BadRequest(err, "failed to parse tick payload")
		return
	}

	// Shape validation only: return_url reachability and settings
	// semantics are not checked.
	if event.ChannelID == "" || event.ReturnURL == "" {
		ctx.BadRequest(errm.New("channel_id and return_url are required"), "invalid tick payload")
		return
	}

	if err := s.handler.HandleTick(r.Context(), event); err != nil {
		ctx.InternalServerError(err, "failed to schedule pipeline")
		return
	}

	ctx.Response(http.StatusAccepted, statusResponse{Status: "accepted"})
}

// handleIntegration returns the static integration descriptor.
func (s *Server) handleIntegration(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	if r.Method != http.MethodGet {
		ctx.Response(http.StatusMethodNotAllowed)
		return
	}

	ctx.Response(http.StatusOK, buildDescriptor(baseURL(r)))
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

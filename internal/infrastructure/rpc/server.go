package rpc

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/juju/clock"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "ModelScout/internal/docs"
	"ModelScout/internal/domain"
	"ModelScout/internal/ports"
	"ModelScout/internal/tools"
)

const (
	serverName    = "modelscout"
	serverVersion = "1.0.0"
)

// ServerDeps wires the tool registry and session log into the transport.
type ServerDeps struct {
	Registry     *tools.Registry
	Sessions     ports.SessionLog
	Clock        clock.Clock
	HistoryLimit int
	Logger       *slog.Logger
}

// Server exposes the tools over JSON-RPC and a REST mirror.
type Server struct {
	registry     *tools.Registry
	sessions     ports.SessionLog
	clock        clock.Clock
	historyLimit int
	logger       *slog.Logger
}

// NewServer builds the transport.
func NewServer(deps ServerDeps) *Server {
	clk := deps.Clock
	if clk == nil {
		clk = clock.WallClock
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	historyLimit := deps.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Server{
		registry:     deps.Registry,
		sessions:     deps.Sessions,
		clock:        clk,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Routes returns the chi router serving every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(sessionScope)

	r.Get("/healthz", s.handleHealth)
	r.Post("/rpc", s.handleRPC)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tools", s.handleListTools)
		r.Post("/tools/{name}", s.handleCallTool)
		r.Get("/sessions/{id}", s.handleSessionHistory)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}

// invoke runs a tool and records the invocation in the caller's session.
func (s *Server) invoke(ctx context.Context, name string, args tools.Args) (tools.Result, error) {
	tool, err := s.registry.Resolve(name)
	if err != nil {
		return tools.Result{}, err
	}

	res, callErr := tool.Call(ctx, args)

	limit := tool.Descriptor().DefaultLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	entry := domain.SessionEntry{
		SessionID: SessionID(ctx),
		Tool:      name,
		Query:     args.Query,
		Limit:     limit,
		Response:  res.Text,
		Failed:    callErr != nil,
		CreatedAt: s.clock.Now().UTC(),
	}
	if callErr != nil {
		entry.Response = callErr.Error()
	}
	if s.sessions != nil {
		if err := s.sessions.Append(ctx, entry); err != nil {
			s.logger.Warn("session append failed", "session", entry.SessionID, "err", err)
		}
	}

	s.logger.Info("tool invoked", "tool", name, "session", entry.SessionID, "limit", limit, "failed", entry.Failed)
	return res, callErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

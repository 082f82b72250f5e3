// Package http serves a local stand-in for the remote map service. It hands out a fixed
// goal, records created entities per candidate and can inject transient failures, which
// makes it suitable for dry runs against real HTTP and for end-to-end tests.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 5 * time.Second

//go:embed openapi.yaml
var rawSpec []byte

// Spec returns the embedded OpenAPI document describing the served API.
func Spec() []byte {
	return rawSpec
}

// Server holds the goal and the entities created so far.
type Server struct {
	goal      domain.Grid
	router    routers.Router
	logger    *slog.Logger
	failEvery int

	mu      sync.Mutex
	creates int
	maps    map[string]map[domain.Coordinate]string
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithFailEvery makes every nth create request fail with 503.
func WithFailEvery(n int) Option {
	return func(s *Server) {
		s.failEvery = n
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a stand-in serving goal to every candidate.
func NewServer(goal domain.Grid, opts ...Option) (*Server, error) {
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	s := &Server{
		goal:   goal,
		router: router,
		maps:   make(map[string]map[domain.Coordinate]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s, nil
}

// Handler returns the HTTP handler exposing the map API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.validate)
		r.Get("/map/{candidateId}/goal", s.getGoal)
		r.Get("/map/{candidateId}", s.getMap)
		r.Post("/{route}", s.createEntity)
	})
	return r
}

// validate rejects requests that do not match the OpenAPI document.
func (s *Server) validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := s.router.FindRoute(r)
		if err != nil {
			status := http.StatusNotFound
			if errors.Is(err, routers.ErrMethodNotAllowed) {
				status = http.StatusMethodNotAllowed
			}
			writeError(w, status, err.Error())
			return
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			s.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getGoal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"goal": s.goal})
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"map": s.Map(chi.URLParam(r, "candidateId"))})
}

type createBody struct {
	CandidateID string `json:"candidateId"`
	Row         int    `json:"row"`
	Column      int    `json:"column"`
	Direction   string `json:"direction"`
	Color       string `json:"color"`
}

func (s *Server) createEntity(w http.ResponseWriter, r *http.Request) {
	if s.shouldFail() {
		s.logger.Info("injecting failure", "path", r.URL.Path)
		writeError(w, http.StatusServiceUnavailable, "injected failure")
		return
	}

	var body createBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	at := domain.Coordinate{Row: body.Row, Column: body.Column}
	if !s.goal.Contains(at) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("cell %s is outside the map", at))
		return
	}

	intent, err := intentFor(domain.Route(chi.URLParam(r, "route")), body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	cells, ok := s.maps[body.CandidateID]
	if !ok {
		cells = make(map[domain.Coordinate]string)
		s.maps[body.CandidateID] = cells
	}
	cells[at] = domain.Token(intent)
	s.mu.Unlock()

	s.logger.Debug("entity created", "candidate", body.CandidateID, "cell", at.String(), "token", domain.Token(intent))
	writeJSON(w, http.StatusOK, map[string]any{})
}

func intentFor(route domain.Route, body createBody) (domain.Intent, error) {
	switch route {
	case domain.RoutePolyanets:
		return domain.SimpleEntity{Route: route}, nil
	case domain.RouteComeths:
		if !domain.AttributeDirection.Accepts(body.Direction) {
			return nil, fmt.Errorf("comeths require a direction")
		}
		return domain.AttributedEntity{Route: route, Attribute: domain.AttributeDirection, Value: body.Direction}, nil
	case domain.RouteSoloons:
		if !domain.AttributeColor.Accepts(body.Color) {
			return nil, fmt.Errorf("soloons require a color")
		}
		return domain.AttributedEntity{Route: route, Attribute: domain.AttributeColor, Value: body.Color}, nil
	default:
		return nil, fmt.Errorf("unknown route %q", route)
	}
}

func (s *Server) shouldFail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	return s.failEvery > 0 && s.creates%s.failEvery == 0
}

// Map returns the candidate's current map, sized like the goal, with SPACE where nothing was created.
func (s *Server) Map(candidateID string) domain.Grid {
	grid := domain.NewGrid(s.goal.Rows(), s.goal.Columns())

	s.mu.Lock()
	defer s.mu.Unlock()
	for at, token := range s.maps[candidateID] {
		grid[at.Row][at.Column] = token
	}
	return grid
}

// Creates returns how many create requests were received, failed ones included.
func (s *Server) Creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("stand-in map service listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]any{"error": true, "reason": reason})
}

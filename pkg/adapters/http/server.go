// Package http exposes a remote.Bridge over an HTTP/JSON transport.
//
// The routes mirror the dynamic library API: keyword enumeration,
// argument and documentation lookup, invocation with a structured
// PASS/FAIL response, plus the direct function export endpoints and the
// stop control.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/remote"
)

// RunRequest is the invocation body accepted by the run endpoints.
type RunRequest struct {
	Name   string         `json:"name,omitempty"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs,omitempty"`
}

// KeywordInfo is the introspection response for a single keyword.
type KeywordInfo struct {
	Name          string   `json:"name"`
	Arguments     []string `json:"arguments"`
	Documentation string   `json:"documentation"`
}

// NewHandler builds the HTTP routing for a bridge. A non-nil gatherer adds
// a Prometheus /metrics endpoint.
func NewHandler(bridge *remote.Bridge, logger *slog.Logger, gatherer prometheus.Gatherer) http.Handler {
	s := &server{bridge: bridge, logger: logger}

	r := chi.NewRouter()
	r.Get("/health", s.health)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/keywords", s.listKeywords)
	r.Get("/keywords/{name}", s.keywordInfo)
	r.Get("/keywords/{name}/arguments", s.keywordArguments)
	r.Get("/keywords/{name}/documentation", s.keywordDocumentation)
	r.Post("/keywords/{name}/run", s.runNamedKeyword)
	r.Post("/run", s.runKeyword)

	r.Get("/functions", s.listFunctions)
	r.Post("/functions/{name}", s.callFunction)

	r.Post("/stop", s.stop)

	return enableCORS(r)
}

type server struct {
	bridge *remote.Bridge
	logger *slog.Logger
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) listKeywords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"keywords": s.bridge.GetKeywordNames()})
}

func (s *server) keywordInfo(w http.ResponseWriter, r *http.Request) {
	name := keywordParam(r)
	args, err := s.bridge.GetKeywordArguments(name)
	if err != nil {
		s.lookupError(w, name, err)
		return
	}
	doc, err := s.bridge.GetKeywordDocumentation(name)
	if err != nil {
		s.lookupError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, KeywordInfo{Name: name, Arguments: args, Documentation: doc})
}

func (s *server) keywordArguments(w http.ResponseWriter, r *http.Request) {
	name := keywordParam(r)
	args, err := s.bridge.GetKeywordArguments(name)
	if err != nil {
		s.lookupError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"arguments": args})
}

func (s *server) keywordDocumentation(w http.ResponseWriter, r *http.Request) {
	name := keywordParam(r)
	doc, err := s.bridge.GetKeywordDocumentation(name)
	if err != nil {
		s.lookupError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documentation": doc})
}

func (s *server) runNamedKeyword(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("run: invalid request body", "err", err)
		return
	}
	req.Name = keywordParam(r)
	s.dispatch(w, r.Context(), req)
}

func (s *server) runKeyword(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("run: invalid request body", "err", err)
		return
	}
	if req.Name == "" {
		http.Error(w, "Missing keyword name", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r.Context(), req)
}

// dispatch always answers 200 with a structured result; keyword failures
// are payload, not transport errors.
func (s *server) dispatch(w http.ResponseWriter, ctx context.Context, req RunRequest) {
	result := s.bridge.RunKeyword(ctx, req.Name, req.Args, req.Kwargs)
	writeJSON(w, http.StatusOK, result)
}

func (s *server) listFunctions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"functions": s.bridge.RemoteFunctionNames()})
}

func (s *server) callFunction(w http.ResponseWriter, r *http.Request) {
	name := keywordParam(r)
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("function call: invalid request body", "err", err)
		return
	}
	out, err := s.bridge.CallFunction(r.Context(), name, req.Args, req.Kwargs)
	if err != nil {
		s.lookupError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": out})
}

func (s *server) stop(w http.ResponseWriter, r *http.Request) {
	s.bridge.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopping"})
}

func (s *server) lookupError(w http.ResponseWriter, name string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrKeywordNotFound) {
		status = http.StatusNotFound
	}
	s.logger.Warn("lookup failed", "name", name, "err", err)
	http.Error(w, err.Error(), status)
}

// keywordParam extracts the keyword name path parameter. Keyword names
// contain spaces, so clients send them percent-encoded and chi hands back
// the raw segment.
func keywordParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Serve runs the handler on addr until the context is cancelled or the
// bridge is stopped, then shuts down gracefully.
func Serve(ctx context.Context, addr string, bridge *remote.Bridge, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("remote server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("remote server: %w", err)
		}
		return nil
	case <-ctx.Done():
	case <-bridge.Done():
	}

	logger.Info("shutting down remote server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("remote server shutdown: %w", err)
	}
	return nil
}

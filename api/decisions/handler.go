// Package decisions exposes the route advisor over HTTP.
package decisions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/kilianp07/evrange/core/advisor"
	"github.com/kilianp07/evrange/core/decisionlog"
	"github.com/kilianp07/evrange/core/geo"
	"github.com/kilianp07/evrange/core/model"
	"github.com/kilianp07/evrange/core/monitoring"
	"github.com/kilianp07/evrange/infra/logger"
	"github.com/kilianp07/evrange/pkg/export"
)

const (
	maxBodyBytes = 1 << 20
	defaultLimit = 100
	maxLimit     = 1000
)

// Service is the application surface used by the handlers.
type Service interface {
	Evaluate(ctx context.Context, source string, s model.TripSnapshot) (decisionlog.LogRecord, error)
	History(ctx context.Context, q decisionlog.LogQuery) ([]decisionlog.LogRecord, error)
	ETA(from, to geo.GeoPoint) (time.Duration, error)
}

// Handler serves the decision endpoints.
type Handler struct {
	svc   Service
	log   logger.Logger
	token string
}

// NewHandler creates a Handler. A nil logger discards output.
func NewHandler(svc Service, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes sets up HTTP routes. The /api/v1 routes require
// "Authorization: Bearer <token>" when the handler has a token.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(h.authenticate)
	api.HandleFunc("/decisions", h.Evaluate).Methods(http.MethodPost)
	api.HandleFunc("/decisions", h.List).Methods(http.MethodGet)
}

// NewRouter returns a router serving every endpoint with panic recovery.
// An empty token disables authentication.
func NewRouter(svc Service, log logger.Logger, token string) *mux.Router {
	h := NewHandler(svc, log)
	h.token = token
	r := mux.NewRouter()
	r.Use(h.recoverer)
	h.RegisterRoutes(r)
	return r
}

// DecisionResponse is the body returned by POST /api/v1/decisions.
type DecisionResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	model.RouteDecision
	ETA string `json:"eta,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Evaluate computes a route decision for the posted TripSnapshot.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var snap model.TripSnapshot
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	rec, err := h.svc.Evaluate(r.Context(), "api", snap)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Errorf("evaluate: %v", err)
		}
		writeError(w, status, err)
		return
	}
	resp := DecisionResponse{ID: rec.ID, Timestamp: rec.Timestamp, RouteDecision: rec.Decision}
	if eta, err := h.svc.ETA(snap.Origin, snap.Destination); err == nil {
		resp.ETA = advisor.FormatETA(eta)
	}
	writeJSON(w, http.StatusOK, resp)
}

// List returns audit log records filtered by state, since, until and limit.
// format=csv switches the body to CSV.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	recs, err := h.svc.History(r.Context(), q)
	if err != nil {
		h.log.Errorf("query decision log: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteCSV(w, recs); err != nil {
			h.log.Errorf("write csv: %v", err)
		}
		return
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", r.URL.Query().Get("format")))
		return
	}
	if recs == nil {
		recs = []decisionlog.LogRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func parseQuery(r *http.Request) (decisionlog.LogQuery, error) {
	v := r.URL.Query()
	q := decisionlog.LogQuery{Limit: defaultLimit}
	if s := v.Get("state"); s != "" {
		st, err := model.ParseDecisionState(s)
		if err != nil {
			return q, err
		}
		q.State = st
	}
	if s := v.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("since: %w", err)
		}
		q.Start = t
	}
	if s := v.Get("until"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("until: %w", err)
		}
		q.End = t
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return q, fmt.Errorf("limit must be a positive integer")
		}
		q.Limit = min(n, maxLimit)
	}
	return q, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, advisor.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, advisor.ErrNoChargingStations):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				err, ok := v.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", v)
				}
				h.log.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, err)
				monitoring.CaptureException(err, map[string]string{"component": "api", "path": r.URL.Path})
				writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	HealthHandler(w http.ResponseWriter, r *http.Request)
	StatsHandler(w http.ResponseWriter, r *http.Request)
}

type statsService interface {
	Snapshot(ctx context.Context) (entity.Stats, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type healthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}

type handlers struct {
	logger       *slog.Logger
	statsService statsService
	redisCheck   HealthCheck
}

func NewHandlers(logger *slog.Logger, statsService statsService, redisCheck HealthCheck) Handlers {
	return &handlers{
		logger:       logger.With("component", "rest"),
		statsService: statsService,
		redisCheck:   redisCheck,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// HealthHandler answers 200 while redis is reachable and 503 otherwise.
func (that *handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "HealthHandler")

	response := healthResponse{Status: "ok", Redis: "ok"}
	status := http.StatusOK

	if err := that.redisCheck(r.Context()); err != nil {
		log.Warn("redis health check failed", "error", err)

		response = healthResponse{Status: "degraded", Redis: "unavailable"}
		status = http.StatusServiceUnavailable
	}

	that.writeJSON(w, status, response)
}

func (that *handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "StatsHandler")

	stats, err := that.statsService.Snapshot(r.Context())
	if err != nil {
		log.Error("failed to get stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

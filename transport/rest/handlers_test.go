package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

var errRedisDown = errors.New("redis down")

type mockStatsService struct {
	mock.Mock
}

func (that *mockStatsService) Snapshot(ctx context.Context) (entity.Stats, error) {
	args := that.Called(ctx)
	return args.Get(0).(entity.Stats), args.Error(1)
}

func healthy(context.Context) error {
	return nil
}

func newTestRouter(stats statsService, redisCheck HealthCheck) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewHandlers(logger, stats, redisCheck))
}

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))

	return recorder
}

func TestHandlers_Ping(t *testing.T) {
	router := newTestRouter(&mockStatsService{}, healthy)

	recorder := serve(router, http.MethodGet, "/ping")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestHandlers_Health(t *testing.T) {
	t.Run("Redis reachable", func(t *testing.T) {
		router := newTestRouter(&mockStatsService{}, healthy)

		recorder := serve(router, http.MethodGet, "/health")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"ok","redis":"ok"}`, recorder.Body.String())
	})

	t.Run("Redis down", func(t *testing.T) {
		router := newTestRouter(&mockStatsService{}, func(context.Context) error { return errRedisDown })

		recorder := serve(router, http.MethodGet, "/health")

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.JSONEq(t, `{"status":"degraded","redis":"unavailable"}`, recorder.Body.String())
	})
}

func TestHandlers_Stats(t *testing.T) {
	t.Run("Returns the snapshot", func(t *testing.T) {
		// Given: a stats service with a snapshot
		stats := &mockStatsService{}
		stats.On("Snapshot", mock.Anything).Return(entity.Stats{WaitingCount: 1, ActiveRoomCount: 2, TotalPlayers: 5}, nil).Once()
		router := newTestRouter(stats, healthy)

		// When: /stats is requested
		recorder := serve(router, http.MethodGet, "/stats")

		// Then: the counters are returned as JSON
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

		var body entity.Stats
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, 1, body.WaitingCount)
		assert.Equal(t, 2, body.ActiveRoomCount)
		assert.Equal(t, 5, body.TotalPlayers)
		stats.AssertExpectations(t)
	})

	t.Run("Service failure", func(t *testing.T) {
		stats := &mockStatsService{}
		stats.On("Snapshot", mock.Anything).Return(entity.Stats{}, errRedisDown).Once()
		router := newTestRouter(stats, healthy)

		recorder := serve(router, http.MethodGet, "/stats")

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})

	t.Run("Wrong method", func(t *testing.T) {
		router := newTestRouter(&mockStatsService{}, healthy)

		recorder := serve(router, http.MethodPost, "/stats")

		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	})
}

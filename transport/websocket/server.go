package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

type gameManager interface {
	Handle(ctx context.Context, event usecase.Event) ([]usecase.Envelope, error)
}

type Server struct {
	logger      *slog.Logger
	gameManager gameManager
	upgrader    ws.Upgrader

	// dispatchMu keeps delivery in the same order the engine produced it.
	dispatchMu sync.Mutex

	connectionsMutex sync.RWMutex
	connections      map[string]*connection
}

func New(logger *slog.Logger, gameManager gameManager) *Server {
	return &Server{
		logger:      logger.With("component", "websocket"),
		gameManager: gameManager,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		connections: make(map[string]*connection),
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		that.closeAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Deliver sends engine messages to the addressed players; unknown ids are skipped.
func (that *Server) Deliver(envelopes []usecase.Envelope) {
	that.dispatchMu.Lock()
	defer that.dispatchMu.Unlock()

	that.deliver(envelopes)
}

// ConnectionCount is the number of open sockets.
func (that *Server) ConnectionCount() int {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	return len(that.connections)
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newConnection(pkg.GenerateNewSessionID(), conn)
	that.register(client)

	log.Info("WebSocket connection established", "player", client.playerID)

	go func() {
		if err := client.writePump(); err != nil {
			log.Debug("write pump stopped", "player", client.playerID, "error", err)
		}
	}()

	ctx := req.Context()
	err = client.readPump(func(data []byte) {
		that.processMessage(ctx, client.playerID, data)
	})
	if err != nil && !ws.IsCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
		log.Warn("connection closed unexpectedly", "player", client.playerID, "error", err)
	}

	that.unregister(client)
	that.dispatch(context.WithoutCancel(ctx), usecase.Event{Kind: usecase.EventDisconnect, PlayerID: client.playerID})

	log.Info("WebSocket connection closed", "player", client.playerID)
}

// processMessage handles one inbound frame; failures are reported to the sender only.
func (that *Server) processMessage(ctx context.Context, playerID string, data []byte) {
	event, err := decodeEvent(playerID, data)
	if err != nil {
		that.logger.Warn("failed to decode message", "player", playerID, "error", err)
		that.Deliver([]usecase.Envelope{that.errorEnvelope(playerID, err)})

		return
	}

	that.dispatch(ctx, event)
}

func (that *Server) dispatch(ctx context.Context, event usecase.Event) {
	that.dispatchMu.Lock()
	defer that.dispatchMu.Unlock()

	envelopes, err := that.gameManager.Handle(ctx, event)
	if err != nil {
		that.deliver([]usecase.Envelope{that.errorEnvelope(event.PlayerID, err)})
		return
	}

	that.deliver(envelopes)
}

func (that *Server) errorEnvelope(playerID string, err error) usecase.Envelope {
	return usecase.Envelope{
		To:      []string{playerID},
		Message: usecase.ErrorMessage(apperror.ClientMessage(err)),
	}
}

func (that *Server) deliver(envelopes []usecase.Envelope) {
	log := that.logger.With("method", "deliver")

	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	for _, envelope := range envelopes {
		data, err := encodeMessage(envelope.Message)
		if err != nil {
			log.Error("failed to encode message", "error", err)
			continue
		}

		for _, playerID := range envelope.To {
			client, ok := that.connections[playerID]
			if !ok {
				continue
			}

			select {
			case client.send <- data:
			default:
				log.Warn("send buffer full, message dropped", "player", playerID, "event", envelope.Message.Event)
			}
		}
	}
}

func (that *Server) register(client *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[client.playerID] = client
}

func (that *Server) unregister(client *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if current, ok := that.connections[client.playerID]; ok && current == client {
		delete(that.connections, client.playerID)
	}

	client.close()
}

func (that *Server) closeAll() {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for id, client := range that.connections {
		client.close()
		delete(that.connections, id)
	}
}

package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"markestedt/dropzip/extract"
	"markestedt/dropzip/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return localOrigin(r.Header.Get("Origin"))
	},
}

// Settings is the settings store as seen by the API
type Settings interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Save() error
}

// Submitter accepts drops for the extraction queue
type Submitter interface {
	Submit(drop extract.DropEvent) error
}

// Server is the local HTTP API. It also receives batch events and streams
// them to websocket clients.
type Server struct {
	settings Settings
	db       *storage.DB
	queue    Submitter
	port     int
	hub      *Hub
	stopHub  context.CancelFunc
}

// NewServer creates a new web server. db may be nil when history is disabled.
func NewServer(settings Settings, db *storage.DB, queue Submitter, port int) *Server {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	return &Server{
		settings: settings,
		db:       db,
		queue:    queue,
		port:     port,
		hub:      hub,
		stopHub:  cancel,
	}
}

// Close stops the websocket hub and disconnects its clients. Start calls it
// when its context ends.
func (s *Server) Close() {
	s.stopHub()
}

// Router returns the API routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Use(requireLocalOrigin)

		r.Get("/settings", s.handleGetSettings)
		r.With(middleware.AllowContentType("application/json")).Put("/settings", s.handlePutSettings)
		r.With(middleware.AllowContentType("application/json")).Post("/drop", s.handleDrop)
		r.Get("/history", s.handleGetHistory)
		r.Delete("/history/{id}", s.handleDeleteHistory)
		r.Get("/stats", s.handleStats)
	})
	r.Get("/ws", s.handleWebSocket)

	return r
}

// Start serves on the loopback interface until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		s.Close()
	}()

	slog.Info("Starting web server", "port", s.port, "url", fmt.Sprintf("http://localhost:%d", s.port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// HandleEvent streams batch progress to websocket clients
func (s *Server) HandleEvent(ev extract.Event) {
	switch ev.Type {
	case extract.FileFinished:
		s.hub.BroadcastMessage(Message{
			Type: MessageTypeProgress,
			Data: ProgressMessage{
				BatchID:   ev.BatchID,
				Completed: ev.Progress.Completed,
				Total:     ev.Progress.Total,
				Text:      ev.Progress.String(),
				File:      ev.Item.File,
				Success:   !ev.Item.Failed(),
				Error:     ev.Item.Message(),
			},
		})
	case extract.BatchFinished:
		s.hub.BroadcastMessage(Message{
			Type: MessageTypeDone,
			Data: DoneMessage{BatchID: ev.BatchID, Total: ev.Progress.Total, Failed: ev.Failed},
		})
	}
}

// HandleError streams a rejected batch to websocket clients
func (s *Server) HandleError(_ extract.DropEvent, err error) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeError,
		Data: ErrorMessage{Error: err.Error()},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	if !client.hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

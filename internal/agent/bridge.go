package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	sloghttp "github.com/samber/slog-http"

	"github.com/Veraticus/lockin/internal/blocking"
)

// DefaultBridgeAddr is the loopback address page scripts post messages to.
const DefaultBridgeAddr = "127.0.0.1:7878"

// Bridge exposes the bus and navigation handling to page scripts over
// loopback HTTP. Each request carries exactly one typed message.
type Bridge struct {
	agent  *Agent
	logger *slog.Logger
}

// NewBridge creates a bridge for agent.
func NewBridge(agent *Agent, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{agent: agent, logger: logger}
}

// Handler returns the bridge routes.
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /messages", b.handleMessage)
	mux.HandleFunc("POST /navigation", b.handleNavigation)
	mux.HandleFunc("GET /status", b.handleStatus)

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(b.logger)(handler)
}

// Serve listens on addr until ctx is cancelled.
func (b *Bridge) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           b.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		b.logger.Info("Agent bridge listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("bridge failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (b *Bridge) handleMessage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeBridgeError(w, http.StatusBadRequest, "Invalid message")
		return
	}

	msg, err := DecodeMessage(data)
	if err != nil {
		writeBridgeError(w, http.StatusBadRequest, "Invalid message")
		return
	}

	resp, err := b.agent.Bus.Dispatch(r.Context(), msg)
	if err != nil {
		b.logger.Error("Message failed", "type", msg.Type(), "error", err)
		writeBridgeError(w, http.StatusInternalServerError, "Message failed")
		return
	}
	writeBridgeJSON(w, http.StatusOK, resp)
}

func (b *Bridge) handleNavigation(w http.ResponseWriter, r *http.Request) {
	var nav blocking.Navigation
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&nav); err != nil {
		writeBridgeError(w, http.StatusBadRequest, "Invalid navigation")
		return
	}

	decision, err := b.agent.Navigate(r.Context(), nav)
	if err != nil {
		b.logger.Warn("Navigation handling failed", "url", nav.URL, "error", err)
	}
	writeBridgeJSON(w, http.StatusOK, decision)
}

type statusResponse struct {
	LastSyncAt   time.Time `json:"lastSyncAt"`
	BlockedToday int       `json:"blockedToday"`
	Linked       bool      `json:"linked"`
}

func (b *Bridge) handleStatus(w http.ResponseWriter, _ *http.Request) {
	state := b.agent.State
	writeBridgeJSON(w, http.StatusOK, statusResponse{
		Linked:       state.SyncToken() != "",
		BlockedToday: state.BlockedToday(),
		LastSyncAt:   state.LastSyncAt(),
	})
}

func writeBridgeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBridgeError(w http.ResponseWriter, status int, message string) {
	writeBridgeJSON(w, status, map[string]string{"error": message})
}


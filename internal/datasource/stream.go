package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ScoreUpdate is a single live score push from an upstream stream.
type ScoreUpdate struct {
	Sport     string `json:"sport"`
	GameID    string `json:"gameId"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Status    string `json:"status,omitempty"`
	Heartbeat bool   `json:"heartbeat,omitempty"`
}

// ScoreHandler is called for each score update received from the stream.
type ScoreHandler func(update ScoreUpdate)

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// StreamClient maintains a WebSocket connection to an upstream live score
// feed. Updates are best-effort: a dropped connection never fails the
// pipeline, it only stops score patching until reconnect.
type StreamClient struct {
	streamURL       string
	conn            *websocket.Conn
	mu              sync.RWMutex
	isConnected     bool
	handlers        []ScoreHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *log.Logger
}

// NewStreamClient creates a new live score stream client. Insecure ws://
// URLs are rewritten to wss:// once here.
func NewStreamClient(streamURL string, logger *log.Logger) *StreamClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if len(streamURL) > 5 && streamURL[:5] == "ws://" {
		streamURL = "wss://" + streamURL[5:]
	}

	return &StreamClient{
		streamURL:       streamURL,
		handlers:        make([]ScoreHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the WebSocket connection and starts the read loop.
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.Printf("Connecting to score stream: %s", s.streamURL)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to score stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	go s.readMessages()

	return nil
}

// Subscribe requests live score pushes for the given sports.
func (s *StreamClient) Subscribe(sports []string) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected to score stream")
	}
	s.mu.RUnlock()

	subMsg := map[string]interface{}{
		"op":        "subscribe",
		"sports":    sports,
		"heartbeat": true,
	}

	s.logger.Printf("Subscribing to live scores for %d sports", len(sports))
	return s.sendMessage(subMsg)
}

// AddHandler registers a score update handler
func (s *StreamClient) AddHandler(handler ScoreHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// IsConnected reports whether the stream is currently connected.
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// IsStale reports whether a connected stream has gone quiet: no message,
// heartbeats included, within threshold. A disconnected stream is never
// stale; reconnect handling owns that case.
func (s *StreamClient) IsStale(threshold time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected && time.Since(s.lastMessageTime) > threshold
}

// readMessages reads messages from the WebSocket connection
func (s *StreamClient) readMessages() {
	defer s.Close()

	for {
		var raw json.RawMessage
		if err := s.conn.ReadJSON(&raw); err != nil {
			s.logger.Printf("Error reading score stream message: %v", err)
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var update ScoreUpdate
		if err := json.Unmarshal(raw, &update); err != nil {
			s.logger.Printf("Dropping unparseable score update: %v", err)
			continue
		}

		if update.Heartbeat {
			continue
		}

		s.mu.RLock()
		handlers := make([]ScoreHandler, len(s.handlers))
		copy(handlers, s.handlers)
		s.mu.RUnlock()

		for _, handler := range handlers {
			handler(update)
		}
	}
}

// ConnectWithRetry connects with exponential backoff until the context is
// done or MaxRetries is exhausted.
func (s *StreamClient) ConnectWithRetry(ctx context.Context) error {
	backoff := s.reconnectConfig.InitialBackoff

	var lastErr error
	for attempt := 0; attempt <= s.reconnectConfig.MaxRetries; attempt++ {
		if err := s.Connect(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}

	return fmt.Errorf("score stream connect failed after %d attempts: %w", s.reconnectConfig.MaxRetries, lastErr)
}

// sendMessage writes a JSON message to the connection
func (s *StreamClient) sendMessage(msg interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("connection is nil")
	}

	return s.conn.WriteJSON(msg)
}

// Close closes the WebSocket connection
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		s.isConnected = false
		return err
	}

	return nil
}

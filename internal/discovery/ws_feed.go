package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
)

// WSFeedConfig configures WebSocket feed behavior.
type WSFeedConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// PingInterval is how often keepalive pings are sent. Must be shorter
	// than ReadTimeout or an idle connection times out between pings.
	PingInterval time.Duration
	// BufferSize bounds how many candidates are held between polls.
	BufferSize int
}

// DefaultWSFeedConfig returns default feed configuration.
func DefaultWSFeedConfig() WSFeedConfig {
	return WSFeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		BufferSize:        1024,
	}
}

// tokenCreatedEvent is the wire format of a feed notification.
type tokenCreatedEvent struct {
	Type      string `json:"type"`
	Address   string `json:"address"`
	Symbol    string `json:"symbol"`
	CreatedAt int64  `json:"created_at"`
}

// WSFeed receives token creation events over a WebSocket and buffers them for
// Poll. Candidates with malformed addresses or empty symbols are dropped at
// the wire.
type WSFeed struct {
	endpoint string
	config   WSFeedConfig
	logger   *log.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	buffer  chan domain.CandidateToken
	dropped atomic.Uint64

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWSFeed connects to the endpoint and starts receiving events.
func NewWSFeed(ctx context.Context, endpoint string, logger *log.Logger, config *WSFeedConfig) (*WSFeed, error) {
	cfg := DefaultWSFeedConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = cfg.ReadTimeout / 2
	}

	f := &WSFeed{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		buffer:   make(chan domain.CandidateToken, cfg.BufferSize),
		done:     make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(1)
	go f.readLoop()

	return f, nil
}

// Compile-time interface check.
var _ Feed = (*WSFeed)(nil)

// connect establishes the WebSocket connection and subscribes.
func (f *WSFeed) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	sub := map[string]string{"op": "subscribe", "channel": "token_created"}
	conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("send subscribe: %w", err)
	}

	// Pongs extend the read deadline so a quiet-but-healthy feed is not torn
	// down when no tokens are being created.
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
	})

	f.conn = conn

	f.wg.Add(1)
	go f.pingLoop(conn)

	return nil
}

// pingLoop sends keepalive pings on one connection. It exits when the feed
// shuts down or the connection dies; each reconnect starts a fresh pinger.
func (f *WSFeed) pingLoop(conn *websocket.Conn) {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
		}

		deadline := time.Now().Add(f.config.WriteTimeout)
		if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			return
		}
	}
}

// readLoop reads events until Close, reconnecting with backoff on failure.
func (f *WSFeed) readLoop() {
	defer f.wg.Done()

	delay := f.config.ReconnectDelay

	for {
		select {
		case <-f.done:
			return
		default:
		}

		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if conn == nil {
			if !f.reconnect(&delay) {
				return
			}
			continue
		}

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}
			f.logger.Printf("feed read error: %v", err)
			// Close the conn read this iteration; Close may have already
			// swapped f.conn to nil.
			f.connMu.Lock()
			conn.Close()
			if f.conn == conn {
				f.conn = nil
			}
			f.connMu.Unlock()
			continue
		}

		// Successful read resets the backoff.
		delay = f.config.ReconnectDelay
		f.handleMessage(msg)
	}
}

// reconnect waits out the backoff delay then dials again. Returns false when
// the feed is shutting down.
func (f *WSFeed) reconnect(delay *time.Duration) bool {
	select {
	case <-f.done:
		return false
	case <-time.After(*delay):
	}

	*delay *= 2
	if *delay > f.config.MaxReconnectDelay {
		*delay = f.config.MaxReconnectDelay
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := f.connect(ctx); err != nil {
		f.logger.Printf("feed reconnect failed: %v", err)
		return true
	}

	f.logger.Printf("feed reconnected to %s", f.endpoint)
	return true
}

// handleMessage decodes one event and buffers the candidate.
func (f *WSFeed) handleMessage(msg []byte) {
	var event tokenCreatedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		f.logger.Printf("feed: drop undecodable message: %v", err)
		return
	}
	if event.Type != "token_created" {
		return
	}
	if event.Symbol == "" || !ValidAddress(event.Address) {
		f.logger.Printf("feed: drop malformed candidate address=%q symbol=%q", event.Address, event.Symbol)
		return
	}

	candidate := domain.CandidateToken{
		Address:      event.Address,
		Symbol:       event.Symbol,
		DiscoveredAt: event.CreatedAt,
	}
	if candidate.DiscoveredAt == 0 {
		candidate.DiscoveredAt = time.Now().UnixMilli()
	}

	select {
	case f.buffer <- candidate:
	default:
		// Buffer full. Oldest entries win; the token will reappear on a
		// later feed replay if it matters.
		f.dropped.Add(1)
	}
}

// Poll drains all buffered candidates without blocking.
func (f *WSFeed) Poll(_ context.Context) ([]domain.CandidateToken, error) {
	var out []domain.CandidateToken
	for {
		select {
		case c := <-f.buffer:
			out = append(out, c)
		default:
			return out, nil
		}
	}
}

// Dropped returns how many candidates were discarded due to a full buffer.
func (f *WSFeed) Dropped() uint64 {
	return f.dropped.Load()
}

// Close stops the feed and closes the connection.
func (f *WSFeed) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(f.done)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.connMu.Unlock()

	f.wg.Wait()
	return nil
}

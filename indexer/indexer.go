package indexer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/websocket"
)

// txQuery selects transaction events; AMM events are filtered client-side so
// one subscription covers every module operation.
const txQuery = "tm.event='Tx'"

// Indexer subscribes to a node's websocket event stream and persists AMM
// swap, liquidity, and sync records.
type Indexer struct {
	cfg    *Config
	store  *Store
	logger log.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// New creates an indexer over an opened store.
func New(cfg *Config, store *Store, logger log.Logger) *Indexer {
	return &Indexer{
		cfg:    cfg,
		store:  store,
		logger: logger.With("component", "indexer"),
	}
}

// Run subscribes and consumes events until the context is canceled or
// reconnection attempts are exhausted.
func (ix *Indexer) Run(ctx context.Context) error {
	if err := ix.connect(); err != nil {
		return err
	}

	// Unblock the read loop when the context ends.
	go func() {
		<-ctx.Done()
		ix.closeConn()
	}()

	last, err := ix.store.LastIndexedHeight(ctx)
	if err != nil {
		return err
	}
	ix.logger.Info("indexer started", "node", ix.cfg.NodeWS, "last_height", last)

	for {
		conn := ix.currentConn()
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			ix.logger.Error("websocket read failed", "err", err)
			if err := ix.reconnectWithRetry(ctx); err != nil {
				return err
			}
			continue
		}

		if err := ix.process(ctx, message); err != nil {
			// A malformed frame is logged and skipped; a database failure
			// here means dropped records, so surface it loudly.
			ix.logger.Error("frame processing failed", "err", err)
		}
	}
}

// process extracts records from one frame and persists them.
func (ix *Indexer) process(ctx context.Context, message []byte) error {
	events, err := ParseFrame(message)
	if err != nil {
		return err
	}
	if events == nil || !events.HasRecords() {
		return nil
	}

	if err := ix.store.SaveTxEvents(ctx, events); err != nil {
		return err
	}

	ix.logger.Info("indexed tx",
		"height", events.Height,
		"tx_hash", events.TxHash,
		"swaps", len(events.Swaps),
		"liquidity", len(events.Liquidity),
		"syncs", len(events.Syncs),
	)
	return nil
}

// connect dials the node and subscribes to the transaction stream.
func (ix *Indexer) connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, resp, err := dialer.Dial(ix.cfg.NodeWS, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", ix.cfg.NodeWS, err)
	}
	if resp != nil {
		resp.Body.Close()
	}

	subscribe := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "subscribe",
		"id":      1,
		"params": map[string]interface{}{
			"query": txQuery,
		},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe: %w", err)
	}

	ix.mu.Lock()
	ix.conn = conn
	ix.mu.Unlock()

	ix.logger.Info("subscribed", "node", ix.cfg.NodeWS, "query", txQuery)
	return nil
}

// reconnectWithRetry re-dials with capped exponential backoff.
func (ix *Indexer) reconnectWithRetry(ctx context.Context) error {
	baseDelay := time.Second

	for attempt := 1; attempt <= ix.cfg.MaxRetries; attempt++ {
		delay := baseDelay << uint(attempt-1)
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}

		ix.logger.Info("reconnecting", "attempt", attempt, "delay", delay.String())

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		if err := ix.connect(); err != nil {
			ix.logger.Error("reconnect failed", "attempt", attempt, "err", err)
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to reconnect after %d attempts", ix.cfg.MaxRetries)
}

func (ix *Indexer) currentConn() *websocket.Conn {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.conn
}

func (ix *Indexer) closeConn() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.conn != nil {
		ix.conn.Close()
	}
}

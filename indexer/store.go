package indexer

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"cosmossdk.io/log"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaFile embed.FS

// Store persists extracted records in Postgres.
type Store struct {
	db     *sql.DB
	logger log.Logger
}

// NewStore opens the database connection and verifies it.
func NewStore(cfg *Config, logger log.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(cfg.ConnMaxLife)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, logger: logger.With("component", "indexer-store")}, nil
}

// InitSchema creates tables and indexes if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	schema, err := schemaFile.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveTxEvents writes all records of one transaction and advances the height
// watermark atomically.
func (s *Store) SaveTxEvents(ctx context.Context, events *TxEvents) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, swap := range events.Swaps {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO amm_swaps (tx_hash, height, pool_id, sender, recipient,
				amount_a_in, amount_b_in, amount_a_out, amount_b_out)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, swap.TxHash, swap.Height, swap.PoolID, swap.Sender, swap.Recipient,
			swap.AmountAIn, swap.AmountBIn, swap.AmountAOut, swap.AmountBOut); err != nil {
			return fmt.Errorf("insert swap: %w", err)
		}
	}

	for _, liq := range events.Liquidity {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO amm_liquidity_events (tx_hash, height, pool_id, direction,
				provider, amount_a, amount_b, shares, total_shares)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, liq.TxHash, liq.Height, liq.PoolID, liq.Direction,
			liq.Provider, liq.AmountA, liq.AmountB, liq.Shares, liq.TotalShares); err != nil {
			return fmt.Errorf("insert liquidity event: %w", err)
		}
	}

	for _, sync := range events.Syncs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO amm_pool_syncs (height, pool_id, reserve_a, reserve_b,
				price_a_cumulative, price_b_cumulative, timestamp_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, sync.Height, sync.PoolID, sync.ReserveA, sync.ReserveB,
			sync.PriceACumulative, sync.PriceBCumulative, sync.TimestampMs); err != nil {
			return fmt.Errorf("insert sync: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO indexer_state (key, value, updated_at)
		VALUES ('last_indexed_height', $1, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $1, updated_at = NOW()
	`, events.Height); err != nil {
		return fmt.Errorf("update watermark: %w", err)
	}

	return tx.Commit()
}

// LastIndexedHeight returns the height watermark, zero when nothing has been
// indexed yet.
func (s *Store) LastIndexedHeight(ctx context.Context) (int64, error) {
	var height int64
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM indexer_state WHERE key = 'last_indexed_height'").Scan(&height)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read watermark: %w", err)
	}
	return height, nil
}

// RecentSwaps returns the newest swaps of a pool, most recent first.
func (s *Store) RecentSwaps(ctx context.Context, poolID uint64, limit int) ([]SwapRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tx_hash, height, pool_id, sender, recipient,
			amount_a_in, amount_b_in, amount_a_out, amount_b_out
		FROM amm_swaps
		WHERE pool_id = $1
		ORDER BY height DESC, id DESC
		LIMIT $2
	`, poolID, limit)
	if err != nil {
		return nil, fmt.Errorf("query swaps: %w", err)
	}
	defer rows.Close()

	var swaps []SwapRecord
	for rows.Next() {
		var swap SwapRecord
		if err := rows.Scan(&swap.TxHash, &swap.Height, &swap.PoolID, &swap.Sender,
			&swap.Recipient, &swap.AmountAIn, &swap.AmountBIn,
			&swap.AmountAOut, &swap.AmountBOut); err != nil {
			return nil, fmt.Errorf("scan swap: %w", err)
		}
		swaps = append(swaps, swap)
	}
	return swaps, rows.Err()
}

// PoolVolume sums swap inputs per side for a pool at or above fromHeight.
func (s *Store) PoolVolume(ctx context.Context, poolID uint64, fromHeight int64) (volumeA, volumeB string, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_a_in), 0)::TEXT, COALESCE(SUM(amount_b_in), 0)::TEXT
		FROM amm_swaps
		WHERE pool_id = $1 AND height >= $2
	`, poolID, fromHeight).Scan(&volumeA, &volumeB)
	if err != nil {
		return "", "", fmt.Errorf("query volume: %w", err)
	}
	return volumeA, volumeB, nil
}

// SyncBounds returns the oldest and newest accumulator samples of a pool in
// the closed millisecond interval [fromMs, toMs]. Differencing the pair gives
// the time-weighted average price over the interval.
func (s *Store) SyncBounds(ctx context.Context, poolID uint64, fromMs, toMs int64) (first, last SyncRecord, err error) {
	scan := func(order string, dest *SyncRecord) error {
		return s.db.QueryRowContext(ctx, fmt.Sprintf(`
			SELECT height, pool_id, reserve_a, reserve_b,
				price_a_cumulative, price_b_cumulative, timestamp_ms
			FROM amm_pool_syncs
			WHERE pool_id = $1 AND timestamp_ms BETWEEN $2 AND $3
			ORDER BY timestamp_ms %s, id %s
			LIMIT 1
		`, order, order), poolID, fromMs, toMs).Scan(
			&dest.Height, &dest.PoolID, &dest.ReserveA, &dest.ReserveB,
			&dest.PriceACumulative, &dest.PriceBCumulative, &dest.TimestampMs)
	}

	if err = scan("ASC", &first); err != nil {
		return SyncRecord{}, SyncRecord{}, fmt.Errorf("query first sync: %w", err)
	}
	if err = scan("DESC", &last); err != nil {
		return SyncRecord{}, SyncRecord{}, fmt.Errorf("query last sync: %w", err)
	}
	return first, last, nil
}

// LiquidityHistory returns a provider's liquidity events, most recent first.
func (s *Store) LiquidityHistory(ctx context.Context, provider string, limit int) ([]LiquidityRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tx_hash, height, pool_id, direction, provider,
			amount_a, amount_b, shares, total_shares
		FROM amm_liquidity_events
		WHERE provider = $1
		ORDER BY height DESC, id DESC
		LIMIT $2
	`, provider, limit)
	if err != nil {
		return nil, fmt.Errorf("query liquidity history: %w", err)
	}
	defer rows.Close()

	var events []LiquidityRecord
	for rows.Next() {
		var event LiquidityRecord
		if err := rows.Scan(&event.TxHash, &event.Height, &event.PoolID, &event.Direction,
			&event.Provider, &event.AmountA, &event.AmountB,
			&event.Shares, &event.TotalShares); err != nil {
			return nil, fmt.Errorf("scan liquidity event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

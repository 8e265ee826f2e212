package indexer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/math"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// SwapRecord is one executed swap extracted from a transaction event.
type SwapRecord struct {
	TxHash     string
	Height     int64
	PoolID     uint64
	Sender     string
	Recipient  string
	AmountAIn  string
	AmountBIn  string
	AmountAOut string
	AmountBOut string
}

// LiquidityRecord is one liquidity add or remove.
type LiquidityRecord struct {
	TxHash      string
	Height      int64
	PoolID      uint64
	Direction   string
	Provider    string
	AmountA     string
	AmountB     string
	Shares      string
	TotalShares string
}

// SyncRecord is one post-change snapshot of reserves and accumulators.
type SyncRecord struct {
	Height           int64
	PoolID           uint64
	ReserveA         string
	ReserveB         string
	PriceACumulative string
	PriceBCumulative string
	TimestampMs      int64
}

// TxEvents collects the AMM records carried by one transaction.
type TxEvents struct {
	Height    int64
	TxHash    string
	Swaps     []SwapRecord
	Liquidity []LiquidityRecord
	Syncs     []SyncRecord
}

// HasRecords reports whether anything was extracted.
func (e *TxEvents) HasRecords() bool {
	return len(e.Swaps) > 0 || len(e.Liquidity) > 0 || len(e.Syncs) > 0
}

// wsFrame is the envelope of one websocket subscription message.
type wsFrame struct {
	Result struct {
		Data struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"data"`
		Events map[string][]string `json:"events"`
	} `json:"result"`
}

// txEnvelope is the Tx event payload shape.
type txEnvelope struct {
	TxResult struct {
		Height string `json:"height"`
		Result struct {
			Events []abciEvent `json:"events"`
		} `json:"result"`
	} `json:"TxResult"`
}

type abciEvent struct {
	Type       string          `json:"type"`
	Attributes []abciAttribute `json:"attributes"`
}

type abciAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseFrame extracts AMM records from one websocket frame. Frames that are
// not Tx events (subscription acks, NewBlock notifications) return nil with
// no error.
func ParseFrame(raw []byte) (*TxEvents, error) {
	var frame wsFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if frame.Result.Data.Type != "tendermint/event/Tx" {
		return nil, nil
	}

	var envelope txEnvelope
	if err := json.Unmarshal(frame.Result.Data.Value, &envelope); err != nil {
		return nil, fmt.Errorf("decode tx envelope: %w", err)
	}

	height, err := strconv.ParseInt(envelope.TxResult.Height, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse tx height %q: %w", envelope.TxResult.Height, err)
	}

	txHash := ""
	if hashes := frame.Result.Events["tx.hash"]; len(hashes) > 0 {
		txHash = hashes[0]
	}

	out := &TxEvents{Height: height, TxHash: txHash}
	for _, ev := range envelope.TxResult.Result.Events {
		attrs := attrMap(ev)

		switch ev.Type {
		case types.EventTypeSwap:
			record, err := swapFromAttrs(txHash, height, attrs)
			if err != nil {
				return nil, fmt.Errorf("swap event at height %d: %w", height, err)
			}
			out.Swaps = append(out.Swaps, record)

		case types.EventTypeAddLiquidity, types.EventTypeRemoveLiquidity:
			direction := "add"
			if ev.Type == types.EventTypeRemoveLiquidity {
				direction = "remove"
			}
			record, err := liquidityFromAttrs(txHash, height, direction, attrs)
			if err != nil {
				return nil, fmt.Errorf("%s event at height %d: %w", ev.Type, height, err)
			}
			out.Liquidity = append(out.Liquidity, record)

		case types.EventTypeSync:
			record, err := syncFromAttrs(height, attrs)
			if err != nil {
				return nil, fmt.Errorf("sync event at height %d: %w", height, err)
			}
			out.Syncs = append(out.Syncs, record)
		}
	}

	return out, nil
}

func attrMap(ev abciEvent) map[string]string {
	attrs := make(map[string]string, len(ev.Attributes))
	for _, attr := range ev.Attributes {
		attrs[attr.Key] = attr.Value
	}
	return attrs
}

func swapFromAttrs(txHash string, height int64, attrs map[string]string) (SwapRecord, error) {
	poolID, err := poolIDFromAttrs(attrs)
	if err != nil {
		return SwapRecord{}, err
	}

	record := SwapRecord{
		TxHash:    txHash,
		Height:    height,
		PoolID:    poolID,
		Sender:    attrs[types.AttributeKeySender],
		Recipient: attrs[types.AttributeKeyRecipient],
	}

	for _, field := range []struct {
		key  string
		dest *string
	}{
		{types.AttributeKeyAmountAIn, &record.AmountAIn},
		{types.AttributeKeyAmountBIn, &record.AmountBIn},
		{types.AttributeKeyAmountAOut, &record.AmountAOut},
		{types.AttributeKeyAmountBOut, &record.AmountBOut},
	} {
		value, err := intAttr(attrs, field.key)
		if err != nil {
			return SwapRecord{}, err
		}
		*field.dest = value
	}

	return record, nil
}

func liquidityFromAttrs(txHash string, height int64, direction string, attrs map[string]string) (LiquidityRecord, error) {
	poolID, err := poolIDFromAttrs(attrs)
	if err != nil {
		return LiquidityRecord{}, err
	}

	record := LiquidityRecord{
		TxHash:    txHash,
		Height:    height,
		PoolID:    poolID,
		Direction: direction,
		Provider:  attrs[types.AttributeKeyProvider],
	}

	for _, field := range []struct {
		key  string
		dest *string
	}{
		{types.AttributeKeyAmountA, &record.AmountA},
		{types.AttributeKeyAmountB, &record.AmountB},
		{types.AttributeKeyShares, &record.Shares},
		{types.AttributeKeyTotalShares, &record.TotalShares},
	} {
		value, err := intAttr(attrs, field.key)
		if err != nil {
			return LiquidityRecord{}, err
		}
		*field.dest = value
	}

	return record, nil
}

func syncFromAttrs(height int64, attrs map[string]string) (SyncRecord, error) {
	poolID, err := poolIDFromAttrs(attrs)
	if err != nil {
		return SyncRecord{}, err
	}

	timestampMs, err := strconv.ParseInt(attrs[types.AttributeKeyTimestampMs], 10, 64)
	if err != nil {
		return SyncRecord{}, fmt.Errorf("parse %s: %w", types.AttributeKeyTimestampMs, err)
	}

	record := SyncRecord{
		Height:      height,
		PoolID:      poolID,
		TimestampMs: timestampMs,
	}

	for _, field := range []struct {
		key  string
		dest *string
	}{
		{types.AttributeKeyReserveA, &record.ReserveA},
		{types.AttributeKeyReserveB, &record.ReserveB},
		{types.AttributeKeyPriceACumulative, &record.PriceACumulative},
		{types.AttributeKeyPriceBCumulative, &record.PriceBCumulative},
	} {
		value, err := intAttr(attrs, field.key)
		if err != nil {
			return SyncRecord{}, err
		}
		*field.dest = value
	}

	return record, nil
}

func poolIDFromAttrs(attrs map[string]string) (uint64, error) {
	poolID, err := strconv.ParseUint(attrs[types.AttributeKeyPoolID], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", types.AttributeKeyPoolID, attrs[types.AttributeKeyPoolID], err)
	}
	return poolID, nil
}

// intAttr validates that an attribute holds a decimal integer and returns it
// in string form, suitable for a NUMERIC column. Missing attributes read as
// zero.
func intAttr(attrs map[string]string, key string) (string, error) {
	raw, ok := attrs[key]
	if !ok || raw == "" {
		return "0", nil
	}
	if _, valid := math.NewIntFromString(raw); !valid {
		return "", fmt.Errorf("attribute %s: %q is not an integer", key, raw)
	}
	return raw, nil
}

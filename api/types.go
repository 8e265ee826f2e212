package api

import (
	"github.com/tarn-chain/tarn/x/amm/types"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries a fresh admin token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// PoolsResponse lists pools.
type PoolsResponse struct {
	Pools []types.Pool `json:"pools"`
	Count int          `json:"count"`
}

// ParamsResponse combines module parameters with the live pause flag.
type ParamsResponse struct {
	Params types.Params `json:"params"`
	Paused bool         `json:"paused"`
}

// AdminTxResponse reports a forwarded admin transaction.
type AdminTxResponse struct {
	Action string `json:"action"`
	TxHash string `json:"tx_hash"`
}

// HealthResponse is the healthz body.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}

// PoolsMessage is one websocket frame on the pool stream.
type PoolsMessage struct {
	Type      string       `json:"type"`
	Pools     []types.Pool `json:"pools"`
	Timestamp int64        `json:"timestamp"`
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tarn-chain/tarn/x/amm/keeper"
	"github.com/tarn-chain/tarn/x/amm/types"
)

const (
	testAdminUser     = "ops"
	testAdminPassword = "correct-horse-battery"
)

// stubBackend serves Backend from fixed in-memory state.
type stubBackend struct {
	pools  []types.Pool
	params types.Params
	paused bool
	twaps  map[uint64]types.TWAPRecord

	adminTx  string
	adminErr error
}

func newStubBackend() *stubBackend {
	p1 := types.NewPool(1, "uatom", "utarn")
	p1.ReserveA = math.NewInt(10000)
	p1.ReserveB = math.NewInt(10000)
	p1.TotalShares = math.NewInt(10000)
	p1.FeeShares = math.NewInt(types.MinimumLiquidity)

	p2 := types.NewPool(2, "stake", "uatom")
	p2.ReserveA = math.NewInt(500000)
	p2.ReserveB = math.NewInt(250000)
	p2.TotalShares = math.NewInt(353553)
	p2.FeeShares = math.NewInt(types.MinimumLiquidity)

	return &stubBackend{
		pools:  []types.Pool{p1, p2},
		params: types.DefaultParams(),
		twaps: map[uint64]types.TWAPRecord{
			1: {
				PoolId:           1,
				PriceACumulative: math.NewInt(123456789),
				PriceBCumulative: math.NewInt(987654321),
				TimestampMs:      1700000000000,
			},
		},
		adminTx: strings.Repeat("AB", 32),
	}
}

func (m *stubBackend) Pools(ctx context.Context) ([]types.Pool, error) {
	return m.pools, nil
}

func (m *stubBackend) Pool(ctx context.Context, poolID uint64) (types.Pool, error) {
	for _, p := range m.pools {
		if p.Id == poolID {
			return p, nil
		}
	}
	return types.Pool{}, fmt.Errorf("%w: pool %d", ErrNotFound, poolID)
}

func (m *stubBackend) PoolByDenoms(ctx context.Context, tokenX, tokenY string) (types.Pool, error) {
	tokenA, tokenB, err := normalizePair(tokenX, tokenY)
	if err != nil {
		return types.Pool{}, err
	}
	for _, p := range m.pools {
		if p.TokenA == tokenA && p.TokenB == tokenB {
			return p, nil
		}
	}
	return types.Pool{}, fmt.Errorf("%w: pair %s/%s", ErrNotFound, tokenA, tokenB)
}

func (m *stubBackend) Params(ctx context.Context) (types.Params, error) {
	return m.params, nil
}

func (m *stubBackend) Paused(ctx context.Context) (bool, error) {
	return m.paused, nil
}

func (m *stubBackend) TWAP(ctx context.Context, poolID uint64) (types.TWAPRecord, error) {
	record, ok := m.twaps[poolID]
	if !ok {
		return types.TWAPRecord{}, fmt.Errorf("%w: pool %d", ErrNotFound, poolID)
	}
	return record, nil
}

func (m *stubBackend) QuoteExactIn(ctx context.Context, tokenIn string, amountIn math.Int, tokenOut string) (Quote, error) {
	pool, err := m.PoolByDenoms(ctx, tokenIn, tokenOut)
	if err != nil {
		return Quote{}, err
	}

	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	amountOut, err := keeper.GetAmountOut(amountIn, reserveIn, reserveOut, m.params.SwapFeeBps)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return Quote{
		PoolId:    pool.Id,
		TokenIn:   tokenIn,
		AmountIn:  amountIn,
		TokenOut:  tokenOut,
		AmountOut: amountOut,
		FeeBps:    m.params.SwapFeeBps,
	}, nil
}

func (m *stubBackend) QuoteExactOut(ctx context.Context, tokenIn string, amountOut math.Int, tokenOut string) (Quote, error) {
	pool, err := m.PoolByDenoms(ctx, tokenIn, tokenOut)
	if err != nil {
		return Quote{}, err
	}

	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	amountIn, err := keeper.GetAmountIn(amountOut, reserveIn, reserveOut, m.params.SwapFeeBps)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return Quote{
		PoolId:    pool.Id,
		TokenIn:   tokenIn,
		AmountIn:  amountIn,
		TokenOut:  tokenOut,
		AmountOut: amountOut,
		FeeBps:    m.params.SwapFeeBps,
	}, nil
}

func (m *stubBackend) Pause(ctx context.Context) (string, error) {
	if m.adminErr != nil {
		return "", m.adminErr
	}
	return m.adminTx, nil
}

func (m *stubBackend) Unpause(ctx context.Context) (string, error) {
	if m.adminErr != nil {
		return "", m.adminErr
	}
	return m.adminTx, nil
}

// setupTestServer creates a gateway over the stub backend.
func setupTestServer(t *testing.T, mutate func(*Config)) (*Server, *stubBackend) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.JWTSecret = []byte("test-secret-0123456789abcdef0123")
	cfg.AdminUser = testAdminUser
	cfg.AdminPasswordHash = string(hash)
	cfg.RateLimitRPS = 1000
	cfg.RateLimitBurst = 1000
	if mutate != nil {
		mutate(cfg)
	}

	backend := newStubBackend()
	server, err := NewServer(cfg, backend, log.NewNopLogger())
	require.NoError(t, err)

	return server, backend
}

// loginToken logs in and returns a bearer token.
func loginToken(t *testing.T, server *Server) string {
	t.Helper()

	body, _ := json.Marshal(LoginRequest{Username: testAdminUser, Password: testAdminPassword})
	req, _ := http.NewRequest("POST", "/v1/admin/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	return response.Token
}

// TestHealthz tests the liveness endpoint
func TestHealthz(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, Version, response.Version)
	assert.NotZero(t, response.Timestamp)
}

// TestListPools tests the pool listing endpoint
func TestListPools(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	req, _ := http.NewRequest("GET", "/v1/pools", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response PoolsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	require.Len(t, response.Pools, 2)
	assert.Equal(t, uint64(1), response.Pools[0].Id)
	assert.Equal(t, "uatom", response.Pools[0].TokenA)
	assert.Equal(t, "utarn", response.Pools[0].TokenB)
}

// TestGetPool tests pool lookup by id
func TestGetPool(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "existing pool",
			path:           "/v1/pools/1",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown pool",
			path:           "/v1/pools/99",
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "malformed id",
			path:           "/v1/pools/abc",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var response ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedCode, response.Code)
			} else {
				var pool types.Pool
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
				assert.Equal(t, uint64(1), pool.Id)
				assert.Equal(t, math.NewInt(10000), pool.ReserveA)
			}
		})
	}
}

// TestGetPoolByDenoms tests pair lookup in both denom orders
func TestGetPoolByDenoms(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedPool   uint64
	}{
		{
			name:           "canonical order",
			query:          "token_a=uatom&token_b=utarn",
			expectedStatus: http.StatusOK,
			expectedPool:   1,
		},
		{
			name:           "reversed order",
			query:          "token_a=utarn&token_b=uatom",
			expectedStatus: http.StatusOK,
			expectedPool:   1,
		},
		{
			name:           "unknown pair",
			query:          "token_a=utarn&token_b=stake",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing parameter",
			query:          "token_a=uatom",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "identical denoms",
			query:          "token_a=uatom&token_b=uatom",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/v1/pools/by-denoms?"+tt.query, nil)
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var pool types.Pool
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
				assert.Equal(t, tt.expectedPool, pool.Id)
			}
		})
	}
}

// TestQuote tests swap pricing in both directions
func TestQuote(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		check          func(*testing.T, Quote)
	}{
		{
			name:           "exact in",
			query:          "token_in=uatom&token_out=utarn&amount_in=1000",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, q Quote) {
				// 10000/10000 reserves at 30 bps: 1000 in yields 906 out.
				assert.Equal(t, math.NewInt(906), q.AmountOut)
				assert.Equal(t, math.NewInt(1000), q.AmountIn)
				assert.Equal(t, uint64(1), q.PoolId)
				assert.Equal(t, uint64(30), q.FeeBps)
			},
		},
		{
			name:           "exact out",
			query:          "token_in=uatom&token_out=utarn&amount_out=1000",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, q Quote) {
				// Rounded up so the pool never undercollects.
				assert.Equal(t, math.NewInt(1115), q.AmountIn)
				assert.Equal(t, math.NewInt(1000), q.AmountOut)
			},
		},
		{
			name:           "both amounts supplied",
			query:          "token_in=uatom&token_out=utarn&amount_in=1&amount_out=1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "no amount supplied",
			query:          "token_in=uatom&token_out=utarn",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-integer amount",
			query:          "token_in=uatom&token_out=utarn&amount_in=1.5",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero amount",
			query:          "token_in=uatom&token_out=utarn&amount_in=0",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "output exceeds reserves",
			query:          "token_in=uatom&token_out=utarn&amount_out=10000",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown pair",
			query:          "token_in=utarn&token_out=stake&amount_in=1000",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing tokens",
			query:          "amount_in=1000",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/v1/quote?"+tt.query, nil)
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.check != nil {
				var quote Quote
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
				tt.check(t, quote)
			}
		})
	}
}

// TestQuoteRoundTrip checks that an exact-out quote is at least as expensive
// as the exact-in quote for the amount it would produce.
func TestQuoteRoundTrip(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	get := func(query string) Quote {
		req, _ := http.NewRequest("GET", "/v1/quote?"+query, nil)
		w := httptest.NewRecorder()
		server.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var q Quote
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
		return q
	}

	in := get("token_in=stake&token_out=uatom&amount_in=7777")
	back := get(fmt.Sprintf("token_in=stake&token_out=uatom&amount_out=%s", in.AmountOut))
	assert.True(t, back.AmountIn.LTE(in.AmountIn),
		"exact-out input %s exceeds original input %s", back.AmountIn, in.AmountIn)
}

// TestGetTWAP tests the cumulative price endpoint
func TestGetTWAP(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	req, _ := http.NewRequest("GET", "/v1/pools/1/twap", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var record types.TWAPRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, uint64(1), record.PoolId)
	assert.Equal(t, math.NewInt(123456789), record.PriceACumulative)
	assert.Equal(t, int64(1700000000000), record.TimestampMs)

	req, _ = http.NewRequest("GET", "/v1/pools/2/twap", nil)
	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestGetParams tests the parameter endpoint with the pause flag
func TestGetParams(t *testing.T) {
	server, backend := setupTestServer(t, nil)

	req, _ := http.NewRequest("GET", "/v1/params", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response ParamsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, uint64(30), response.Params.SwapFeeBps)
	assert.False(t, response.Paused)

	backend.paused = true
	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Paused)
}

// TestAdminLogin tests credential checking
func TestAdminLogin(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	tests := []struct {
		name           string
		payload        LoginRequest
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			payload:        LoginRequest{Username: testAdminUser, Password: testAdminPassword},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			payload:        LoginRequest{Username: testAdminUser, Password: "nope"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown user",
			payload:        LoginRequest{Username: "somebody", Password: testAdminPassword},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			payload:        LoginRequest{Username: testAdminUser},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.payload)
			req, _ := http.NewRequest("POST", "/v1/admin/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var response LoginResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.NotEmpty(t, response.Token)
				assert.Equal(t, int64(3600), response.ExpiresIn)
			}
		})
	}
}

// TestAdminLoginDisabled tests login with no credential configured
func TestAdminLoginDisabled(t *testing.T) {
	server, _ := setupTestServer(t, func(cfg *Config) {
		cfg.AdminUser = ""
		cfg.AdminPasswordHash = ""
	})

	body, _ := json.Marshal(LoginRequest{Username: testAdminUser, Password: testAdminPassword})
	req, _ := http.NewRequest("POST", "/v1/admin/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// TestAdminPause tests the protected pause endpoint
func TestAdminPause(t *testing.T) {
	server, backend := setupTestServer(t, nil)
	token := loginToken(t, server)

	tests := []struct {
		name           string
		path           string
		authorization  string
		adminErr       error
		expectedStatus int
		expectedAction string
	}{
		{
			name:           "no token",
			path:           "/v1/admin/pause",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			path:           "/v1/admin/pause",
			authorization:  "Bearer not-a-token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "pause with valid token",
			path:           "/v1/admin/pause",
			authorization:  "Bearer " + token,
			expectedStatus: http.StatusOK,
			expectedAction: "pause",
		},
		{
			name:           "unpause with valid token",
			path:           "/v1/admin/unpause",
			authorization:  "Bearer " + token,
			expectedStatus: http.StatusOK,
			expectedAction: "unpause",
		},
		{
			name:           "forwarder not configured",
			path:           "/v1/admin/pause",
			authorization:  "Bearer " + token,
			adminErr:       ErrForwardDisabled,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend.adminErr = tt.adminErr

			req, _ := http.NewRequest("POST", tt.path, nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedAction != "" {
				var response AdminTxResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedAction, response.Action)
				assert.Equal(t, backend.adminTx, response.TxHash)
			}
		})
	}
}

// TestRequestIDPropagation tests request id generation and echo
func TestRequestIDPropagation(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req, _ = http.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-me-123")
	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	assert.Equal(t, "trace-me-123", w.Header().Get("X-Request-ID"))
}

// TestRateLimit tests the per-client token bucket
func TestRateLimit(t *testing.T) {
	server, _ := setupTestServer(t, func(cfg *Config) {
		cfg.RateLimitRPS = 1
		cfg.RateLimitBurst = 1
	})

	req, _ := http.NewRequest("GET", "/healthz", nil)
	req.RemoteAddr = "10.1.2.3:55555"

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "RATE_LIMIT", response.Code)
}

// TestCORSPreflight tests the CORS wrapper around the router
func TestCORSPreflight(t *testing.T) {
	server, _ := setupTestServer(t, nil)
	handler := server.Handler()

	req, _ := http.NewRequest("OPTIONS", "/v1/pools", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	// Disallowed origins get no CORS grant.
	req, _ = http.NewRequest("OPTIONS", "/v1/pools", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// TestWebSocketPoolStream tests snapshot delivery over the websocket
func TestWebSocketPoolStream(t *testing.T) {
	server, backend := setupTestServer(t, nil)

	go server.hub.Run()
	defer server.hub.Close()

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws/pools"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	server.hub.BroadcastPools(backend.pools)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg PoolsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pools", msg.Type)
	assert.Len(t, msg.Pools, 2)
	assert.NotZero(t, msg.Timestamp)

	// A client connecting after the broadcast is greeted with the latest
	// snapshot without waiting for the next poll.
	conn2, resp2, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn2.Close()
	defer resp2.Body.Close()

	conn2.SetReadDeadline(time.Now().Add(3 * time.Second))
	var greeting PoolsMessage
	require.NoError(t, conn2.ReadJSON(&greeting))
	assert.Equal(t, "pools", greeting.Type)
	assert.Len(t, greeting.Pools, 2)
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"
)

// respondBackendError maps backend failures onto HTTP statuses.
func respondBackendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not found",
			Details: err.Error(),
			Code:    "NOT_FOUND",
		})
	case errors.Is(err, ErrBadRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Details: err.Error(),
			Code:    "BAD_REQUEST",
		})
	case errors.Is(err, ErrForwardDisabled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "admin forwarding not configured",
			Code:  "FORWARD_DISABLED",
		})
	default:
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream query failed",
			Details: err.Error(),
			Code:    "UPSTREAM_ERROR",
		})
	}
}

// handleHealthz reports gateway liveness.
func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Version:   Version,
	})
}

// handleListPools returns every pool.
func (s *Server) handleListPools(c *gin.Context) {
	pools, err := s.backend.Pools(c.Request.Context())
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, PoolsResponse{Pools: pools, Count: len(pools)})
}

// handleGetPool returns one pool by id.
func (s *Server) handleGetPool(c *gin.Context) {
	poolID, err := strconv.ParseUint(c.Param("pool_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid pool id",
			Details: err.Error(),
			Code:    "BAD_REQUEST",
		})
		return
	}

	pool, err := s.backend.Pool(c.Request.Context(), poolID)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, pool)
}

// handleGetPoolByDenoms resolves a pool by token pair, in either order.
func (s *Server) handleGetPoolByDenoms(c *gin.Context) {
	tokenA := c.Query("token_a")
	tokenB := c.Query("token_b")
	if tokenA == "" || tokenB == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "token_a and token_b query parameters are required",
			Code:  "BAD_REQUEST",
		})
		return
	}

	pool, err := s.backend.PoolByDenoms(c.Request.Context(), tokenA, tokenB)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, pool)
}

// handleQuote prices a swap without executing it. Exactly one of amount_in
// and amount_out selects the quote direction.
func (s *Server) handleQuote(c *gin.Context) {
	tokenIn := c.Query("token_in")
	tokenOut := c.Query("token_out")
	amountInStr := c.Query("amount_in")
	amountOutStr := c.Query("amount_out")

	if tokenIn == "" || tokenOut == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "token_in and token_out query parameters are required",
			Code:  "BAD_REQUEST",
		})
		return
	}

	if (amountInStr == "") == (amountOutStr == "") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "exactly one of amount_in and amount_out is required",
			Code:  "BAD_REQUEST",
		})
		return
	}

	var (
		quote Quote
		err   error
	)
	if amountInStr != "" {
		amountIn, ok := math.NewIntFromString(amountInStr)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "amount_in must be an integer",
				Code:  "BAD_REQUEST",
			})
			return
		}
		quote, err = s.backend.QuoteExactIn(c.Request.Context(), tokenIn, amountIn, tokenOut)
	} else {
		amountOut, ok := math.NewIntFromString(amountOutStr)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "amount_out must be an integer",
				Code:  "BAD_REQUEST",
			})
			return
		}
		quote, err = s.backend.QuoteExactOut(c.Request.Context(), tokenIn, amountOut, tokenOut)
	}
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// handleGetTWAP returns a pool's cumulative price sample.
func (s *Server) handleGetTWAP(c *gin.Context) {
	poolID, err := strconv.ParseUint(c.Param("pool_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid pool id",
			Details: err.Error(),
			Code:    "BAD_REQUEST",
		})
		return
	}

	record, err := s.backend.TWAP(c.Request.Context(), poolID)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// handleGetParams returns module parameters and the live pause flag.
func (s *Server) handleGetParams(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := s.backend.Params(ctx)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	paused, err := s.backend.Paused(ctx)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, ParamsResponse{Params: params, Paused: paused})
}

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarn-chain/tarn/telemetry"
)

// handleAdminLogin verifies the operator credential and issues a token.
func (s *Server) handleAdminLogin(c *gin.Context) {
	if !s.auth.Enabled() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "admin login not configured",
			Code:  "ADMIN_DISABLED",
		})
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Details: err.Error(),
			Code:    "BAD_REQUEST",
		})
		return
	}

	token, expiresIn, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.Info("admin login rejected",
				"username", req.Username,
				"client", c.ClientIP(),
			)
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error: "invalid credentials",
				Code:  "INVALID_CREDENTIALS",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to issue token",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	s.logger.Info("admin login", "username", req.Username, "client", c.ClientIP())
	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresIn: expiresIn})
}

// handleAdminPause forwards a pause transaction.
func (s *Server) handleAdminPause(c *gin.Context) {
	s.forwardAdminTx(c, "pause", s.backend.Pause)
}

// handleAdminUnpause forwards an unpause transaction.
func (s *Server) handleAdminUnpause(c *gin.Context) {
	s.forwardAdminTx(c, "unpause", s.backend.Unpause)
}

// forwardAdminTx runs one admin submission under a backend span and maps the
// result onto the response.
func (s *Server) forwardAdminTx(c *gin.Context, action string, submit func(context.Context) (string, error)) {
	ctx, span := telemetry.StartBackendSpan(c.Request.Context(), action)
	defer span.End()

	txHash, err := submit(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("admin forward failed",
			"action", action,
			"admin", c.GetString("admin_user"),
			"err", err,
		)
		respondBackendError(c, err)
		return
	}

	telemetry.SetSpanStatus(span, true, "submitted")
	s.logger.Info("admin tx forwarded",
		"action", action,
		"admin", c.GetString("admin_user"),
		"tx_hash", txHash,
	)

	c.JSON(http.StatusOK, AdminTxResponse{Action: action, TxHash: txHash})
}

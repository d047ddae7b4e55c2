// Package tokendelivery issues access tokens to API clients.
package tokendelivery

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-vlad/payment-transfer/pkg/configpkg"
	"github.com/go-vlad/payment-transfer/pkg/errorspkg"
	"github.com/go-vlad/payment-transfer/pkg/tokenpkg"
	"github.com/go-vlad/payment-transfer/pkg/web"
)

// ErrInvalidAPIKey indicates that the presented API key does not match.
var ErrInvalidAPIKey = errors.New("invalid api key")

// Handler exchanges a configured API key for a short lived access token.
type Handler struct {
	tokenMaker tokenpkg.Maker
	config     configpkg.Config
}

// NewHandler returns token handler.
func NewHandler(tm tokenpkg.Maker, config configpkg.Config) *Handler {
	return &Handler{
		tokenMaker: tm,
		config:     config,
	}
}

type request struct {
	ClientID string `json:"client_id" binding:"required,alphanum"`
	APIKey   string `json:"api_key" binding:"required"`
}

// Create handles http request to issue an access token.
func (h *Handler) Create(gctx *gin.Context) {
	l := zerolog.Ctx(gctx.Request.Context())

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.config.APIKey)) != 1 {
		l.Warn().Str("client_id", req.ClientID).Msg("token request with invalid api key")
		gctx.JSON(http.StatusUnauthorized, web.Error(ErrInvalidAPIKey))

		return
	}

	accessToken, payload, err := h.tokenMaker.CreateToken(req.ClientID, h.config.AccessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: payload.ExpiredAt.Format(time.RFC3339),
	})
}

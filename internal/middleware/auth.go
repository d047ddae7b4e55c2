// Package middleware provides gin middlewares shared by all handlers.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-vlad/payment-transfer/pkg/tokenpkg"
	"github.com/go-vlad/payment-transfer/pkg/web"
)

const (
	// AuthHeaderKey is the request header carrying the access token.
	AuthHeaderKey = "authorization"
	// AuthTypeBearer is the only supported authorization scheme.
	AuthTypeBearer = "bearer"
	// AuthPayloadKey is the gin context key holding the verified token payload.
	AuthPayloadKey = "authorization_payload"
)

var (
	// ErrAuthHeaderNotFound indicates that the authorization header is missing.
	ErrAuthHeaderNotFound = errors.New("authorization header is not provided")
	// ErrBadAuthHeaderFormat indicates that the authorization header is malformed.
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	// ErrUnsupportedAuthType indicates an authorization scheme other than bearer.
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

// AddAuthorization issues a token for the given client and sets it on the request.
func AddAuthorization(r *http.Request, tokenMaker tokenpkg.Maker, authType, clientID string, duration time.Duration) error {
	token, _, err := tokenMaker.CreateToken(clientID, duration)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, authType+" "+token)

	return nil
}

// AuthMiddleware verifies the bearer token and stores its payload in the context.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		authHeader := gctx.GetHeader(AuthHeaderKey)
		if len(authHeader) == 0 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Response{Error: ErrAuthHeaderNotFound.Error()})
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Response{Error: ErrBadAuthHeaderFormat.Error()})
			return
		}

		if strings.ToLower(fields[0]) != AuthTypeBearer {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Response{Error: ErrUnsupportedAuthType.Error()})
			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Response{Error: err.Error()})
			return
		}

		gctx.Set(AuthPayloadKey, payload)
		gctx.Next()
	}
}

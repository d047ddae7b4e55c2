// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/pkg/errorspkg"
	"github.com/go-vlad/payment-transfer/pkg/web"
)

// IdempotencyKeyHeader carries the client supplied idempotency key.
const IdempotencyKeyHeader = "Idempotency-Key"

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferResult, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type request struct {
	SourceAccountID      int64  `json:"source_account_id" binding:"required,min=1"`
	DestinationAccountID int64  `json:"destination_account_id" binding:"required,min=1"`
	Amount               string `json:"amount" binding:"required"`
	IdempotencyKey       string `json:"idempotency_key"`
}

type data struct {
	Transfer domain.TransferResult `json:"transfer"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Create handles http request to transfer money between two accounts.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = gctx.GetHeader(IdempotencyKeyHeader)
	}

	arg := domain.CreateTransferParams{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
		IdempotencyKey:       req.IdempotencyKey,
	}

	result, err := h.service.Transfer(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		var (
			notFound     *domain.AccountNotFoundError
			insufficient *domain.InsufficientFundsError
			invalid      *domain.InvalidTransferError
		)

		switch {
		case errors.As(err, &notFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case errors.As(err, &insufficient), errors.As(err, &invalid):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case errors.Is(err, domain.ErrTransferConflict),
			errors.Is(err, domain.ErrDuplicateIdempotencyKey):
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{result},
	}

	gctx.JSON(http.StatusCreated, res)
}

// Package reportdelivery manages delivery layer of account reports.
package reportdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/pkg/errorspkg"
	"github.com/go-vlad/payment-transfer/pkg/web"
)

// Service provides service layer interface needed by report delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package reportdelivery
type Service interface {
	TransactionsByCurrency(ctx context.Context, accountID int64, currency string) ([]domain.Transaction, error)
	AllTransactions(ctx context.Context, accountID int64) (map[string][]domain.Transaction, error)
	AuditsByCurrency(ctx context.Context, accountID int64, currency string) ([]domain.BalanceAudit, error)
	AllAudits(ctx context.Context, accountID int64) (map[string][]domain.BalanceAudit, error)
}

// Handler facilitates report delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns report handler.
func NewHandler(rs Service) *Handler {
	return &Handler{service: rs}
}

type uriRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type queryRequest struct {
	Currency string `form:"currency" binding:"omitempty,currency"`
}

func bindRequest(gctx *gin.Context) (uriRequest, queryRequest, bool) {
	l := zerolog.Ctx(gctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return uri, queryRequest{}, false
	}

	var query queryRequest
	if err := gctx.ShouldBindQuery(&query); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return uri, query, false
	}

	return uri, query, true
}

func writeError(gctx *gin.Context, err error) {
	var notFound *domain.AccountNotFoundError
	if errors.As(err, &notFound) {
		gctx.JSON(http.StatusNotFound, web.Error(err))
		return
	}

	gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
}

type transactionsData struct {
	AccountID    int64                           `json:"account_id"`
	Transactions map[string][]domain.Transaction `json:"transactions"`
}

// Transactions handles http request to report account transactions.
//
// Without the currency query parameter the report covers all currencies.
func (h *Handler) Transactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	uri, query, ok := bindRequest(gctx)
	if !ok {
		return
	}

	var (
		grouped map[string][]domain.Transaction
		err     error
	)

	if query.Currency != "" {
		var transactions []domain.Transaction

		transactions, err = h.service.TransactionsByCurrency(ctx, uri.ID, query.Currency)
		if err == nil {
			grouped = map[string][]domain.Transaction{query.Currency: transactions}
		}
	} else {
		grouped, err = h.service.AllTransactions(ctx, uri.ID)
	}

	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: transactionsData{
		AccountID:    uri.ID,
		Transactions: grouped,
	}})
}

type auditsData struct {
	AccountID int64                            `json:"account_id"`
	Audits    map[string][]domain.BalanceAudit `json:"audits"`
}

// Audits handles http request to report the account balance audit trail.
func (h *Handler) Audits(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	uri, query, ok := bindRequest(gctx)
	if !ok {
		return
	}

	var (
		grouped map[string][]domain.BalanceAudit
		err     error
	)

	if query.Currency != "" {
		var audits []domain.BalanceAudit

		audits, err = h.service.AuditsByCurrency(ctx, uri.ID, query.Currency)
		if err == nil {
			grouped = map[string][]domain.BalanceAudit{query.Currency: audits}
		}
	} else {
		grouped, err = h.service.AllAudits(ctx, uri.ID)
	}

	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: auditsData{
		AccountID: uri.ID,
		Audits:    grouped,
	}})
}

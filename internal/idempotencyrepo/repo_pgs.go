// Package idempotencyrepo manages repository layer of idempotency markers.
package idempotencyrepo

import (
	"context"
	"time"

	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/pkg/dbpkg"
	"github.com/go-vlad/payment-transfer/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates idempotency marker repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns idempotency RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    idempotency_keys (key_value)
VALUES
    ($1)
RETURNING created_at
`

// Create records the idempotency key marker.
func (r *RepoPGS) Create(ctx context.Context, key string) (time.Time, error) {
	l := zerolog.Ctx(ctx)

	var createdAt time.Time

	err := r.db.QueryRowContext(ctx, createQuery, key).Scan(&createdAt)
	if err != nil {
		l.Error().Err(err).Str("idempotency_key", key).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "idempotency_keys_pkey" {
				return createdAt, domain.ErrDuplicateIdempotencyKey
			}
		}

		return createdAt, errorspkg.ErrInternal
	}

	return createdAt, nil
}

const existsQuery = `
SELECT EXISTS (SELECT 1 FROM idempotency_keys WHERE key_value = $1)
`

// Exists reports whether the key marker has been recorded.
func (r *RepoPGS) Exists(ctx context.Context, key string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool

	err := r.db.QueryRowContext(ctx, existsQuery, key).Scan(&exists)
	if err != nil {
		l.Error().Err(err).Str("idempotency_key", key).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

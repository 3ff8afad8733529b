package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// BalanceRequest asks for one customer's derived balance.
type BalanceRequest struct {
	CustomerID snowflake.ID
	// IncludeAging adds the receivables aging breakdown.
	IncludeAging bool
}

// BalanceResponse carries the projection plus the optional aging breakdown.
type BalanceResponse struct {
	CustomerBalance
	Aging []AgingBucketTotal `json:"aging,omitempty"`
}

type Service interface {
	Balance(ctx context.Context, req BalanceRequest) (BalanceResponse, error)
}

var ErrInvalidCustomer = errors.New("invalid_customer")

package server

import (
	"errors"
	"net/http"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	customerdomain "github.com/bizbooks/salesledger/internal/customer/domain"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	paymentdomain "github.com/bizbooks/salesledger/internal/payment/domain"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware turns the last gin error into the shared payload.
// Handlers never format user-facing text themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var overpayment *saledomain.OverpaymentError
	if errors.As(err, &overpayment) {
		return http.StatusBadRequest, errorPayload{
			Type:    "overpayment",
			Message: "initial allocations exceed sale total",
			Details: map[string]any{"excess": overpayment.Excess},
		}
	}

	var exceeds *paymentdomain.ExceedsRemainingDueError
	if errors.As(err, &exceeds) {
		return http.StatusConflict, errorPayload{
			Type:    "exceeds_remaining_due",
			Message: "payment exceeds remaining due",
			Details: map[string]any{
				"requested":     exceeds.Requested,
				"remaining_due": exceeds.RemainingDue,
			},
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, saledomain.ErrDuplicateInvoice):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "duplicate invoice number",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		// Includes internal invariant violations (unbalanced entries):
		// those are logged as defects where they occur, never explained
		// to the caller.
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, saledomain.ErrInvalidCustomer),
		errors.Is(err, saledomain.ErrInvalidItems),
		errors.Is(err, saledomain.ErrInvalidQuantity),
		errors.Is(err, saledomain.ErrInvalidRate),
		errors.Is(err, saledomain.ErrInvalidAllocation),
		errors.Is(err, saledomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidSale),
		errors.Is(err, coadomain.ErrInvalidPaymentMethod),
		errors.Is(err, customerdomain.ErrInvalidCustomer):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, saledomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrNotFound),
		errors.Is(err, coadomain.ErrUnknownAccount),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

package server

import (
	"net/http"
	"strings"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	paymentdomain "github.com/bizbooks/salesledger/internal/payment/domain"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type recordPaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Date          string  `json:"date"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	saleID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, saledomain.ErrInvalidID)
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	date, err := parseOptionalTime(req.Date)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.RecordPaymentReceived(c.Request.Context(), paymentdomain.ReceiptRequest{
		SaleID:        saleID,
		Amount:        req.Amount,
		PaymentMethod: coadomain.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		Date:          date,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"payment":       resp.Payment,
		"journal_entry": resp.JournalEntry,
		"sale":          resp.Sale,
	}})
}

func (s *Server) ListSalePayments(c *gin.Context) {
	saleID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, saledomain.ErrInvalidID)
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListPaymentsRequest{SaleID: saleID})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

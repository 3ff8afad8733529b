package server

import (
	"net/http"
	"strings"
	"time"

	coadomain "github.com/bizbooks/salesledger/internal/coa/domain"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type saleItemRequest struct {
	ItemID      string  `json:"item_id"`
	ItemName    string  `json:"item_name"`
	Quantity    float64 `json:"quantity"`
	RatePerUnit float64 `json:"rate_per_unit"`
}

type allocationRequest struct {
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `json:"amount"`
}

type createSaleRequest struct {
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	InvoiceNumber string              `json:"invoice_number"`
	Date          string              `json:"date"`
	Items         []saleItemRequest   `json:"items"`
	Allocations   []allocationRequest `json:"allocations"`
}

func (s *Server) CreateSale(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		AbortWithError(c, saledomain.ErrInvalidCustomer)
		return
	}
	date, err := parseOptionalTime(req.Date)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	input := saledomain.CreateSaleRequest{
		CustomerID:    customerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		Date:          date,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, saledomain.SaleItemInput{
			ItemID:      strings.TrimSpace(item.ItemID),
			ItemName:    strings.TrimSpace(item.ItemName),
			Quantity:    item.Quantity,
			RatePerUnit: item.RatePerUnit,
		})
	}
	for _, alloc := range req.Allocations {
		input.InitialAllocations = append(input.InitialAllocations, saledomain.AllocationInput{
			PaymentMethod: coadomain.PaymentMethod(strings.ToLower(strings.TrimSpace(alloc.PaymentMethod))),
			Amount:        alloc.Amount,
		})
	}

	resp, err := s.saleSvc.CreateSaleWithPartialPayment(c.Request.Context(), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"sale":          resp.Sale,
		"journal_entry": resp.JournalEntry,
	}})
}

func (s *Server) GetSale(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, saledomain.ErrInvalidID)
		return
	}

	resp, err := s.saleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSales(c *gin.Context) {
	var query struct {
		CustomerID string `form:"customer_id"`
		Status     string `form:"status"`
		Limit      int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req := saledomain.ListSalesRequest{
		Status: saledomain.PaymentStatus(strings.TrimSpace(query.Status)),
		Limit:  query.Limit,
	}
	if trimmed := strings.TrimSpace(query.CustomerID); trimmed != "" {
		customerID, err := snowflake.ParseString(trimmed)
		if err != nil {
			AbortWithError(c, saledomain.ErrInvalidCustomer)
			return
		}
		req.CustomerID = customerID
	}

	resp, err := s.saleSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseOptionalTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}

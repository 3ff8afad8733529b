package server

import (
	"net/http"
	"strings"

	customerdomain "github.com/bizbooks/salesledger/internal/customer/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetCustomerBalance(c *gin.Context) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, customerdomain.ErrInvalidCustomer)
		return
	}

	includeAging := strings.EqualFold(strings.TrimSpace(c.Query("aging")), "true")

	resp, err := s.customerSvc.Balance(c.Request.Context(), customerdomain.BalanceRequest{
		CustomerID:   customerID,
		IncludeAging: includeAging,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

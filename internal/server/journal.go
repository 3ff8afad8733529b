package server

import (
	"net/http"
	"strings"

	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListJournalEntries(c *gin.Context) {
	var query struct {
		Reference string `form:"reference"`
		Limit     int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.ledgerSvc.ListEntries(c.Request.Context(), ledgerdomain.ListEntriesRequest{
		Reference: strings.TrimSpace(query.Reference),
		Limit:     query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

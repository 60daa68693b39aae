package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
)

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Status     string `form:"status"`
		LeaseID    string `form:"lease_id"`
		PropertyID string `form:"property_id"`
		TenantID   string `form:"tenant_id"`
		Period     string `form:"period"`
		DueFrom    string `form:"due_from"`
		DueTo      string `form:"due_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := invoicedomain.ListInvoiceRequest{}
	if v := strings.TrimSpace(query.Status); v != "" {
		status := invoicedomain.InvoiceStatus(v)
		if !invoicedomain.ValidStatus(status) {
			AbortWithError(c, newValidationError("status", "invalid_invoice_status", "invalid invoice status"))
			return
		}
		req.Status = &status
	}

	leaseID, err := parseOptionalID(query.LeaseID)
	if err != nil {
		AbortWithError(c, newValidationError("lease_id", "invalid_lease_id", "invalid lease_id"))
		return
	}
	req.LeaseID = leaseID

	propertyID, err := parseOptionalID(query.PropertyID)
	if err != nil {
		AbortWithError(c, newValidationError("property_id", "invalid_property_id", "invalid property_id"))
		return
	}
	req.PropertyID = propertyID

	tenantID, err := parseOptionalID(query.TenantID)
	if err != nil {
		AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "invalid tenant_id"))
		return
	}
	req.TenantID = tenantID

	if v := strings.TrimSpace(query.Period); v != "" {
		req.Period = &v
	}

	dueFrom, err := parseOptionalDate(query.DueFrom)
	if err != nil {
		AbortWithError(c, newValidationError("due_from", "invalid_due_from", "invalid due_from"))
		return
	}
	req.DueFrom = dueFrom

	dueTo, err := parseOptionalDate(query.DueTo)
	if err != nil {
		AbortWithError(c, newValidationError("due_to", "invalid_due_to", "invalid due_to"))
		return
	}
	req.DueTo = dueTo

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type generateInvoicesRequest struct {
	LeaseID     string `json:"lease_id"`
	MonthsAhead *int   `json:"months_ahead"`
}

// GenerateInvoices tops up the invoice window. With a lease_id it targets one
// lease; without, every active lease.
func (s *Server) GenerateInvoices(c *gin.Context) {
	var req generateInvoicesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	// months_ahead 0 is a valid request for just the current month, so the
	// default only applies when the field is absent.
	monthsAhead := invoicedomain.DefaultMonthsAhead
	if req.MonthsAhead != nil {
		if *req.MonthsAhead < 0 {
			AbortWithError(c, newValidationError("months_ahead", "invalid_months_ahead", "invalid months_ahead"))
			return
		}
		monthsAhead = *req.MonthsAhead
	}

	if leaseID := strings.TrimSpace(req.LeaseID); leaseID != "" {
		resp, err := s.invoiceSvc.GenerateForLease(c.Request.Context(), leaseID, monthsAhead)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	resp, err := s.invoiceSvc.GenerateForAllActiveLeases(c.Request.Context(), monthsAhead)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RefreshInvoiceStatuses(c *gin.Context) {
	resp, err := s.invoiceSvc.RefreshStatuses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type adjustPaidAmountRequest struct {
	PaidAmount *int64 `json:"paid_amount"`
}

func (s *Server) AdjustInvoicePaidAmount(c *gin.Context) {
	var req adjustPaidAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PaidAmount == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.invoiceSvc.AdjustPaidAmount(c.Request.Context(), id, *req.PaidAmount)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

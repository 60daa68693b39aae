package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
)

type createLeaseRequest struct {
	PropertyID    string  `json:"property_id"`
	TenantID      string  `json:"tenant_id"`
	StartDate     string  `json:"start_date"`
	RentAmount    int64   `json:"rent_amount"`
	DueDay        int     `json:"due_day"`
	DepositAmount int64   `json:"deposit_amount"`
	LeaseRef      *string `json:"lease_ref"`
	Notes         *string `json:"notes"`
}

func (s *Server) CreateLease(c *gin.Context) {
	var req createLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	propertyID, err := snowflake.ParseString(strings.TrimSpace(req.PropertyID))
	if err != nil {
		AbortWithError(c, newValidationError("property_id", "invalid_property_id", "invalid property_id"))
		return
	}
	tenantID, err := snowflake.ParseString(strings.TrimSpace(req.TenantID))
	if err != nil {
		AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "invalid tenant_id"))
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}

	resp, err := s.leaseSvc.Create(c.Request.Context(), leasedomain.CreateLeaseRequest{
		PropertyID:    propertyID,
		TenantID:      tenantID,
		StartDate:     startDate,
		RentAmount:    req.RentAmount,
		DueDay:        req.DueDay,
		DepositAmount: req.DepositAmount,
		LeaseRef:      req.LeaseRef,
		Notes:         req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLeases(c *gin.Context) {
	var query struct {
		Status   string `form:"status"`
		TenantID string `form:"tenant_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := leasedomain.ListLeaseRequest{}
	if v := strings.TrimSpace(query.Status); v != "" {
		status := leasedomain.LeaseStatus(v)
		req.Status = &status
	}
	tenantID, err := parseOptionalID(query.TenantID)
	if err != nil {
		AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "invalid tenant_id"))
		return
	}
	req.TenantID = tenantID

	resp, err := s.leaseSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLeaseByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.leaseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetActiveLeaseByProperty(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.leaseSvc.GetActiveByProperty(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateLeaseRequest struct {
	RentAmount    *int64  `json:"rent_amount"`
	DueDay        *int    `json:"due_day"`
	DepositAmount *int64  `json:"deposit_amount"`
	StartDate     *string `json:"start_date"`
	Notes         *string `json:"notes"`
}

func (s *Server) UpdateLease(c *gin.Context) {
	var req updateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var startDate *time.Time
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
			return
		}
		startDate = &parsed
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.leaseSvc.Update(c.Request.Context(), id, leasedomain.UpdateLeaseRequest{
		RentAmount:    req.RentAmount,
		DueDay:        req.DueDay,
		DepositAmount: req.DepositAmount,
		StartDate:     startDate,
		Notes:         req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) EndLease(c *gin.Context) {
	var req struct {
		EndDate string `json:"end_date"`
	}
	// An empty body ends the lease today.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	// Zero end date means the lease ends today.
	var at time.Time
	if endDate != nil {
		at = *endDate
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.leaseSvc.End(c.Request.Context(), id, at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLease(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.leaseSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "deleted": true}})
}

func isLeaseValidationError(err error) bool {
	switch err {
	case leasedomain.ErrInvalidRentAmount,
		leasedomain.ErrInvalidDueDay,
		leasedomain.ErrInvalidDeposit,
		leasedomain.ErrInvalidStartDate,
		leasedomain.ErrInvalidEndDate:
		return true
	default:
		return false
	}
}

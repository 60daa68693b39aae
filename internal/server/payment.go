package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	paymentdomain "github.com/nyumba/nyumba/internal/payment/domain"
)

type recordPaymentRequest struct {
	InvoiceID string  `json:"invoice_id"`
	Amount    int64   `json:"amount"`
	Method    string  `json:"method"`
	Reference *string `json:"reference"`
	PaidAt    *string `json:"paid_at"`
	Note      *string `json:"note"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil {
		AbortWithError(c, newValidationError("invoice_id", "invalid_invoice_id", "invalid invoice_id"))
		return
	}

	var paidAt *time.Time
	if req.PaidAt != nil {
		parsed, err := parseDate(*req.PaidAt)
		if err != nil {
			AbortWithError(c, newValidationError("paid_at", "invalid_paid_at", "invalid paid_at"))
			return
		}
		paidAt = &parsed
	}

	resp, err := s.paymentSvc.Record(c.Request.Context(), paymentdomain.RecordPaymentRequest{
		InvoiceID: invoiceID,
		Amount:    req.Amount,
		Method:    paymentdomain.PaymentMethod(strings.TrimSpace(req.Method)),
		Reference: req.Reference,
		PaidAt:    paidAt,
		Note:      req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		InvoiceID string `form:"invoice_id"`
		LeaseID   string `form:"lease_id"`
		Method    string `form:"method"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := paymentdomain.ListPaymentRequest{}
	invoiceID, err := parseOptionalID(query.InvoiceID)
	if err != nil {
		AbortWithError(c, newValidationError("invoice_id", "invalid_invoice_id", "invalid invoice_id"))
		return
	}
	req.InvoiceID = invoiceID

	leaseID, err := parseOptionalID(query.LeaseID)
	if err != nil {
		AbortWithError(c, newValidationError("lease_id", "invalid_lease_id", "invalid lease_id"))
		return
	}
	req.LeaseID = leaseID

	if v := strings.TrimSpace(query.Method); v != "" {
		method := paymentdomain.PaymentMethod(v)
		if !paymentdomain.ValidMethod(method) {
			AbortWithError(c, newValidationError("method", "invalid_payment_method", "invalid payment method"))
			return
		}
		req.Method = &method
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentReceipt(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	reader, err := s.paymentSvc.Receipt(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListLedgerDrift reports invoices whose paid amount disagrees with the sum
// of their payments.
func (s *Server) ListLedgerDrift(c *gin.Context) {
	resp, err := s.paymentSvc.LedgerDrift(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidMethod:
		return true
	default:
		return false
	}
}

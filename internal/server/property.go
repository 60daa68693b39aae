package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
)

type createPropertyRequest struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Address string  `json:"address"`
	Notes   *string `json:"notes"`
}

func (s *Server) CreateProperty(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.propertySvc.Create(c.Request.Context(), propertydomain.CreatePropertyRequest{
		Name:    strings.TrimSpace(req.Name),
		Type:    propertydomain.PropertyType(strings.TrimSpace(req.Type)),
		Address: strings.TrimSpace(req.Address),
		Notes:   req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProperties(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		Type   string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := propertydomain.ListPropertyRequest{}
	if v := strings.TrimSpace(query.Status); v != "" {
		status := propertydomain.PropertyStatus(v)
		req.Status = &status
	}
	if v := strings.TrimSpace(query.Type); v != "" {
		typ := propertydomain.PropertyType(v)
		req.Type = &typ
	}

	resp, err := s.propertySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPropertyByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.propertySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetPropertyStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := propertydomain.PropertyStatus(strings.TrimSpace(req.Status))
	switch status {
	case propertydomain.PropertyStatusVacant,
		propertydomain.PropertyStatusOccupied,
		propertydomain.PropertyStatusMaintenance:
	default:
		AbortWithError(c, newValidationError("status", "invalid_property_status", "invalid property status"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if err := s.propertySvc.SetStatus(c.Request.Context(), id, status); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "status": status}})
}

func isPropertyValidationError(err error) bool {
	switch err {
	case propertydomain.ErrInvalidName,
		propertydomain.ErrInvalidType:
		return true
	default:
		return false
	}
}

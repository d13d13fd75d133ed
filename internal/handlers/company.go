package handlers

import (
	"net/http"

	"interviewhub/internal/logger"
	"interviewhub/internal/services"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	base
	companies *services.CompanyService
}

func NewCompanyHandler(log *logger.Logger, details bool, companies *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		base:      newBase(log, "CompanyHandler", details),
		companies: companies,
	}
}

// List GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// Create POST /companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var in services.CompanyInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	company, err := h.companies.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Company created successfully",
		"company": company,
	})
}

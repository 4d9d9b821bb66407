package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Companies lists the bike manufacturers offered on the form.
func (h *Handlers) Companies(c *gin.Context) {
	list, err := h.Backend.Companies(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": list})
}

// CompanyModels lists the models for one company; the engine cc rides along
// so the builder can auto-fill it.
func (h *Handlers) CompanyModels(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "invalid company id", nil)
		return
	}
	list, err := h.Backend.Models(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": list})
}

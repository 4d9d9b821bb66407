package handlers

import (
	"net/http"
	"strings"

	"bikecare/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// The admin dashboard is a thin passthrough; the backend stays the system of
// record and enforces the real authorization on every call.

func (h *Handlers) AdminBookings(c *gin.Context) {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	list, err := h.Backend.AdminBookings(c.Request.Context(), status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

type adminStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) AdminUpdateBookingStatus(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}
	var req adminStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != models.StatusApproved && status != models.StatusRejected {
		RespondError(c, http.StatusBadRequest, "status must be APPROVED or REJECTED", nil)
		return
	}

	b, err := h.Backend.AdminUpdateBookingStatus(c.Request.Context(), id, status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *Handlers) AdminCompanies(c *gin.Context) {
	list, err := h.Backend.AdminCompanies(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": list})
}

func (h *Handlers) AdminCreateCompany(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		RespondError(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	company, err := h.Backend.AdminCreateCompany(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

func (h *Handlers) AdminDeleteCompany(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "invalid company id", nil)
		return
	}
	if err := h.Backend.AdminDeleteCompany(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handlers) AdminModels(c *gin.Context) {
	list, err := h.Backend.AdminModels(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": list})
}

func (h *Handlers) AdminCreateModel(c *gin.Context) {
	var req models.BikeModel
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.ModelName) == "" || req.CompanyID <= 0 || req.EngineCc <= 0 {
		RespondError(c, http.StatusBadRequest, "modelName, companyId and engineCc are required", nil)
		return
	}
	m, err := h.Backend.AdminCreateModel(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"model": m})
}

func (h *Handlers) AdminDeleteModel(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "invalid model id", nil)
		return
	}
	if err := h.Backend.AdminDeleteModel(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handlers) AdminUsers(c *gin.Context) {
	list, err := h.Backend.AdminUsers(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h *Handlers) AdminStats(c *gin.Context) {
	stats, err := h.Backend.AdminStats(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package handlers

import (
	"net/http"

	"bikecare/internal/backend"
	"bikecare/internal/customized"
	"bikecare/internal/domain/models"
	"bikecare/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type customizedRequest struct {
	BikeCompanyID   int64  `json:"bikeCompanyId"`
	BikeCompanyName string `json:"bikeCompanyName"`
	BikeModelID     int64  `json:"bikeModelId"`
	models.ServiceFlags
}

// CalculatePrice prices a selection without saving anything.
func (h *Handlers) CalculatePrice(c *gin.Context) {
	var req struct {
		BikeCompanyID int64 `json:"bikeCompanyId"`
		BikeModelID   int64 `json:"bikeModelId"`
		Cc            int   `json:"cc"`
		models.ServiceFlags
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	price, err := h.Backend.CalculatePrice(c.Request.Context(), backend.CalculateRequest{
		BikeCompanyID: req.BikeCompanyID,
		BikeModelID:   req.BikeModelID,
		Cc:            req.Cc,
		ServiceFlags:  req.ServiceFlags,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalPrice": price})
}

// SaveCustomized creates a new configuration.
func (h *Handlers) SaveCustomized(c *gin.Context) {
	h.buildAndSave(c, 0)
}

// UpdateCustomized edits an existing configuration in place.
func (h *Handlers) UpdateCustomized(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "invalid config id", nil)
		return
	}
	h.buildAndSave(c, id)
}

// buildAndSave drives the builder the same way the screen does: pick the
// bike, toggle items, let the backend price each step, then persist. The
// saved price is always a fresh backend calculation, never a client value.
func (h *Handlers) buildAndSave(c *gin.Context, editingID int64) {
	var req customizedRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	bld := customized.NewBuilder(h.Backend)
	bld.RequestID = middleware.GetRequestID(c)

	if editingID > 0 {
		existing, err := h.Backend.GetCustomized(ctx, editingID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		if err := bld.Edit(ctx, existing); err != nil {
			RespondDomainError(c, err)
			return
		}
		if req.BikeCompanyID != existing.BikeCompanyID {
			if err := bld.SelectCompany(ctx, req.BikeCompanyID, req.BikeCompanyName); err != nil {
				RespondDomainError(c, err)
				return
			}
			if err := bld.SelectModel(ctx, req.BikeModelID); err != nil {
				RespondDomainError(c, err)
				return
			}
		} else if req.BikeModelID != existing.BikeModelID {
			if err := bld.SelectModel(ctx, req.BikeModelID); err != nil {
				RespondDomainError(c, err)
				return
			}
		}
	} else {
		if err := bld.SelectCompany(ctx, req.BikeCompanyID, req.BikeCompanyName); err != nil {
			RespondDomainError(c, err)
			return
		}
		if err := bld.SelectModel(ctx, req.BikeModelID); err != nil {
			RespondDomainError(c, err)
			return
		}
	}

	current := flagMap(bld.Flags())
	for item, want := range flagMap(req.ServiceFlags) {
		if current[item] == want {
			continue
		}
		if err := bld.Toggle(ctx, item, want); err != nil {
			RespondDomainError(c, err)
			return
		}
	}

	saved, err := bld.Save(ctx)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	status := http.StatusCreated
	if editingID > 0 {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"customizedService": saved})
}

// MyCustomized lists the caller's saved configurations.
func (h *Handlers) MyCustomized(c *gin.Context) {
	list, err := h.Backend.MyCustomized(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customizedServices": list})
}

// GetCustomized returns one saved configuration.
func (h *Handlers) GetCustomized(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "invalid config id", nil)
		return
	}
	cfg, err := h.Backend.GetCustomized(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customizedService": cfg})
}

// DeleteCustomized removes a configuration; the UI sends confirm=true only
// after the user has answered the confirmation dialog.
func (h *Handlers) DeleteCustomized(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "invalid config id", nil)
		return
	}
	confirmed := c.Query("confirm") == "true"

	bld := customized.NewBuilder(h.Backend)
	bld.RequestID = middleware.GetRequestID(c)
	if err := bld.Delete(c.Request.Context(), id, confirmed); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func flagMap(f models.ServiceFlags) map[string]bool {
	return map[string]bool{
		"wash":              f.Wash,
		"oilChange":         f.OilChange,
		"chainLube":         f.ChainLube,
		"engineTuneUp":      f.EngineTuneUp,
		"breakCheck":        f.BreakCheck,
		"fullbodyPolishing": f.FullbodyPolishing,
		"generalInspection": f.GeneralInspection,
	}
}

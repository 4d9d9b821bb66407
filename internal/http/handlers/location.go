package handlers

import (
	"net/http"

	"bikecare/internal/geofence"
	"bikecare/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type confirmLocationRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

func (h *Handlers) checker(c *gin.Context) geofence.Checker {
	return geofence.Checker{Store: h.Store, RequestID: middleware.GetRequestID(c)}
}

// ConfirmLocation checks the picked coordinates against the service area and
// remembers the answer for this client.
func (h *Handlers) ConfirmLocation(c *gin.Context) {
	var req confirmLocationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	loc, err := h.checker(c).Confirm(c.Request.Context(), middleware.Owner(c),
		geofence.Point{Lat: req.Lat, Lng: req.Lng}, req.Address)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// UseDefaultLocation picks the service-area center for users who skip the map.
func (h *Handlers) UseDefaultLocation(c *gin.Context) {
	loc, err := h.checker(c).UseCenter(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// Location returns the previously confirmed location, if any.
func (h *Handlers) Location(c *gin.Context) {
	loc, ok, err := h.checker(c).Confirmed(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"confirmed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": true, "location": loc})
}

package handlers

import (
	"net/http"

	"bikecare/internal/booking"
	"bikecare/internal/docs"
	"bikecare/internal/domain"
	"bikecare/internal/gateway"
	"bikecare/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	ServiceType         string `json:"serviceType"`
	CompanyID           int64  `json:"companyId"`
	ModelID             int64  `json:"modelId"`
	AppointmentDate     string `json:"appointmentDate"`
	TimeSlot            string `json:"timeSlot"`
	FullAddress         string `json:"fullAddress"`
	Landmark            string `json:"landmark"`
	Notes               string `json:"notes"`
	CustomizedServiceID *int64 `json:"customizedServiceId"`
}

func (h *Handlers) controller(c *gin.Context) *booking.Controller {
	ctl := booking.NewController(h.Backend, h.Backend, h.Store, middleware.Owner(c), middleware.BearerToken)
	ctl.RequestID = middleware.GetRequestID(c)
	return ctl
}

// Checkout replays the form through the booking controller and, when it
// validates, opens a payment attempt. The response tells the client what to
// do next: open the checkout overlay, go log in, or finish the customized
// builder first.
func (h *Handlers) Checkout(c *gin.Context) {
	var req checkoutRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	ctl := h.controller(c)

	if req.CustomizedServiceID != nil {
		if err := ctl.AttachConfig(ctx, *req.CustomizedServiceID); err != nil {
			RespondDomainError(c, err)
			return
		}
	} else {
		if err := ctl.SelectCompany(ctx, req.CompanyID); err != nil {
			RespondDomainError(c, err)
			return
		}
		if err := ctl.SelectModel(req.ModelID); err != nil {
			RespondDomainError(c, err)
			return
		}
		if err := ctl.SetServiceType(req.ServiceType); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	ctl.SetDetails(req.AppointmentDate, req.TimeSlot, req.FullAddress, req.Landmark, req.Notes)

	out, err := ctl.Submit(ctx)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	switch out.Action {
	case booking.ActionRedirectLogin:
		c.JSON(http.StatusUnauthorized, gin.H{
			"action":     out.Action,
			"redirectTo": out.RedirectTo,
		})
	case booking.ActionRedirectBuilder:
		c.JSON(http.StatusOK, gin.H{
			"action":     out.Action,
			"redirectTo": out.RedirectTo,
		})
	case booking.ActionProceed:
		res, err := h.Orch.Begin(ctx, *out.Request)
		ctl.Finish(err)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"action":    "OPEN_CHECKOUT",
			"attemptId": res.AttemptID,
			"options":   res.Options,
			"booking":   res.Booking,
		})
	default:
		RespondError(c, http.StatusInternalServerError, "unexpected submit outcome", nil)
	}
}

type confirmRequest struct {
	AttemptID string `json:"attemptId"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	gateway.Triple
}

// ConfirmPayment closes a payment attempt with the overlay's outcome.
func (h *Handlers) ConfirmPayment(c *gin.Context) {
	var req confirmRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.AttemptID == "" {
		RespondError(c, http.StatusBadRequest, "attemptId is required", nil)
		return
	}

	outcome, err := h.Orch.Complete(c.Request.Context(), req.AttemptID, gateway.Result{
		Status: gateway.Status(req.Status),
		Triple: req.Triple,
		Reason: req.Reason,
	})
	if err != nil {
		// A charge taken without a booking must reach the user verbatim.
		if domain.IsInternal(err) {
			RespondError(c, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// MyBookings lists the caller's bookings.
func (h *Handlers) MyBookings(c *gin.Context) {
	list, err := h.Backend.MyBookings(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// RestoreDraft hands back the parked form exactly once.
func (h *Handlers) RestoreDraft(c *gin.Context) {
	ctl := h.controller(c)
	restored, err := ctl.RestoreDraft(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !restored {
		c.JSON(http.StatusOK, gin.H{"restored": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true, "form": ctl.Form()})
}

// BookingReceipt streams the PDF receipt for a paid booking (inline).
func (h *Handlers) BookingReceipt(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}

	svc := docs.ReceiptService{
		Backend:   h.Backend,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateReceipt(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

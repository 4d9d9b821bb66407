package models

import "strings"

// Service plan types offered on the booking form.
const (
	PlanUpto100CC  = "PLAN_UPTO_100CC"
	Plan100To160CC = "PLAN_100_TO_160CC"
	PlanAbove180CC = "PLAN_ABOVE_180CC"
	PickAndDrop    = "PICK_AND_DROP"
	Customized     = "CUSTOMIZED"
)

// Appointment time slots.
const (
	SlotMorning   = "MORNING"
	SlotAfternoon = "AFTERNOON"
	SlotEvening   = "EVENING"
)

// Booking status as reported by the backend.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Payment status of a booking.
const (
	PaymentUnpaid  = "UNPAID"
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

// BaseFee is the flat charge (in rupees) for every non-customized plan.
const BaseFee int64 = 99

// ServiceCity is the only city served; the doorstep fleet does not leave it.
const ServiceCity = "Pune"

// KnownServiceType reports whether s is one of the offered plan types.
func KnownServiceType(s string) bool {
	switch strings.TrimSpace(s) {
	case PlanUpto100CC, Plan100To160CC, PlanAbove180CC, PickAndDrop, Customized:
		return true
	}
	return false
}

// BookingForm mirrors the booking screen's field values. The same shape is
// persisted as the single-slot draft when the user detours to the customized
// service builder.
type BookingForm struct {
	ServiceType     string `json:"serviceType" validate:"required"`
	CompanyID       int64  `json:"companyId" validate:"required,gt=0"`
	ModelID         int64  `json:"modelId" validate:"required,gt=0"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	TimeSlot        string `json:"timeSlot" validate:"required,oneof=MORNING AFTERNOON EVENING"`
	FullAddress     string `json:"fullAddress" validate:"required"`
	Landmark        string `json:"landmark"`
	Notes           string `json:"notes"`
}

// Booking is the backend's record of a scheduled service request.
type Booking struct {
	ID                  int64  `json:"id"`
	BikeCompanyID       int64  `json:"bikeCompanyId"`
	BikeModelID         int64  `json:"bikeModelId"`
	ServiceType         string `json:"serviceType"`
	AppointmentDate     string `json:"appointmentDate"`
	TimeSlot            string `json:"timeSlot"`
	FullAddress         string `json:"fullAddress"`
	City                string `json:"city"`
	Landmark            string `json:"landmark,omitempty"`
	Notes               string `json:"notes,omitempty"`
	CustomizedServiceID *int64 `json:"customizedServiceId,omitempty"`
	Status              string `json:"status"`
	PaymentStatus       string `json:"paymentStatus"`
}

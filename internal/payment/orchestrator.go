package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bikecare/internal/backend"
	"bikecare/internal/booking"
	"bikecare/internal/domain"
	"bikecare/internal/domain/models"
	"bikecare/internal/gateway"
	"bikecare/internal/utils"

	"github.com/google/uuid"
)

// Flow selects which side of the book/pay ordering tradeoff this deployment
// accepts. Book-first can leave a PENDING/UNPAID booking behind when the
// user abandons checkout; pay-first can capture a charge and then fail to
// create the booking. Exactly one of the two hazards applies per attempt;
// the steps never run concurrently.
type Flow string

const (
	FlowBookFirst Flow = "book_first"
	FlowPayFirst  Flow = "pay_first"
)

// Checkout display fields for the hosted overlay.
const (
	checkoutName        = "Dr VehicleCare"
	checkoutDescription = "Bike Service Payment"
)

const attemptTTL = 30 * time.Minute

// Backend is the slice of the remote API the orchestrator drives.
type Backend interface {
	CreateBooking(ctx context.Context, req backend.CreateBookingRequest) (models.Booking, error)
	VerifyPayment(ctx context.Context, req backend.VerifyRequest) error
	CreateOrder(ctx context.Context, bookingID *int64, amount int64) (models.PaymentOrder, error)
}

// Notifier is told about paid bookings; best-effort only.
type Notifier interface {
	BookingPaid(ctx context.Context, b models.Booking, amount int64)
}

// Attempt is one payment attempt in flight between Begin and Complete.
type Attempt struct {
	ID        string
	Flow      Flow
	Booking   *models.Booking // nil until created (pay-first)
	Request   booking.SubmitRequest
	Order     models.PaymentOrder
	CreatedAt time.Time
}

// BeginResult carries what the client needs to open the checkout overlay.
type BeginResult struct {
	AttemptID string          `json:"attemptId"`
	Options   gateway.Options `json:"options"`
	Booking   *models.Booking `json:"booking,omitempty"`
}

// OutcomeKind discriminates the terminal results of Complete.
type OutcomeKind string

const (
	OutcomeSucceeded    OutcomeKind = "SUCCEEDED"
	OutcomeCancelled    OutcomeKind = "CANCELLED"
	OutcomeFailed       OutcomeKind = "FAILED"
	OutcomeVerifyFailed OutcomeKind = "VERIFY_FAILED"
)

// Outcome is the user-facing result of one attempt. Each kind carries its
// own message; verification failure is deliberately distinct from a payment
// failure because the charge may have gone through.
type Outcome struct {
	Kind       OutcomeKind     `json:"kind"`
	Message    string          `json:"message"`
	Booking    *models.Booking `json:"booking,omitempty"`
	RedirectTo string          `json:"redirectTo,omitempty"`
}

// Orchestrator sequences booking creation, order creation, the checkout
// overlay, and server-side verification.
type Orchestrator struct {
	Backend   Backend
	Checkout  gateway.Checkout
	Notifier  Notifier
	Flow      Flow
	RequestID string

	mu       sync.Mutex
	attempts map[string]*Attempt
}

func NewOrchestrator(be Backend, co gateway.Checkout, flow Flow) *Orchestrator {
	if flow != FlowPayFirst {
		flow = FlowBookFirst
	}
	return &Orchestrator{
		Backend:  be,
		Checkout: co,
		Flow:     flow,
		attempts: map[string]*Attempt{},
	}
}

// Begin runs the pre-checkout half of the sequence. The order amount is
// taken verbatim from the submit request, which computed it exactly once;
// Begin refuses to continue if the gateway echoes back a different amount.
func (o *Orchestrator) Begin(ctx context.Context, req booking.SubmitRequest) (BeginResult, error) {
	if !o.Checkout.Ready(ctx) {
		return BeginResult{}, domain.GatewayError{
			Stage: "init",
			Msg:   "checkout is unavailable right now, please try again",
		}
	}

	if req.Form.ServiceType == models.Customized && req.CustomizedID == nil {
		// The controller redirects this case before it ever gets here.
		return BeginResult{}, domain.ValidationError{Msg: "customized booking without a service configuration"}
	}

	attempt := &Attempt{
		ID:        uuid.NewString(),
		Flow:      o.Flow,
		Request:   req,
		CreatedAt: time.Now(),
	}

	var orderBookingID *int64
	if o.Flow == FlowBookFirst {
		b, err := o.Backend.CreateBooking(ctx, bookingPayload(req))
		if err != nil {
			return BeginResult{}, err
		}
		attempt.Booking = &b
		orderBookingID = &b.ID
		utils.LogEvent(o.RequestID, "payment", "begin",
			fmt.Sprintf("booking_id=%d amount=%d", b.ID, req.Amount))
	}

	order, err := o.Backend.CreateOrder(ctx, orderBookingID, req.Amount)
	if err != nil {
		return BeginResult{}, err
	}
	if order.Amount != req.Amount {
		return BeginResult{}, domain.InternalError{
			Msg: fmt.Sprintf("order amount %d does not match quoted amount %d", order.Amount, req.Amount),
		}
	}
	attempt.Order = order

	o.mu.Lock()
	o.pruneLocked()
	o.attempts[attempt.ID] = attempt
	o.mu.Unlock()

	return BeginResult{
		AttemptID: attempt.ID,
		Booking:   attempt.Booking,
		Options: gateway.Options{
			Key:         o.Checkout.Key(),
			OrderID:     order.ID,
			Amount:      order.Amount,
			Currency:    order.Currency,
			Name:        checkoutName,
			Description: checkoutDescription,
		},
	}, nil
}

// Complete consumes the checkout outcome for an attempt. Cancellation and
// gateway failure are terminal without touching the backend; success leads
// to (booking creation for pay-first and) verification.
func (o *Orchestrator) Complete(ctx context.Context, attemptID string, res gateway.Result) (Outcome, error) {
	o.mu.Lock()
	attempt, ok := o.attempts[attemptID]
	if ok {
		delete(o.attempts, attemptID)
	}
	o.mu.Unlock()
	if !ok {
		return Outcome{}, domain.NotFoundError{Resource: "payment attempt"}
	}

	switch res.Status {
	case gateway.StatusCancelled:
		utils.LogEvent(o.RequestID, "payment", "complete", "cancelled attempt="+attemptID)
		return Outcome{
			Kind:    OutcomeCancelled,
			Message: "payment cancelled",
			Booking: attempt.Booking,
		}, nil

	case gateway.StatusFailed:
		reason := strings.TrimSpace(res.Reason)
		if reason == "" {
			reason = "the payment was declined"
		}
		utils.LogEvent(o.RequestID, "payment", "complete", "failed attempt="+attemptID+" reason="+reason)
		return Outcome{
			Kind:    OutcomeFailed,
			Message: "payment failed: " + reason,
			Booking: attempt.Booking,
		}, nil

	case gateway.StatusSucceeded:
		if !res.Triple.Complete() {
			return Outcome{}, domain.ValidationError{Msg: "incomplete gateway response"}
		}
		return o.finalize(ctx, attempt, res.Triple)

	default:
		return Outcome{}, domain.ValidationError{Field: "status", Msg: "unknown checkout status"}
	}
}

func (o *Orchestrator) finalize(ctx context.Context, attempt *Attempt, triple gateway.Triple) (Outcome, error) {
	b := attempt.Booking
	if b == nil {
		// Pay-first: the charge succeeded, create the booking now. If this
		// fails the money is taken with no booking row anywhere; that is
		// the accepted hazard of this flow and must never be silent.
		created, err := o.Backend.CreateBooking(ctx, bookingPayload(attempt.Request))
		if err != nil {
			utils.LogEvent(o.RequestID, "payment", "finalize",
				"booking creation failed after successful charge: "+err.Error())
			return Outcome{}, domain.InternalError{
				Msg: "your payment went through but the booking could not be created, please contact support",
				Err: err,
			}
		}
		b = &created
	}

	err := o.Backend.VerifyPayment(ctx, backend.VerifyRequest{
		BookingID:         b.ID,
		RazorpayOrderID:   triple.OrderID,
		RazorpayPaymentID: triple.PaymentID,
		RazorpaySignature: triple.Signature,
	})
	if err != nil {
		utils.LogEvent(o.RequestID, "payment", "verify",
			fmt.Sprintf("booking_id=%d verification failed: %v", b.ID, err))
		return Outcome{
			Kind:    OutcomeVerifyFailed,
			Message: "payment verification failed, payment may have been taken, contact support",
			Booking: b,
		}, nil
	}

	b.PaymentStatus = models.PaymentPaid
	utils.LogEvent(o.RequestID, "payment", "verify", fmt.Sprintf("booking_id=%d verified", b.ID))

	if o.Notifier != nil {
		o.Notifier.BookingPaid(ctx, *b, attempt.Request.Amount)
	}

	return Outcome{
		Kind:       OutcomeSucceeded,
		Message:    "payment verified",
		Booking:    b,
		RedirectTo: "/book/booking-success",
	}, nil
}

// pruneLocked drops attempts that never came back from checkout.
func (o *Orchestrator) pruneLocked() {
	cutoff := time.Now().Add(-attemptTTL)
	for id, a := range o.attempts {
		if a.CreatedAt.Before(cutoff) {
			delete(o.attempts, id)
		}
	}
}

func bookingPayload(req booking.SubmitRequest) backend.CreateBookingRequest {
	return backend.CreateBookingRequest{
		BikeCompanyID:       req.Form.CompanyID,
		BikeModelID:         req.Form.ModelID,
		ServiceType:         req.Form.ServiceType,
		AppointmentDate:     req.Form.AppointmentDate,
		TimeSlot:            req.Form.TimeSlot,
		FullAddress:         req.Form.FullAddress,
		City:                models.ServiceCity,
		Landmark:            req.Form.Landmark,
		Notes:               req.Form.Notes,
		CustomizedServiceID: req.CustomizedID,
	}
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bikecare/internal/domain"
	"bikecare/internal/domain/models"
)

// TokenSource yields the caller's bearer token. It is consulted at the start
// of every privileged call, never cached across a workflow, so a logout
// elsewhere is respected on the next action. Returning ("", nil) means no
// session.
type TokenSource func(ctx context.Context) (string, error)

// Client talks to the remote booking backend. All entities are owned by that
// service; this client only moves them over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   TokenSource
}

func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Token:   token,
	}
}

// ---- catalog ----

func (c *Client) Companies(ctx context.Context) ([]models.BikeCompany, error) {
	var out []models.BikeCompany
	if err := c.do(ctx, http.MethodGet, "/api/bikes/companies", nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Models(ctx context.Context, companyID int64) ([]models.BikeModel, error) {
	var out []models.BikeModel
	path := fmt.Sprintf("/api/bikes/companies/%d/models", companyID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- customized services ----

// CalculateRequest is the pricing input; the backend's pricing rules are a
// pure function of these fields.
type CalculateRequest struct {
	BikeCompanyID int64 `json:"bikeCompanyId"`
	BikeModelID   int64 `json:"bikeModelId"`
	Cc            int   `json:"cc"`
	models.ServiceFlags
}

func (c *Client) CalculatePrice(ctx context.Context, req CalculateRequest) (int64, error) {
	var out json.Number
	if err := c.do(ctx, http.MethodPost, "/api/customized/calculate", req, &out, false); err != nil {
		return 0, err
	}
	price, err := out.Int64()
	if err != nil {
		return 0, domain.InternalError{Msg: "backend returned non-numeric price", Err: err}
	}
	return price, nil
}

func (c *Client) SaveCustomized(ctx context.Context, cfg models.CustomizedServiceConfig) (models.CustomizedServiceConfig, error) {
	var out models.CustomizedServiceConfig
	err := c.do(ctx, http.MethodPost, "/api/customized/save", cfg, &out, true)
	return out, err
}

func (c *Client) UpdateCustomized(ctx context.Context, id int64, cfg models.CustomizedServiceConfig) (models.CustomizedServiceConfig, error) {
	var out models.CustomizedServiceConfig
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/customized/%d", id), cfg, &out, true)
	return out, err
}

func (c *Client) GetCustomized(ctx context.Context, id int64) (models.CustomizedServiceConfig, error) {
	var out models.CustomizedServiceConfig
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/customized/%d", id), nil, &out, true)
	return out, err
}

func (c *Client) MyCustomized(ctx context.Context) ([]models.CustomizedServiceConfig, error) {
	var out []models.CustomizedServiceConfig
	if err := c.do(ctx, http.MethodGet, "/api/customized/my", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteCustomized(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customized/%d", id), nil, nil, true)
}

// ---- bookings ----

// CreateBookingRequest is the submit payload. City is fixed server-side.
type CreateBookingRequest struct {
	BikeCompanyID       int64  `json:"bikeCompanyId"`
	BikeModelID         int64  `json:"bikeModelId"`
	ServiceType         string `json:"serviceType"`
	AppointmentDate     string `json:"appointmentDate"`
	TimeSlot            string `json:"timeSlot"`
	FullAddress         string `json:"fullAddress"`
	City                string `json:"city"`
	Landmark            string `json:"landmark,omitempty"`
	Notes               string `json:"notes,omitempty"`
	CustomizedServiceID *int64 `json:"customizedServiceId"`
}

func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (models.Booking, error) {
	var out models.Booking
	err := c.do(ctx, http.MethodPost, "/api/bookings", req, &out, true)
	return out, err
}

func (c *Client) MyBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/my", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- payments ----

func (c *Client) PaymentKey(ctx context.Context) (string, error) {
	var out struct {
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/payments/key", nil, &out, false); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Key) == "" {
		return "", domain.GatewayError{Stage: "key", Msg: "backend returned an empty gateway key"}
	}
	return out.Key, nil
}

type createOrderRequest struct {
	BookingID *int64 `json:"bookingId,omitempty"`
	Amount    int64  `json:"amount"`
}

func (c *Client) CreateOrder(ctx context.Context, bookingID *int64, amount int64) (models.PaymentOrder, error) {
	var out models.PaymentOrder
	err := c.do(ctx, http.MethodPost, "/api/payments/create-order", createOrderRequest{BookingID: bookingID, Amount: amount}, &out, false)
	return out, err
}

// VerifyRequest carries the gateway's signed triple back to the backend for
// server-side signature verification.
type VerifyRequest struct {
	BookingID         int64  `json:"bookingId"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (c *Client) VerifyPayment(ctx context.Context, req VerifyRequest) error {
	return c.do(ctx, http.MethodPost, "/api/payments/verify", req, nil, true)
}

// ---- plumbing ----

func (c *Client) do(ctx context.Context, method, path string, body, out any, private bool) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return domain.InternalError{Msg: "encode request", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return domain.InternalError{Msg: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	if private {
		token, err := c.Token(ctx)
		if err != nil {
			return err
		}
		if strings.TrimSpace(token) == "" {
			return domain.AuthError{Msg: "no active session"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.InternalError{Msg: "backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return domain.InternalError{Msg: "decode backend response", Err: err}
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// statusError maps backend HTTP failures onto the domain taxonomy. The body
// is read for a message but never trusted for structure beyond {error,message}.
func statusError(resp *http.Response) error {
	msg := readErrorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.AuthError{Msg: nonEmpty(msg, "session expired")}
	case http.StatusNotFound:
		return domain.NotFoundError{Resource: nonEmpty(msg, "resource")}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ValidationError{Msg: nonEmpty(msg, "backend rejected the request")}
	case http.StatusConflict:
		return domain.ConflictError{Msg: nonEmpty(msg, "conflicting state")}
	default:
		return domain.InternalError{Msg: nonEmpty(msg, fmt.Sprintf("backend returned %d", resp.StatusCode))}
	}
}

func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if strings.TrimSpace(payload.Error) != "" {
		return payload.Error
	}
	return strings.TrimSpace(payload.Message)
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bikecare/internal/domain"
)

func staticToken(tok string) TokenSource {
	return func(context.Context) (string, error) { return tok, nil }
}

func TestPrivateCallWithoutTokenIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("backend must not be called without a session, got %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	_, err := c.MyCustomized(context.Background())
	if !domain.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestBearerTokenForwarded(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]any{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok-123"))
	if _, err := c.MyBookings(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestCalculatePriceDecodesBareNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customized/calculate" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("450"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	price, err := c.CalculatePrice(context.Background(), CalculateRequest{BikeCompanyID: 1, BikeModelID: 10, Cc: 110})
	if err != nil {
		t.Fatalf("calculate error: %v", err)
	}
	if price != 450 {
		t.Fatalf("price = %d, want 450", price)
	}
}

func TestCreateOrderOmitsBookingIDWhenNil(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "order_1", "amount": 99, "currency": "INR"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	order, err := c.CreateOrder(context.Background(), nil, 99)
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	if order.ID != "order_1" || order.Amount != 99 || order.Currency != "INR" {
		t.Fatalf("unexpected order: %+v", order)
	}
	if _, present := body["bookingId"]; present {
		t.Fatalf("bookingId must be omitted for pay-first orders, body=%v", body)
	}
}

func TestStatusMapping(t *testing.T) {
	status := http.StatusUnauthorized
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))

	_, err := c.MyBookings(context.Background())
	if !domain.IsAuth(err) {
		t.Fatalf("401 should map to auth error, got %v", err)
	}

	status = http.StatusBadRequest
	_, err = c.MyBookings(context.Background())
	if !domain.IsValidation(err) {
		t.Fatalf("400 should map to validation error, got %v", err)
	}

	status = http.StatusNotFound
	_, err = c.MyBookings(context.Background())
	if !domain.IsNotFound(err) {
		t.Fatalf("404 should map to not-found error, got %v", err)
	}
}

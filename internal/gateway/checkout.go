package gateway

import (
	"context"
	"strings"
	"sync"

	"bikecare/internal/utils"
)

// Status discriminates the three terminal outcomes of a checkout overlay.
type Status string

const (
	StatusSucceeded Status = "SUCCEEDED"
	StatusCancelled Status = "CANCELLED"
	StatusFailed    Status = "FAILED"
)

// Triple is the signed identifier set the gateway hands back on success. The
// backend verifies the signature; we only transport it.
type Triple struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (t Triple) Complete() bool {
	return strings.TrimSpace(t.OrderID) != "" &&
		strings.TrimSpace(t.PaymentID) != "" &&
		strings.TrimSpace(t.Signature) != ""
}

// Result is the outcome of one checkout attempt. Cancelled is the user
// closing the overlay; Failed carries the gateway's own failure reason.
type Result struct {
	Status Status `json:"status"`
	Triple Triple `json:"triple,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Options configures the hosted checkout overlay for one attempt.
type Options struct {
	Key         string `json:"key"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Checkout is the orchestrator's view of the payment gateway. Ready performs
// one-time initialisation and reports availability instead of erroring, so
// callers can show an actionable message; Key is valid only after a
// successful Ready.
type Checkout interface {
	Ready(ctx context.Context) bool
	Key() string
}

// KeyFetcher obtains the gateway public key, normally backend.Client.
type KeyFetcher interface {
	PaymentKey(ctx context.Context) (string, error)
}

// HostedCheckout fetches the publishable key once and caches it. A failed
// fetch is retried on the next Ready call rather than poisoning the cache.
type HostedCheckout struct {
	Keys KeyFetcher

	mu  sync.Mutex
	key string
}

func NewHostedCheckout(keys KeyFetcher) *HostedCheckout {
	return &HostedCheckout{Keys: keys}
}

func (h *HostedCheckout) Ready(ctx context.Context) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.key != "" {
		return true
	}
	key, err := h.Keys.PaymentKey(ctx)
	if err != nil {
		utils.LogEvent("", "gateway", "init", "key fetch failed: "+err.Error())
		return false
	}
	h.key = key
	return true
}

func (h *HostedCheckout) Key() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.key
}

package models

// PaymentOrder is the gateway-side object created per payment attempt. A
// booking may accumulate several failed orders before one succeeds.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

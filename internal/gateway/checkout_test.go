package gateway

import (
	"context"
	"errors"
	"testing"
)

type fakeKeys struct {
	key   string
	err   error
	calls int
}

func (f *fakeKeys) PaymentKey(context.Context) (string, error) {
	f.calls++
	return f.key, f.err
}

func TestReadyFetchesKeyOnce(t *testing.T) {
	keys := &fakeKeys{key: "rzp_test_abc"}
	h := NewHostedCheckout(keys)

	if !h.Ready(context.Background()) {
		t.Fatalf("expected ready")
	}
	if !h.Ready(context.Background()) {
		t.Fatalf("expected ready on second call")
	}
	if keys.calls != 1 {
		t.Fatalf("key fetched %d times, want 1", keys.calls)
	}
	if h.Key() != "rzp_test_abc" {
		t.Fatalf("key = %q", h.Key())
	}
}

func TestReadyReportsFalseAndRetries(t *testing.T) {
	keys := &fakeKeys{err: errors.New("backend down")}
	h := NewHostedCheckout(keys)

	if h.Ready(context.Background()) {
		t.Fatalf("must not report ready when key fetch fails")
	}

	keys.err = nil
	keys.key = "rzp_test_abc"
	if !h.Ready(context.Background()) {
		t.Fatalf("expected ready after recovery")
	}
	if keys.calls != 2 {
		t.Fatalf("key fetched %d times, want 2", keys.calls)
	}
}

func TestTripleComplete(t *testing.T) {
	full := Triple{OrderID: "o", PaymentID: "p", Signature: "s"}
	if !full.Complete() {
		t.Fatalf("full triple should be complete")
	}
	if (Triple{OrderID: "o", PaymentID: "p"}).Complete() {
		t.Fatalf("missing signature should not be complete")
	}
}

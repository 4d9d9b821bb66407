package geofence

import (
	"context"
	"testing"

	"bikecare/internal/domain"
	"bikecare/internal/session"
)

func TestDistanceKm(t *testing.T) {
	center := Point{Lat: CenterLat, Lng: CenterLng}
	if d := DistanceKm(center, center); d != 0 {
		t.Fatalf("distance to self = %f", d)
	}

	// Pune city center to Hinjewadi, roughly 15 km.
	hinjewadi := Point{Lat: 18.5913, Lng: 73.7389}
	d := DistanceKm(center, hinjewadi)
	if d < 12 || d > 18 {
		t.Fatalf("implausible distance %f km", d)
	}
}

func TestInServiceArea(t *testing.T) {
	cases := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{Lat: CenterLat, Lng: CenterLng}, true},
		{"koregaon park", Point{Lat: 18.5362, Lng: 73.8940}, true},
		{"hinjewadi", Point{Lat: 18.5913, Lng: 73.7389}, false},
		{"mumbai", Point{Lat: 19.0760, Lng: 72.8777}, false},
	}
	for _, tc := range cases {
		if got := InServiceArea(tc.p); got != tc.want {
			t.Fatalf("%s: serviced=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConfirmStoresLocation(t *testing.T) {
	store := session.NewMemoryStore()
	ch := Checker{Store: store}
	ctx := context.Background()

	loc, err := ch.Confirm(ctx, "u1", Point{Lat: 18.53, Lng: 73.86}, "FC Road")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !loc.Serviced {
		t.Fatalf("FC Road is inside the service area")
	}

	got, ok, err := ch.Confirmed(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("confirmed: ok=%v err=%v", ok, err)
	}
	if got.Address != "FC Road" || !got.Serviced {
		t.Fatalf("stored location mismatch: %+v", got)
	}
}

func TestConfirmOutOfAreaIsStoredNotRejected(t *testing.T) {
	store := session.NewMemoryStore()
	ch := Checker{Store: store}
	ctx := context.Background()

	loc, err := ch.Confirm(ctx, "u1", Point{Lat: 19.0760, Lng: 72.8777}, "Mumbai")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if loc.Serviced {
		t.Fatalf("Mumbai is outside the service area")
	}

	got, ok, _ := ch.Confirmed(ctx, "u1")
	if !ok || got.Serviced {
		t.Fatalf("out-of-area confirmation must still be remembered: ok=%v %+v", ok, got)
	}
}

func TestConfirmRejectsBogusCoordinates(t *testing.T) {
	ch := Checker{Store: session.NewMemoryStore()}
	if _, err := ch.Confirm(context.Background(), "u1", Point{Lat: 91, Lng: 0}, ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUseCenter(t *testing.T) {
	ch := Checker{Store: session.NewMemoryStore()}
	loc, err := ch.UseCenter(context.Background(), "u1")
	if err != nil {
		t.Fatalf("use center: %v", err)
	}
	if !loc.Serviced || loc.Lat != CenterLat || loc.Lng != CenterLng {
		t.Fatalf("unexpected default location: %+v", loc)
	}
}

func TestConfirmedHandlesCorruptSlot(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()
	_ = store.Set(ctx, "u1", session.KeySelectedLocation, "{not json")

	ch := Checker{Store: store}
	_, ok, err := ch.Confirmed(ctx, "u1")
	if err != nil || ok {
		t.Fatalf("corrupt slot must read as unconfirmed: ok=%v err=%v", ok, err)
	}
}

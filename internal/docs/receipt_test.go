package docs

import (
	"context"
	"testing"
	"time"

	"bikecare/internal/domain"
	"bikecare/internal/domain/models"
)

type fakeBackend struct {
	bookings []models.Booking
	configs  map[int64]models.CustomizedServiceConfig
}

func (f *fakeBackend) MyBookings(context.Context) ([]models.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBackend) GetCustomized(_ context.Context, id int64) (models.CustomizedServiceConfig, error) {
	cfg, ok := f.configs[id]
	if !ok {
		return models.CustomizedServiceConfig{}, domain.NotFoundError{Resource: "customized service"}
	}
	return cfg, nil
}

func TestGenerateReceiptFromLoader(t *testing.T) {
	loader := func(_ context.Context, id int64) (receiptData, error) {
		return receiptData{
			BookingID:       id,
			ServiceType:     models.PlanUpto100CC,
			AppointmentDate: time.Now().Format("2006-01-02"),
			TimeSlot:        models.SlotMorning,
			FullAddress:     "123 Main St",
			City:            models.ServiceCity,
			Amount:          models.BaseFee,
		}, nil
	}

	svc := ReceiptService{Loader: loader}
	pdf, filename, err := svc.GenerateReceipt(context.Background(), 10)
	if err != nil {
		t.Fatalf("GenerateReceipt returned error: %v", err)
	}
	if len(pdf) == 0 || filename != "RECEIPT_10.pdf" {
		t.Fatalf("unexpected output: %d bytes, filename %q", len(pdf), filename)
	}
}

func TestGenerateReceiptRefusesUnpaid(t *testing.T) {
	be := &fakeBackend{
		bookings: []models.Booking{{
			ID:            4,
			ServiceType:   models.PlanUpto100CC,
			PaymentStatus: models.PaymentUnpaid,
		}},
	}
	svc := ReceiptService{Backend: be}
	_, _, err := svc.GenerateReceipt(context.Background(), 4)
	if !domain.IsConflict(err) {
		t.Fatalf("unpaid booking must be refused, got %v", err)
	}
}

func TestGenerateReceiptOnlyForOwnBookings(t *testing.T) {
	svc := ReceiptService{Backend: &fakeBackend{}}
	_, _, err := svc.GenerateReceipt(context.Background(), 999)
	if !domain.IsNotFound(err) {
		t.Fatalf("foreign booking id must read as not found, got %v", err)
	}
}

func TestGenerateReceiptUsesConfigSnapshot(t *testing.T) {
	configID := int64(7)
	cfg := models.CustomizedServiceConfig{ID: 7, TotalPrice: 450}
	cfg.Wash = true
	cfg.OilChange = true

	be := &fakeBackend{
		bookings: []models.Booking{{
			ID:                  5,
			ServiceType:         models.Customized,
			CustomizedServiceID: &configID,
			PaymentStatus:       models.PaymentPaid,
			AppointmentDate:     "2026-09-01",
			TimeSlot:            models.SlotEvening,
			FullAddress:         "123 Main St",
			City:                models.ServiceCity,
		}},
		configs: map[int64]models.CustomizedServiceConfig{7: cfg},
	}

	svc := ReceiptService{Backend: be}
	pdf, filename, err := svc.GenerateReceipt(context.Background(), 5)
	if err != nil {
		t.Fatalf("GenerateReceipt returned error: %v", err)
	}
	if len(pdf) == 0 || filename != "RECEIPT_5.pdf" {
		t.Fatalf("unexpected output: %d bytes, filename %q", len(pdf), filename)
	}
}

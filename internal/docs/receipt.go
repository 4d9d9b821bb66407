package docs

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"bikecare/internal/domain"
	"bikecare/internal/domain/models"
	"bikecare/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// Backend is the slice of the remote API needed to assemble a receipt.
type Backend interface {
	MyBookings(ctx context.Context) ([]models.Booking, error)
	GetCustomized(ctx context.Context, id int64) (models.CustomizedServiceConfig, error)
}

// ReceiptService renders a PDF receipt for a paid booking. Lookup goes
// through the caller's own booking list, so a user can never pull another
// user's receipt by guessing ids.
type ReceiptService struct {
	Backend   Backend
	RequestID string
	Loader    func(ctx context.Context, bookingID int64) (receiptData, error)
}

type receiptData struct {
	BookingID       int64
	ServiceType     string
	AppointmentDate string
	TimeSlot        string
	FullAddress     string
	City            string
	Landmark        string
	Items           []string
	Amount          int64
}

// GenerateReceipt builds the PDF and a download filename. Unpaid bookings
// are refused; the receipt exists only after verification.
func (s ReceiptService) GenerateReceipt(ctx context.Context, bookingID int64) ([]byte, string, error) {
	data, err := s.loadReceiptData(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("booking_id=%d", bookingID))
	return buildReceiptPDF(data)
}

func (s ReceiptService) loadReceiptData(ctx context.Context, bookingID int64) (receiptData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}

	bookings, err := s.Backend.MyBookings(ctx)
	if err != nil {
		return receiptData{}, err
	}
	var booking *models.Booking
	for i := range bookings {
		if bookings[i].ID == bookingID {
			booking = &bookings[i]
			break
		}
	}
	if booking == nil {
		return receiptData{}, domain.NotFoundError{Resource: "booking"}
	}
	if booking.PaymentStatus != models.PaymentPaid {
		return receiptData{}, domain.ConflictError{Resource: "receipt", Msg: "booking is not paid yet"}
	}

	out := receiptData{
		BookingID:       booking.ID,
		ServiceType:     booking.ServiceType,
		AppointmentDate: booking.AppointmentDate,
		TimeSlot:        booking.TimeSlot,
		FullAddress:     booking.FullAddress,
		City:            booking.City,
		Landmark:        booking.Landmark,
		Amount:          models.BaseFee,
	}

	if booking.ServiceType == models.Customized && booking.CustomizedServiceID != nil {
		cfg, err := s.Backend.GetCustomized(ctx, *booking.CustomizedServiceID)
		if err != nil {
			return receiptData{}, err
		}
		out.Amount = cfg.TotalPrice
		out.Items = cfg.Selected()
	}

	return out, nil
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Dr VehicleCare")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Doorstep Bike Service Receipt")
	pdf.Ln(12)

	pdf.Cell(0, 7, fmt.Sprintf("Receipt No : RCPT-%d", d.BookingID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Booking details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking      : #%d", d.BookingID),
		fmt.Sprintf("Service      : %s", serviceLabel(d.ServiceType)),
		fmt.Sprintf("Date / Slot  : %s %s", safe(d.AppointmentDate, "-"), safe(d.TimeSlot, "-")),
		fmt.Sprintf("Address      : %s", safe(d.FullAddress, "-")),
		fmt.Sprintf("City         : %s", safe(d.City, models.ServiceCity)),
	}
	if strings.TrimSpace(d.Landmark) != "" {
		lines = append(lines, fmt.Sprintf("Landmark     : %s", d.Landmark))
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	if len(d.Items) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Included services:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, item := range d.Items {
			pdf.Cell(0, 6, "- "+item)
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Amount paid: "+utils.FormatRupees(d.Amount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Thank you for choosing Dr VehicleCare. Our mechanic will arrive at your doorstep in the selected slot.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%d.pdf", d.BookingID)
	return buf.Bytes(), filename, nil
}

func serviceLabel(t string) string {
	switch t {
	case models.PlanUpto100CC:
		return "Service Plan (up to 100cc)"
	case models.Plan100To160CC:
		return "Service Plan (100cc to 160cc)"
	case models.PlanAbove180CC:
		return "Service Plan (above 180cc)"
	case models.PickAndDrop:
		return "Pick and Drop"
	case models.Customized:
		return "Customized Service"
	default:
		return safe(t, "-")
	}
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

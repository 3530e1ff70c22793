package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/utils"
)

// DocsService renders the boarding pass PDF for a confirmed booking.
type DocsService struct {
	Bookings  BookingViewService
	RequestID string
	Loader    func(ctx context.Context, userID, bookingID string) (models.BookingView, error)
}

func (s DocsService) BoardingPass(ctx context.Context, userID, bookingID string) ([]byte, string, error) {
	b, err := s.load(ctx, userID, bookingID)
	if err != nil {
		return nil, "", err
	}
	if !b.IsActive() {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "boarding pass is only issued for confirmed bookings"}
	}
	utils.LogEvent(s.RequestID, "docs", "boarding_pass", "booking_id="+b.ID)
	return buildBoardingPassPDF(b.Booking)
}

func (s DocsService) load(ctx context.Context, userID, bookingID string) (models.BookingView, error) {
	if s.Loader != nil {
		return s.Loader(ctx, userID, bookingID)
	}
	return s.Bookings.Get(ctx, userID, bookingID)
}

func buildBoardingPassPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boarding Pass", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SHUTTLEGO BOARDING PASS")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking No  : %s", BookingNumber(b.ID)),
		fmt.Sprintf("Route       : %s", utils.Safe(b.RouteName, b.RouteID)),
		fmt.Sprintf("Pickup      : %s", utils.Safe(b.PickupLocation, "-")),
		fmt.Sprintf("Destination : %s", utils.Safe(b.Destination, "-")),
		fmt.Sprintf("Date/Time   : %s %s", utils.Safe(utils.DateOnly(b.BookingDate), "-"), utils.Safe(utils.TimeHM(b.BookingTime), "-")),
		fmt.Sprintf("Shuttle     : %s", utils.Safe(b.ShuttleCode, "-")),
		fmt.Sprintf("Driver      : %s", utils.Safe(b.DriverName, "-")),
		fmt.Sprintf("Seat        : %s", utils.Safe(b.Preferences.SeatPreference, "any")),
		fmt.Sprintf("Fare        : GHS %s", utils.FormatMoney(b.Fare.Total)),
		fmt.Sprintf("Payment Ref : %s", utils.Safe(b.PaymentReference, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Courier", "B", 14)
	pdf.CellFormat(0, 12, b.QRCode, "1", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this code to the driver when boarding. Valid for one rider on the date and time above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("BOARDING_PASS_%s_%s.pdf", BookingNumber(b.ID), utils.SafeFilenamePart(b.BookingDate))
	return buf.Bytes(), filename, nil
}

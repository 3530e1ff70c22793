package services

import (
	"context"
	"strings"
	"testing"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
)

func TestDocsServiceBoardingPass(t *testing.T) {
	loader := func(_ context.Context, userID, id string) (models.BookingView, error) {
		return models.BookingView{Booking: models.Booking{
			ID:             id,
			UserID:         userID,
			RouteName:      "Central Loop",
			PickupLocation: "Main Gate",
			Destination:    "Balme Library",
			BookingDate:    "2026-10-19",
			BookingTime:    "07:00",
			Status:         models.BookingConfirmed,
			QRCode:         "SHUTTLEGO-1760000000000-abcdefghi",
			ShuttleCode:    "SH101",
			Fare:           models.FareBreakdown{BaseFare: 5, Total: 5},
		}}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, filename, err := svc.BoardingPass(context.Background(), "u1", "sim-0a1b2c3d-4e5f")
	if err != nil {
		t.Fatalf("BoardingPass returned error: %v", err)
	}
	if len(pdf) == 0 || filename == "" {
		t.Fatalf("BoardingPass returned empty data")
	}
	if !strings.HasPrefix(filename, "BOARDING_PASS_SG-0A1B2C3D") {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestDocsServiceRejectsCancelled(t *testing.T) {
	loader := func(_ context.Context, userID, id string) (models.BookingView, error) {
		return models.BookingView{Booking: models.Booking{ID: id, UserID: userID, Status: models.BookingCancelled}}, nil
	}

	_, _, err := DocsService{Loader: loader}.BoardingPass(context.Background(), "u1", "b1")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

// ──────────────────────────────────────────────
// RIDE LIFECYCLE
// ──────────────────────────────────────────────

// rideFixture wires a RideService whose settlement runs through a real
// LedgerService over the same mocks.
type rideFixture struct {
	*ledgerFixture
	rideService *service.RideService
	users       *MockUserRepository
	ratings     *MockRatingRepository
}

func newRideFixture() *rideFixture {
	lf := newLedgerFixture()
	users := NewMockUserRepository()
	ratings := NewMockRatingRepository()

	fare := service.NewFareCalculator(testPricing())
	rideService := service.NewRideService(lf.rides, ratings, users, lf.ledger, fare)

	users.AddUser(&domain.User{ID: "rider-1", Role: domain.UserRoleRider})
	users.AddUser(&domain.User{ID: "driver-1", Role: domain.UserRoleDriver})

	return &rideFixture{ledgerFixture: lf, rideService: rideService, users: users, ratings: ratings}
}

func requestCommand() service.RequestRideCommand {
	return service.RequestRideCommand{
		RiderID:           "rider-1",
		Pickup:            domain.Location{Lat: 6.45, Lng: 3.39, Address: "Marina, Lagos"},
		Destination:       domain.Location{Lat: 6.6, Lng: 3.35, Address: "Ikeja, Lagos"},
		EstimatedDistance: 18,
		EstimatedDuration: 45,
	}
}

func TestRide_RequestCreatesRequestedRideWithEstimate(t *testing.T) {
	t.Parallel()

	f := newRideFixture()

	ride, err := f.rideService.Request(context.Background(), requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusRequested {
		t.Errorf("expected status requested, got %s", ride.Status)
	}
	// 500 + 100*18 + 10*45 = 2750 estimate.
	if ride.Fare != 2750 {
		t.Errorf("expected estimated fare 2750, got %d", ride.Fare)
	}
	if ride.DriverID != "" {
		t.Errorf("expected no driver assigned, got %s", ride.DriverID)
	}
}

func TestRide_RequestValidation(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()

	cmd := requestCommand()
	cmd.RiderID = ""
	if _, err := f.rideService.Request(ctx, cmd); !errors.Is(err, service.ErrInvalidRiderID) {
		t.Errorf("expected ErrInvalidRiderID, got %v", err)
	}

	cmd = requestCommand()
	cmd.Pickup.Address = ""
	if _, err := f.rideService.Request(ctx, cmd); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}

	cmd = requestCommand()
	cmd.EstimatedDistance = -1
	if _, err := f.rideService.Request(ctx, cmd); !errors.Is(err, service.ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}

	cmd = requestCommand()
	cmd.RiderID = "ghost"
	if _, err := f.rideService.Request(ctx, cmd); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown rider, got %v", err)
	}
}

func TestRide_AcceptAssignsDriver(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()

	ride, err := f.rideService.Request(ctx, requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accepted, err := f.rideService.Accept(ctx, ride.ID, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if accepted.Status != domain.RideStatusAccepted {
		t.Errorf("expected status accepted, got %s", accepted.Status)
	}
	if accepted.DriverID != "driver-1" {
		t.Errorf("expected driver-1 assigned, got %s", accepted.DriverID)
	}
}

func TestRide_AcceptRejectsRiders(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()

	ride, err := f.rideService.Request(ctx, requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A rider account cannot accept rides.
	if _, err := f.rideService.Accept(ctx, ride.ID, "rider-1"); !errors.Is(err, service.ErrInvalidDriverID) {
		t.Errorf("expected ErrInvalidDriverID, got %v", err)
	}
}

func TestRide_ConcurrentAcceptHasOneWinner(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()

	const drivers = 10
	for i := 0; i < drivers; i++ {
		f.users.AddUser(&domain.User{ID: fmt.Sprintf("driver-%d", i), Role: domain.UserRoleDriver})
	}

	ride, err := f.rideService.Request(ctx, requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, drivers)
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.rideService.Accept(ctx, ride.ID, fmt.Sprintf("driver-%d", i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, service.ErrRideNotRequested):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly 1 winning driver, got %d", winners)
	}
}

func TestRide_TransitionsAreMonotonic(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()
	f.addUserWallet("rider-1", "8011111111", 10000)
	f.addUserWallet("driver-1", "8022222222", 0)

	ride, err := f.rideService.Request(ctx, requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cannot start before acceptance.
	if _, err := f.rideService.Start(ctx, ride.ID); !errors.Is(err, service.ErrRideNotAccepted) {
		t.Errorf("expected ErrRideNotAccepted, got %v", err)
	}

	// Cannot complete before start.
	if _, err := f.rideService.Complete(ctx, ride.ID, 10, 20); !errors.Is(err, service.ErrRideNotInProgress) {
		t.Errorf("expected ErrRideNotInProgress, got %v", err)
	}

	if _, err := f.rideService.Accept(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	// A second accept of the same ride loses the precondition.
	if _, err := f.rideService.Accept(ctx, ride.ID, "driver-1"); !errors.Is(err, service.ErrRideNotRequested) {
		t.Errorf("expected ErrRideNotRequested on re-accept, got %v", err)
	}

	started, err := f.rideService.Start(ctx, ride.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.StartedAt.IsZero() {
		t.Error("expected started_at to be stamped")
	}

	// Cancellation window closed once in progress.
	if _, err := f.rideService.Cancel(ctx, ride.ID); !errors.Is(err, service.ErrRideCannotBeCancelled) {
		t.Errorf("expected ErrRideCannotBeCancelled, got %v", err)
	}

	result, err := f.rideService.Complete(ctx, ride.ID, 10, 20)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if result.Ride.Status != domain.RideStatusCompleted {
		t.Errorf("expected status completed, got %s", result.Ride.Status)
	}
	if result.Settlement.Fare != 1700 {
		t.Errorf("expected settled fare 1700, got %d", result.Settlement.Fare)
	}

	// Completed is terminal.
	if _, err := f.rideService.Cancel(ctx, ride.ID); !errors.Is(err, service.ErrRideCannotBeCancelled) {
		t.Errorf("expected ErrRideCannotBeCancelled after completion, got %v", err)
	}
}

func TestRide_CancelFromRequestedAndAccepted(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()

	// Cancel from requested.
	ride, err := f.rideService.Request(ctx, requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancelled, err := f.rideService.Cancel(ctx, ride.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	// Cancel from accepted.
	ride, err = f.rideService.Request(ctx, requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rideService.Accept(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := f.rideService.Cancel(ctx, ride.ID); err != nil {
		t.Errorf("cancel from accepted failed: %v", err)
	}
}

func TestRide_RateUpdatesCounterpartyAverage(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()
	f.addUserWallet("rider-1", "8011111111", 10000)
	f.addUserWallet("driver-1", "8022222222", 0)

	ride, err := f.rideService.Request(ctx, requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.rideService.Accept(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := f.rideService.Start(ctx, ride.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.rideService.Complete(ctx, ride.ID, 10, 20); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	rating, err := f.rideService.Rate(ctx, service.RateRideCommand{
		RideID:    ride.ID,
		RaterType: domain.RaterTypeRider,
		Rating:    4,
		Review:    "smooth trip",
	})
	if err != nil {
		t.Fatalf("rate failed: %v", err)
	}

	// The rider rates the driver.
	if rating.RatedUserID != "driver-1" {
		t.Errorf("expected rated user driver-1, got %s", rating.RatedUserID)
	}
	if f.users.GetUser("driver-1").Rating != 4 {
		t.Errorf("expected driver rating 4, got %f", f.users.GetUser("driver-1").Rating)
	}

	// The driver rates the rider.
	if _, err := f.rideService.Rate(ctx, service.RateRideCommand{
		RideID:    ride.ID,
		RaterType: domain.RaterTypeDriver,
		Rating:    5,
	}); err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if f.users.GetUser("rider-1").Rating != 5 {
		t.Errorf("expected rider rating 5, got %f", f.users.GetUser("rider-1").Rating)
	}
}

func TestRide_RateRequiresCompletedRide(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()

	ride, err := f.rideService.Request(ctx, requestCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.rideService.Rate(ctx, service.RateRideCommand{
		RideID:    ride.ID,
		RaterType: domain.RaterTypeRider,
		Rating:    5,
	}); !errors.Is(err, service.ErrRideNotCompleted) {
		t.Errorf("expected ErrRideNotCompleted, got %v", err)
	}

	// Out-of-range scores are rejected before any lookup.
	for _, score := range []int{0, 6, -1} {
		if _, err := f.rideService.Rate(ctx, service.RateRideCommand{
			RideID:    ride.ID,
			RaterType: domain.RaterTypeRider,
			Rating:    score,
		}); !errors.Is(err, service.ErrInvalidRating) {
			t.Errorf("score %d: expected ErrInvalidRating, got %v", score, err)
		}
	}
}

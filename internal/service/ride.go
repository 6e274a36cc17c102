package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

// Settler settles a completed ride's payment. Implemented by LedgerService.
type Settler interface {
	SettleRide(ctx context.Context, ride *domain.Ride, finalDistance, finalDuration float64) (*Settlement, error)
}

// RideService owns the ride lifecycle state machine:
// requested -> accepted -> in_progress -> completed, with cancelled reachable
// from requested or accepted. Transitions are monotonic.
type RideService struct {
	rideRepo   repository.RideRepository
	ratingRepo repository.RatingRepository
	userRepo   repository.UserRepository
	settler    Settler
	fare       *FareCalculator
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	ratingRepo repository.RatingRepository,
	userRepo repository.UserRepository,
	settler Settler,
	fare *FareCalculator,
) *RideService {
	return &RideService{
		rideRepo:   rideRepo,
		ratingRepo: ratingRepo,
		userRepo:   userRepo,
		settler:    settler,
		fare:       fare,
	}
}

// RequestRideCommand contains the parameters for requesting a ride.
type RequestRideCommand struct {
	RiderID           string
	Pickup            domain.Location
	Destination       domain.Location
	EstimatedDistance float64
	EstimatedDuration float64
}

// Request creates a ride in the requested state with an estimated fare.
// No funds move until completion.
func (s *RideService) Request(ctx context.Context, cmd RequestRideCommand) (*domain.Ride, error) {
	if cmd.RiderID == "" {
		return nil, ErrInvalidRiderID
	}
	if cmd.Pickup.Address == "" || cmd.Destination.Address == "" {
		return nil, ErrInvalidLocation
	}
	if cmd.EstimatedDistance < 0 || cmd.EstimatedDuration < 0 {
		return nil, ErrInvalidDistance
	}

	if _, err := s.userRepo.GetByID(ctx, cmd.RiderID); err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:          uuid.New().String(),
		RiderID:     cmd.RiderID,
		Pickup:      cmd.Pickup,
		Destination: cmd.Destination,
		Status:      domain.RideStatusRequested,
		Fare:        s.fare.Fare(cmd.EstimatedDistance, cmd.EstimatedDuration),
		Distance:    cmd.EstimatedDistance,
		Duration:    cmd.EstimatedDuration,
		CreatedAt:   time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// Accept assigns a driver to a requested ride. The underlying update is
// conditioned on the status still being requested, so two drivers racing for
// the same ride resolve to exactly one winner.
func (s *RideService) Accept(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != domain.UserRoleDriver {
		return nil, ErrInvalidDriverID
	}

	ok, err := s.rideRepo.AcceptRequested(ctx, rideID, driverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Distinguish a missing ride from a lost race.
		if _, err := s.rideRepo.GetByID(ctx, rideID); err != nil {
			return nil, err
		}
		return nil, ErrRideNotRequested
	}

	return s.rideRepo.GetByID(ctx, rideID)
}

// Start moves an accepted ride to in_progress.
func (s *RideService) Start(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ok, err := s.rideRepo.StartAccepted(ctx, rideID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.rideRepo.GetByID(ctx, rideID); err != nil {
			return nil, err
		}
		return nil, ErrRideNotAccepted
	}

	return s.rideRepo.GetByID(ctx, rideID)
}

// CompleteResult contains the settled ride and its payment summary.
type CompleteResult struct {
	Ride       *domain.Ride
	Settlement *Settlement
}

// Complete settles an in-progress ride. On insufficient rider funds the ride
// stays in progress and the error carries the attempted fare and available
// balance.
func (s *RideService) Complete(ctx context.Context, rideID string, finalDistance, finalDuration float64) (*CompleteResult, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if finalDistance < 0 || finalDuration < 0 {
		return nil, ErrInvalidDistance
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusInProgress {
		return nil, ErrRideNotInProgress
	}

	settlement, err := s.settler.SettleRide(ctx, ride, finalDistance, finalDuration)
	if err != nil {
		return nil, err
	}

	ride.Status = domain.RideStatusCompleted
	return &CompleteResult{Ride: ride, Settlement: settlement}, nil
}

// Cancel cancels a ride from requested or accepted. No funds ever moved for
// such a ride, so there is nothing to reverse.
func (s *RideService) Cancel(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ok, err := s.rideRepo.Cancel(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.rideRepo.GetByID(ctx, rideID); err != nil {
			return nil, err
		}
		return nil, ErrRideCannotBeCancelled
	}

	return s.rideRepo.GetByID(ctx, rideID)
}

// Get retrieves a ride by ID.
func (s *RideService) Get(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// RateRideCommand contains the parameters for rating a completed ride.
type RateRideCommand struct {
	RideID    string
	RaterType domain.RaterType
	Rating    int
	Review    string
}

// Rate records a rating against the counterparty of a completed ride and
// recomputes that user's running average rating.
func (s *RideService) Rate(ctx context.Context, cmd RateRideCommand) (*domain.Rating, error) {
	if cmd.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if cmd.RaterType != domain.RaterTypeRider && cmd.RaterType != domain.RaterTypeDriver {
		return nil, ErrInvalidRaterType
	}

	ride, err := s.rideRepo.GetByID(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	ratedUserID := ride.DriverID
	if cmd.RaterType == domain.RaterTypeDriver {
		ratedUserID = ride.RiderID
	}

	rating := &domain.Rating{
		ID:          uuid.New().String(),
		RideID:      cmd.RideID,
		RatedUserID: ratedUserID,
		RaterType:   cmd.RaterType,
		Rating:      cmd.Rating,
		Review:      cmd.Review,
		CreatedAt:   time.Now(),
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	avg, _, err := s.ratingRepo.AverageForUser(ctx, ratedUserID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRating(ctx, ratedUserID, avg); err != nil {
		return nil, err
	}

	return rating, nil
}

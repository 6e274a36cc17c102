package repository

import (
	"context"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
)

// RideRepository defines the persistence operations for rides.
//
// Status transitions are compare-and-swap updates conditioned on the current
// status; a false return means the precondition failed (the ride was not in
// the expected state), not that the ride is missing.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// AcceptRequested assigns the driver and moves the ride to accepted,
	// conditioned on the status still being requested.
	AcceptRequested(ctx context.Context, id, driverID string) (bool, error)

	// StartAccepted moves the ride to in_progress, conditioned on the status
	// being accepted, and stamps the start time.
	StartAccepted(ctx context.Context, id string, startedAt time.Time) (bool, error)

	// CompleteInProgress finalizes fare, commission, distance and duration
	// and moves the ride to completed, conditioned on the status being
	// in_progress.
	CompleteInProgress(ctx context.Context, ride *domain.Ride) (bool, error)

	// Cancel moves the ride to cancelled, conditioned on the status being
	// requested or accepted.
	Cancel(ctx context.Context, id string) (bool, error)

	// CountCompletedByDriverSince counts the driver's completed rides created
	// at or after the given time.
	CountCompletedByDriverSince(ctx context.Context, driverID string, since time.Time) (int, error)
}

// RatingRepository defines the persistence operations for ride ratings.
type RatingRepository interface {
	// Create persists a new rating.
	Create(ctx context.Context, rating *domain.Rating) error

	// AverageForUser returns the arithmetic mean of all ratings ever received
	// by the user and the number of ratings.
	AverageForUser(ctx context.Context, userID string) (float64, int, error)
}

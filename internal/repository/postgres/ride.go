package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, rider_id, driver_id, pickup_lat, pickup_lng, pickup_address,
			destination_lat, destination_lng, destination_address, status, fare, distance,
			duration, commission_amount, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
	`

	var driverID sql.NullString
	if ride.DriverID != "" {
		driverID = sql.NullString{String: ride.DriverID, Valid: true}
	}

	var startedAt, completedAt sql.NullTime
	if !ride.StartedAt.IsZero() {
		startedAt = sql.NullTime{Time: ride.StartedAt, Valid: true}
	}
	if !ride.CompletedAt.IsZero() {
		completedAt = sql.NullTime{Time: ride.CompletedAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		driverID,
		ride.Pickup.Lat,
		ride.Pickup.Lng,
		ride.Pickup.Address,
		ride.Destination.Lat,
		ride.Destination.Lng,
		ride.Destination.Address,
		ride.Status,
		ride.Fare,
		ride.Distance,
		ride.Duration,
		ride.CommissionAmount,
		startedAt,
		completedAt,
		ride.CreatedAt,
	)
	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `
		SELECT id, rider_id, driver_id, pickup_lat, pickup_lng, pickup_address,
			destination_lat, destination_lng, destination_address, status, fare, distance,
			duration, commission_amount, started_at, completed_at, created_at, updated_at
		FROM rides WHERE id = $1
	`

	var ride domain.Ride
	var driverID sql.NullString
	var startedAt, completedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.Pickup.Lat,
		&ride.Pickup.Lng,
		&ride.Pickup.Address,
		&ride.Destination.Lat,
		&ride.Destination.Lng,
		&ride.Destination.Address,
		&ride.Status,
		&ride.Fare,
		&ride.Distance,
		&ride.Duration,
		&ride.CommissionAmount,
		&startedAt,
		&completedAt,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	if startedAt.Valid {
		ride.StartedAt = startedAt.Time
	}
	if completedAt.Valid {
		ride.CompletedAt = completedAt.Time
	}
	return &ride, nil
}

// AcceptRequested assigns the driver and moves the ride to accepted. The
// update is conditioned on the status still being requested, so under
// concurrent acceptance exactly one driver wins.
func (r *RideRepository) AcceptRequested(ctx context.Context, id, driverID string) (bool, error) {
	query := `
		UPDATE rides SET driver_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.ExecContext(ctx, query, driverID, domain.RideStatusAccepted, id, domain.RideStatusRequested)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// StartAccepted moves the ride to in_progress and stamps the start time.
func (r *RideRepository) StartAccepted(ctx context.Context, id string, startedAt time.Time) (bool, error) {
	query := `
		UPDATE rides SET status = $1, started_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.ExecContext(ctx, query, domain.RideStatusInProgress, startedAt, id, domain.RideStatusAccepted)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// CompleteInProgress finalizes fare details and moves the ride to completed.
func (r *RideRepository) CompleteInProgress(ctx context.Context, ride *domain.Ride) (bool, error) {
	query := `
		UPDATE rides SET status = $1, fare = $2, distance = $3, duration = $4,
			commission_amount = $5, completed_at = $6, updated_at = NOW()
		WHERE id = $7 AND status = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RideStatusCompleted,
		ride.Fare,
		ride.Distance,
		ride.Duration,
		ride.CommissionAmount,
		ride.CompletedAt,
		ride.ID,
		domain.RideStatusInProgress,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// Cancel moves the ride to cancelled from requested or accepted.
func (r *RideRepository) Cancel(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE rides SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ($3, $4)
	`

	result, err := r.q.ExecContext(ctx, query, domain.RideStatusCancelled, id, domain.RideStatusRequested, domain.RideStatusAccepted)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// CountCompletedByDriverSince counts the driver's completed rides created at
// or after the given time.
func (r *RideRepository) CountCompletedByDriverSince(ctx context.Context, driverID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM rides
		WHERE driver_id = $1 AND status = $2 AND created_at >= $3
	`

	var count int
	err := r.q.QueryRowContext(ctx, query, driverID, domain.RideStatusCompleted, since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure RideRepository implements repository.RideRepository.
var _ repository.RideRepository = (*RideRepository)(nil)

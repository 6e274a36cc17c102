package postgres

import (
	"context"
	"database/sql"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

// RatingRepository is a PostgreSQL implementation of repository.RatingRepository.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new PostgreSQL rating repository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

// NewRatingRepositoryWithTx creates a rating repository using a transaction.
func NewRatingRepositoryWithTx(tx *sql.Tx) *RatingRepository {
	return &RatingRepository{q: tx}
}

// Create persists a new rating.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, ride_id, rated_user_id, rater_type, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var review sql.NullString
	if rating.Review != "" {
		review = sql.NullString{String: rating.Review, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		rating.ID,
		rating.RideID,
		rating.RatedUserID,
		rating.RaterType,
		rating.Rating,
		review,
		rating.CreatedAt,
	)
	return err
}

// AverageForUser returns the arithmetic mean of all ratings ever received by
// the user and the number of ratings.
func (r *RatingRepository) AverageForUser(ctx context.Context, userID string) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM ratings WHERE rated_user_id = $1
	`

	var avg float64
	var count int
	if err := r.q.QueryRowContext(ctx, query, userID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

// Ensure RatingRepository implements repository.RatingRepository.
var _ repository.RatingRepository = (*RatingRepository)(nil)

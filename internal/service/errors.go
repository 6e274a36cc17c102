package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when a monetary amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrWithdrawalOutOfRange is returned when a withdrawal amount is outside
	// the configured window.
	ErrWithdrawalOutOfRange = errors.New("withdrawal amount outside allowed range")

	// ErrInsufficientFunds is returned when a balance is too low to cover an
	// operation. Use errors.Is against this; the concrete error carries the
	// attempted amount and available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidRiderID is returned when the rider ID is empty or unknown.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidDriverID is returned when the driver ID is empty or does not
	// belong to a driver.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRideID is returned when the ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidLocation is returned when pickup or destination is malformed.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidDistance is returned when a distance or duration is negative.
	ErrInvalidDistance = errors.New("distance and duration must be non-negative")

	// ErrRideNotRequested is returned when accepting a ride that is no longer
	// in the requested state.
	ErrRideNotRequested = errors.New("ride not in requested state")

	// ErrRideNotAccepted is returned when starting a ride that is not accepted.
	ErrRideNotAccepted = errors.New("ride not in accepted state")

	// ErrRideNotInProgress is returned when completing a ride that is not in
	// progress.
	ErrRideNotInProgress = errors.New("ride not in progress")

	// ErrRideNotCompleted is returned when rating a ride that has not
	// completed.
	ErrRideNotCompleted = errors.New("ride not completed")

	// ErrRideCannotBeCancelled is returned when cancelling a ride that is
	// past the accepted state.
	ErrRideCannotBeCancelled = errors.New("ride cannot be cancelled in current state")

	// ErrInvalidRating is returned when a rating is outside [1, 5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidRaterType is returned when the rater type is neither rider
	// nor driver.
	ErrInvalidRaterType = errors.New("invalid rater type")

	// ErrInvalidSaveDuration is returned when the plan duration is not one of
	// the allowed values.
	ErrInvalidSaveDuration = errors.New("invalid savings duration")

	// ErrSavePercentageTooLow is returned when the save percentage is below
	// the configured minimum.
	ErrSavePercentageTooLow = errors.New("save percentage below minimum")

	// ErrPlanAlreadyActive is returned when the driver already has an active
	// savings plan.
	ErrPlanAlreadyActive = errors.New("driver already has an active savings plan")

	// ErrPlanNotActive is returned when withdrawing from a plan that is not
	// active.
	ErrPlanNotActive = errors.New("savings plan not active")

	// ErrPlanBusy is returned when another withdrawal holds the plan lock.
	ErrPlanBusy = errors.New("savings plan is being modified, retry shortly")

	// ErrBonusClaimBusy is returned when another claim holds the bonus lock.
	ErrBonusClaimBusy = errors.New("bonus claim in progress, retry shortly")

	// ErrUserAlreadyExists is returned when registering with a phone or email
	// already in use.
	ErrUserAlreadyExists = errors.New("user already registered")

	// ErrInvalidEmail is returned when the email address is missing or
	// malformed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPhone is returned when the phone number fails format
	// validation.
	ErrInvalidPhone = errors.New("invalid phone number format")

	// ErrInvalidBVN is returned when the BVN is not exactly 11 digits.
	ErrInvalidBVN = errors.New("invalid bvn format")

	// ErrInvalidFullName is returned when the full name is missing first or
	// last name.
	ErrInvalidFullName = errors.New("full legal name (first and last) required")

	// ErrInvalidRole is returned when the user role is neither driver nor
	// rider.
	ErrInvalidRole = errors.New("invalid user role")

	// ErrNotAuthorized is returned when a non-admin calls an admin operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrSettingsConflict is returned when a versioned settings update loses
	// a concurrent race.
	ErrSettingsConflict = errors.New("settings changed concurrently, retry")
)

// InsufficientFundsError reports a balance too low for the attempted amount.
// It matches errors.Is(err, ErrInsufficientFunds).
type InsufficientFundsError struct {
	Requested int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: requested %d, available %d", e.Requested, e.Available)
}

// Is makes the typed error match the ErrInsufficientFunds sentinel.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

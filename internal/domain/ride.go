package domain

import "time"

// RideStatus represents the current status of a ride. Transitions are
// monotonic: requested -> accepted -> in_progress -> completed, with
// cancelled reachable from requested or accepted only.
type RideStatus string

const (
	RideStatusRequested  RideStatus = "requested"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Location is a geographic point with a resolved address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Ride represents one trip. DriverID is set if and only if the ride has been
// accepted; fare holds the estimate until completion finalizes it.
type Ride struct {
	ID               string
	RiderID          string
	DriverID         string
	Pickup           Location
	Destination      Location
	Status           RideStatus
	Fare             int64
	Distance         float64
	Duration         float64
	CommissionAmount int64
	StartedAt        time.Time
	CompletedAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RaterType identifies which party of a ride submits a rating.
type RaterType string

const (
	RaterTypeRider  RaterType = "rider"
	RaterTypeDriver RaterType = "driver"
)

// Rating records one party's rating of the counterparty on a completed ride.
type Rating struct {
	ID          string
	RideID      string
	RatedUserID string
	RaterType   RaterType
	Rating      int
	Review      string
	CreatedAt   time.Time
}

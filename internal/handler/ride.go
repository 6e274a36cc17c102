package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// RequestRideRequest is the HTTP request body for requesting a ride.
type RequestRideRequest struct {
	RiderID           string          `json:"rider_id"`
	Pickup            domain.Location `json:"pickup"`
	Destination       domain.Location `json:"destination"`
	EstimatedDistance float64         `json:"estimated_distance"`
	EstimatedDuration float64         `json:"estimated_duration"`
}

// AcceptRideRequest is the HTTP request body for accepting a ride.
type AcceptRideRequest struct {
	DriverID string `json:"driver_id"`
}

// CompleteRideRequest is the HTTP request body for completing a ride.
type CompleteRideRequest struct {
	FinalDistance float64 `json:"final_distance"`
	FinalDuration float64 `json:"final_duration"`
}

// RateRideRequest is the HTTP request body for rating a completed ride.
type RateRideRequest struct {
	RaterType string `json:"rater_type"` // rider, driver
	Rating    int    `json:"rating"`
	Review    string `json:"review,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID          string          `json:"id"`
	RiderID     string          `json:"rider_id"`
	DriverID    string          `json:"driver_id,omitempty"`
	Pickup      domain.Location `json:"pickup"`
	Destination domain.Location `json:"destination"`
	Status      string          `json:"status"`
	Fare        int64           `json:"fare"`
	Distance    float64         `json:"distance"`
	Duration    float64         `json:"duration"`
	Commission  int64           `json:"commission"`
	StartedAt   string          `json:"started_at,omitempty"`
	CompletedAt string          `json:"completed_at,omitempty"`
}

// CompleteRideResponse is the HTTP response for completing a ride.
type CompleteRideResponse struct {
	Ride          RideResponse `json:"ride"`
	Fare          int64        `json:"fare"`
	DriverEarning int64        `json:"driver_earning"`
	Commission    int64        `json:"commission"`
	Contribution  int64        `json:"savings_contribution"`
}

// RatingResponse is the HTTP response for rating a ride.
type RatingResponse struct {
	ID          string `json:"id"`
	RideID      string `json:"ride_id"`
	RatedUserID string `json:"rated_user_id"`
	RaterType   string `json:"rater_type"`
	Rating      int    `json:"rating"`
	Review      string `json:"review,omitempty"`
}

// RequestRide handles POST /api/ride/request
func (h *RideHandler) RequestRide(c *gin.Context) {
	var req RequestRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Request(c.Request.Context(), service.RequestRideCommand{
		RiderID:           req.RiderID,
		Pickup:            req.Pickup,
		Destination:       req.Destination,
		EstimatedDistance: req.EstimatedDistance,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// AcceptRide handles POST /api/ride/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	var req AcceptRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Accept(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// StartRide handles POST /api/ride/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	ride, err := h.rideService.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRide handles POST /api/ride/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	var req CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.rideService.Complete(c.Request.Context(), c.Param("id"), req.FinalDistance, req.FinalDuration)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CompleteRideResponse{
		Ride:          toRideResponse(result.Ride),
		Fare:          result.Settlement.Fare,
		DriverEarning: result.Settlement.DriverEarning,
		Commission:    result.Settlement.Commission,
		Contribution:  result.Settlement.Contribution,
	})
}

// CancelRide handles POST /api/ride/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	ride, err := h.rideService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// RateRide handles POST /api/ride/:id/rate
func (h *RideHandler) RateRide(c *gin.Context) {
	var req RateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rating, err := h.rideService.Rate(c.Request.Context(), service.RateRideCommand{
		RideID:    c.Param("id"),
		RaterType: domain.RaterType(req.RaterType),
		Rating:    req.Rating,
		Review:    req.Review,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RatingResponse{
		ID:          rating.ID,
		RideID:      rating.RideID,
		RatedUserID: rating.RatedUserID,
		RaterType:   string(rating.RaterType),
		Rating:      rating.Rating,
		Review:      rating.Review,
	})
}

// GetRide handles GET /api/ride/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

func toRideResponse(r *domain.Ride) RideResponse {
	response := RideResponse{
		ID:          r.ID,
		RiderID:     r.RiderID,
		DriverID:    r.DriverID,
		Pickup:      r.Pickup,
		Destination: r.Destination,
		Status:      string(r.Status),
		Fare:        r.Fare,
		Distance:    r.Distance,
		Duration:    r.Duration,
		Commission:  r.CommissionAmount,
	}
	if !r.StartedAt.IsZero() {
		response.StartedAt = r.StartedAt.Format(time.RFC3339)
	}
	if !r.CompletedAt.IsZero() {
		response.CompletedAt = r.CompletedAt.Format(time.RFC3339)
	}
	return response
}

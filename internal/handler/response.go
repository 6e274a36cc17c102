package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RoiLaboratories/taxifi/internal/repository"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrWithdrawalOutOfRange),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidRaterType),
		errors.Is(err, service.ErrInvalidSaveDuration),
		errors.Is(err, service.ErrSavePercentageTooLow),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidBVN),
		errors.Is(err, service.ErrInvalidFullName),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrRideNotRequested),
		errors.Is(err, service.ErrRideNotAccepted),
		errors.Is(err, service.ErrRideNotInProgress),
		errors.Is(err, service.ErrRideNotCompleted),
		errors.Is(err, service.ErrRideCannotBeCancelled),
		errors.Is(err, service.ErrPlanAlreadyActive),
		errors.Is(err, service.ErrPlanNotActive),
		errors.Is(err, service.ErrPlanBusy),
		errors.Is(err, service.ErrBonusClaimBusy),
		errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrSettingsConflict):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

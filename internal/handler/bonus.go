package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RoiLaboratories/taxifi/internal/service"
)

// BonusHandler handles HTTP requests for daily driver bonuses.
type BonusHandler struct {
	bonusService *service.BonusService
}

// NewBonusHandler creates a new BonusHandler.
func NewBonusHandler(bonusService *service.BonusService) *BonusHandler {
	return &BonusHandler{bonusService: bonusService}
}

// CheckEligibilityRequest is the HTTP request body for a bonus check.
type CheckEligibilityRequest struct {
	DriverID string `json:"driver_id"`
}

// UpdateBonusAmountRequest is the HTTP request body for updating the
// configured bonus amount.
type UpdateBonusAmountRequest struct {
	AdminUserID string `json:"admin_user_id"`
	Amount      int64  `json:"amount"`
}

// BonusResponse is the HTTP response for a bonus check.
type BonusResponse struct {
	Eligible       bool  `json:"eligible"`
	Claimed        bool  `json:"claimed"`
	AlreadyClaimed bool  `json:"already_claimed"`
	CompletedRides int   `json:"completed_rides"`
	RequiredRides  int   `json:"required_rides"`
	BonusAmount    int64 `json:"bonus_amount,omitempty"`
}

// SettingsResponse is the HTTP representation of the platform settings.
type SettingsResponse struct {
	BonusAmount int64 `json:"bonus_amount"`
	Version     int64 `json:"version"`
}

// CheckEligibility handles POST /api/bonus/check-eligibility
func (h *BonusHandler) CheckEligibility(c *gin.Context) {
	var req CheckEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.bonusService.CheckAndClaim(c.Request.Context(), req.DriverID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BonusResponse{
		Eligible:       result.Eligible,
		Claimed:        result.Claimed,
		AlreadyClaimed: result.AlreadyClaimed,
		CompletedRides: result.CompletedRides,
		RequiredRides:  result.RequiredRides,
		BonusAmount:    result.BonusAmount,
	})
}

// UpdateBonusAmount handles PUT /api/bonus/update-amount
func (h *BonusHandler) UpdateBonusAmount(c *gin.Context) {
	var req UpdateBonusAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.AdminUserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "admin_user_id is required"})
		return
	}

	settings, err := h.bonusService.UpdateBonusAmount(c.Request.Context(), req.AdminUserID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SettingsResponse{
		BonusAmount: settings.BonusAmount,
		Version:     settings.Version,
	})
}

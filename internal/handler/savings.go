package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

// SavingsHandler handles HTTP requests for Drive & Save.
type SavingsHandler struct {
	savingsService *service.SavingsService
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(savingsService *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// StartPlanRequest is the HTTP request body for starting a plan.
type StartPlanRequest struct {
	DriverID       string `json:"driver_id"`
	SavePercentage int    `json:"save_percentage"`
	DurationDays   int    `json:"duration_days"` // 7, 30 or 365
}

// WithdrawSavingsRequest is the HTTP request body for a savings withdrawal.
type WithdrawSavingsRequest struct {
	Amount int64 `json:"amount"`
}

// SavingsPlanResponse is the HTTP representation of a plan.
type SavingsPlanResponse struct {
	ID             string `json:"id"`
	DriverID       string `json:"driver_id"`
	WalletID       string `json:"wallet_id"`
	SavePercentage int    `json:"save_percentage"`
	DurationDays   int    `json:"duration_days"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Status         string `json:"status"`
}

// SavingsWalletResponse is the HTTP representation of a savings wallet with
// its active plan, if any.
type SavingsWalletResponse struct {
	ID         string               `json:"id"`
	DriverID   string               `json:"driver_id"`
	Balance    int64                `json:"balance"`
	ActivePlan *SavingsPlanResponse `json:"active_plan,omitempty"`
}

// SavingsWithdrawalResponse is the HTTP response for a savings withdrawal.
type SavingsWithdrawalResponse struct {
	Amount     int64  `json:"amount"`
	Fee        int64  `json:"fee"`
	Payout     int64  `json:"payout"`
	NewBalance int64  `json:"new_balance"`
	PlanStatus string `json:"plan_status"`
}

// PlanHistoryResponse is one history entry.
type PlanHistoryResponse struct {
	Plan          SavingsPlanResponse `json:"plan"`
	WalletBalance int64               `json:"wallet_balance"`
}

// StartPlan handles POST /api/drive-and-save/start
func (h *SavingsHandler) StartPlan(c *gin.Context) {
	var req StartPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	plan, err := h.savingsService.Start(c.Request.Context(), service.StartPlanCommand{
		DriverID:       req.DriverID,
		SavePercentage: req.SavePercentage,
		DurationDays:   req.DurationDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPlanResponse(plan))
}

// WithdrawSavings handles POST /api/drive-and-save/:planId/withdraw
func (h *SavingsHandler) WithdrawSavings(c *gin.Context) {
	var req WithdrawSavingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.savingsService.Withdraw(c.Request.Context(), c.Param("planId"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SavingsWithdrawalResponse{
		Amount:     result.Amount,
		Fee:        result.Fee,
		Payout:     result.Payout,
		NewBalance: result.NewBalance,
		PlanStatus: string(result.PlanStatus),
	})
}

// GetWallet handles GET /api/drive-and-save/wallet/:driverId
func (h *SavingsHandler) GetWallet(c *gin.Context) {
	view, err := h.savingsService.Wallet(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := SavingsWalletResponse{
		ID:       view.Wallet.ID,
		DriverID: view.Wallet.DriverID,
		Balance:  view.Wallet.Balance,
	}
	if view.ActivePlan != nil {
		plan := toPlanResponse(view.ActivePlan)
		response.ActivePlan = &plan
	}

	respondJSON(c, http.StatusOK, response)
}

// GetActivePlan handles GET /api/drive-and-save/:driverId
func (h *SavingsHandler) GetActivePlan(c *gin.Context) {
	plan, err := h.savingsService.ActivePlan(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if plan == nil {
		respondJSON(c, http.StatusOK, []SavingsPlanResponse{})
		return
	}

	respondJSON(c, http.StatusOK, []SavingsPlanResponse{toPlanResponse(plan)})
}

// GetHistory handles GET /api/drive-and-save/history/:driverId
func (h *SavingsHandler) GetHistory(c *gin.Context) {
	response := make([]PlanHistoryResponse, 0)
	for entry, err := range h.savingsService.History(c.Request.Context(), c.Param("driverId")) {
		if err != nil {
			respondError(c, err)
			return
		}
		response = append(response, PlanHistoryResponse{
			Plan:          toPlanResponse(entry.Plan),
			WalletBalance: entry.WalletBalance,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

func toPlanResponse(p *domain.SavingsPlan) SavingsPlanResponse {
	return SavingsPlanResponse{
		ID:             p.ID,
		DriverID:       p.DriverID,
		WalletID:       p.WalletID,
		SavePercentage: p.SavePercentage,
		DurationDays:   p.DurationDays,
		StartDate:      p.StartDate.Format(time.RFC3339),
		EndDate:        p.EndDate.Format(time.RFC3339),
		Status:         string(p.Status),
	}
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

const dateLayout = "2006-01-02"

// WalletHandler handles HTTP requests for wallets and transactions.
type WalletHandler struct {
	ledger *service.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledger *service.LedgerService) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// FundWalletRequest is the HTTP request body for funding a wallet.
type FundWalletRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// WithdrawRequest is the HTTP request body for a bank withdrawal.
type WithdrawRequest struct {
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	BankAccount string `json:"bank_account"`
}

// TransferRequest is the HTTP request body for a wallet-to-wallet transfer.
type TransferRequest struct {
	FromUserID string `json:"from_user_id"`
	ToAccount  string `json:"to_account"`
	Amount     int64  `json:"amount"`
}

// WalletResponse is the HTTP representation of a wallet.
type WalletResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id,omitempty"`
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

// TransactionResponse is the HTTP representation of a transaction record.
type TransactionResponse struct {
	ID          string `json:"id"`
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	RideID      string `json:"ride_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// GetBalance handles GET /api/wallet/:userId
func (h *WalletHandler) GetBalance(c *gin.Context) {
	wallet, err := h.ledger.Balance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toWalletResponse(wallet))
}

// Fund handles POST /api/wallet/fund
func (h *WalletHandler) Fund(c *gin.Context) {
	var req FundWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id is required"})
		return
	}

	tx, err := h.ledger.Fund(c.Request.Context(), req.UserID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(tx))
}

// Withdraw handles POST /api/wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id is required"})
		return
	}
	if req.BankAccount == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bank_account is required"})
		return
	}

	tx, err := h.ledger.Withdraw(c.Request.Context(), req.UserID, req.Amount, req.BankAccount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(tx))
}

// Transfer handles POST /api/wallet/transfer
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.FromUserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from_user_id is required"})
		return
	}
	if req.ToAccount == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to_account is required"})
		return
	}

	tx, err := h.ledger.Transfer(c.Request.Context(), req.FromUserID, req.ToAccount, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(tx))
}

// GetTransactions handles GET /api/wallet/transactions/:userId/:type
// Optional start_date and end_date query params (YYYY-MM-DD) bound the
// window; end_date is inclusive of the whole day.
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID := c.Param("userId")
	kind := domain.TransactionKind(c.Param("type"))

	var start, end time.Time
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date"})
			return
		}
		start = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date"})
			return
		}
		end = t.AddDate(0, 0, 1)
	}

	transactions, err := h.ledger.Transactions(c.Request.Context(), userID, kind, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, toTransactionResponse(tx))
	}

	respondJSON(c, http.StatusOK, response)
}

func toWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:            w.ID,
		UserID:        w.UserID,
		AccountNumber: w.AccountNumber,
		Balance:       w.Balance,
	}
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		FromAccount: tx.FromAccount,
		ToAccount:   tx.ToAccount,
		Amount:      tx.Amount,
		Kind:        string(tx.Kind),
		Status:      string(tx.Status),
		RideID:      tx.RideID,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}

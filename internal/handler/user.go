package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

// UserHandler handles HTTP requests for user registration and profiles.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest is the HTTP request body for registering a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
	BVN      string `json:"bvn"`
	Role     string `json:"role"` // rider, driver
}

// UserResponse is the HTTP representation of a user profile. The BVN is
// never echoed back.
type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	Rating   float64 `json:"rating"`
	Status   string  `json:"status"`
}

// RegisterResponse is the HTTP response for a successful registration.
type RegisterResponse struct {
	User   UserResponse   `json:"user"`
	Wallet WalletResponse `json:"wallet"`
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.userService.Register(c.Request.Context(), service.RegisterCommand{
		Email:    req.Email,
		Phone:    req.Phone,
		FullName: req.FullName,
		BVN:      req.BVN,
		Role:     domain.UserRole(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RegisterResponse{
		User:   toUserResponse(result.User),
		Wallet: toWalletResponse(result.Wallet),
	})
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Phone:    u.Phone,
		FullName: u.FullName,
		Role:     string(u.Role),
		Rating:   u.Rating,
		Status:   string(u.Status),
	}
}

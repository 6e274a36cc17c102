package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

const defaultRating = 5

var (
	phonePattern = regexp.MustCompile(`^0[789][01]\d{8}$`)
	bvnPattern   = regexp.MustCompile(`^\d{11}$`)
)

// UserService handles registration and profile reads. Session issuance is an
// external concern; registration only creates the profile and its wallet.
type UserService struct {
	userRepo   repository.UserRepository
	walletRepo repository.WalletRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, walletRepo repository.WalletRepository) *UserService {
	return &UserService{userRepo: userRepo, walletRepo: walletRepo}
}

// RegisterCommand contains the parameters for registering a user.
type RegisterCommand struct {
	Email    string
	Phone    string
	FullName string
	BVN      string
	Role     domain.UserRole
}

// RegisterResult holds the created user and wallet.
type RegisterResult struct {
	User   *domain.User
	Wallet *domain.Wallet
}

// Register validates identity fields, creates the user and their wallet.
// The wallet account number is the phone number with the leading zero
// stripped. Drivers start pending review; riders start active.
func (s *UserService) Register(ctx context.Context, cmd RegisterCommand) (*RegisterResult, error) {
	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(strings.Fields(strings.TrimSpace(cmd.FullName))) < 2 {
		return nil, ErrInvalidFullName
	}
	if !phonePattern.MatchString(cmd.Phone) {
		return nil, ErrInvalidPhone
	}
	if !bvnPattern.MatchString(cmd.BVN) {
		return nil, ErrInvalidBVN
	}
	if cmd.Role != domain.UserRoleDriver && cmd.Role != domain.UserRoleRider {
		return nil, ErrInvalidRole
	}

	if existing, err := s.userRepo.GetByPhone(ctx, cmd.Phone); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if existing, err := s.userRepo.GetByEmail(ctx, cmd.Email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	status := domain.UserStatusActive
	if cmd.Role == domain.UserRoleDriver {
		status = domain.UserStatusPending
	}

	now := time.Now()
	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		FullName:  strings.TrimSpace(cmd.FullName),
		Role:      cmd.Role,
		BVN:       cmd.BVN,
		Rating:    defaultRating,
		Status:    status,
		CreatedAt: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	wallet := &domain.Wallet{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		AccountNumber: AccountNumberFromPhone(cmd.Phone),
		Balance:       0,
		CreatedAt:     now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	return &RegisterResult{User: user, Wallet: wallet}, nil
}

// Get retrieves a user profile.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, ErrInvalidRiderID
	}
	return s.userRepo.GetByID(ctx, id)
}

// AccountNumberFromPhone derives a wallet account number from a phone
// number by stripping the leading zero.
func AccountNumberFromPhone(phone string) string {
	return strings.TrimPrefix(phone, "0")
}

package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

// ──────────────────────────────────────────────
// REGISTRATION
// ──────────────────────────────────────────────

func registerCommand() service.RegisterCommand {
	return service.RegisterCommand{
		Email:    "ade@example.com",
		Phone:    "08012345678",
		FullName: "Ade Balogun",
		BVN:      "12345678901",
		Role:     domain.UserRoleRider,
	}
}

func newUserService() (*service.UserService, *MockUserRepository, *MockWalletRepository) {
	users := NewMockUserRepository()
	wallets := NewMockWalletRepository()
	return service.NewUserService(users, wallets), users, wallets
}

func TestRegister_CreatesUserAndWallet(t *testing.T) {
	t.Parallel()

	svc, _, wallets := newUserService()

	result, err := svc.Register(context.Background(), registerCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.User.Status != domain.UserStatusActive {
		t.Errorf("expected rider active, got %s", result.User.Status)
	}
	if result.User.Rating != 5 {
		t.Errorf("expected initial rating 5, got %f", result.User.Rating)
	}

	// Account number is the phone with the leading zero stripped.
	if result.Wallet.AccountNumber != "8012345678" {
		t.Errorf("expected account 8012345678, got %s", result.Wallet.AccountNumber)
	}
	if result.Wallet.Balance != 0 {
		t.Errorf("expected zero opening balance, got %d", result.Wallet.Balance)
	}
	if wallets.Balance("8012345678") != 0 {
		t.Errorf("wallet not persisted")
	}
}

func TestRegister_DriversStartPendingReview(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserService()

	cmd := registerCommand()
	cmd.Role = domain.UserRoleDriver
	result, err := svc.Register(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.User.Status != domain.UserStatusPending {
		t.Errorf("expected driver pending, got %s", result.User.Status)
	}
}

func TestRegister_PhoneFormat(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserService()
	ctx := context.Background()

	bad := []string{
		"8012345678",   // missing leading zero
		"06012345678",  // invalid operator prefix
		"0801234567",   // too short
		"080123456789", // too long
		"0802345678a",  // non-digit
		"",
	}
	for _, phone := range bad {
		cmd := registerCommand()
		cmd.Phone = phone
		if _, err := svc.Register(ctx, cmd); !errors.Is(err, service.ErrInvalidPhone) {
			t.Errorf("phone %q: expected ErrInvalidPhone, got %v", phone, err)
		}
	}

	for _, phone := range []string{"07012345678", "08112345678", "09012345678"} {
		cmd := registerCommand()
		cmd.Phone = phone
		cmd.Email = phone + "@example.com"
		if _, err := svc.Register(ctx, cmd); err != nil {
			t.Errorf("phone %q: unexpected error %v", phone, err)
		}
	}
}

func TestRegister_FieldValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserService()
	ctx := context.Background()

	cmd := registerCommand()
	cmd.FullName = "Ade"
	if _, err := svc.Register(ctx, cmd); !errors.Is(err, service.ErrInvalidFullName) {
		t.Errorf("expected ErrInvalidFullName for single name, got %v", err)
	}

	cmd = registerCommand()
	cmd.BVN = "1234567890" // 10 digits
	if _, err := svc.Register(ctx, cmd); !errors.Is(err, service.ErrInvalidBVN) {
		t.Errorf("expected ErrInvalidBVN, got %v", err)
	}

	cmd = registerCommand()
	cmd.Email = "not-an-email"
	if _, err := svc.Register(ctx, cmd); !errors.Is(err, service.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}

	cmd = registerCommand()
	cmd.Role = domain.UserRoleAdmin // not self-service
	if _, err := svc.Register(ctx, cmd); !errors.Is(err, service.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRegister_DuplicatePhoneOrEmailRejected(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerCommand()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same phone, different email.
	cmd := registerCommand()
	cmd.Email = "other@example.com"
	if _, err := svc.Register(ctx, cmd); !errors.Is(err, service.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists for duplicate phone, got %v", err)
	}

	// Same email, different phone.
	cmd = registerCommand()
	cmd.Phone = "08099999999"
	if _, err := svc.Register(ctx, cmd); !errors.Is(err, service.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists for duplicate email, got %v", err)
	}
}

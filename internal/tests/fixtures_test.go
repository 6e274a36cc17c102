package tests

import (
	"github.com/RoiLaboratories/taxifi/internal/config"
	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

const adminAccount = "9000000001"

// testPricing returns the default production rates.
func testPricing() config.PricingConfig {
	return config.PricingConfig{
		BaseFare:          500,
		DistanceRate:      100,
		TimeRate:          10,
		CommissionRate:    5,
		BreakFeePercent:   5,
		MinSavePercentage: 5,
		DailyBonusRides:   5,
		BonusAmount:       200,
	}
}

func testWalletConfig() config.WalletConfig {
	return config.WalletConfig{
		MinWithdrawal:      1000,
		MaxWithdrawal:      100000,
		AdminAccountNumber: adminAccount,
	}
}

// ledgerFixture bundles a LedgerService with the mocks behind it.
type ledgerFixture struct {
	ledger      *service.LedgerService
	wallets     *MockWalletRepository
	txs         *MockTransactionRepository
	savWallets  *MockSavingsWalletRepository
	savPlans    *MockSavingsPlanRepository
	rides       *MockRideRepository
	cache       *MockWalletCache
}

// newLedgerFixture wires a LedgerService over in-memory mocks. A nil *sql.DB
// makes the service run each unit of work against the injected repositories
// directly, so the full settlement and transfer logic is exercised.
func newLedgerFixture() *ledgerFixture {
	wallets := NewMockWalletRepository()
	txs := NewMockTransactionRepository()
	savWallets := NewMockSavingsWalletRepository()
	savPlans := NewMockSavingsPlanRepository()
	rides := NewMockRideRepository()
	cache := NewMockWalletCache()

	fare := service.NewFareCalculator(testPricing())
	ledger := service.NewLedgerService(
		nil, wallets, txs, savWallets, savPlans, rides, cache, fare, testWalletConfig(),
	)

	// Platform wallet is always present in production, seeded at startup.
	wallets.AddWallet(&domain.Wallet{
		ID:            "wallet-admin",
		AccountNumber: adminAccount,
		IsAdmin:       true,
	})

	return &ledgerFixture{
		ledger:     ledger,
		wallets:    wallets,
		txs:        txs,
		savWallets: savWallets,
		savPlans:   savPlans,
		rides:      rides,
		cache:      cache,
	}
}

// addUserWallet seeds a wallet for a user and returns its account number.
func (f *ledgerFixture) addUserWallet(userID, account string, balance int64) string {
	f.wallets.AddWallet(&domain.Wallet{
		ID:            "wallet-" + userID,
		UserID:        userID,
		AccountNumber: account,
		Balance:       balance,
	})
	return account
}

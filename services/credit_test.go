package services

import (
	"errors"
	"testing"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"gorm.io/gorm"
)

func TestInitializeAccountGrantsSignupBonus(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewCreditService()

	account, err := svc.InitializeAccount(user.ID)
	if err != nil {
		t.Fatalf("InitializeAccount failed: %v", err)
	}
	if account.ComplimentaryCredits != SignupBonusCredits {
		t.Errorf("complimentary = %d, want %d", account.ComplimentaryCredits, SignupBonusCredits)
	}
	if account.Kobos != SignupBonusKobos {
		t.Errorf("kobos = %d, want %d", account.Kobos, SignupBonusKobos)
	}

	// Second call must not grant the bonus again.
	again, err := svc.InitializeAccount(user.ID)
	if err != nil {
		t.Fatalf("second InitializeAccount failed: %v", err)
	}
	if again.ID != account.ID || again.ComplimentaryCredits != SignupBonusCredits {
		t.Errorf("second call changed the account: %+v", again)
	}

	var transactions int64
	config.DB.Model(&models.CreditTransaction{}).Where("user_id = ?", user.ID).Count(&transactions)
	if transactions != 2 {
		t.Errorf("bonus transactions = %d, want 2", transactions)
	}
}

func TestSpendCreditsComplimentaryFirst(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewCreditService()
	setBalance(t, user.ID, 10, 20, 0)

	if err := svc.SpendCredits(user.ID, 15, "test spend"); err != nil {
		t.Fatalf("SpendCredits failed: %v", err)
	}

	account := accountBalance(t, user.ID)
	if account.ComplimentaryCredits != 0 {
		t.Errorf("complimentary = %d, want 0", account.ComplimentaryCredits)
	}
	if account.PurchasedCredits != 15 {
		t.Errorf("purchased = %d, want 15", account.PurchasedCredits)
	}
}

func TestSpendCreditsInsufficientLeavesBalanceUntouched(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewCreditService()
	setBalance(t, user.ID, 5, 0, 0)

	err := svc.SpendCredits(user.ID, 50, "too expensive")
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("err = %v, want ErrInsufficientCredits", err)
	}

	account := accountBalance(t, user.ID)
	if account.TotalCredits() != 5 {
		t.Errorf("balance changed on failed spend: %+v", account)
	}

	var spends int64
	config.DB.Model(&models.CreditTransaction{}).
		Where("user_id = ? AND type = ?", user.ID, models.TransactionTypeSpend).
		Count(&spends)
	if spends != 0 {
		t.Errorf("failed spend left %d ledger rows", spends)
	}
}

func TestSpendCreditsInvalidAmount(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewCreditService()

	for _, amount := range []int{0, -5} {
		if err := svc.SpendCredits(user.ID, amount, "bad"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("SpendCredits(%d) err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestStaffSpendIsExempt(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleMember)
	svc := NewCreditService()
	setBalance(t, staff.ID, 10, 0, 10)

	if err := svc.SpendCredits(staff.ID, 1000, "staff action"); err != nil {
		t.Fatalf("staff spend failed: %v", err)
	}

	account := accountBalance(t, staff.ID)
	if account.TotalCredits() != 10 || account.Kobos != 10 {
		t.Errorf("staff balance changed: %+v", account)
	}

	ok, err := svc.CanAfford(staff.ID, 1000000)
	if err != nil || !ok {
		t.Errorf("CanAfford for staff = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestChatMinuteDrainsKobosFirst(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewCreditService()
	setBalance(t, user.ID, 10, 0, 2)

	kobos, credits, err := svc.SpendForChatMinuteTx(config.DB, user.ID, 3, "chat minute")
	if err != nil {
		t.Fatalf("SpendForChatMinuteTx failed: %v", err)
	}
	if kobos != 2 || credits != 1 {
		t.Errorf("split = (%d kobos, %d credits), want (2, 1)", kobos, credits)
	}

	account := accountBalance(t, user.ID)
	if account.Kobos != 0 {
		t.Errorf("kobos = %d, want 0", account.Kobos)
	}
	if account.TotalCredits() != 9 {
		t.Errorf("credits = %d, want 9", account.TotalCredits())
	}
}

func TestChatMinuteInsufficientBothPools(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewCreditService()
	setBalance(t, user.ID, 0, 0, 1)

	_, _, err := svc.SpendForChatMinuteTx(config.DB, user.ID, 3, "chat minute")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	account := accountBalance(t, user.ID)
	if account.Kobos != 1 {
		t.Errorf("failed charge drained kobos: %+v", account)
	}
}

func TestDeductCreditsAppliesToStaff(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	svc := NewCreditService()
	setBalance(t, staff.ID, 10, 5, 0)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return svc.DeductCreditsTx(tx, staff.ID, 12, "resettlement")
	})
	if err != nil {
		t.Fatalf("DeductCreditsTx failed: %v", err)
	}

	account := accountBalance(t, staff.ID)
	if account.TotalCredits() != 3 {
		t.Errorf("balance after deduct = %d, want 3", account.TotalCredits())
	}
}

func TestApplyBalanceDetectsConcurrentWriter(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewCreditService()

	account, err := svc.InitializeAccount(user.ID)
	if err != nil {
		t.Fatalf("InitializeAccount failed: %v", err)
	}

	// Simulate another writer bumping the version between read and write.
	if err := config.DB.Model(&models.CreditAccount{}).
		Where("id = ?", account.ID).
		Update("version", account.Version+1).Error; err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}

	err = svc.applyBalance(config.DB, account, 0, 0, 0)
	if !errors.Is(err, ErrAccountConflict) {
		t.Fatalf("err = %v, want ErrAccountConflict", err)
	}
}

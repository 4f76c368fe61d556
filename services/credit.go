package services

import (
	"errors"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInsufficientFunds   = errors.New("insufficient kobos and credits")
	ErrAccountConflict     = errors.New("balance changed concurrently, retry")
)

type CreditService struct{}

func NewCreditService() *CreditService {
	return &CreditService{}
}

// InitializeAccount creates the user's credit account with the signup bonus.
// Idempotent: a second call returns the existing account untouched.
func (s *CreditService) InitializeAccount(userID uint) (*models.CreditAccount, error) {
	var account *models.CreditAccount
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		account, txErr = s.accountTx(tx, userID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns the user's account, creating it on first access.
func (s *CreditService) GetAccount(userID uint) (*models.CreditAccount, error) {
	return s.InitializeAccount(userID)
}

// accountTx loads the account inside the caller's transaction, creating it
// with the signup bonus on first access.
func (s *CreditService) accountTx(tx *gorm.DB, userID uint) (*models.CreditAccount, error) {
	var account models.CreditAccount
	err := tx.Where("user_id = ?", userID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = models.CreditAccount{
		UserID:               userID,
		ComplimentaryCredits: SignupBonusCredits,
		Kobos:                SignupBonusKobos,
	}
	if err := tx.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
				return nil, err
			}
			return &account, nil
		}
		return nil, err
	}

	bonus := []models.CreditTransaction{
		{UserID: userID, Type: models.TransactionTypeEarn, Currency: models.CurrencyCredits,
			Amount: SignupBonusCredits, Description: "Welcome bonus"},
		{UserID: userID, Type: models.TransactionTypeEarn, Currency: models.CurrencyKobos,
			Amount: SignupBonusKobos, Description: "Welcome bonus"},
	}
	if err := tx.Create(&bonus).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *CreditService) isExempt(tx *gorm.DB, userID uint) (bool, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.IsStaff(), nil
}

// CanAfford reports whether the user's combined credit pools cover amount.
// Staff always afford.
func (s *CreditService) CanAfford(userID uint, amount int) (bool, error) {
	exempt, err := s.isExempt(config.DB, userID)
	if err != nil {
		return false, err
	}
	if exempt {
		return true, nil
	}
	account, err := s.GetAccount(userID)
	if err != nil {
		return false, err
	}
	return account.TotalCredits() >= amount, nil
}

// applyBalance writes new pool values guarded by the account version. A
// concurrent writer bumps the version first and the update matches no rows.
func (s *CreditService) applyBalance(tx *gorm.DB, account *models.CreditAccount, comp, purch, kobos int) error {
	result := tx.Model(&models.CreditAccount{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]interface{}{
			"complimentary_credits": comp,
			"purchased_credits":     purch,
			"kobos":                 kobos,
			"version":               account.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountConflict
	}
	return nil
}

func (s *CreditService) SpendCredits(userID uint, amount int, description string) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		return s.SpendCreditsTx(tx, userID, amount, description)
	})
}

// SpendCreditsTx deducts amount from complimentary credits first, then
// purchased, and appends the spend to the ledger. Staff spend nothing.
func (s *CreditService) SpendCreditsTx(tx *gorm.DB, userID uint, amount int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	exempt, err := s.isExempt(tx, userID)
	if err != nil {
		return err
	}
	if exempt {
		return nil
	}

	account, err := s.accountTx(tx, userID)
	if err != nil {
		return err
	}
	if account.TotalCredits() < amount {
		return ErrInsufficientCredits
	}

	fromComp := amount
	if fromComp > account.ComplimentaryCredits {
		fromComp = account.ComplimentaryCredits
	}
	fromPurch := amount - fromComp

	if err := s.applyBalance(tx, account,
		account.ComplimentaryCredits-fromComp,
		account.PurchasedCredits-fromPurch,
		account.Kobos); err != nil {
		return err
	}

	return tx.Create(&models.CreditTransaction{
		UserID:      userID,
		Type:        models.TransactionTypeSpend,
		Currency:    models.CurrencyCredits,
		Amount:      amount,
		Description: description,
	}).Error
}

func (s *CreditService) AddCredits(userID uint, amount int, description string, purchased bool) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		return s.AddCreditsTx(tx, userID, amount, description, purchased)
	})
}

// AddCreditsTx grants credits to the purchased or complimentary pool.
func (s *CreditService) AddCreditsTx(tx *gorm.DB, userID uint, amount int, description string, purchased bool) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	account, err := s.accountTx(tx, userID)
	if err != nil {
		return err
	}

	comp, purch := account.ComplimentaryCredits, account.PurchasedCredits
	if purchased {
		purch += amount
	} else {
		comp += amount
	}

	if err := s.applyBalance(tx, account, comp, purch, account.Kobos); err != nil {
		return err
	}

	return tx.Create(&models.CreditTransaction{
		UserID:      userID,
		Type:        models.TransactionTypeEarn,
		Currency:    models.CurrencyCredits,
		Amount:      amount,
		Description: description,
	}).Error
}

func (s *CreditService) AddKobos(userID uint, amount int, description string) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		return s.AddKobosTx(tx, userID, amount, description)
	})
}

func (s *CreditService) AddKobosTx(tx *gorm.DB, userID uint, amount int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	account, err := s.accountTx(tx, userID)
	if err != nil {
		return err
	}

	if err := s.applyBalance(tx, account,
		account.ComplimentaryCredits, account.PurchasedCredits,
		account.Kobos+amount); err != nil {
		return err
	}

	return tx.Create(&models.CreditTransaction{
		UserID:      userID,
		Type:        models.TransactionTypeEarn,
		Currency:    models.CurrencyKobos,
		Amount:      amount,
		Description: description,
	}).Error
}

// DeductCredits claws credits back for resettlements. Unlike SpendCredits it
// applies to staff too and is capped at the available balance.
func (s *CreditService) DeductCreditsTx(tx *gorm.DB, userID uint, amount int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	account, err := s.accountTx(tx, userID)
	if err != nil {
		return err
	}
	if account.TotalCredits() < amount {
		return ErrInsufficientCredits
	}

	fromComp := amount
	if fromComp > account.ComplimentaryCredits {
		fromComp = account.ComplimentaryCredits
	}
	fromPurch := amount - fromComp

	if err := s.applyBalance(tx, account,
		account.ComplimentaryCredits-fromComp,
		account.PurchasedCredits-fromPurch,
		account.Kobos); err != nil {
		return err
	}

	return tx.Create(&models.CreditTransaction{
		UserID:      userID,
		Type:        models.TransactionTypeSpend,
		Currency:    models.CurrencyCredits,
		Amount:      amount,
		Description: description,
	}).Error
}

// SpendForChatMinuteTx bills one chat minute: kobos are drained first, any
// shortfall comes out of the credit pools. Returns the split for the tick
// record.
func (s *CreditService) SpendForChatMinuteTx(tx *gorm.DB, userID uint, cost int, description string) (kobosSpent, creditsSpent int, err error) {
	if cost <= 0 {
		return 0, 0, ErrInvalidAmount
	}

	exempt, err := s.isExempt(tx, userID)
	if err != nil {
		return 0, 0, err
	}
	if exempt {
		return 0, 0, nil
	}

	account, err := s.accountTx(tx, userID)
	if err != nil {
		return 0, 0, err
	}

	kobosSpent = cost
	if kobosSpent > account.Kobos {
		kobosSpent = account.Kobos
	}
	creditsSpent = cost - kobosSpent

	if account.TotalCredits() < creditsSpent {
		return 0, 0, ErrInsufficientFunds
	}

	fromComp := creditsSpent
	if fromComp > account.ComplimentaryCredits {
		fromComp = account.ComplimentaryCredits
	}
	fromPurch := creditsSpent - fromComp

	if err := s.applyBalance(tx, account,
		account.ComplimentaryCredits-fromComp,
		account.PurchasedCredits-fromPurch,
		account.Kobos-kobosSpent); err != nil {
		return 0, 0, err
	}

	if kobosSpent > 0 {
		if err := tx.Create(&models.CreditTransaction{
			UserID:      userID,
			Type:        models.TransactionTypeSpend,
			Currency:    models.CurrencyKobos,
			Amount:      kobosSpent,
			Description: description,
		}).Error; err != nil {
			return 0, 0, err
		}
	}
	if creditsSpent > 0 {
		if err := tx.Create(&models.CreditTransaction{
			UserID:      userID,
			Type:        models.TransactionTypeSpend,
			Currency:    models.CurrencyCredits,
			Amount:      creditsSpent,
			Description: description,
		}).Error; err != nil {
			return 0, 0, err
		}
	}
	return kobosSpent, creditsSpent, nil
}

func (s *CreditService) GetTransactions(userID uint) ([]models.CreditTransaction, error) {
	var transactions []models.CreditTransaction
	err := config.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}

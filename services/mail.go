package services

import (
	"errors"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"gorm.io/gorm"
)

type MailService struct {
	creditService *CreditService
}

func NewMailService() *MailService {
	return &MailService{
		creditService: NewCreditService(),
	}
}

// ChargeResult tells the caller whether the first-contact waiver applied and
// what the action cost.
type ChargeResult struct {
	Free bool `json:"free"`
	Cost int  `json:"cost"`
}

// threadTx loads the thread state inside the caller's transaction, creating
// it on first contact.
func (s *MailService) threadTx(tx *gorm.DB, userID uint, threadKey string) (*models.MailThread, error) {
	var thread models.MailThread
	err := tx.Where("user_id = ? AND thread_key = ?", userID, threadKey).First(&thread).Error
	if err == nil {
		return &thread, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	thread = models.MailThread{UserID: userID, ThreadKey: threadKey}
	if err := tx.Create(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.Where("user_id = ? AND thread_key = ?", userID, threadKey).First(&thread).Error; err != nil {
				return nil, err
			}
			return &thread, nil
		}
		return nil, err
	}
	return &thread, nil
}

// chargeTx spends the given cost through the ledger and reports what was
// actually charged. Exempt users pay nothing, so the result shows a waived
// zero-cost action rather than a charge that never happened.
func (s *MailService) chargeTx(tx *gorm.DB, userID uint, cost int, description string) (ChargeResult, error) {
	exempt, err := s.creditService.isExempt(tx, userID)
	if err != nil {
		return ChargeResult{}, err
	}
	if exempt {
		return ChargeResult{Free: true, Cost: 0}, nil
	}
	if err := s.creditService.SpendCreditsTx(tx, userID, cost, description); err != nil {
		return ChargeResult{}, err
	}
	return ChargeResult{Free: false, Cost: cost}, nil
}

// ReadMessage charges for reading a mail in a thread. The first inbound read
// per thread is free; the waiver flag flips in the same transaction as the
// charge, so it cannot be consumed twice.
func (s *MailService) ReadMessage(userID uint, threadKey string) (*ChargeResult, error) {
	if threadKey == "" {
		return nil, errors.New("thread key is required")
	}

	var result ChargeResult
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		thread, err := s.threadTx(tx, userID, threadKey)
		if err != nil {
			return err
		}

		if !thread.FirstReadConsumed {
			result = ChargeResult{Free: true, Cost: 0}
			if err := tx.Model(thread).Update("first_read_consumed", true).Error; err != nil {
				return err
			}
		} else {
			charged, err := s.chargeTx(tx, userID, MailReadCost, "Mail read: "+threadKey)
			if err != nil {
				return err
			}
			result = charged
		}

		return tx.Create(&models.MailMessage{
			UserID:      userID,
			ThreadKey:   threadKey,
			Direction:   models.MailInbound,
			CostCredits: result.Cost,
			Free:        result.Free,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SendMessage charges for sending a mail in a thread. The first outbound
// message per thread is free.
func (s *MailService) SendMessage(userID uint, threadKey, body string) (*ChargeResult, error) {
	if threadKey == "" {
		return nil, errors.New("thread key is required")
	}

	var result ChargeResult
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		thread, err := s.threadTx(tx, userID, threadKey)
		if err != nil {
			return err
		}

		if !thread.FirstSendConsumed {
			result = ChargeResult{Free: true, Cost: 0}
			if err := tx.Model(thread).Update("first_send_consumed", true).Error; err != nil {
				return err
			}
		} else {
			charged, err := s.chargeTx(tx, userID, MailSendCost, "Mail sent: "+threadKey)
			if err != nil {
				return err
			}
			result = charged
		}

		return tx.Create(&models.MailMessage{
			UserID:      userID,
			ThreadKey:   threadKey,
			Direction:   models.MailOutbound,
			Body:        body,
			CostCredits: result.Cost,
			Free:        result.Free,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SendPhoto charges for attaching a photo. Photos are never covered by the
// first-contact waiver.
func (s *MailService) SendPhoto(userID uint, threadKey string) (*ChargeResult, error) {
	if threadKey == "" {
		return nil, errors.New("thread key is required")
	}

	var result ChargeResult
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.threadTx(tx, userID, threadKey); err != nil {
			return err
		}
		charged, err := s.chargeTx(tx, userID, PhotoCost, "Photo sent: "+threadKey)
		if err != nil {
			return err
		}
		result = charged
		return tx.Create(&models.MailMessage{
			UserID:      userID,
			ThreadKey:   threadKey,
			Direction:   models.MailOutbound,
			Photo:       true,
			CostCredits: result.Cost,
			Free:        result.Free,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetThreadState returns the waiver flags for a thread without consuming
// anything, for UI cost previews.
func (s *MailService) GetThreadState(userID uint, threadKey string) (*models.MailThread, error) {
	var thread models.MailThread
	err := config.DB.Where("user_id = ? AND thread_key = ?", userID, threadKey).First(&thread).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.MailThread{UserID: userID, ThreadKey: threadKey}, nil
	}
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (s *MailService) GetMessages(userID uint, threadKey string) ([]models.MailMessage, error) {
	var messages []models.MailMessage
	err := config.DB.Where("user_id = ? AND thread_key = ?", userID, threadKey).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

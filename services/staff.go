package services

import (
	"errors"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrRequestNotPending = errors.New("request is not pending")
	ErrZeroAdjustment    = errors.New("adjustment amount cannot be zero")
)

// StaffService implements the two-party award workflow: staff file requests,
// admins review them, and approval executes the ledger change in the same
// transaction that flips the status.
type StaffService struct {
	creditService *CreditService
}

func NewStaffService() *StaffService {
	return &StaffService{
		creditService: NewCreditService(),
	}
}

func (s *StaffService) targetExists(userID uint) error {
	var user models.User
	if err := config.DB.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return errors.New("target user not found")
	}
	return nil
}

func (s *StaffService) CreateAccessRequest(staffID, targetUserID uint, amount int, reason string) (*models.CreditAccessRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := s.targetExists(targetUserID); err != nil {
		return nil, err
	}

	request := models.CreditAccessRequest{
		StaffID:      staffID,
		TargetUserID: targetUserID,
		Amount:       amount,
		Reason:       reason,
		Status:       models.RequestPending,
	}
	if err := config.DB.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ApproveAccessRequest awards the requested credits (complimentary pool) and
// marks the request approved atomically.
func (s *StaffService) ApproveAccessRequest(requestID, adminID uint) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var request models.CreditAccessRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if request.Status != models.RequestPending {
			return ErrRequestNotPending
		}

		if err := s.creditService.AddCreditsTx(tx, request.TargetUserID, request.Amount,
			"Staff credit award: "+request.Reason, false); err != nil {
			return err
		}

		now := time.Now()
		request.Status = models.RequestApproved
		request.ReviewedBy = &adminID
		request.ReviewedAt = &now
		return tx.Save(&request).Error
	})
}

func (s *StaffService) DenyAccessRequest(requestID, adminID uint) error {
	return s.denyRequest(&models.CreditAccessRequest{}, requestID, adminID)
}

func (s *StaffService) CreateResettlementRequest(staffID, targetUserID uint, amount int, reason string) (*models.CreditResettlementRequest, error) {
	if amount == 0 {
		return nil, ErrZeroAdjustment
	}
	if err := s.targetExists(targetUserID); err != nil {
		return nil, err
	}

	request := models.CreditResettlementRequest{
		StaffID:      staffID,
		TargetUserID: targetUserID,
		Amount:       amount,
		Reason:       reason,
		Status:       models.RequestPending,
	}
	if err := config.DB.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ApproveResettlementRequest applies a balance correction: positive amounts
// grant credits, negative ones claw them back. A clawback larger than the
// member's balance aborts and leaves the request pending.
func (s *StaffService) ApproveResettlementRequest(requestID, adminID uint) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var request models.CreditResettlementRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if request.Status != models.RequestPending {
			return ErrRequestNotPending
		}

		description := "Balance resettlement: " + request.Reason
		if request.Amount > 0 {
			if err := s.creditService.AddCreditsTx(tx, request.TargetUserID, request.Amount, description, false); err != nil {
				return err
			}
		} else {
			if err := s.creditService.DeductCreditsTx(tx, request.TargetUserID, -request.Amount, description); err != nil {
				return err
			}
		}

		now := time.Now()
		request.Status = models.RequestApproved
		request.ReviewedBy = &adminID
		request.ReviewedAt = &now
		return tx.Save(&request).Error
	})
}

func (s *StaffService) DenyResettlementRequest(requestID, adminID uint) error {
	return s.denyRequest(&models.CreditResettlementRequest{}, requestID, adminID)
}

func (s *StaffService) denyRequest(model interface{}, requestID, adminID uint) error {
	now := time.Now()
	result := config.DB.Model(model).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Updates(map[string]interface{}{
			"status":      models.RequestDenied,
			"reviewed_by": adminID,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotPending
	}
	return nil
}

func (s *StaffService) PendingAccessRequests() ([]models.CreditAccessRequest, error) {
	var requests []models.CreditAccessRequest
	err := config.DB.Preload("Staff").Preload("TargetUser").
		Where("status = ?", models.RequestPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (s *StaffService) PendingResettlementRequests() ([]models.CreditResettlementRequest, error) {
	var requests []models.CreditResettlementRequest
	err := config.DB.Preload("Staff").Preload("TargetUser").
		Where("status = ?", models.RequestPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (s *StaffService) AccessRequestsByStaff(staffID uint) ([]models.CreditAccessRequest, error) {
	var requests []models.CreditAccessRequest
	err := config.DB.Preload("TargetUser").
		Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

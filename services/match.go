package services

import (
	"errors"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"gorm.io/gorm"
)

type MatchService struct{}

func NewMatchService() *MatchService {
	return &MatchService{}
}

// Like records a swipe-right. A mutual like creates a match; the returned
// match is nil when the other side hasn't liked back yet. Repeated likes are
// no-ops.
func (s *MatchService) Like(userID, targetID uint) (*models.Match, error) {
	if userID == targetID {
		return nil, errors.New("cannot like yourself")
	}

	var target models.User
	if err := config.DB.Where("id = ? AND is_active = ?", targetID, true).First(&target).Error; err != nil {
		return nil, errors.New("user not found")
	}

	var match *models.Match
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: userID, TargetID: targetID}
		if err := tx.Create(&like).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		var reverse int64
		if err := tx.Model(&models.Like{}).
			Where("user_id = ? AND target_id = ?", targetID, userID).
			Count(&reverse).Error; err != nil {
			return err
		}
		if reverse == 0 {
			return nil
		}

		// Store the pair in a canonical order so the unique index holds for
		// both like directions.
		a, b := userID, targetID
		if a > b {
			a, b = b, a
		}
		created := models.Match{UserAID: a, UserBID: b}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return tx.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&created).Error
			}
			return err
		}
		match = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *MatchService) GetMatches(userID uint) ([]models.Match, error) {
	var matches []models.Match
	err := config.DB.Preload("UserA").Preload("UserB").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

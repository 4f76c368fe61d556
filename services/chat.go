package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionEnded    = errors.New("session already ended")
	ErrSessionNotFound = errors.New("session not found")
)

// staleSessionAge is how long an active session may go without a billing
// tick before the sweeper ends it.
const staleSessionAge = 2 * time.Minute

// ChatBillingService bills active chat/call sessions by the minute. Each
// session gets its own ticker goroutine whose cancel func is held here, so
// ending a session actually stops its billing loop.
type ChatBillingService struct {
	creditService *CreditService
	tickInterval  time.Duration

	mu      sync.Mutex
	cancels map[uint]context.CancelFunc
}

func NewChatBillingService() *ChatBillingService {
	return &ChatBillingService{
		creditService: NewCreditService(),
		tickInterval:  time.Minute,
		cancels:       make(map[uint]context.CancelFunc),
	}
}

// StartSession opens a billable session, charges the first minute up front
// and starts the per-minute billing loop.
func (s *ChatBillingService) StartSession(userID, partnerID uint, kind models.SessionType) (*models.CallSession, error) {
	if userID == partnerID {
		return nil, errors.New("cannot start a session with yourself")
	}
	if _, err := ChatMinuteCost(kind); err != nil {
		return nil, err
	}

	var partner models.User
	if err := config.DB.Where("id = ? AND is_active = ?", partnerID, true).First(&partner).Error; err != nil {
		return nil, errors.New("partner not found")
	}

	session := models.CallSession{
		PublicID:  uuid.NewString(),
		UserID:    userID,
		PartnerID: partnerID,
		Kind:      kind,
		Status:    models.CallActive,
		StartedAt: time.Now(),
	}
	if err := config.DB.Create(&session).Error; err != nil {
		return nil, err
	}

	// First minute is prepaid; an empty wallet never opens a session.
	if err := s.BillMinute(session.ID, 1); err != nil {
		now := time.Now()
		config.DB.Model(&session).Updates(map[string]interface{}{
			"status": models.CallEnded, "ended_at": now,
		})
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[session.ID] = cancel
	s.mu.Unlock()
	go s.runBilling(ctx, session.ID)

	return &session, nil
}

// runBilling bills one minute per tick until the context is cancelled or the
// wallet runs dry.
func (s *ChatBillingService) runBilling(ctx context.Context, sessionID uint) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	minute := 1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			minute++
			err := s.BillMinute(sessionID, minute)
			if err == nil {
				continue
			}
			if errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrSessionEnded) {
				_ = s.EndSession(sessionID, 0)
			}
			return
		}
	}
}

// BillMinute charges one minute of the session. The tick row's unique index
// makes replays of the same minute a no-op rather than a double charge.
func (s *ChatBillingService) BillMinute(sessionID uint, minuteIndex int) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var session models.CallSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.Status != models.CallActive {
			return ErrSessionEnded
		}

		tick := models.BillingTick{SessionID: sessionID, MinuteIndex: minuteIndex}
		if err := tx.Create(&tick).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil // minute already billed
			}
			return err
		}

		cost, err := ChatMinuteCost(session.Kind)
		if err != nil {
			return err
		}

		kobos, credits, err := s.creditService.SpendForChatMinuteTx(tx, session.UserID, cost,
			"Chat minute ("+string(session.Kind)+")")
		if err != nil {
			return err
		}

		if err := tx.Model(&tick).Updates(map[string]interface{}{
			"kobos": kobos, "credits": credits,
		}).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&session).Updates(map[string]interface{}{
			"billed_minutes": session.BilledMinutes + 1,
			"last_tick_at":   now,
		}).Error
	})
}

// EndSession stops the billing loop and closes the session. userID 0 means
// an internal caller (billing loop, sweeper) that skips the ownership check.
func (s *ChatBillingService) EndSession(sessionID, userID uint) error {
	s.mu.Lock()
	if cancel, ok := s.cancels[sessionID]; ok {
		cancel()
		delete(s.cancels, sessionID)
	}
	s.mu.Unlock()

	return config.DB.Transaction(func(tx *gorm.DB) error {
		var session models.CallSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if userID != 0 && session.UserID != userID {
			return ErrSessionNotFound
		}
		if session.Status != models.CallActive {
			return ErrSessionEnded
		}

		now := time.Now()
		return tx.Model(&session).Updates(map[string]interface{}{
			"status": models.CallEnded, "ended_at": now,
		}).Error
	})
}

// GetSession returns a session by its public ID, scoped to the owner.
func (s *ChatBillingService) GetSession(publicID string, userID uint) (*models.CallSession, error) {
	var session models.CallSession
	err := config.DB.Where("public_id = ? AND user_id = ?", publicID, userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SweepStaleSessions ends active sessions that stopped ticking (process
// crash, dropped connection). Driven by the cron scheduler.
func (s *ChatBillingService) SweepStaleSessions() (int, error) {
	cutoff := time.Now().Add(-staleSessionAge)

	var sessions []models.CallSession
	err := config.DB.Where(
		"status = ? AND ((last_tick_at IS NOT NULL AND last_tick_at < ?) OR (last_tick_at IS NULL AND started_at < ?))",
		models.CallActive, cutoff, cutoff).Find(&sessions).Error
	if err != nil {
		return 0, err
	}

	ended := 0
	for _, session := range sessions {
		if err := s.EndSession(session.ID, 0); err == nil {
			ended++
		}
	}
	return ended, nil
}

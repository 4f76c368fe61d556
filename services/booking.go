package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"gorm.io/gorm"
)

var (
	ErrSlotTaken        = errors.New("time slot already booked")
	ErrOutsideSchedule  = errors.New("outside the therapist's working hours")
	ErrTherapistClosed  = errors.New("therapist is not available on this date")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingCancelled = errors.New("booking already cancelled")
	ErrBookingCompleted = errors.New("cannot cancel a completed booking")
)

type BookingService struct {
	creditService *CreditService
}

func NewBookingService() *BookingService {
	return &BookingService{
		creditService: NewCreditService(),
	}
}

// AvailableSlot is a bookable window derived from the therapist's schedule
// minus existing bookings. Generation is a pure function of stored state.
type AvailableSlot struct {
	TherapistID     uint               `json:"therapist_id"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         time.Time          `json:"end_time"`
	DurationMinutes int                `json:"duration_minutes"`
	Type            models.SessionType `json:"type"`
	PriceCredits    int                `json:"price_credits"`
	Available       bool               `json:"available"`
}

func (s *BookingService) isClosedDate(tx *gorm.DB, date time.Time) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := tx.Model(&models.ClosedDate{}).
		Where("date >= ? AND date < ? AND is_active = ?", dayStart, dayEnd, true).
		Count(&count).Error
	return count > 0, err
}

// AvailableSlots enumerates duration-sized windows within the therapist's
// schedule for the given date, stepping every half hour and marking windows
// that overlap a pending or confirmed booking as taken.
func (s *BookingService) AvailableSlots(therapistID uint, date time.Time, durationMinutes int, sessionType models.SessionType) ([]AvailableSlot, error) {
	price, err := SessionPrice(sessionType, durationMinutes)
	if err != nil {
		return nil, err
	}

	closed, err := s.isClosedDate(config.DB, date)
	if err != nil {
		return nil, err
	}
	if closed {
		return []AvailableSlot{}, nil
	}

	dayOfWeek := int(date.Weekday())
	var schedules []models.TherapistSchedule
	if err := config.DB.Where("therapist_id = ? AND day_of_week = ? AND is_active = ?",
		therapistID, dayOfWeek, true).Find(&schedules).Error; err != nil {
		return nil, err
	}

	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var bookings []models.Booking
	if err := config.DB.Where(
		"therapist_id = ? AND start_time < ? AND end_time > ? AND status IN (?)",
		therapistID, endOfDay, startOfDay,
		[]models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(SlotStepMinutes) * time.Minute

	slots := []AvailableSlot{}
	for _, schedule := range schedules {
		windowStart, err := time.Parse("15:04", schedule.StartTime)
		if err != nil {
			continue
		}
		windowEnd, err := time.Parse("15:04", schedule.EndTime)
		if err != nil {
			continue
		}

		current := time.Date(date.Year(), date.Month(), date.Day(),
			windowStart.Hour(), windowStart.Minute(), 0, 0, date.Location())
		scheduleEnd := time.Date(date.Year(), date.Month(), date.Day(),
			windowEnd.Hour(), windowEnd.Minute(), 0, 0, date.Location())

		for !current.Add(duration).After(scheduleEnd) {
			slotEnd := current.Add(duration)

			available := true
			for _, b := range bookings {
				if current.Before(b.EndTime) && slotEnd.After(b.StartTime) {
					available = false
					break
				}
			}

			slots = append(slots, AvailableSlot{
				TherapistID:     therapistID,
				StartTime:       current,
				EndTime:         slotEnd,
				DurationMinutes: durationMinutes,
				Type:            sessionType,
				PriceCredits:    price,
				Available:       available,
			})

			current = current.Add(step)
		}
	}

	return slots, nil
}

// withinSchedule checks that [start, end) fits one of the therapist's active
// windows for that weekday.
func (s *BookingService) withinSchedule(tx *gorm.DB, therapistID uint, start, end time.Time) (bool, error) {
	var schedules []models.TherapistSchedule
	if err := tx.Where("therapist_id = ? AND day_of_week = ? AND is_active = ?",
		therapistID, int(start.Weekday()), true).Find(&schedules).Error; err != nil {
		return false, err
	}

	startStr := start.Format("15:04")
	endStr := end.Format("15:04")
	for _, schedule := range schedules {
		if startStr >= schedule.StartTime && endStr <= schedule.EndTime {
			return true, nil
		}
	}
	return false, nil
}

// lockTherapist writes the therapist's user row inside the booking
// transaction. The row-level write lock makes a rival transaction for the
// same therapist block until this one commits, so its conflict count sees
// the committed booking instead of racing past it under READ COMMITTED.
func (s *BookingService) lockTherapist(tx *gorm.DB, therapistID uint) error {
	return tx.Model(&models.User{}).
		Where("id = ?", therapistID).
		Update("updated_at", time.Now()).Error
}

func (s *BookingService) checkConflicts(tx *gorm.DB, therapistID uint, start, end time.Time, excludeID uint) error {
	query := tx.Model(&models.Booking{}).
		Where("therapist_id = ? AND status IN (?) AND start_time < ? AND end_time > ?",
			therapistID,
			[]models.BookingStatus{models.BookingPending, models.BookingConfirmed},
			end, start)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlotTaken
	}
	return nil
}

// BookSession books and charges a therapy session. Schedule fit, overlap
// check, spend and booking creation commit atomically, so two tabs cannot
// double-book the same window.
func (s *BookingService) BookSession(userID, therapistID uint, start time.Time, durationMinutes int, sessionType models.SessionType) (*models.Booking, error) {
	price, err := SessionPrice(sessionType, durationMinutes)
	if err != nil {
		return nil, err
	}

	var therapist models.User
	if err := config.DB.Where("id = ? AND role = ? AND is_active = ?",
		therapistID, models.RoleTherapist, true).First(&therapist).Error; err != nil {
		return nil, errors.New("therapist not found")
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	booking := models.Booking{
		UserID:          userID,
		TherapistID:     therapistID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: durationMinutes,
		Type:            sessionType,
		PriceCredits:    price,
		Status:          models.BookingConfirmed,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.lockTherapist(tx, therapistID); err != nil {
			return err
		}

		closed, err := s.isClosedDate(tx, start)
		if err != nil {
			return err
		}
		if closed {
			return ErrTherapistClosed
		}

		ok, err := s.withinSchedule(tx, therapistID, start, end)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOutsideSchedule
		}

		if err := s.checkConflicts(tx, therapistID, start, end, 0); err != nil {
			return err
		}

		description := fmt.Sprintf("%s session with %s (%d min)", sessionType, therapist.Name, durationMinutes)
		if err := s.creditService.SpendCreditsTx(tx, userID, price, description); err != nil {
			return err
		}

		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking cancels the user's booking and refunds per the cancellation
// policy. Staff paid nothing, so they get nothing back.
func (s *BookingService) CancelBooking(bookingID, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
			return ErrBookingNotFound
		}

		switch booking.Status {
		case models.BookingCancelled:
			return ErrBookingCancelled
		case models.BookingCompleted:
			return ErrBookingCompleted
		}

		now := time.Now()
		hoursBeforeStart := booking.StartTime.Sub(now).Hours()
		refund, _ := CancellationRefund(booking.PriceCredits, hoursBeforeStart)

		exempt, err := s.creditService.isExempt(tx, userID)
		if err != nil {
			return err
		}
		if exempt {
			refund = 0
		}

		if refund > 0 {
			if err := s.creditService.AddCreditsTx(tx, userID, refund, "Booking cancellation refund", false); err != nil {
				return err
			}
		}

		booking.Status = models.BookingCancelled
		booking.RefundedCredits = refund
		booking.CancelledAt = &now
		booking.CancelledBy = &userID
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CompleteElapsedBookings marks confirmed bookings whose end time passed as
// completed. Driven by the cron scheduler.
func (s *BookingService) CompleteElapsedBookings() (int64, error) {
	result := config.DB.Model(&models.Booking{}).
		Where("status = ? AND end_time <= ?", models.BookingConfirmed, time.Now()).
		Update("status", models.BookingCompleted)
	return result.RowsAffected, result.Error
}

func (s *BookingService) GetUserBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := config.DB.Preload("Therapist").
		Where("user_id = ?", userID).
		Order("start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) GetTherapistBookings(therapistID uint, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := config.DB.Preload("User").
		Where("therapist_id = ? AND start_time >= ? AND start_time < ?", therapistID, from, to).
		Order("start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

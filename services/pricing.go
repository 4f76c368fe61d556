package services

import (
	"errors"

	"github.com/datescare/amora-be/models"
)

// Static pricing policy. Credits cover mail, photos and therapy sessions;
// kobos are drained first for per-minute chat billing.
const (
	SignupBonusCredits = 10
	SignupBonusKobos   = 10

	MailReadCost = 10
	MailSendCost = 10
	PhotoCost    = 5

	// Slot granularity for booking availability.
	SlotStepMinutes = 30

	// Cancellations within this window forfeit half the session price.
	FreeCancellationHours = 24
)

var chatMinuteCosts = map[models.SessionType]int{
	models.SessionText:  1,
	models.SessionAudio: 2,
	models.SessionVideo: 3,
}

var sessionPrices = map[models.SessionType]map[int]int{
	models.SessionVideo: {30: 60, 60: 100},
	models.SessionAudio: {30: 40, 60: 70},
	models.SessionText:  {30: 25, 60: 45},
}

// ChatMinuteCost returns the per-minute price for a call kind.
func ChatMinuteCost(kind models.SessionType) (int, error) {
	cost, ok := chatMinuteCosts[kind]
	if !ok {
		return 0, errors.New("unknown call kind")
	}
	return cost, nil
}

// SessionPrice returns the credit price of a therapy session.
func SessionPrice(sessionType models.SessionType, durationMinutes int) (int, error) {
	durations, ok := sessionPrices[sessionType]
	if !ok {
		return 0, errors.New("unknown session type")
	}
	price, ok := durations[durationMinutes]
	if !ok {
		return 0, errors.New("unsupported session duration")
	}
	return price, nil
}

// CancellationRefund splits a paid price into refund and penalty based on how
// far ahead of the session start the cancellation happens.
func CancellationRefund(priceCredits int, hoursBeforeStart float64) (refund, penalty int) {
	if hoursBeforeStart >= FreeCancellationHours {
		return priceCredits, 0
	}
	refund = priceCredits / 2
	return refund, priceCredits - refund
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/datescare/amora-be/services"
	"github.com/datescare/amora-be/websocket"
	"github.com/gin-gonic/gin"
)

type BookingController struct {
	bookingService *services.BookingService
}

func NewBookingController() *BookingController {
	return &BookingController{
		bookingService: services.NewBookingService(),
	}
}

// GetAvailableSlots returns bookable windows for a therapist on a date.
func (bc *BookingController) GetAvailableSlots(c *gin.Context) {
	therapistID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid therapist id"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter required (YYYY-MM-DD)"})
		return
	}
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	duration, err := strconv.Atoi(c.DefaultQuery("duration", "30"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration"})
		return
	}
	sessionType := models.SessionType(c.DefaultQuery("type", string(models.SessionVideo)))

	slots, err := bc.bookingService.AvailableSlots(uint(therapistID), date, duration, sessionType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

type BookSessionRequest struct {
	TherapistID     uint   `json:"therapist_id" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"` // RFC3339
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	Type            string `json:"type" binding:"required,oneof=video audio text"`
}

func (bc *BookingController) BookSession(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time. Use RFC3339"})
		return
	}

	booking, err := bc.bookingService.BookSession(userID.(uint), req.TherapistID, start,
		req.DurationMinutes, models.SessionType(req.Type))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	bc.publishBookingEvent(c, userID.(uint), booking)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Session booked",
		"booking": booking,
	})
}

func (bc *BookingController) CancelBooking(c *gin.Context) {
	userID, _ := c.Get("user_id")

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	booking, err := bc.bookingService.CancelBooking(uint(bookingID), userID.(uint))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bc.publishBookingEvent(c, userID.(uint), booking)

	c.JSON(http.StatusOK, gin.H{
		"message":          "Booking cancelled",
		"refunded_credits": booking.RefundedCredits,
		"booking":          booking,
	})
}

func (bc *BookingController) GetBookings(c *gin.Context) {
	userID, _ := c.Get("user_id")

	bookings, err := bc.bookingService.GetUserBookings(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (bc *BookingController) publishBookingEvent(c *gin.Context, userID uint, booking *models.Booking) {
	var therapist models.User
	config.DB.First(&therapist, booking.TherapistID)

	event := websocket.BookingEvent{
		BookingID:     booking.ID,
		TherapistID:   booking.TherapistID,
		TherapistName: therapist.Name,
		StartTime:     booking.StartTime.Format(time.RFC3339),
		EndTime:       booking.EndTime.Format(time.RFC3339),
		Status:        string(booking.Status),
	}

	eventName := websocket.EventBookingConfirmed
	routingKey := services.NotifyBookingConfirmed
	if booking.Status == models.BookingCancelled {
		eventName = websocket.EventBookingCancelled
		routingKey = services.NotifyBookingCancelled
	}

	if config.WSHub != nil {
		config.WSHub.SendToUser(userID, eventName, event)
		config.WSHub.Broadcast(websocket.EventCalendarRefresh, websocket.BookingEvent{BookingID: booking.ID})
	}
	services.DefaultNotifier.Publish(c.Request.Context(), routingKey, event)
}

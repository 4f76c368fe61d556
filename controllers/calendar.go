package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/gin-gonic/gin"
)

type CalendarController struct{}

func NewCalendarController() *CalendarController {
	return &CalendarController{}
}

type CalendarBooking struct {
	ID            uint      `json:"id"`
	TherapistID   uint      `json:"therapist_id"`
	TherapistName string    `json:"therapist_name"`
	UserID        uint      `json:"user_id"`
	UserName      string    `json:"user_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
}

type CalendarResponse struct {
	Bookings     []CalendarBooking `json:"bookings"`
	Period       string            `json:"period"`
	StartDate    time.Time         `json:"start_date"`
	EndDate      time.Time         `json:"end_date"`
	TherapistIDs []uint            `json:"therapist_ids,omitempty"`
}

// GetCalendar returns bookings for a day, week, month or custom period,
// optionally filtered by therapist.
func (cc *CalendarController) GetCalendar(c *gin.Context) {
	periodType := c.DefaultQuery("period", "week") // week, month, day, custom
	startDateStr := c.Query("start_date")          // YYYY-MM-DD
	endDateStr := c.Query("end_date")              // YYYY-MM-DD
	therapistIDsStr := c.Query("therapist_ids")    // comma separated: 1,2,3

	var startDate, endDate time.Time
	var err error

	loc := time.Local

	switch periodType {
	case "day":
		if startDateStr != "" {
			startDate, err = time.ParseInLocation("2006-01-02", startDateStr, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD"})
				return
			}
		} else {
			startDate = time.Now().In(loc).Truncate(24 * time.Hour)
		}
		endDate = startDate.Add(24 * time.Hour)

	case "week":
		if startDateStr != "" {
			startDate, err = time.ParseInLocation("2006-01-02", startDateStr, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD"})
				return
			}
		} else {
			now := time.Now().In(loc)
			startDate = now.AddDate(0, 0, -int(now.Weekday())).Truncate(24 * time.Hour)
		}
		endDate = startDate.Add(7 * 24 * time.Hour)

	case "month":
		if startDateStr != "" {
			startDate, err = time.ParseInLocation("2006-01-02", startDateStr, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD"})
				return
			}
			startDate = time.Date(startDate.Year(), startDate.Month(), 1, 0, 0, 0, 0, loc)
		} else {
			now := time.Now().In(loc)
			startDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		}
		endDate = startDate.AddDate(0, 1, 0)

	case "custom":
		if startDateStr == "" || endDateStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required for custom periods"})
			return
		}
		startDate, err = time.ParseInLocation("2006-01-02", startDateStr, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD"})
			return
		}
		endDate, err = time.ParseInLocation("2006-01-02", endDateStr, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format. Use YYYY-MM-DD"})
			return
		}
		endDate = endDate.Add(24 * time.Hour) // include the end date itself

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period. Use: day, week, month, custom"})
		return
	}

	query := config.DB.Table("bookings b").
		Select("b.id, b.therapist_id, t.name as therapist_name, b.user_id, u.name as user_name, b.start_time, b.end_time, b.type, b.status").
		Joins("LEFT JOIN users t ON b.therapist_id = t.id").
		Joins("LEFT JOIN users u ON b.user_id = u.id").
		Where("b.deleted_at IS NULL").
		Where("b.start_time >= ? AND b.start_time < ?", startDate, endDate).
		Where("b.status IN (?)", []models.BookingStatus{models.BookingConfirmed, models.BookingPending})

	var therapistIDs []uint
	if therapistIDsStr != "" {
		for _, idStr := range strings.Split(therapistIDsStr, ",") {
			if id, err := strconv.ParseUint(strings.TrimSpace(idStr), 10, 32); err == nil {
				therapistIDs = append(therapistIDs, uint(id))
			}
		}
		if len(therapistIDs) > 0 {
			query = query.Where("b.therapist_id IN (?)", therapistIDs)
		}
	}

	var bookings []CalendarBooking
	if err := query.Order("b.start_time ASC").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load calendar data"})
		return
	}

	c.JSON(http.StatusOK, CalendarResponse{
		Bookings:     bookings,
		Period:       periodType,
		StartDate:    startDate,
		EndDate:      endDate,
		TherapistIDs: therapistIDs,
	})
}

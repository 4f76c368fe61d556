package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/gin-gonic/gin"
)

func seedCalendarBooking(t *testing.T, userID, therapistID uint, start time.Time) *models.Booking {
	t.Helper()

	booking := models.Booking{
		UserID:          userID,
		TherapistID:     therapistID,
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		DurationMinutes: 60,
		Type:            models.SessionVideo,
		PriceCredits:    100,
		Status:          models.BookingConfirmed,
	}
	if err := config.DB.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return &booking
}

func TestGetCalendarSkipsDeletedBookings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupTestDB(t)

	therapist := models.User{Email: "therapist@example.com", Password: "hashed",
		Name: "Therapist", Role: models.RoleTherapist, IsActive: true}
	member := models.User{Email: "member@example.com", Password: "hashed",
		Name: "Member", Role: models.RoleMember, IsActive: true}
	if err := config.DB.Create(&therapist).Error; err != nil {
		t.Fatalf("failed to create therapist: %v", err)
	}
	if err := config.DB.Create(&member).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.Local)
	kept := seedCalendarBooking(t, member.ID, therapist.ID, day.Add(9*time.Hour))
	removed := seedCalendarBooking(t, member.ID, therapist.ID, day.Add(11*time.Hour))
	if err := config.DB.Delete(removed).Error; err != nil {
		t.Fatalf("failed to soft-delete booking: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/admin/calendar?period=custom&start_date=2026-09-07&end_date=2026-09-07", nil)

	NewCalendarController().GetCalendar(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var resp CalendarResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Bookings) != 1 {
		t.Fatalf("booking count = %d, want 1 (soft-deleted rows must stay hidden)", len(resp.Bookings))
	}
	if resp.Bookings[0].ID != kept.ID {
		t.Errorf("returned booking = %d, want %d", resp.Bookings[0].ID, kept.ID)
	}
}

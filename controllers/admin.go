package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/datescare/amora-be/services"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	authService     *services.AuthService
	creditService   *services.CreditService
	purchaseService *services.PurchaseService
	bookingService  *services.BookingService
}

func NewAdminController() *AdminController {
	return &AdminController{
		authService:     services.NewAuthService(),
		creditService:   services.NewCreditService(),
		purchaseService: services.NewPurchaseService(),
		bookingService:  services.NewBookingService(),
	}
}

type CreateUserRequest struct {
	Email       string          `json:"email" binding:"required,email"`
	Password    string          `json:"password" binding:"required,min=6"`
	Name        string          `json:"name" binding:"required"`
	Phone       string          `json:"phone"`
	Role        models.UserRole `json:"role" binding:"required"`
	Specialty   string          `json:"specialty"`
	Description string          `json:"description"`
}

func (ac *AdminController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.authService.CreateUser(req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user.Phone = req.Phone
	user.Specialty = req.Specialty
	user.Description = req.Description
	config.DB.Save(user)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"user":    user,
	})
}

func (ac *AdminController) GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	type UserWithBalance struct {
		models.User
		ComplimentaryCredits int `json:"complimentary_credits"`
		PurchasedCredits     int `json:"purchased_credits"`
		Kobos                int `json:"kobos"`
		TotalCredits         int `json:"total_credits"`
	}

	usersWithBalance := make([]UserWithBalance, 0, len(users))
	for _, user := range users {
		entry := UserWithBalance{User: user}
		if account, err := ac.creditService.GetAccount(user.ID); err == nil {
			entry.ComplimentaryCredits = account.ComplimentaryCredits
			entry.PurchasedCredits = account.PurchasedCredits
			entry.Kobos = account.Kobos
			entry.TotalCredits = account.TotalCredits()
		}
		usersWithBalance = append(usersWithBalance, entry)
	}

	c.JSON(http.StatusOK, gin.H{"users": usersWithBalance})
}

type UpdateUserRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Specialty   string `json:"specialty"`
	Description string `json:"description"`
}

func (ac *AdminController) UpdateUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uint(userID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Specialty != "" {
		user.Specialty = req.Specialty
	}
	if req.Description != "" {
		user.Description = req.Description
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated", "user": user})
}

func (ac *AdminController) DeactivateUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("id = ?", uint(userID)).
		Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

type CreateScheduleRequest struct {
	TherapistID uint   `json:"therapist_id" binding:"required"`
	DayOfWeek   *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required"` // "09:00"
	EndTime     string `json:"end_time" binding:"required"`   // "18:00"
}

func (ac *AdminController) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var therapist models.User
	if err := config.DB.Where("id = ? AND role = ?", req.TherapistID, models.RoleTherapist).
		First(&therapist).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Therapist not found"})
		return
	}

	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time. Use HH:MM"})
		return
	}
	if _, err := time.Parse("15:04", req.EndTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_time. Use HH:MM"})
		return
	}
	if req.StartTime >= req.EndTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be before end_time"})
		return
	}

	schedule := models.TherapistSchedule{
		TherapistID: req.TherapistID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsActive:    true,
	}
	if err := config.DB.Create(&schedule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Schedule created", "schedule": schedule})
}

func (ac *AdminController) GetSchedules(c *gin.Context) {
	query := config.DB.Preload("Therapist")
	if therapistIDStr := c.Query("therapist_id"); therapistIDStr != "" {
		if therapistID, err := strconv.ParseUint(therapistIDStr, 10, 32); err == nil {
			query = query.Where("therapist_id = ?", uint(therapistID))
		}
	}

	var schedules []models.TherapistSchedule
	if err := query.Order("therapist_id, day_of_week, start_time").Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

type UpdateScheduleRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  *bool  `json:"is_active"`
}

func (ac *AdminController) UpdateSchedule(c *gin.Context) {
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule id"})
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var schedule models.TherapistSchedule
	if err := config.DB.First(&schedule, uint(scheduleID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	if req.StartTime != "" {
		if _, err := time.Parse("15:04", req.StartTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time. Use HH:MM"})
			return
		}
		schedule.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		if _, err := time.Parse("15:04", req.EndTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_time. Use HH:MM"})
			return
		}
		schedule.EndTime = req.EndTime
	}
	if schedule.StartTime >= schedule.EndTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be before end_time"})
		return
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&schedule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule updated", "schedule": schedule})
}

func (ac *AdminController) DeleteSchedule(c *gin.Context) {
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule id"})
		return
	}

	result := config.DB.Delete(&models.TherapistSchedule{}, uint(scheduleID))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

type CreateClosedDateRequest struct {
	Date   string `json:"date" binding:"required"` // YYYY-MM-DD
	Reason string `json:"reason" binding:"required"`
}

func (ac *AdminController) CreateClosedDate(c *gin.Context) {
	var req CreateClosedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	closedDate := models.ClosedDate{
		Date:     date,
		Reason:   req.Reason,
		IsActive: true,
	}
	if err := config.DB.Create(&closedDate).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Date is already closed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Closed date created", "closed_date": closedDate})
}

func (ac *AdminController) GetClosedDates(c *gin.Context) {
	var closedDates []models.ClosedDate
	if err := config.DB.Where("is_active = ?", true).
		Order("date ASC").
		Find(&closedDates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load closed dates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"closed_dates": closedDates})
}

func (ac *AdminController) DeleteClosedDate(c *gin.Context) {
	closedDateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid closed date id"})
		return
	}

	result := config.DB.Delete(&models.ClosedDate{}, uint(closedDateID))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete closed date"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Closed date not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Closed date deleted"})
}

type RegisterPurchaseRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	PackageID     uint   `json:"package_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Notes         string `json:"notes"`
}

// RegisterPurchase records an externally processed payment and grants the
// package contents.
func (ac *AdminController) RegisterPurchase(c *gin.Context) {
	adminID, _ := c.Get("user_id")

	var req RegisterPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase, err := ac.purchaseService.RegisterPurchase(req.UserID, adminID.(uint), req.PackageID,
		req.PaymentMethod, req.Notes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Purchase registered, balance credited",
		"purchase": purchase,
	})
}

func (ac *AdminController) GetAllPurchases(c *gin.Context) {
	purchases, err := ac.purchaseService.GetAllPurchases()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (ac *AdminController) GetUserTransactions(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	transactions, err := ac.creditService.GetTransactions(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (ac *AdminController) GetTherapistBookings(c *gin.Context) {
	therapistID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid therapist id"})
		return
	}

	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 1, 0)
	if fromStr := c.Query("from"); fromStr != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", fromStr, time.Local); err == nil {
			from = parsed
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", toStr, time.Local); err == nil {
			to = parsed.Add(24 * time.Hour)
		}
	}

	bookings, err := ac.bookingService.GetTherapistBookings(uint(therapistID), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

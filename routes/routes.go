package routes

import (
	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/controllers"
	"github.com/datescare/amora-be/middleware"
	"github.com/datescare/amora-be/services"
	"github.com/datescare/amora-be/websocket"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(chatService *services.ChatBillingService) *gin.Engine {
	r := gin.Default()

	// Initialize controllers
	authController := controllers.NewAuthController()
	userController := controllers.NewUserController()
	mailController := controllers.NewMailController()
	bookingController := controllers.NewBookingController()
	calendarController := controllers.NewCalendarController()
	chatController := controllers.NewChatController(chatService)
	matchController := controllers.NewMatchController()
	purchaseController := controllers.NewPurchaseController()
	staffController := controllers.NewStaffController()
	adminController := controllers.NewAdminController()

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/register", authController.Register)
		public.GET("/therapists", userController.GetTherapistDirectory)
		public.GET("/packages", purchaseController.GetPackages)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		// Profile and wallet
		protected.GET("/profile", userController.GetProfile)
		protected.PUT("/profile", userController.UpdateProfile)
		protected.PUT("/profile/password", userController.ChangePassword)
		protected.GET("/credits", userController.GetCredits)
		protected.GET("/purchases", purchaseController.GetPurchaseHistory)

		// Mail
		protected.GET("/mail/:key", mailController.GetThread)
		protected.POST("/mail/:key/read", mailController.ReadMessage)
		protected.POST("/mail/:key/messages", mailController.SendMessage)
		protected.POST("/mail/:key/photos", mailController.SendPhoto)

		// Matching
		protected.POST("/likes", matchController.Like)
		protected.GET("/matches", matchController.GetMatches)

		// Therapy bookings
		protected.GET("/therapists/:id/slots", bookingController.GetAvailableSlots)
		protected.GET("/bookings", bookingController.GetBookings)
		protected.POST("/bookings", bookingController.BookSession)
		protected.DELETE("/bookings/:id", bookingController.CancelBooking)
		protected.GET("/calendar", calendarController.GetCalendar)

		// Chat sessions
		protected.POST("/sessions", chatController.StartSession)
		protected.GET("/sessions/:id", chatController.GetSession)
		protected.DELETE("/sessions/:id", chatController.EndSession)

		// Live events
		protected.GET("/ws", websocket.HandleWebSocket(config.WSHub))
	}

	// Staff routes: file award and resettlement requests for admin review
	staff := r.Group("/api/v1/staff")
	staff.Use(middleware.AuthMiddleware())
	staff.Use(middleware.StaffOnly())
	{
		staff.POST("/credit-requests", staffController.CreateAccessRequest)
		staff.GET("/credit-requests", staffController.GetMyAccessRequests)
		staff.POST("/resettlement-requests", staffController.CreateResettlementRequest)
	}

	// Admin only routes
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminOnly())
	{
		// User management
		admin.POST("/users", adminController.CreateUser)
		admin.GET("/users", adminController.GetUsers)
		admin.PUT("/users/:id", adminController.UpdateUser)
		admin.DELETE("/users/:id", adminController.DeactivateUser)
		admin.GET("/users/:id/transactions", adminController.GetUserTransactions)

		// Request review
		admin.GET("/credit-requests/pending", staffController.GetPendingAccessRequests)
		admin.PUT("/credit-requests/:id/approve", staffController.ApproveAccessRequest)
		admin.PUT("/credit-requests/:id/deny", staffController.DenyAccessRequest)
		admin.GET("/resettlement-requests/pending", staffController.GetPendingResettlementRequests)
		admin.PUT("/resettlement-requests/:id/approve", staffController.ApproveResettlementRequest)
		admin.PUT("/resettlement-requests/:id/deny", staffController.DenyResettlementRequest)

		// Availability management
		admin.POST("/schedules", adminController.CreateSchedule)
		admin.GET("/schedules", adminController.GetSchedules)
		admin.PUT("/schedules/:id", adminController.UpdateSchedule)
		admin.DELETE("/schedules/:id", adminController.DeleteSchedule)
		admin.POST("/closed-dates", adminController.CreateClosedDate)
		admin.GET("/closed-dates", adminController.GetClosedDates)
		admin.DELETE("/closed-dates/:id", adminController.DeleteClosedDate)
		admin.GET("/therapists/:id/bookings", adminController.GetTherapistBookings)

		// Purchases
		admin.POST("/purchases", adminController.RegisterPurchase)
		admin.GET("/purchases", adminController.GetAllPurchases)
	}

	return r
}

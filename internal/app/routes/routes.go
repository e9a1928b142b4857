package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/edusponsor/internal/app/controllers"
	"github.com/yigit/edusponsor/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	schoolController *controllers.SchoolController,
	studentController *controllers.StudentController,
	sponsorshipController *controllers.SponsorshipController,
	paymentController *controllers.PaymentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")
	requireAuth := authMiddleware.JWTAuth()

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Schools: reads and creation are public, changes need a token
	schools := api.Group("/schools")
	{
		schools.GET("", schoolController.GetAllSchools)
		schools.GET("/:id", schoolController.GetSchoolByID)
		schools.GET("/:id/students", schoolController.GetSchoolStudents)
		schools.POST("", schoolController.CreateSchool)
		schools.PUT("/:id", requireAuth, schoolController.UpdateSchool)
		schools.DELETE("/:id", requireAuth, schoolController.DeleteSchool)
	}

	students := api.Group("/students")
	{
		students.GET("", studentController.GetAllStudents)
		students.GET("/:id", studentController.GetStudentByID)
		students.POST("", studentController.CreateStudent)
		students.POST("/multiple", studentController.CreateMultipleStudents)
		students.PUT("/:id", requireAuth, studentController.UpdateStudent)
		students.DELETE("/:id", requireAuth, studentController.DeleteStudent)
	}

	sponsorships := api.Group("/sponsorships")
	sponsorships.Use(requireAuth)
	{
		sponsorships.POST("", sponsorshipController.CreateSponsorship)
		sponsorships.GET("/sponsor", sponsorshipController.GetSponsorSponsorships)
		sponsorships.GET("/student", sponsorshipController.GetStudentSponsorships)
		sponsorships.GET("/:id", sponsorshipController.GetSponsorshipByID)
		sponsorships.PATCH("/:id/status", sponsorshipController.UpdateSponsorshipStatus)
	}

	payments := api.Group("/payments")
	{
		// Donations
		payments.POST("/donations", requireAuth, paymentController.CreateDonation)
		payments.GET("/donations/all", paymentController.GetAllDonations)
		payments.GET("/donations/sponsor", requireAuth, paymentController.GetSponsorDonations)
		payments.GET("/donations/stats", requireAuth, paymentController.GetDonationStats)
		payments.GET("/donations/sponsorship/:sponsorshipId", requireAuth, paymentController.GetSponsorshipDonations)

		// Test mode, no account needed
		payments.POST("/test-payment-intent", paymentController.CreateTestPaymentIntent)
		payments.POST("/test-checkout-session", paymentController.CreateTestCheckoutSession)
		payments.GET("/test-success", paymentController.TestSuccess)
		payments.GET("/test-cancel", paymentController.TestCancel)
		payments.POST("/test-webhook", paymentController.TestWebhook)

		payments.POST("/create-payment-intent", requireAuth, paymentController.CreatePaymentIntent)
		payments.POST("/process-payment", requireAuth, paymentController.ProcessPayment)
		payments.GET("/payment-methods", requireAuth, paymentController.GetPaymentMethods)
		payments.POST("/create-checkout-session", requireAuth, paymentController.CreateCheckoutSession)

		// Stripe redirects and callbacks
		payments.GET("/payment-success", paymentController.PaymentSuccess)
		payments.POST("/webhook", paymentController.Webhook)
	}
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/achievement"
	"github.com/Omarzahran17/gym-flow-sub001/internal/attendance"
	"github.com/Omarzahran17/gym-flow-sub001/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub001/internal/billing"
	"github.com/Omarzahran17/gym-flow-sub001/internal/booking"
	"github.com/Omarzahran17/gym-flow-sub001/internal/class"
	"github.com/Omarzahran17/gym-flow-sub001/internal/config"
	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
	"github.com/Omarzahran17/gym-flow-sub001/internal/report"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	User         *user.Handler
	Plan         *plan.Handler
	Subscription *subscription.Handler
	Class        *class.Handler
	Booking      *booking.Handler
	Attendance   *attendance.Handler
	Achievement  *achievement.Handler
	Billing      *billing.Handler
	Report       *report.Handler
}

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter *RateLimiter
}

func New(cfg *config.Config, db Pinger, h Handlers) *Server {
	router := gin.New()
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)

	router.Use(
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		RecoveryMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(cfg.CORSOrigins),
		RateLimitMiddleware(limiter),
	)

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/")
	{
		public.POST("/auth/register", h.User.Register)
		public.POST("/auth/login", h.User.Login)
		public.POST("/auth/refresh", h.User.RefreshToken)
		public.GET("/plans", h.Plan.ListPlans)
		public.GET("/classes", h.Class.ListClasses)
		public.GET("/classes/:classID/schedules", h.Class.ListSchedules)
		public.POST("/stripe/webhook", h.Billing.StripeWebhook)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.User.GetMe)
		protected.GET("/me/entitlement", h.Subscription.GetEntitlement)
		protected.GET("/me/subscription", h.Subscription.GetSubscription)
		protected.POST("/me/subscription/cancel", h.Billing.CancelSubscription)
		protected.GET("/me/achievements", h.Achievement.ListAchievements)
		protected.POST("/billing/checkout", h.Billing.CreateCheckout)

		protected.POST("/bookings", h.Booking.CreateBooking)
		protected.GET("/bookings", h.Booking.ListMyBookings)
		protected.POST("/bookings/:bookingID/cancel", h.Booking.CancelBooking)
		protected.GET("/schedules/:scheduleID/availability", h.Booking.GetAvailability)

		protected.POST("/attendance/check-in", h.Attendance.CheckIn)
		protected.GET("/attendance", h.Attendance.ListAttendance)
	}

	staff := router.Group("/staff")
	staff.Use(authMiddleware, auth.RequireRole(auth.RoleTrainer, auth.RoleAdmin))
	{
		staff.POST("/members/:memberID/check-in", h.Attendance.StaffCheckIn)
		staff.GET("/schedules/:scheduleID/bookings", h.Booking.GetRoster)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin), SanitizeInputMiddleware())
	{
		admin.POST("/plans", h.Plan.CreatePlan)
		admin.POST("/classes", h.Class.CreateClass)
		admin.POST("/classes/:classID/schedules", h.Class.CreateSchedule)
		admin.GET("/reports/revenue", h.Report.GetRevenue)
		admin.GET("/reports/attendance", h.Report.GetAttendance)
		admin.GET("/reports/bookings", h.Report.GetBookings)
	}

	return &Server{
		router:  router,
		limiter: limiter,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.http.Shutdown(ctx)
}

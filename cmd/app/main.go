package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/achievement"
	"github.com/Omarzahran17/gym-flow-sub001/internal/attendance"
	"github.com/Omarzahran17/gym-flow-sub001/internal/billing"
	"github.com/Omarzahran17/gym-flow-sub001/internal/booking"
	"github.com/Omarzahran17/gym-flow-sub001/internal/class"
	"github.com/Omarzahran17/gym-flow-sub001/internal/config"
	"github.com/Omarzahran17/gym-flow-sub001/internal/db"
	"github.com/Omarzahran17/gym-flow-sub001/internal/email"
	"github.com/Omarzahran17/gym-flow-sub001/internal/events"
	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
	"github.com/Omarzahran17/gym-flow-sub001/internal/report"
	"github.com/Omarzahran17/gym-flow-sub001/internal/server"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"
)

// @title GymFlow API
// @version 1.0
// @description Memberships, class bookings and check-ins for a gym.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting GymFlow application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	emailService := email.New(cfg.RedisAddr, email.SMTPConfig{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
	})
	defer emailService.Close()

	publisher := events.New(cfg.RabbitMQURL)
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	loc := cfg.Timezone

	userRepo := user.NewRepository(database)
	userService := user.NewService(userRepo, cfg.JWTSecret)

	planService := plan.NewService(plan.NewRepository(database))
	classService := class.NewService(class.NewRepository(database))

	subscriptionRepo := subscription.NewRepository(database)
	subscriptionService := subscription.NewService(subscriptionRepo, planService, loc)

	achievementService := achievement.NewService(achievement.NewRepository(database), subscriptionService)

	bookingService := booking.NewService(booking.Deps{
		Repo:         booking.NewRepository(database),
		Schedules:    classService,
		Entitlements: subscriptionService,
		Members:      userService,
		Notifier:     emailService,
		Events:       publisher,
		Achievements: achievementService,
		Location:     loc,
	})

	attendanceService := attendance.NewService(
		attendance.NewRepository(database),
		userService,
		subscriptionService,
		achievementService,
		publisher,
		loc,
	)

	billingService := billing.NewService(billing.Deps{
		Gateway:       billing.NewStripeGateway(cfg.StripeSecretKey),
		Ledger:        billing.NewRepository(database),
		Subscriptions: subscriptionRepo,
		Plans:         planService,
		Members:       userRepo,
		Notifier:      emailService,
		Events:        publisher,
		AppURL:        cfg.AppURL,
	})

	reportService := report.NewService(report.NewRepository(database), loc)

	srv := server.New(cfg, database, server.Handlers{
		User:         user.NewHandler(userService),
		Plan:         plan.NewHandler(planService),
		Subscription: subscription.NewHandler(subscriptionService),
		Class:        class.NewHandler(classService),
		Booking:      booking.NewHandler(bookingService),
		Attendance:   attendance.NewHandler(attendanceService),
		Achievement:  achievement.NewHandler(achievementService),
		Billing:      billing.NewHandler(billingService, cfg.StripeWebhookSecret),
		Report:       report.NewHandler(reportService),
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

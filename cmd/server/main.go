package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"room-booking-backend/internal/config"
	"room-booking-backend/internal/database"
	"room-booking-backend/internal/handler"
	"room-booking-backend/internal/logger"
	"room-booking-backend/internal/middleware"
	"room-booking-backend/internal/models"
	"room-booking-backend/internal/repository"
	"room-booking-backend/internal/schedule"
	"room-booking-backend/internal/service"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()

	log := logger.New(cfg.Server.Env)
	defer log.Sync()
	log.Info("configuration loaded")

	// 2. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// 3. Initialize database connection
	db := database.Connect(cfg)

	// 4. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 5. Initialize services
	clock := schedule.SystemClock{}
	authService := service.NewAuthService(userRepo, auditRepo)
	roomService := service.NewRoomService(roomRepo, bookingRepo, auditRepo, clock)
	bookingService := service.NewBookingService(bookingRepo, roomRepo, auditRepo, clock, log)
	sweeper := service.NewSweeper(bookingRepo, clock, log, cfg.Sweep.Interval)

	// 6. Start background sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	// 7. Setup Gin
	gin.SetMode(cfg.Server.GinMode)
	r := gin.Default()

	r.Use(middleware.CORS(cfg))

	// Serve uploaded room images
	r.Static(cfg.Uploads.PublicPath, cfg.Uploads.Dir)

	// 8. Register handlers
	authHandler := handler.NewAuthHandler(authService)
	roomHandler := handler.NewRoomHandler(roomService, cfg.Uploads.Dir, cfg.Uploads.PublicPath)
	bookingHandler := handler.NewBookingHandler(bookingService)

	// 9. Define routes
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "room-booking-backend",
		})
	})

	api := r.Group("/api")
	{
		// Public
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/logout", authHandler.Logout)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/user/:id", authHandler.GetUser)

		authed.GET("/rooms", roomHandler.List)
		authed.GET("/rooms/:id", roomHandler.Get)
		authed.GET("/rooms/:id/status", roomHandler.SlotBoard)

		authed.POST("/bookings", bookingHandler.Create)
		authed.GET("/me/bookings", bookingHandler.MyBookings)
		authed.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	}

	lecturer := authed.Group("/lecturer", middleware.RequireRole(models.RoleLecturer))
	{
		lecturer.GET("/requests", bookingHandler.PendingRequests)
		lecturer.POST("/approve", bookingHandler.Decide)
		lecturer.GET("/history", bookingHandler.DecidedHistory)
	}

	staff := authed.Group("", middleware.RequireRole(models.RoleStaff))
	{
		staff.POST("/rooms", roomHandler.Create)
		staff.PUT("/rooms/:id", roomHandler.Update)
		staff.PATCH("/rooms/:id/status", roomHandler.SetStatus)
		staff.GET("/staff/bookings/history", bookingHandler.StaffHistory)
	}

	// 10. Run with graceful shutdown
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Stop the background sweeper
	cancel()
	log.Info("server exited")
}

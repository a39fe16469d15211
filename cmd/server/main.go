package main

import (
	"context"
	"log"
	"time"

	"advocate_office_go/config"
	"advocate_office_go/db"
	"advocate_office_go/handlers"
	"advocate_office_go/middleware"
	"advocate_office_go/models"
	"advocate_office_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Employee{},
		&models.EmployeeAccount{},
		&models.LitigationAccount{},
		&models.LitigationCase{},
		&models.UploadedFile{},
		&models.Session{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// External services
	services.InitializeStorage(cfg)
	services.B2 = services.NewB2Client(cfg)
	services.Cloudinary = services.NewCloudinaryClient(cfg)
	if !services.B2.IsConfigured() {
		log.Println("[WARNING] Backblaze credentials not set; query file uploads are disabled")
	}
	if !services.Cloudinary.IsConfigured() {
		log.Println("[WARNING] Cloudinary credentials not set; image uploads are disabled")
	}

	// Keep a sequenced in-memory snapshot of the case list current
	caseWatcher := services.NewCaseWatcher(db.Notify, func(ctx context.Context) ([]models.LitigationCase, error) {
		var cases []models.LitigationCase
		err := db.DB.WithContext(ctx).Order("created_at DESC").Find(&cases).Error
		return cases, err
	})
	defer caseWatcher.Stop()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Local storage fallback serves uploads directly
	e.Static("/"+cfg.UploadDir, cfg.UploadDir)

	// Public routes (no authentication required)
	e.POST("/api/login", handlers.LoginHandler)

	// Protected routes
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/logout", handlers.LogoutHandler)
		protected.GET("/me", handlers.MeHandler)

		// Employee HR records (admin manages, employee role reads)
		protected.GET("/employees", handlers.ListEmployeesHandler, middleware.RequireRole(models.RoleAdmin, models.RoleEmployee))
		protected.GET("/employees/:id", handlers.GetEmployeeHandler, middleware.RequireRole(models.RoleAdmin, models.RoleEmployee))
		protected.POST("/employees", handlers.CreateEmployeeHandler, middleware.RequireRole(models.RoleAdmin))
		protected.PUT("/employees/:id", handlers.UpdateEmployeeHandler, middleware.RequireRole(models.RoleAdmin))
		protected.DELETE("/employees/:id", handlers.DeleteEmployeeHandler, middleware.RequireRole(models.RoleAdmin))

		// Litigation cases (admin and litigation staff)
		caseRoutes := protected.Group("/cases")
		caseRoutes.Use(middleware.RequireRole(models.RoleAdmin, models.RoleLitigation))
		{
			caseRoutes.GET("", handlers.ListCasesHandler)
			caseRoutes.GET("/snapshot", handlers.CaseSnapshotHandler(caseWatcher))
			caseRoutes.GET("/export", handlers.ExportCasesHandler)
			caseRoutes.GET("/loan-recovery", handlers.LoanRecoveryHandler)
			caseRoutes.GET("/:id", handlers.GetCaseHandler)
			caseRoutes.POST("", handlers.CreateCaseHandler)
			caseRoutes.PUT("/:id", handlers.UpdateCaseHandler)
			caseRoutes.DELETE("/:id", handlers.DeleteCaseHandler)
		}

		// File uploads
		protected.POST("/uploads/query", handlers.UploadQueryFileHandler)
		protected.POST("/uploads/image", handlers.UploadImageHandler)
		protected.GET("/files", handlers.ListUploadedFilesHandler)
		protected.GET("/files/:id/download", handlers.DownloadFileHandler)

		// Change notifications (list views re-fetch on these)
		protected.GET("/stream/:table", handlers.StreamChangesHandler)

		// Admin-only account management
		adminRoutes := protected.Group("/accounts")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.GET("/employee", handlers.ListEmployeeAccountsHandler)
			adminRoutes.POST("/employee", handlers.CreateEmployeeAccountHandler)
			adminRoutes.PUT("/employee/:id", handlers.UpdateEmployeeAccountHandler)
			adminRoutes.GET("/litigation", handlers.ListLitigationAccountsHandler)
			adminRoutes.POST("/litigation", handlers.CreateLitigationAccountHandler)
			adminRoutes.PUT("/litigation/:id", handlers.UpdateLitigationAccountHandler)
		}
	}

	// Periodic session cleanup
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("[WARNING] Session cleanup failed: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Starting server on port %s (environment: %s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
